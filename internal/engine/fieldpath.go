package engine

import (
	"fmt"
	"strings"

	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
)

// ResolveField resolves a dotted path like "source.data" or "data.value"
// within a record. The second return is false when the path does not
// lead to a scalar value; callers branch on presence instead of handling
// errors, so heterogeneous record shapes degrade gracefully.
func ResolveField(rec schema.ObservationRecord, path string) (string, bool) {
	head, rest, _ := strings.Cut(path, ".")

	switch head {
	case "id":
		if rest != "" {
			return "", false
		}
		return rec.ID, true
	case "type":
		if rest != "" {
			return "", false
		}
		return rec.Type, true
	case "source":
		switch rest {
		case "type":
			return rec.Source.Type, true
		case "data":
			return rec.Source.Data, true
		}
		return "", false
	case "data":
		if rest == "" {
			return "", false
		}
		return resolveNested(rec.Data, rest)
	}
	return "", false
}

func resolveNested(m map[string]interface{}, path string) (string, bool) {
	head, rest, _ := strings.Cut(path, ".")
	v, ok := m[head]
	if !ok {
		return "", false
	}
	if rest == "" {
		return stringify(v)
	}
	child, ok := v.(map[string]interface{})
	if !ok {
		return "", false
	}
	return resolveNested(child, rest)
}

// stringify renders a scalar value for matching and grouping. Maps and
// slices are not grouping keys, so they count as absent.
func stringify(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool, int, int64, float64:
		return fmt.Sprintf("%v", t), true
	default:
		return "", false
	}
}

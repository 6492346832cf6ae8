package engine

import (
	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/store"
)

// Collect evaluates a rule's collection specs against the store and
// returns the candidate records in store insertion order. Each spec is
// an AND-group of predicates; the specs themselves are OR'd, so a rule
// can match records of several shapes.
func Collect(st *store.RecordStore, specs []schema.CollectionSpec) []schema.ObservationRecord {
	var out []schema.ObservationRecord
	for _, rec := range st.All() {
		for _, spec := range specs {
			if matchSpec(rec, spec) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

func matchSpec(rec schema.ObservationRecord, spec schema.CollectionSpec) bool {
	for _, p := range spec.Collect {
		if !matchPredicate(rec, p) {
			return false
		}
	}
	return len(spec.Collect) > 0
}

// matchPredicate applies one predicate. A missing field fails the
// predicate rather than erroring. Regex predicates are partial matches
// against the field's string form; authors anchor explicitly when they
// want whole-value matching.
func matchPredicate(rec schema.ObservationRecord, p schema.Predicate) bool {
	v, ok := ResolveField(rec, p.Field)
	if !ok {
		return false
	}
	switch p.Method {
	case schema.MethodExact:
		return v == p.Value
	case schema.MethodRegex:
		return p.Pattern != nil && p.Pattern.MatchString(v)
	}
	return false
}

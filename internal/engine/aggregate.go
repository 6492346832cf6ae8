package engine

import (
	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
)

// Group is one aggregation bucket: all candidate records that resolved
// the aggregation field to the same key. Members keep first-seen order
// so headline rendering is deterministic.
type Group struct {
	Key     string
	Members []schema.ObservationRecord
}

// Aggregate buckets candidate records by the value at the dotted field
// path. Records where the path is absent are excluded. Groups come back
// in first-seen key order.
func Aggregate(records []schema.ObservationRecord, field string) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, rec := range records {
		key, ok := ResolveField(rec, field)
		if !ok {
			continue
		}
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Members = append(groups[i].Members, rec)
	}
	return groups
}

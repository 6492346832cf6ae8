package store

import (
	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
)

// Populate puts recs into a fresh store and freezes it for evaluation.
func Populate(recs []schema.ObservationRecord) (*RecordStore, error) {
	s := NewRecordStore()
	for _, rec := range recs {
		if err := s.Put(rec); err != nil {
			return nil, err
		}
	}
	s.Freeze()
	return s, nil
}

package store

import (
	"fmt"
	"sync"

	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
)

// DuplicateIDError is returned by Put when a record id collides with one
// already stored. Collection modules assign unique ids, so hitting this
// indicates an ingestion bug.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("record id %q already stored", e.ID)
}

// ErrFrozen is returned by Put once the store has been frozen for rule
// evaluation.
var ErrFrozen = fmt.Errorf("record store is frozen")

// RecordStore holds all observation records for a single scan, indexed
// by type. It is populated once, frozen, and then read concurrently by
// rule evaluations; the whole store is discarded at scan end (no
// deletion API).
type RecordStore struct {
	mu     sync.RWMutex
	frozen bool
	byID   map[string]schema.ObservationRecord
	order  []string
	byType map[string][]string
}

// NewRecordStore returns an empty store ready for ingestion.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		byID:   make(map[string]schema.ObservationRecord),
		byType: make(map[string][]string),
	}
}

// Put adds a record. Fails with DuplicateIDError on id collision and
// ErrFrozen after Freeze.
func (s *RecordStore) Put(rec schema.ObservationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return ErrFrozen
	}
	if _, ok := s.byID[rec.ID]; ok {
		return &DuplicateIDError{ID: rec.ID}
	}
	s.byID[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	s.byType[rec.Type] = append(s.byType[rec.Type], rec.ID)
	return nil
}

// Freeze ends the ingestion phase. After Freeze the store is read-only
// and safe for lock-free concurrent readers.
func (s *RecordStore) Freeze() {
	s.mu.Lock()
	s.frozen = true
	s.mu.Unlock()
}

// All returns every record in insertion order.
func (s *RecordStore) All() []schema.ObservationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]schema.ObservationRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// QueryByType returns records of one type in insertion order.
func (s *RecordStore) QueryByType(recordType string) []schema.ObservationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byType[recordType]
	out := make([]schema.ObservationRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	return out
}

// Len returns the number of stored records.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

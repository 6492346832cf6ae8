package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
)

// ReadFile loads an observation export (a JSON array) produced by a
// collection module and normalizes it into records.
func ReadFile(path string) ([]schema.ObservationRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}
	return Parse(data)
}

// Parse normalizes a module export into observation records. Collection
// modules are written in different ecosystems and their exports vary:
// some emit the canonical record shape, others (e.g. SpiderFoot-style
// event dumps) carry data as a bare string. Both normalize losslessly.
func Parse(data []byte) ([]schema.ObservationRecord, error) {
	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse records JSON: %w", err)
	}

	recs := make([]schema.ObservationRecord, 0, len(raw))
	for i, r := range raw {
		rec := schema.ObservationRecord{
			ID: fmt.Sprintf("rec-%06d", i+1),
		}
		if id, ok := r["id"].(string); ok && id != "" {
			rec.ID = id
		}
		if t, ok := r["type"].(string); ok {
			rec.Type = t
		}
		if src, ok := r["source"].(map[string]interface{}); ok {
			if t, ok := src["type"].(string); ok {
				rec.Source.Type = t
			}
			if d, ok := src["data"].(string); ok {
				rec.Source.Data = d
			}
		}
		switch d := r["data"].(type) {
		case map[string]interface{}:
			rec.Data = d
		case string:
			// Event-style exports carry the observed value as a bare
			// string; expose it under the conventional value key.
			rec.Data = map[string]interface{}{"value": d}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

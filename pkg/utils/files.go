package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
)

// SaveResult writes findings into a JSON file inside <outputDir>/<scan_timestamp>/
func SaveResult(res schema.ScanResult, outputDir string) (string, error) {
	name := res.ScanID
	if res.Target != "" {
		name = safeName(res.Target)
	}
	dir := filepath.Join(outputDir, name+"_"+res.Timestamp.Format("20060102_150405"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	file := filepath.Join(dir, "findings.json")
	fh, err := os.Create(file)
	if err != nil {
		return "", fmt.Errorf("failed to create findings.json: %w", err)
	}
	defer fh.Close()

	enc := json.NewEncoder(fh)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return "", fmt.Errorf("failed to encode findings: %w", err)
	}

	return file, nil
}

// safeName replaces characters not safe for file paths
func safeName(s string) string {
	invalid := []rune{'/', '\\', ':', '*', '?', '"', '<', '>', '|'}
	rs := []rune(s)
	for i, r := range rs {
		for _, bad := range invalid {
			if r == bad {
				rs[i] = '_'
			}
		}
	}
	return string(rs)
}

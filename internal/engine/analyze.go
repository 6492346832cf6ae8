package engine

import (
	"fmt"

	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
)

// Analyze decides whether a group constitutes a finding. All analysis
// specs must trigger. Unknown methods were rejected at load time, so an
// error here means a rule bypassed the loader.
func Analyze(g Group, specs []schema.AnalysisSpec) (bool, error) {
	for _, spec := range specs {
		if spec.Method != schema.AnalysisThreshold {
			return false, fmt.Errorf("unknown analysis method %q", spec.Method)
		}
		if !analyzeThreshold(g, spec) {
			return false, nil
		}
	}
	return true, nil
}

// analyzeThreshold counts members whose analysis field resolves, or the
// distinct resolved values when count_unique_only is set, and triggers
// when that count reaches the minimum.
func analyzeThreshold(g Group, spec schema.AnalysisSpec) bool {
	if spec.CountUniqueOnly {
		unique := make(map[string]struct{})
		for _, rec := range g.Members {
			if v, ok := ResolveField(rec, spec.Field); ok {
				unique[v] = struct{}{}
			}
		}
		return len(unique) >= spec.Minimum
	}

	count := 0
	for _, rec := range g.Members {
		if _, ok := ResolveField(rec, spec.Field); ok {
			count++
		}
	}
	return count >= spec.Minimum
}

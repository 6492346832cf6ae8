package schema

import "time"

// Risk levels a rule may carry. Copied verbatim onto the findings it emits.
const (
	RiskInfo     = "INFO"
	RiskLow      = "LOW"
	RiskMedium   = "MEDIUM"
	RiskHigh     = "HIGH"
	RiskCritical = "CRITICAL"
)

// ValidRisk reports whether s is one of the known risk levels.
func ValidRisk(s string) bool {
	switch s {
	case RiskInfo, RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// RecordSource identifies where an observation came from: the type and
// data of the parent event that triggered the collection module.
type RecordSource struct {
	Type string `json:"type" yaml:"type"`
	Data string `json:"data" yaml:"data"`
}

// ObservationRecord is one typed observation produced by a collection
// module during a scan, e.g. an AFFILIATE_DOMAIN_NAME returned by a
// passive-DNS ns2domains lookup. Immutable once stored.
type ObservationRecord struct {
	ID     string                 `json:"id"`
	Type   string                 `json:"type"`
	Source RecordSource           `json:"source"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// Finding is a derived result emitted when a correlation rule triggers.
// One finding per triggering group, not one per matching record.
type Finding struct {
	ID        string   `json:"id"`
	RuleID    string   `json:"rule_id"`
	RuleName  string   `json:"rule_name,omitempty"`
	Risk      string   `json:"risk"`
	Headline  string   `json:"headline"`
	GroupKey  string   `json:"group_key"`
	MemberIDs []string `json:"member_ids"`
}

// RuleError reports a rule that failed to evaluate; other rules in the
// same scan are unaffected.
type RuleError struct {
	RuleID string `json:"rule_id"`
	Error  string `json:"error"`
}

// ScanResult groups all findings for one correlation run
type ScanResult struct {
	ScanID     string      `json:"scan_id"`
	Target     string      `json:"target,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Records    int         `json:"records"`
	Findings   []Finding   `json:"findings"`
	RuleErrors []RuleError `json:"rule_errors,omitempty"`
}

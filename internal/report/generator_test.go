package report

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
)

func sampleResult() schema.ScanResult {
	return schema.ScanResult{
		ScanID:    "scan-1",
		Target:    "example.com",
		Timestamp: time.Date(2025, 9, 11, 13, 17, 22, 0, time.UTC),
		Records:   3,
		Findings: []schema.Finding{
			{
				ID:        "affiliate_shared_nameserver-0000abcd",
				RuleID:    "affiliate_shared_nameserver",
				RuleName:  "Affiliate domains sharing a nameserver",
				Risk:      schema.RiskInfo,
				Headline:  "Domains sharing nameserver with evil.com",
				GroupKey:  "ns1.host.com",
				MemberIDs: []string{"a", "b"},
			},
			{
				ID:       "exposed_admin-00001234",
				RuleID:   "exposed_admin",
				Risk:     schema.RiskHigh,
				Headline: "Admin panel reachable",
				GroupKey: "admin.example.com",
			},
		},
	}
}

func TestGenerateHTML(t *testing.T) {
	dir := t.TempDir()
	path, err := GenerateHTML(sampleResult(), dir)
	require.NoError(t, err)

	html, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(html), "Domains sharing nameserver with evil.com")
	assert.Contains(t, string(html), "ns1.host.com")
	assert.Contains(t, string(html), "scan-1")
}

func TestViewModelOrdersByRisk(t *testing.T) {
	vm := buildViewModel(sampleResult())

	require.Len(t, vm.Findings, 2)
	assert.Equal(t, schema.RiskHigh, vm.Findings[0].Risk, "higher risk sorts first")
	assert.Equal(t, schema.RiskInfo, vm.Findings[1].Risk)
	assert.Equal(t, 2, vm.Total)
	assert.Equal(t, 1, vm.Counts[schema.RiskHigh])
	assert.Equal(t, 1, vm.Counts[schema.RiskInfo])
	assert.Equal(t, 0, vm.Counts[schema.RiskCritical])
	assert.Equal(t, "exposed_admin", vm.Findings[0].Rule, "rule id fallback when name missing")
}

func TestLoadScanResultRoundTrip(t *testing.T) {
	dir := t.TempDir()
	res := sampleResult()

	data, err := os.ReadFile("report.tmpl")
	require.NoError(t, err)
	require.NotEmpty(t, data, "template ships with the binary")

	// Write findings.json the way the run command does.
	require.NoError(t, os.WriteFile(dir+"/findings.json", mustJSON(t, res), 0644))

	got, err := LoadScanResult(dir)
	require.NoError(t, err)
	assert.Equal(t, res.ScanID, got.ScanID)
	assert.Len(t, got.Findings, 2)
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

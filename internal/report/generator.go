package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
)

//go:embed report.tmpl
var reportHTMLTemplate string

// ---------- Public API ----------

func LoadScanResult(fromDir string) (schema.ScanResult, error) {
	var res schema.ScanResult
	data, err := os.ReadFile(filepath.Join(fromDir, "findings.json"))
	if err != nil {
		return res, fmt.Errorf("read findings.json: %w", err)
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return res, fmt.Errorf("parse findings.json: %w", err)
	}
	return res, nil
}

func GenerateHTML(res schema.ScanResult, outDir string) (string, error) {
	vm := buildViewModel(res)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create out dir: %w", err)
	}

	tmpl, err := template.New("report").Parse(reportHTMLTemplate)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vm); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	htmlPath := filepath.Join(outDir, "report.html")
	if err := os.WriteFile(htmlPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write report.html: %w", err)
	}

	return htmlPath, nil
}

// ---------- View Model & helpers ----------

type viewModel struct {
	ScanID      string
	Target      string
	ScanTime    string
	Total       int
	Counts      map[string]int
	Findings    []findingRow
	RuleErrors  []schema.RuleError
	Generator   string
	GeneratedAt string
	LegendRisk  []string
	Year        int
}

type findingRow struct {
	Risk     string
	ID       string
	Rule     string
	Headline string
	GroupKey string
	Members  int
}

func buildViewModel(res schema.ScanResult) viewModel {
	now := time.Now().UTC()
	riskOrder := []string{
		schema.RiskCritical, schema.RiskHigh, schema.RiskMedium,
		schema.RiskLow, schema.RiskInfo,
	}

	counts := map[string]int{}
	var rows []findingRow

	for _, f := range res.Findings {
		risk := strings.ToUpper(f.Risk)
		if !schema.ValidRisk(risk) {
			risk = schema.RiskInfo
		}
		counts[risk]++
		rule := f.RuleName
		if rule == "" {
			rule = f.RuleID
		}
		rows = append(rows, findingRow{
			Risk:     risk,
			ID:       f.ID,
			Rule:     rule,
			Headline: f.Headline,
			GroupKey: f.GroupKey,
			Members:  len(f.MemberIDs),
		})
	}

	// Sort findings: risk -> ID
	sort.SliceStable(rows, func(i, j int) bool {
		ai := indexOf(riskOrder, rows[i].Risk)
		bi := indexOf(riskOrder, rows[j].Risk)
		if ai != bi {
			return ai < bi
		}
		return rows[i].ID < rows[j].ID
	})

	return viewModel{
		ScanID:      res.ScanID,
		Target:      res.Target,
		ScanTime:    res.Timestamp.UTC().Format(time.RFC3339),
		Total:       len(rows),
		Counts:      normalizeCounts(counts, riskOrder),
		Findings:    rows,
		RuleErrors:  res.RuleErrors,
		Generator:   "yorosec-correlator",
		GeneratedAt: now.Format(time.RFC3339),
		LegendRisk:  riskOrder,
		Year:        now.Year(),
	}
}

func indexOf(arr []string, s string) int {
	for i, v := range arr {
		if v == s {
			return i
		}
	}
	return len(arr)
}

func normalizeCounts(in map[string]int, order []string) map[string]int {
	out := make(map[string]int)
	for _, k := range order {
		out[k] = in[k]
	}
	return out
}

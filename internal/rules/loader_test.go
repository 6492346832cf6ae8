package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
)

const validRule = `
id: affiliate_shared_nameserver
version: 1
meta:
  name: Affiliate domains sharing a nameserver
  description: Flags domains sharing a nameserver with another domain in this scan.
  risk: INFO
collections:
  - collect:
      - method: exact
        field: type
        value: AFFILIATE_DOMAIN_NAME
      - method: regex
        field: source.type
        value: "(DOMAIN_NAME|INTERNET_NAME)"
aggregation:
  field: data.value
analysis:
  - method: threshold
    field: source.data
    minimum: 2
    count_unique_only: true
headline:
  text: "Domains sharing nameserver with {source.data}"
`

func TestLoadValidRule(t *testing.T) {
	r, err := Load([]byte(validRule))
	require.NoError(t, err)

	assert.Equal(t, "affiliate_shared_nameserver", r.ID)
	assert.Equal(t, 1, r.Version)
	assert.Equal(t, schema.RiskInfo, r.Meta.Risk)
	assert.Equal(t, "data.value", r.Aggregation.Field)
	assert.Equal(t, "Domains sharing nameserver with {source.data}", r.Headline.Text)

	require.Len(t, r.Collections, 1)
	require.Len(t, r.Collections[0].Collect, 2)
	assert.Nil(t, r.Collections[0].Collect[0].Pattern, "exact predicates have no pattern")
	require.NotNil(t, r.Collections[0].Collect[1].Pattern, "regex compiled at load time")
	assert.True(t, r.Collections[0].Collect[1].Pattern.MatchString("DOMAIN_NAME"))

	require.Len(t, r.Analysis, 1)
	assert.True(t, r.Analysis[0].CountUniqueOnly)
	assert.Equal(t, 2, r.Analysis[0].Minimum)
}

func TestLoadScalarHeadline(t *testing.T) {
	def := `
id: r1
meta: {risk: LOW}
collections:
  - collect:
      - {method: exact, field: type, value: DOMAIN_NAME}
aggregation: {field: data.value}
analysis:
  - {method: threshold, field: id, minimum: 1}
headline: "Plain string headline for {type}"
`
	r, err := Load([]byte(def))
	require.NoError(t, err)
	assert.Equal(t, "Plain string headline for {type}", r.Headline.Text)
}

func TestLoadRejectsMalformedRules(t *testing.T) {
	base := func(mutate map[string]string) string {
		def := map[string]string{
			"id":          `id: r1`,
			"meta":        `meta: {risk: INFO}`,
			"collections": "collections:\n  - collect:\n      - {method: exact, field: type, value: X}",
			"aggregation": `aggregation: {field: data.value}`,
			"analysis":    "analysis:\n  - {method: threshold, field: id, minimum: 1}",
			"headline":    `headline: {text: "h"}`,
		}
		for k, v := range mutate {
			def[k] = v
		}
		out := ""
		for _, k := range []string{"id", "meta", "collections", "aggregation", "analysis", "headline"} {
			if def[k] != "" {
				out += def[k] + "\n"
			}
		}
		return out
	}

	cases := map[string]map[string]string{
		"missing id":              {"id": ""},
		"missing collections":     {"collections": ""},
		"empty collections":       {"collections": "collections: []"},
		"empty collect":           {"collections": "collections:\n  - collect: []"},
		"missing aggregation":     {"aggregation": ""},
		"missing analysis":        {"analysis": ""},
		"missing headline":        {"headline": ""},
		"unknown predicate method": {"collections": "collections:\n  - collect:\n      - {method: fuzzy, field: type, value: X}"},
		"unknown analysis method": {"analysis": "analysis:\n  - {method: median, field: id, minimum: 1}"},
		"zero minimum":            {"analysis": "analysis:\n  - {method: threshold, field: id, minimum: 0}"},
		"bad risk":                {"meta": "meta: {risk: SEVERE}"},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load([]byte(base(mutate)))
			require.Error(t, err)
			var ire *InvalidRuleError
			assert.ErrorAs(t, err, &ire)
		})
	}
}

func TestLoadRejectsInvalidPatternAtLoadTime(t *testing.T) {
	def := `
id: r1
meta: {risk: INFO}
collections:
  - collect:
      - {method: regex, field: type, value: "[unclosed"}
aggregation: {field: data.value}
analysis:
  - {method: threshold, field: id, minimum: 1}
headline: {text: "h"}
`
	_, err := Load([]byte(def))
	require.Error(t, err)

	var ipe *InvalidPatternError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, "r1", ipe.RuleID)
	assert.Equal(t, "[unclosed", ipe.Pattern)
}

func TestLoadDirIsolatesBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_good.yaml"), []byte(validRule), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_bad.yaml"), []byte("id: broken\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	loaded, errs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "affiliate_shared_nameserver", loaded[0].ID)
	require.Len(t, errs, 1)
	assert.Equal(t, "b_bad.yaml", errs[0].File)
}

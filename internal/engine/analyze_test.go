package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
)

func threshold(field string, minimum int, unique bool) schema.AnalysisSpec {
	return schema.AnalysisSpec{
		Method:          schema.AnalysisThreshold,
		Field:           field,
		Minimum:         minimum,
		CountUniqueOnly: unique,
	}
}

func TestThresholdBoundary(t *testing.T) {
	g := Group{Key: "ns1.host.com", Members: []schema.ObservationRecord{
		affiliate("a", "evil.com", "ns1.host.com"),
		affiliate("b", "partner.com", "ns1.host.com"),
	}}

	ok, err := Analyze(g, []schema.AnalysisSpec{threshold("source.data", 2, false)})
	require.NoError(t, err)
	assert.True(t, ok, "group size == minimum triggers")

	ok, err = Analyze(g, []schema.AnalysisSpec{threshold("source.data", 3, false)})
	require.NoError(t, err)
	assert.False(t, ok, "minimum-1 members does not trigger")
}

func TestThresholdCountUniqueOnly(t *testing.T) {
	// Three members, all resolving to the same nameserver value.
	g := Group{Key: "k", Members: []schema.ObservationRecord{
		affiliate("a", "evil.com", "ns1.example.com"),
		affiliate("b", "evil.com", "ns1.example.com"),
		affiliate("c", "evil.com", "ns1.example.com"),
	}}

	ok, err := Analyze(g, []schema.AnalysisSpec{threshold("data.value", 2, true)})
	require.NoError(t, err)
	assert.False(t, ok, "unique count is 1 even though member count is 3")

	ok, err = Analyze(g, []schema.AnalysisSpec{threshold("data.value", 2, false)})
	require.NoError(t, err)
	assert.True(t, ok, "member count applies when unique counting is off")
}

func TestThresholdSkipsAbsentFields(t *testing.T) {
	g := Group{Key: "k", Members: []schema.ObservationRecord{
		affiliate("a", "evil.com", "ns1.host.com"),
		{ID: "b", Type: "AFFILIATE_DOMAIN_NAME"},
	}}

	ok, err := Analyze(g, []schema.AnalysisSpec{threshold("source.data", 2, false)})
	require.NoError(t, err)
	assert.False(t, ok, "member without the field does not count")
}

func TestAnalysisSpecsAreANDed(t *testing.T) {
	g := Group{Key: "k", Members: []schema.ObservationRecord{
		affiliate("a", "evil.com", "ns1.host.com"),
		affiliate("b", "partner.com", "ns1.host.com"),
	}}

	specs := []schema.AnalysisSpec{
		threshold("source.data", 2, true),
		threshold("data.value", 2, true), // only one distinct nameserver
	}
	ok, err := Analyze(g, specs)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAnalyzeUnknownMethod(t *testing.T) {
	g := Group{Key: "k"}
	_, err := Analyze(g, []schema.AnalysisSpec{{Method: "median", Field: "id", Minimum: 1}})
	assert.Error(t, err)
}

package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCanonicalRecords(t *testing.T) {
	data := []byte(`[
		{
			"id": "rec-a",
			"type": "AFFILIATE_DOMAIN_NAME",
			"source": {"type": "DOMAIN_NAME", "data": "evil.com"},
			"data": {"value": "ns1.host.com"}
		}
	]`)

	recs, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, "rec-a", recs[0].ID)
	assert.Equal(t, "AFFILIATE_DOMAIN_NAME", recs[0].Type)
	assert.Equal(t, "DOMAIN_NAME", recs[0].Source.Type)
	assert.Equal(t, "evil.com", recs[0].Source.Data)
	assert.Equal(t, "ns1.host.com", recs[0].Data["value"])
}

func TestParseEventStyleExport(t *testing.T) {
	// SpiderFoot-style dumps carry data as a bare string and no id.
	data := []byte(`[
		{
			"type": "AFFILIATE_DOMAIN_NAME",
			"source": {"type": "DOMAIN_NAME", "data": "evil.com"},
			"data": "partner-domain.com"
		},
		{
			"type": "INTERNET_NAME",
			"data": "www.evil.com"
		}
	]`)

	recs, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "rec-000001", recs[0].ID, "missing ids assigned sequentially")
	assert.Equal(t, "partner-domain.com", recs[0].Data["value"])
	assert.Equal(t, "rec-000002", recs[1].ID)
	assert.Equal(t, "www.evil.com", recs[1].Data["value"])
	assert.Empty(t, recs[1].Source.Type)
}

func TestParseRejectsNonArray(t *testing.T) {
	_, err := Parse([]byte(`{"not": "an array"}`))
	assert.Error(t, err)
}

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshEvent_Succeeded(t *testing.T) {
	assert.True(t, (&RefreshEvent{Status: RefreshStatusSuccess}).Succeeded())
	assert.False(t, (&RefreshEvent{Status: RefreshStatusFailed, Error: "notion: 502"}).Succeeded())
	assert.False(t, (&RefreshEvent{}).Succeeded())
}

func TestRefreshEvent_JSONOmitsEmptyOptionalFields(t *testing.T) {
	data, err := json.Marshal(RefreshEvent{Status: RefreshStatusSuccess, Pages: 3})
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, "duration_ms")
	for _, omitted := range []string{"request_id", "generation", "error"} {
		assert.NotContains(t, fields, omitted)
	}
}

package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/guttosm/nav-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	before := time.Now()
	resp := NewError(ErrCodeUpstreamUnavailable, "Failed to get database content").WithRequestID("req-1")

	assert.Equal(t, ErrCodeUpstreamUnavailable, resp.Error)
	assert.Equal(t, "Failed to get database content", resp.Message)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, time.UTC, resp.Timestamp.Location())
	assert.False(t, resp.Timestamp.Before(before.UTC().Truncate(time.Second)))
}

func TestErrorResponse_WithRequestIDCopies(t *testing.T) {
	base := NewError(ErrCodeInternal, "boom")
	tagged := base.WithRequestID("req-2")

	assert.Empty(t, base.RequestID)
	assert.Equal(t, "req-2", tagged.RequestID)
}

func TestErrorResponse_JSON(t *testing.T) {
	data, err := json.Marshal(NewError(ErrCodeInvalidRequest, ""))
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, "error")
	assert.Contains(t, fields, "timestamp")
	for _, omitted := range []string{"message", "details", "request_id"} {
		assert.NotContains(t, fields, omitted)
	}
}

func TestErrCodeFromStatus(t *testing.T) {
	tests := map[int]string{
		http.StatusBadRequest:          ErrCodeInvalidRequest,
		http.StatusUnauthorized:        ErrCodeUnauthorized,
		http.StatusNotFound:            ErrCodeNotFound,
		http.StatusMethodNotAllowed:    ErrCodeMethodNotAllowed,
		http.StatusTooManyRequests:     ErrCodeRateLimit,
		http.StatusGatewayTimeout:      ErrCodeTimeout,
		http.StatusServiceUnavailable:  ErrCodeUpstreamUnavailable,
		http.StatusInternalServerError: ErrCodeInternal,
		http.StatusForbidden:           ErrCodeInternal,
		http.StatusTeapot:              ErrCodeInternal,
	}

	for status, want := range tests {
		t.Run(http.StatusText(status), func(t *testing.T) {
			assert.Equal(t, want, ErrCodeFromStatus(status))
		})
	}
}

func TestNewContentResponse(t *testing.T) {
	col := &model.PageCollection{
		Object:     "list",
		Results:    []model.Page{model.NewPage("1", "A")},
		HasMore:    true,
		NextCursor: "cursor-2",
	}

	resp := NewContentResponse(col, []string{"A"})
	assert.Equal(t, "list", resp.Object)
	assert.Len(t, resp.Results, 1)
	assert.True(t, resp.HasMore)
	assert.Equal(t, "cursor-2", resp.NextCursor)
	assert.Equal(t, []string{"A"}, resp.UniqueTags)

	empty := NewContentResponse(nil, nil)
	assert.NotNil(t, empty.Results)

	data, err := json.Marshal(NewContentResponse(col, nil))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "unique_tags")
}

func TestNewLegacyContentResponse(t *testing.T) {
	col := &model.PageCollection{
		Object:  "list",
		Results: []model.Page{model.NewPage("1", "A")},
	}

	withTags := NewLegacyContentResponse(col, nil, true)
	assert.Equal(t, []string{}, withTags["uniqueTags"])
	assert.Nil(t, withTags["next_cursor"])

	withoutTags := NewLegacyContentResponse(col, []string{"A"}, false)
	_, ok := withoutTags["uniqueTags"]
	assert.False(t, ok)

	data, err := json.Marshal(withTags)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"next_cursor":null`)
}

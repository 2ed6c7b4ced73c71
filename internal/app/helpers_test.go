package app

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/guttosm/nav-service/config"
)

const notionListBody = `{"object":"list","results":[
	{"object":"page","id":"p1","properties":{"Category":{"type":"multi_select","multi_select":[{"name":"Tools"}]}}},
	{"object":"page","id":"p2","properties":{"Category":{"type":"multi_select","multi_select":[{"name":"Docs"}]}}}
],"has_more":false,"next_cursor":null}`

// newNotionServer serves a fixed database query result and counts requests.
func newNotionServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(notionListBody))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func notionConfig(baseURL string) config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port:       "8080",
			RateLimit:  100,
			RateWindow: time.Minute,
		},
		Content: config.ContentConfig{
			Source:          config.SourceNotion,
			UpstreamTimeout: 5 * time.Second,
			LocalTagFilter:  true,
		},
		Notion: config.NotionConfig{
			APIKey:     "secret",
			DatabaseID: "db-1",
			BaseURL:    baseURL,
			PageSize:   100,
			MaxPages:   1,
		},
		Database: config.DatabaseConfig{
			CircuitBreakerFailureThreshold: 5,
			CircuitBreakerSuccessThreshold: 2,
			CircuitBreakerTimeout:          30 * time.Second,
		},
	}
}

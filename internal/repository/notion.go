package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/guttosm/nav-service/internal/domain/model"
)

const (
	// DefaultNotionBaseURL is the public Notion API endpoint.
	DefaultNotionBaseURL = "https://api.notion.com/v1"
	// DefaultNotionVersion is the API version sent in the Notion-Version header.
	DefaultNotionVersion = "2022-06-28"

	maxNotionPageSize = 100
	maxErrorBodyBytes = 4 << 10
)

// NotionConfig holds the settings of the Notion database source.
type NotionConfig struct {
	BaseURL    string
	APIKey     string
	DatabaseID string
	Version    string
	// PageSize is the number of results requested per call (max 100).
	PageSize int
	// MaxPages bounds how many cursor pages are merged into one collection.
	MaxPages int
	// HTTPClient is used for requests; a client with a 30s timeout is used when nil.
	HTTPClient *http.Client
}

// NotionRepository queries a Notion database through its REST API.
type NotionRepository struct {
	cfg    NotionConfig
	client *http.Client
}

// NewNotionRepository creates a Notion content source, applying defaults.
func NewNotionRepository(cfg NotionConfig) *NotionRepository {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNotionBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Version == "" {
		cfg.Version = DefaultNotionVersion
	}
	if cfg.PageSize <= 0 || cfg.PageSize > maxNotionPageSize {
		cfg.PageSize = maxNotionPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &NotionRepository{cfg: cfg, client: client}
}

// Name returns the source name.
func (r *NotionRepository) Name() string {
	return "notion"
}

// notionQueryRequest is the body of POST /databases/{id}/query.
type notionQueryRequest struct {
	Filter      *notionFilter `json:"filter,omitempty"`
	StartCursor string        `json:"start_cursor,omitempty"`
	PageSize    int           `json:"page_size,omitempty"`
}

type notionFilter struct {
	Property    string             `json:"property"`
	MultiSelect notionContainsCond `json:"multi_select"`
}

type notionContainsCond struct {
	Contains string `json:"contains"`
}

// notionError is the error body returned by the Notion API.
type notionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Query fetches the database contents, following next_cursor up to
// MaxPages requests and merging the results into one collection.
func (r *NotionRepository) Query(ctx context.Context, filter *ContentFilter) (*model.PageCollection, error) {
	req := notionQueryRequest{PageSize: r.cfg.PageSize}
	if filter != nil {
		req.Filter = &notionFilter{
			Property:    filter.Property,
			MultiSelect: notionContainsCond{Contains: filter.Contains},
		}
	}

	var merged *model.PageCollection
	for page := 0; page < r.cfg.MaxPages; page++ {
		col, err := r.queryOnce(ctx, req)
		if err != nil {
			return nil, err
		}

		if merged == nil {
			merged = col
		} else {
			merged.Results = append(merged.Results, col.Results...)
			merged.HasMore = col.HasMore
			merged.NextCursor = col.NextCursor
		}

		if !col.HasMore || col.NextCursor == "" {
			break
		}
		req.StartCursor = col.NextCursor
	}

	if merged.Results == nil {
		merged.Results = []model.Page{}
	}
	return merged, nil
}

func (r *NotionRepository) queryOnce(ctx context.Context, body notionQueryRequest) (*model.PageCollection, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/databases/%s/query", r.cfg.BaseURL, r.cfg.DatabaseID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	httpReq.Header.Set("Notion-Version", r.cfg.Version)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeNotionError(resp)
	}

	var col model.PageCollection
	if err := json.NewDecoder(resp.Body).Decode(&col); err != nil {
		return nil, fmt.Errorf("decode notion response: %w", err)
	}
	return &col, nil
}

func decodeNotionError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	var apiErr notionError
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("%w: %d %s: %s", ErrUpstreamStatus, resp.StatusCode, apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
}

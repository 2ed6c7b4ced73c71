package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/nav-service/internal/domain/model"
)

// Error codes carried in ErrorResponse.Error.
const (
	ErrCodeInvalidRequest      = "invalid_request"
	ErrCodeInternal            = "internal_error"
	ErrCodeUnauthorized        = "unauthorized"
	ErrCodeNotFound            = "not_found"
	ErrCodeMethodNotAllowed    = "method_not_allowed"
	ErrCodeRateLimit           = "rate_limit_exceeded"
	ErrCodeTimeout             = "timeout"
	ErrCodeUpstreamUnavailable = "upstream_unavailable"
)

var statusCodes = map[int]string{
	http.StatusBadRequest:         ErrCodeInvalidRequest,
	http.StatusUnauthorized:       ErrCodeUnauthorized,
	http.StatusNotFound:           ErrCodeNotFound,
	http.StatusMethodNotAllowed:   ErrCodeMethodNotAllowed,
	http.StatusTooManyRequests:    ErrCodeRateLimit,
	http.StatusRequestTimeout:     ErrCodeTimeout,
	http.StatusGatewayTimeout:     ErrCodeTimeout,
	http.StatusBadGateway:         ErrCodeUpstreamUnavailable,
	http.StatusServiceUnavailable: ErrCodeUpstreamUnavailable,
}

// SuccessResponse is the envelope of every successful JSON response.
// @Description Successful API response wrapper
type SuccessResponse struct {
	Data      interface{} `json:"data" swaggertype:"object"`
	RequestID string      `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time   `json:"timestamp" example:"2025-01-28T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse is the envelope of every JSON error except the legacy
// endpoint's. Details carries per-field validation messages.
// @Description Standardized error response
type ErrorResponse struct {
	Error     string            `json:"error" example:"upstream_unavailable"`
	Message   string            `json:"message,omitempty" example:"Failed to get database content"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2025-01-28T10:00:00Z"`
} // @name ErrorResponse

// NewError returns an ErrorResponse stamped with the current UTC time.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: code, Message: message, Timestamp: time.Now().UTC()}
}

// WithRequestID returns a copy of e carrying requestID.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// ErrCodeFromStatus maps an HTTP status to its error code. Statuses without
// a dedicated code map to ErrCodeInternal.
func ErrCodeFromStatus(status int) string {
	if code, ok := statusCodes[status]; ok {
		return code
	}
	return ErrCodeInternal
}

// ContentResponse is the payload of the content endpoints.
//
// @Description Cached page collection, with the tag index for unfiltered reads
type ContentResponse struct {
	Object     string       `json:"object" example:"list"`
	Results    []model.Page `json:"results" swaggertype:"array,object"`
	HasMore    bool         `json:"has_more" example:"false"`
	NextCursor string       `json:"next_cursor,omitempty"`
	// UniqueTags is the tag index; present only when no tag was selected.
	UniqueTags []string `json:"unique_tags,omitempty" example:"Tools,Docs"`
} // @name ContentResponse

// NewContentResponse builds the payload for a collection and optional tag index.
func NewContentResponse(c *model.PageCollection, tags []string) ContentResponse {
	resp := ContentResponse{Results: []model.Page{}, UniqueTags: tags}
	if c != nil {
		resp.Object = c.Object
		resp.HasMore = c.HasMore
		resp.NextCursor = c.NextCursor
		if c.Results != nil {
			resp.Results = c.Results
		}
	}
	return resp
}

// LegacyErrorResponse is the error body of the legacy database-content endpoint.
type LegacyErrorResponse struct {
	Error string `json:"error" example:"Failed to get database content"`
} // @name LegacyErrorResponse

// LegacyTitleResponse is the body of GET /api/getTitleName.
type LegacyTitleResponse struct {
	TitleName string `json:"titleName" example:"My Nav"`
} // @name LegacyTitleResponse

// LegacyOGInfoResponse is the body of GET /api/getOGinfo. Unset fields are
// omitted so the front-end keeps its own defaults.
type LegacyOGInfoResponse struct {
	OGTitle    string `json:"ogTitle,omitempty" example:"My Nav"`
	OGImg      string `json:"ogImg,omitempty" example:"https://nav.example.com/og.png"`
	OGDesc     string `json:"ogDesc,omitempty" example:"Links we use every day"`
	OGURL      string `json:"ogUrl,omitempty" example:"https://nav.example.com"`
	OGLogo     string `json:"ogLogo,omitempty" example:"https://nav.example.com/logo.png"`
	OGKeywords string `json:"ogKeywords,omitempty" example:"nav,links"`
} // @name LegacyOGInfoResponse

// NewLegacyContentResponse builds the flat body served on the legacy
// database-content endpoint: the upstream list fields, plus uniqueTags when
// includeTags is set.
func NewLegacyContentResponse(c *model.PageCollection, tags []string, includeTags bool) map[string]interface{} {
	body := NewContentResponse(c, nil)

	var nextCursor interface{}
	if body.NextCursor != "" {
		nextCursor = body.NextCursor
	}

	out := map[string]interface{}{
		"object":      body.Object,
		"results":     body.Results,
		"has_more":    body.HasMore,
		"next_cursor": nextCursor,
	}
	if includeTags {
		if tags == nil {
			tags = []string{}
		}
		out["uniqueTags"] = tags
	}
	return out
}

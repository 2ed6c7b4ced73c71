package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nav-service/internal/circuitbreaker"
	"github.com/guttosm/nav-service/internal/domain/dto"
	"github.com/guttosm/nav-service/internal/domain/model"
	"github.com/guttosm/nav-service/internal/i18n"
	"github.com/guttosm/nav-service/internal/middleware"
	"github.com/guttosm/nav-service/internal/service"
)

// Cache status values of the X-Cache header.
const (
	cacheHit  = "HIT"
	cacheMiss = "MISS"
)

// RefreshLister lists recorded refresh events.
type RefreshLister interface {
	List(ctx context.Context, limit int) ([]model.RefreshEvent, error)
}

// ContentHandler provides HTTP handlers for the content routes.
type ContentHandler struct {
	content service.ContentService
	journal RefreshLister
}

// NewContentHandler creates a new ContentHandler. journal may be nil.
func NewContentHandler(content service.ContentService, journal RefreshLister) *ContentHandler {
	return &ContentHandler{content: content, journal: journal}
}

// GetContent handles GET /api/content requests.
//
// @Summary      Read directory content
// @Description  Returns the cached page collection, filtered to one category label when tag is set. Unfiltered reads include the tag index. Served from the cache when possible; a miss queries the content source once and caches the result.
// @Tags         Content
// @Produce      json
// @Param        tag           query  string false "Category label (exact, case-sensitive)"
// @Param        If-None-Match header string false "ETag of a previously received collection"
// @Success      200 {object} dto.SuccessResponse{data=dto.ContentResponse} "Page collection"
// @Success      304 "Not modified"
// @Failure      400 {object} dto.ErrorResponse "Invalid tag"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Content source unavailable"
// @Failure      503 {object} dto.ErrorResponse "Content source temporarily disabled"
// @Router       /api/content [get]
func (h *ContentHandler) GetContent(c *gin.Context) {
	builder := NewResponseBuilder(c)

	query, err := BindQuery[dto.ContentQuery](c)
	if err != nil {
		writeBindError(builder, i18n.ErrKeyValidationTag, err)
		return
	}

	result, err := h.content.Read(c.Request.Context(), query.Tag)
	if err != nil {
		h.writeError(c, err)
		return
	}

	setCacheHeaders(c, result)
	if notModified(c, result.Collection.ETag) {
		c.Status(http.StatusNotModified)
		return
	}

	builder.SuccessOK(dto.NewContentResponse(result.Collection, result.Tags))
}

// RefreshContent handles POST /api/content requests.
//
// @Summary      Refresh directory content
// @Description  Discards every cached collection and reloads the unfiltered collection and its tag index from the content source. On failure the cache is left untouched.
// @Tags         Content
// @Produce      json
// @Param        X-API-Key header string false "API key (required when refresh keys are configured)"
// @Success      200 {object} dto.SuccessResponse{data=dto.ContentResponse} "Refreshed collection"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid API key"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Content source unavailable"
// @Failure      503 {object} dto.ErrorResponse "Content source temporarily disabled"
// @Security     ApiKeyAuth
// @Router       /api/content [post]
func (h *ContentHandler) RefreshContent(c *gin.Context) {
	result, err := h.content.Refresh(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	setCacheHeaders(c, result)
	NewResponseBuilder(c).SuccessOK(dto.NewContentResponse(result.Collection, result.Tags))
}

// GetDatabaseContent handles GET /api/getDatabaseContent requests.
//
// @Summary      Read directory content (legacy)
// @Description  Same as GET /api/content with the flat body of the original front-end: the list fields at top level plus uniqueTags on unfiltered reads.
// @Tags         Legacy
// @Produce      json
// @Param        tag query string false "Category label (exact, case-sensitive)"
// @Success      200 {object} map[string]interface{} "Page collection"
// @Failure      500 {object} dto.LegacyErrorResponse "Failed to get database content"
// @Router       /api/getDatabaseContent [get]
func (h *ContentHandler) GetDatabaseContent(c *gin.Context) {
	query, err := BindQuery[dto.ContentQuery](c)
	if err != nil {
		writeBindError(NewResponseBuilder(c), i18n.ErrKeyValidationTag, err)
		return
	}

	result, err := h.content.Read(c.Request.Context(), query.Tag)
	if err != nil {
		writeLegacyError(c, i18n.LegacyErrGetContent, err)
		return
	}

	setCacheHeaders(c, result)
	c.JSON(http.StatusOK, dto.NewLegacyContentResponse(result.Collection, result.Tags, query.Tag == ""))
}

// RefreshDatabaseContent handles POST /api/getDatabaseContent requests.
//
// @Summary      Refresh directory content (legacy)
// @Description  Same as POST /api/content with the flat body of the original front-end.
// @Tags         Legacy
// @Produce      json
// @Success      200 {object} map[string]interface{} "Refreshed collection"
// @Failure      500 {object} dto.LegacyErrorResponse "Failed to refresh database content"
// @Security     ApiKeyAuth
// @Router       /api/getDatabaseContent [post]
func (h *ContentHandler) RefreshDatabaseContent(c *gin.Context) {
	result, err := h.content.Refresh(c.Request.Context())
	if err != nil {
		writeLegacyError(c, i18n.LegacyErrRefreshContent, err)
		return
	}

	setCacheHeaders(c, result)
	c.JSON(http.StatusOK, dto.NewLegacyContentResponse(result.Collection, result.Tags, true))
}

// ListRefreshes handles GET /api/content/refreshes requests.
//
// @Summary      List cache refreshes
// @Description  Returns the most recent refresh attempts, newest first. Requires MongoDB.
// @Tags         Content
// @Produce      json
// @Param        limit query int false "Number of events (1-100)" default(20)
// @Success      200 {object} dto.SuccessResponse{data=[]model.RefreshEvent} "Refresh events"
// @Failure      400 {object} dto.ErrorResponse "Invalid limit"
// @Failure      503 {object} dto.ErrorResponse "Refresh journal unavailable"
// @Router       /api/content/refreshes [get]
func (h *ContentHandler) ListRefreshes(c *gin.Context) {
	builder := NewResponseBuilder(c)

	query, err := BindQuery[dto.RefreshEventsQuery](c)
	if err != nil {
		writeBindError(builder, i18n.ErrKeyValidationLimit, err)
		return
	}

	if h.journal == nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyJournalUnavailable, service.ErrJournalNotConfigured)
		return
	}

	events, err := h.journal.List(c.Request.Context(), query.Limit)
	if err != nil {
		builder.Error(http.StatusServiceUnavailable, i18n.ErrKeyJournalUnavailable, err)
		return
	}
	if events == nil {
		events = []model.RefreshEvent{}
	}

	builder.SuccessOK(events)
}

// writeError maps a content service error to a status and error body.
func (h *ContentHandler) writeError(c *gin.Context, err error) {
	builder := NewResponseBuilder(c)

	if c.Request.Context().Err() != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			builder.Error(http.StatusGatewayTimeout, i18n.ErrKeyTimeout, err)
			return
		}
		_ = c.Error(err)
		c.AbortWithStatus(middleware.StatusClientClosedRequest)
		return
	}

	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		builder.ErrorWithCode(http.StatusServiceUnavailable, dto.ErrCodeUpstreamUnavailable, i18n.ErrKeyCircuitOpen, err)
	case errors.Is(err, service.ErrUpstreamUnavailable):
		builder.ErrorWithCode(http.StatusInternalServerError, dto.ErrCodeUpstreamUnavailable, i18n.ErrKeyUpstreamUnavailable, err)
	default:
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}

func writeBindError(builder *ResponseBuilder, messageKey string, err error) {
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		builder.ValidationError(messageKey, verr)
		return
	}
	builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
}

// writeLegacyError sends the {"error": message} body of the legacy endpoint.
func writeLegacyError(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	if c.Request.Context().Err() != nil {
		c.AbortWithStatus(middleware.StatusClientClosedRequest)
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.LegacyErrorResponse{Error: message})
}

func setCacheHeaders(c *gin.Context, result *service.ContentResult) {
	if result.Cached {
		c.Header(middleware.CacheStatusHeader, cacheHit)
	} else {
		c.Header(middleware.CacheStatusHeader, cacheMiss)
	}
	if result.Collection != nil && result.Collection.ETag != "" {
		c.Header("ETag", result.Collection.ETag)
	}
}

// notModified reports whether If-None-Match matches etag.
func notModified(c *gin.Context, etag string) bool {
	header := c.GetHeader("If-None-Match")
	if header == "" || etag == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/guttosm/nav-service/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	isUUID := func(t *testing.T, id string) {
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}

	tests := []struct {
		name        string
		headerValue string
		validate    func(*testing.T, string)
	}{
		{
			name:     "generates ID when none is sent",
			validate: isUUID,
		},
		{
			name:        "keeps client ID",
			headerValue: "nav-frontend-42",
			validate: func(t *testing.T, id string) {
				assert.Equal(t, "nav-frontend-42", id)
			},
		},
		{
			name:        "replaces ID with spaces",
			headerValue: "two words",
			validate:    isUUID,
		},
		{
			name:        "replaces oversized ID",
			headerValue: strings.Repeat("a", maxRequestIDLength+1),
			validate:    isUUID,
		},
		{
			name:        "replaces non-ASCII ID",
			headerValue: "café",
			validate:    isUUID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID())
			router.GET("/api/content", func(c *gin.Context) {
				id := GetRequestID(c)
				assert.Equal(t, id, logger.RequestIDFromContext(c.Request.Context()))
				c.String(http.StatusOK, id)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
			if tt.headerValue != "" {
				req.Header.Set(RequestIDHeader, tt.headerValue)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			requestID := w.Body.String()
			assert.Equal(t, requestID, w.Header().Get(RequestIDHeader))
			tt.validate(t, requestID)
		})
	}
}

func TestGetRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/content", nil)

	assert.Empty(t, GetRequestID(c))

	c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), "req-1"))
	assert.Equal(t, "req-1", GetRequestID(c))
}

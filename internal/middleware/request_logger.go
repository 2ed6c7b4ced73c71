package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nav-service/internal/logger"
	"github.com/rs/zerolog"
)

// CacheStatusHeader reports whether content was served from the cache.
const CacheStatusHeader = "X-Cache"

// StatusClientClosedRequest is the status recorded for requests whose
// caller went away before the response was ready.
const StatusClientClosedRequest = 499

// RequestLogger logs one line per request on the request-scoped logger.
// Content requests also carry the cache status and the tag selector.
// Requests to quietPaths are logged at debug level so probes do not flood
// the output.
func RequestLogger(quietPaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		level := levelForStatus(status)
		if level == zerolog.InfoLevel && slices.Contains(quietPaths, c.Request.URL.Path) {
			level = zerolog.DebugLevel
		}

		log := logger.FromContext(c.Request.Context())
		event := log.WithLevel(level).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status_code", status).
			Int("bytes", max(c.Writer.Size(), 0)).
			Dur("duration", time.Since(start)).
			Str("ip", c.ClientIP())

		if ua := c.Request.UserAgent(); ua != "" {
			event = event.Str("user_agent", ua)
		}
		if cache := c.Writer.Header().Get(CacheStatusHeader); cache != "" {
			event = event.Str("cache", cache)
		}
		if tag, ok := c.GetQuery("tag"); ok {
			event = event.Str("tag", tag)
		}

		event.Msg("HTTP request")
	}
}

// levelForStatus maps a response status to a log level. A caller that hung
// up is not a failure of the service.
func levelForStatus(status int) zerolog.Level {
	switch {
	case status == StatusClientClosedRequest:
		return zerolog.InfoLevel
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nav-service/internal/domain/dto"
	"github.com/guttosm/nav-service/internal/i18n"
	"github.com/guttosm/nav-service/internal/logger"
)

// ErrorHandler logs the errors handlers attached with c.Error. The level
// follows the response status. When a handler attached an error without
// writing a response, a 500 ErrorResponse is sent.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		written := c.Writer.Written()
		status := c.Writer.Status()
		if !written {
			status = http.StatusInternalServerError
		}

		log := logger.FromContext(c.Request.Context())
		event := log.WithLevel(levelForStatus(status)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status_code", status).
			Err(c.Errors.Last().Err)
		if len(c.Errors) > 1 {
			event = event.Strs("errors", c.Errors.Errors())
		}
		event.Msg("Request error")

		if written {
			return
		}

		message := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
		c.JSON(http.StatusInternalServerError,
			dto.NewError(dto.ErrCodeInternal, message).WithRequestID(GetRequestID(c)))
	}
}

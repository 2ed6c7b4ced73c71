package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nav-service/internal/domain/dto"
	"github.com/guttosm/nav-service/internal/i18n"
	"github.com/guttosm/nav-service/internal/middleware"
)

// envelopePool recycles response envelopes between requests.
type envelopePool[T any] struct {
	pool sync.Pool
}

func (p *envelopePool[T]) get() *T {
	if v, ok := p.pool.Get().(*T); ok {
		return v
	}
	return new(T)
}

// put zeroes v and returns it to the pool.
func (p *envelopePool[T]) put(v *T) {
	var zero T
	*v = zero
	p.pool.Put(v)
}

var (
	successEnvelopes envelopePool[dto.SuccessResponse]
	errorEnvelopes   envelopePool[dto.ErrorResponse]
)

// Validator is implemented by request types that can validate themselves.
type Validator interface {
	Validate() error
}

// BindQuery binds the query string into a new T and validates it if T
// implements Validator.
func BindQuery[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindQuery(&req); err != nil {
		return nil, err
	}
	if v, ok := any(&req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return &req, nil
}

// ResponseBuilder writes the {data, request_id, timestamp} envelope of the
// content API and its error counterpart.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success sends a successful response with the given data.
func (b *ResponseBuilder) Success(statusCode int, data interface{}) {
	resp := successEnvelopes.get()
	defer successEnvelopes.put(resp)

	resp.Data = data
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now().UTC()
	b.c.JSON(statusCode, resp)
}

// SuccessOK sends a 200 OK response with the given data.
func (b *ResponseBuilder) SuccessOK(data interface{}) {
	b.Success(http.StatusOK, data)
}

// Error sends an error response with the code derived from statusCode and a
// message translated from messageKey.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	b.ErrorWithCode(statusCode, dto.ErrCodeFromStatus(statusCode), messageKey, err)
}

// ErrorWithCode sends an error response with an explicit error code.
// err, when set, is attached to the context for the error handler to log.
func (b *ResponseBuilder) ErrorWithCode(statusCode int, code, messageKey string, err error) {
	message := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(b.c))
	b.send(statusCode, code, message, nil, err)
}

// ValidationError sends a 400 response naming the invalid field.
func (b *ResponseBuilder) ValidationError(messageKey string, verr *dto.ValidationError) {
	message := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(b.c))
	b.send(http.StatusBadRequest, dto.ErrCodeInvalidRequest, message, map[string]string{verr.Field: verr.Message}, verr)
}

func (b *ResponseBuilder) send(statusCode int, code, message string, details map[string]string, err error) {
	if err != nil {
		_ = b.c.Error(err)
	}

	resp := errorEnvelopes.get()
	defer errorEnvelopes.put(resp)

	resp.Error = code
	resp.Message = message
	resp.Details = details
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now().UTC()
	b.c.AbortWithStatusJSON(statusCode, resp)
}

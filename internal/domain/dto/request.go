// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import "strings"

// MaxTagLength bounds the tag selector accepted by the content endpoints.
const MaxTagLength = 200

// ContentQuery holds the query string of the scoped read endpoint.
//
// An absent or empty tag selects the unfiltered collection.
//
// @Description Optional tag selector for the content endpoint
type ContentQuery struct {
	// Tag restricts the result to pages carrying this category label (case-sensitive).
	Tag string `form:"tag" example:"Tools"`
} // @name ContentQuery

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

var (
	// ErrInvalidTag is returned when the tag selector is unusable.
	ErrInvalidTag = &ValidationError{
		Field:   "tag",
		Message: "must be at most 200 characters and contain no control characters",
	}
	// ErrInvalidLimit is returned when a list limit is out of range.
	ErrInvalidLimit = &ValidationError{
		Field:   "limit",
		Message: "must be between 1 and 100",
	}
)

// Validate performs custom validation on the query.
// Labels are matched exactly, so the tag is not trimmed or case-folded.
func (q *ContentQuery) Validate() error {
	if len(q.Tag) > MaxTagLength {
		return ErrInvalidTag
	}
	if strings.IndexFunc(q.Tag, func(r rune) bool { return r < 0x20 || r == 0x7f }) >= 0 {
		return ErrInvalidTag
	}
	return nil
}

// RefreshEventsQuery holds the query string of the refresh journal endpoint.
type RefreshEventsQuery struct {
	Limit int `form:"limit" example:"20"`
}

// Validate applies the default limit and checks its range.
func (q *RefreshEventsQuery) Validate() error {
	if q.Limit == 0 {
		q.Limit = 20
	}
	if q.Limit < 1 || q.Limit > 100 {
		return ErrInvalidLimit
	}
	return nil
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

package i18n

// Message keys of translated error bodies.
const (
	ErrKeyInvalidRequest    = "error.invalid_request"
	ErrKeyInternalError     = "error.internal_error"
	ErrKeyNotFound          = "error.not_found"
	ErrKeyMethodNotAllowed  = "error.method_not_allowed"
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	ErrKeyTimeout           = "error.timeout"
)

// Refresh authentication.
const (
	ErrKeyAPIKeyRequired = "error.api_key_required"
	ErrKeyInvalidAPIKey  = "error.invalid_api_key"
)

// Content source and refresh journal failures.
const (
	ErrKeyUpstreamUnavailable = "error.upstream_unavailable"
	// ErrKeyCircuitOpen is used while the source breaker rejects calls.
	ErrKeyCircuitOpen        = "error.circuit_open"
	ErrKeyJournalUnavailable = "error.journal_unavailable"
)

// Query parameter validation.
const (
	ErrKeyValidationTag   = "error.validation.tag"
	ErrKeyValidationLimit = "error.validation.limit"
)

// Bodies of the legacy database-content endpoint. The front-end matches on
// them, so they are never translated.
const (
	LegacyErrGetContent     = "Failed to get database content"
	LegacyErrRefreshContent = "Failed to refresh database content"
)

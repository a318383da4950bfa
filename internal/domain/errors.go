package domain

import "errors"

// ErrNotFound is returned when the requested resource does not exist, either in
// the catalog (unknown product id) or in local state (unknown session).
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing search field, date in the past).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUpstream is returned when the catalog or the contact relay fails at the
// network or protocol level. Handlers should map this to HTTP 502.
var ErrUpstream = errors.New("upstream error")

// ErrFeatureDisabled is returned when a feature depends on configuration that
// is absent (catalog token, contact number, captcha key).
// Handlers should map this to HTTP 503.
var ErrFeatureDisabled = errors.New("feature disabled")

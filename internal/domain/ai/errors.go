package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrNotConfigured indicates the selected provider is missing credentials or an endpoint.
var ErrNotConfigured = errors.New("ai provider not configured")

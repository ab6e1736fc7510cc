package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/bryanwahyu/aem-assistant/internal/domain/aem"
)

// Input validation and sanitization utilities. Every failure wraps aem.ErrValidation so
// the HTTP layer answers 400.

const maxJSONBody = 1 << 20

var tenantIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", aem.ErrValidation, fmt.Sprintf(format, args...))
}

// DecodeJSON decodes a bounded JSON body into dst. Unknown fields (such as "id" in a
// patch) are ignored.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body is empty")
		}
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

// ParseID parses a positive integer path id.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, badRequest("id %q must be a positive integer", raw)
	}
	return id, nil
}

// QueryParam returns the trimmed query parameter. A malformed query string (for example
// one using ';' separators) is rejected instead of being silently dropped.
func QueryParam(r *http.Request, name string) (string, error) {
	values, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return "", badRequest("malformed query string: %v", err)
	}
	return strings.TrimSpace(values.Get(name)), nil
}

// RequireQuery returns the trimmed query parameter or an error when absent.
func RequireQuery(r *http.Request, name string) (string, error) {
	v, err := QueryParam(r, name)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", badRequest("query parameter %q is required", name)
	}
	return v, nil
}

// ValidateQueryText sanitizes a free-text question and rejects it when nothing is left.
func ValidateQueryText(q string) (string, error) {
	q = SanitizeString(q)
	if q == "" {
		return "", badRequest("query cannot be empty")
	}
	return q, nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// ValidateTenantID validates the tenant filter format; empty means "all tenants".
func ValidateTenantID(tenant string) error {
	if tenant == "" {
		return nil
	}
	if !tenantIDPattern.MatchString(tenant) {
		return badRequest("invalid tenant ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

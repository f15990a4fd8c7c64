package leakradar

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind names the classified failure categories of the LeakRadar API.
type ErrorKind string

const (
	KindBadRequest      ErrorKind = "bad_request"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindValidation      ErrorKind = "validation"
	KindTooManyRequests ErrorKind = "too_many_requests"
	// KindAPI covers any non-2xx status without a more specific kind.
	KindAPI ErrorKind = "api"
)

// APIError describes a failure reported by the LeakRadar API. It carries the
// HTTP status, the classified kind, and the service's detail message so
// callers can handle failures uniformly or per kind.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	detail := e.Detail
	if detail == "" {
		detail = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, detail)
}

// AsAPIError unwraps err into an *APIError when the failure came from the
// API rather than the transport.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuth reports whether err is an authentication or authorization failure.
func IsAuth(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && (apiErr.Kind == KindUnauthorized || apiErr.Kind == KindForbidden)
}

// IsNotFound reports whether err is a missing-resource failure.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindNotFound
}

// IsRateLimited reports whether err is a quota/rate-limit rejection.
func IsRateLimited(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindTooManyRequests
}

// IsValidation reports whether err is a request-validation rejection.
func IsValidation(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == KindValidation
}

// classify builds the APIError for a failing response.
func classify(status int, body []byte) *APIError {
	return &APIError{
		Kind:       kindForStatus(status),
		StatusCode: status,
		Detail:     extractDetail(body),
	}
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusTooManyRequests:
		return KindTooManyRequests
	default:
		return KindAPI
	}
}

// extractDetail pulls the "detail" field from a JSON error body. Bodies that
// are not JSON objects fall back to their raw text; structured detail values
// (e.g. validation error lists) are re-encoded as compact JSON.
func extractDetail(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}

	raw, ok := payload["detail"]
	if !ok || raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return ""
	}
	return string(encoded)
}

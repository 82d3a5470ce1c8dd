// ABOUTME: Error types for SecondMe API calls, mapped from HTTP status codes.
// ABOUTME: AuthError marks rejected or expired credentials; APIError covers every other non-2xx reply.
package secondme

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingToken is returned when a call that needs a bearer token gets none.
var ErrMissingToken = errors.New("secondme: missing access token")

// APIError is a non-2xx response from the SecondMe API.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("secondme %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// AuthError is a 401 or 403 response.
type AuthError struct {
	APIError
}

func (e *AuthError) Unwrap() error {
	return &e.APIError
}

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 512

// ErrorFromStatus builds the error for a non-2xx response.
func ErrorFromStatus(op string, status int, body []byte) error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	base := APIError{Op: op, StatusCode: status, Body: string(body)}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{APIError: base}
	default:
		return &base
	}
}

// IsAuthError reports whether err is, or wraps, an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrInvalidCredentials is reported when the token-issue endpoint rejects a username/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionExpired is reported when a refresh could not produce new credentials.
	ErrSessionExpired = errors.New("session expired")
	// ErrAuthorizationDenied is reported when a protected call is unauthorized and no refresh is possible.
	ErrAuthorizationDenied = errors.New("authorization denied")
)

// NetworkError represents a call that never produced a backend response.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError represents a non-2xx backend response
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend responded with %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("backend responded with %d: %s", e.Status, e.Detail)
}

// Is matches ErrAuthorizationDenied for 401 and 403 responses
func (e *APIError) Is(target error) bool {
	if target == ErrAuthorizationDenied {
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

// ReadAPIError builds an APIError from a non-2xx response, preferring the
// JSON detail field over the raw body. It does not close the body.
func ReadAPIError(resp *http.Response) *APIError {
	ret := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	detail := &Detail{}
	if err := json.Unmarshal(data, detail); err == nil && detail.Detail != "" {
		ret.Detail = detail.Detail
		return ret
	}
	ret.Detail = strings.TrimSpace(string(data))
	return ret
}

// NewInvalidCredentials wraps a token-issue rejection, keeping the server reason
func NewInvalidCredentials(apiErr *APIError) error {
	if apiErr == nil || apiErr.Detail == "" {
		return ErrInvalidCredentials
	}
	return fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Detail)
}

// NewSessionExpired wraps refresh failure cause
func NewSessionExpired(cause error) error {
	if cause == nil {
		return ErrSessionExpired
	}
	return fmt.Errorf("%w: %w", ErrSessionExpired, cause)
}

// IsUnauthenticated returns true when err should send the user back to the login screen.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrAuthorizationDenied)
}

// IsNetwork returns true for transient transport failures
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

package brandkit

import (
	"errors"
	"fmt"
)

var (
	// ErrServerUnreachable wraps transport-level failures where no HTTP
	// response was received. Requests failing this way are never retried
	// automatically; the caller must resubmit.
	ErrServerUnreachable = errors.New("server unreachable")
	// ErrSessionExpired is returned once the session has been torn down
	// because the refresh call itself failed. The user must log in again.
	ErrSessionExpired = errors.New("session expired")
	// ErrRefreshFailed marks a failed refresh-token call.
	ErrRefreshFailed = errors.New("refresh token request failed")
	// ErrNotLoggedIn is returned by operations that require a stored identity.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrStoreNotInitialized is returned when session state is read before Initialize.
	ErrStoreNotInitialized = errors.New("session store not initialized")
	// ErrClientClosed is returned by operations on a closed client.
	ErrClientClosed = errors.New("client closed")
)

// APIError is a non-2xx response whose body carried the conventional
// {"error": "..."} payload. Validation and business errors (duplicate email,
// wrong password, plan conflicts) surface as *APIError verbatim and are never
// retried or cleared automatically.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether the error is an *APIError with status 401.
// After the gateway's single retry, a second 401 reaches the caller this way.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}

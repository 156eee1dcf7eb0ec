package authclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrLoggedOut marks a Do call that ended the session: the refresh was
// rejected or the retried request was still unauthorized.
var ErrLoggedOut = errors.New("authclient: logged out")

// APIError is a non-2xx answer from the auth service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authclient: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("authclient: %d %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the service.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

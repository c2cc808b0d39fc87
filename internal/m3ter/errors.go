package m3ter

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when an entity call is issued before a
// successful token exchange.
var ErrNotAuthenticated = errors.New("m3ter: not authenticated, call Authenticate first")

// AuthError reports a rejected or unreachable credential exchange. It is
// fatal to the stage; no entity call runs after it.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("m3ter: authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError reports a failed entity call. Status and Body carry the upstream
// rejection when the service answered; Err carries the transport failure when
// the request never completed (Status is 0 in that case).
type APIError struct {
	Kind   string
	Status int
	Body   string
	Err    error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("m3ter: %s request failed: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("m3ter: %s rejected with status %d: %s", e.Kind, e.Status, e.Body)
}

func (e *APIError) Unwrap() error { return e.Err }

// Transport reports whether the failure happened before the service produced
// a response.
func (e *APIError) Transport() bool { return e.Status == 0 }

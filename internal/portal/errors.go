package portal

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials indicates the SSO rejected the username or
	// password. Never retried.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnreachable indicates the service could not be reached after
	// the bounded login retries.
	ErrUnreachable = errors.New("evaluation service unreachable")

	// ErrProtocolMismatch indicates the site responded with a shape this
	// client does not recognize, usually after a portal update.
	ErrProtocolMismatch = errors.New("unexpected response from evaluation service")

	// ErrNotAuthenticated indicates an engine call before a successful login.
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrSessionLost indicates the authenticated session expired mid-run
	// and the service bounced the call back to the login flow.
	ErrSessionLost = errors.New("session expired")

	// ErrRejected indicates the service accepted the request but reported
	// a non-success result for the submission.
	ErrRejected = errors.New("submission rejected by service")
)

// DiscoveryError wraps a failure of one discovery endpoint so partial
// results can identify which call went wrong.
type DiscoveryError struct {
	Endpoint string
	Subject  string // questionnaire or task the call was about, if any
	Err      error
}

func (e *DiscoveryError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s (%s): %v", e.Endpoint, e.Subject, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

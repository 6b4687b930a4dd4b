package st

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the taxonomy shared between the cloud client and
// the mapping core. Callers are expected to branch with errors.Is.
var (
	// ErrRemoteUnavailable indicates the cloud could not be reached or
	// answered with a transient failure. Retry with backoff is the caller's
	// responsibility; the core never retries.
	ErrRemoteUnavailable = errors.New("st: remote unavailable")

	// ErrAuthExpired indicates the credentials were rejected and a re-auth
	// flow must be triggered externally.
	ErrAuthExpired = errors.New("st: authorization expired")

	// ErrCommandRejected indicates the remote explicitly refused a command,
	// e.g. device offline or capability locked.
	ErrCommandRejected = errors.New("st: command rejected")

	// ErrInvalidValue indicates a write value failed local constraint
	// validation. No remote call is made; never retried.
	ErrInvalidValue = errors.New("st: invalid value")

	ErrEmptyDeviceID = errors.New("st: device ID cannot be empty")
)

// APIError is a non-2xx response from the cloud.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("st: API error %d: %s (request_id: %s)", e.StatusCode, e.Message, e.RequestID)
	}
	return fmt.Sprintf("st: API error %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the HTTP status onto the sentinel taxonomy so that errors.Is
// works against APIError values returned by the client.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == 401 || e.StatusCode == 403:
		return ErrAuthExpired
	case e.StatusCode == 409 || e.StatusCode == 422:
		return ErrCommandRejected
	default:
		return ErrRemoteUnavailable
	}
}

// IsAuthExpired returns true if the error indicates rejected credentials.
func IsAuthExpired(err error) bool {
	return errors.Is(err, ErrAuthExpired)
}

// IsRemoteUnavailable returns true for transient transport or server
// failures, including timeouts.
func IsRemoteUnavailable(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable)
}

// IsCommandRejected returns true if the remote refused a command.
func IsCommandRejected(err error) bool {
	return errors.Is(err, ErrCommandRejected)
}

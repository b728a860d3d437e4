package remote

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrTransport marks failures before a response was received.
	ErrTransport = errors.New("remote: transport failure")
	// ErrRejected marks non-2xx answers and envelopes with success=false.
	ErrRejected = errors.New("remote: request rejected")
	// ErrMalformedResponse marks bodies that are not the expected envelope.
	ErrMalformedResponse = errors.New("remote: malformed response")
)

// CategoryRemote tags every error raised while talking to the remote API.
const CategoryRemote = goerrors.Category("remote")

const (
	transportFailedCode   = "REMOTE_TRANSPORT_FAILED"
	rejectedCode          = "REMOTE_REJECTED"
	malformedResponseCode = "REMOTE_MALFORMED_RESPONSE"
)

// RejectionError carries the server verdict. Message is the envelope message
// when the server sent one.
type RejectionError struct {
	Status  int
	Message string
	Errors  map[string][]string
}

func (e *RejectionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status > 0 {
		return fmt.Sprintf("remote: status %d %s", e.Status, http.StatusText(e.Status))
	}
	return ErrRejected.Error()
}

func (e *RejectionError) Unwrap() error { return ErrRejected }

// MalformedError describes why a body could not be used. Malformed answers
// are a kind of rejection.
type MalformedError struct {
	Status int
	Reason string
	Cause  error
}

func (e *MalformedError) Error() string {
	return "remote: malformed response: " + e.Reason
}

func (e *MalformedError) Unwrap() []error {
	errs := []error{ErrMalformedResponse, ErrRejected}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func transportError(err error) error {
	return goerrors.Wrap(errors.Join(ErrTransport, err), CategoryRemote, "remote request failed").
		WithTextCode(transportFailedCode)
}

func rejection(status int, message string, fieldErrors map[string][]string) error {
	return goerrors.Wrap(&RejectionError{Status: status, Message: message, Errors: fieldErrors}, CategoryRemote, "remote request rejected").
		WithTextCode(rejectedCode)
}

func malformed(status int, reason string, cause error) error {
	return goerrors.Wrap(&MalformedError{Status: status, Reason: reason, Cause: cause}, CategoryRemote, "remote response malformed").
		WithTextCode(malformedResponseCode)
}

// Malformed reports a well-formed envelope whose content cannot be used, e.g.
// an entity with another id than the one requested.
func Malformed(reason string) error {
	return malformed(0, reason, nil)
}

// Rejection extracts the server verdict from err.
func Rejection(err error) (*RejectionError, bool) {
	var rejected *RejectionError
	if errors.As(err, &rejected) {
		return rejected, true
	}
	return nil, false
}

// StatusCode reports the HTTP status attached to err, or 0.
func StatusCode(err error) int {
	if rejected, ok := Rejection(err); ok {
		return rejected.Status
	}
	var bad *MalformedError
	if errors.As(err, &bad) {
		return bad.Status
	}
	return 0
}

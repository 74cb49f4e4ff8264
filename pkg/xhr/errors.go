package xhr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure paths of a transfer.
var (
	// ErrRequestFailed is the rejection reason of the default error handler.
	ErrRequestFailed = errors.New("xhr: request failed")

	// ErrRequestStopped is the rejection reason of the default abort handler.
	ErrRequestStopped = errors.New("xhr: request stopped")

	// ErrEmptyResponse is returned when a 200 response carries no usable payload.
	ErrEmptyResponse = errors.New("xhr: response is empty")

	// ErrUnsupportedResponseType is returned before sending when ResponseType is unknown.
	ErrUnsupportedResponseType = errors.New("xhr: unsupported response type")

	errRejectedWithoutReason = errors.New("xhr: promise rejected without reason")
)

// StatusError reports a completed transfer whose status was not 200.
type StatusError struct {
	Code int
	Text string
}

// Error implements error interface.
func (e *StatusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return strings.TrimSpace(fmt.Sprintf("xhr: HTTP %d %s", e.Code, e.Text))
}

// IsStatus reports whether err is a StatusError carrying code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

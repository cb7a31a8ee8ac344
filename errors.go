package lscp

import (
	"errors"
	"fmt"
)

// Status classifies a server response line.
type Status int

const (
	// StatusOK is any response that is not an error or warning, including
	// the OK[<value>] form.
	StatusOK Status = iota
	// StatusWarning is a WRN:<code>:<message> response. Warnings are not
	// failures; the transaction itself succeeded.
	StatusWarning
	// StatusError is an ERR:<code>:<message> response.
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "WRN"
	case StatusError:
		return "ERR"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

var (
	// ErrTimeout is returned when the server does not respond within the
	// client timeout. The transaction may be retried.
	ErrTimeout = errors.New("lscp: timeout during receive operation")

	// ErrClosed is returned by operations on a closed client.
	ErrClosed = errors.New("lscp: client closed")

	// ErrAlreadySubscribed is returned by Subscribe when a session id is
	// already established.
	ErrAlreadySubscribed = errors.New("lscp: already subscribed")

	// ErrNotSubscribed is returned by Unsubscribe when no session id is
	// established.
	ErrNotSubscribed = errors.New("lscp: not subscribed")

	// ErrInvalidArg is returned when an argument fails validation before
	// any command is sent.
	ErrInvalidArg = errors.New("lscp: invalid argument")
)

// ProtocolError is a server-reported ERR: or WRN: response, decoded into
// its numeric code and message text.
type ProtocolError struct {
	Code    int
	Message string
	Warning bool
}

// Error returns the error text.
func (e *ProtocolError) Error() string {
	if e.Warning {
		return fmt.Sprintf("lscp: server warning %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("lscp: server error %d: %s", e.Code, e.Message)
}

// IsWarning reports whether err is a server warning. Typed commands return
// warnings as errors so that callers can distinguish a clean success; flows
// that treat warnings as success should check with this.
func IsWarning(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe) && pe.Warning
}

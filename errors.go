package dwjdbc

import (
	"errors"
	"fmt"
)

// Error type constants used in QueryError.Type
const (
	// ErrorTypeInvalidArgument marks a malformed request detected before any I/O.
	ErrorTypeInvalidArgument = "InvalidArgument"
	// ErrorTypeTransport marks a connection or I/O failure before or during the exchange.
	ErrorTypeTransport = "TransportFailure"
	// ErrorTypeHTTPStatus marks any response status other than 200.
	ErrorTypeHTTPStatus = "HttpStatusFailure"
	// ErrorTypeUnsupportedContentType marks a response no registered parser matches.
	ErrorTypeUnsupportedContentType = "UnsupportedContentType"
	// ErrorTypeParse marks a failure raised by the selected parser while consuming the stream.
	ErrorTypeParse = "ParseFailure"
	// ErrorTypeValidation marks invalid client configuration.
	ErrorTypeValidation = "Validation"
	// ErrorTypeUnexpected marks any other fault.
	ErrorTypeUnexpected = "Unexpected"
)

// Phase identifies where in a call a failure happened.
type Phase string

const (
	// PhaseRequest covers validation, request construction and the send.
	PhaseRequest Phase = "request"
	// PhaseResponse covers status/header receipt and stream setup.
	PhaseResponse Phase = "response"
	// PhaseParse covers parser dispatch and consumption.
	PhaseParse Phase = "parse"
)

// Sentinel errors for common failure scenarios
var (
	// ErrClientClosed is returned when ExecuteQuery is called after Close.
	ErrClientClosed = errors.New("dwjdbc: client closed")
)

// QueryError is the single failure shape surfaced by ExecuteQuery. No
// partial Response is ever returned alongside one.
type QueryError struct {
	Type       string
	Phase      Phase
	Endpoint   string
	Message    string
	StatusCode int
	Cause      error
}

// Error implements error interface.
func (e *QueryError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause.
func (e *QueryError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *QueryError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*QueryError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

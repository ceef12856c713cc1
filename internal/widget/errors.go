package widget

import (
	"errors"
	"fmt"

	"leadchat-backend/internal/leads"
)

// ErrInvalidTransition is wrapped by every rejected state change.
var ErrInvalidTransition = errors.New("invalid widget transition")

var (
	ErrWidgetClosed    = fmt.Errorf("%w: widget is closed", ErrInvalidTransition)
	ErrRequestInFlight = fmt.Errorf("%w: a reply is still pending", ErrInvalidTransition)
	ErrLeadFormHidden  = fmt.Errorf("%w: lead form is not visible", ErrInvalidTransition)
	ErrEmptyMessage    = errors.New("message is empty")
)

// ErrorKind groups failures by how the widget reacts to them.
type ErrorKind string

const (
	KindNone                  ErrorKind = ""
	KindValidation            ErrorKind = "VALIDATION"
	KindTransport             ErrorKind = "TRANSPORT"
	KindMalformedResponse     ErrorKind = "MALFORMED_RESPONSE"
	KindUpstreamMisconfigured ErrorKind = "UPSTREAM_MISCONFIGURED"
)

// RelayErrorKind is the failure reported by a Relay.
type RelayErrorKind string

const (
	RelayUnreachable       RelayErrorKind = "UNREACHABLE"
	RelayMalformedResponse RelayErrorKind = "MALFORMED_RESPONSE"
)

type RelayError struct {
	Kind RelayErrorKind
	// Status is the HTTP status when the relay answered with a non-2xx code.
	Status int
	Err    error
}

func (e *RelayError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("relay %s: status %d", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("relay %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("relay %s", e.Kind)
	}
}

func (e *RelayError) Unwrap() error { return e.Err }

// SubmissionError is a lead submission the relay did not accept.
type SubmissionError struct {
	Status  int
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("lead submission failed (%d): %s: %v", e.Status, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("lead submission failed (%d): %s", e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("lead submission failed: %v", e.Err)
	default:
		return fmt.Sprintf("lead submission failed with status %d", e.Status)
	}
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// ErrUpstreamMisconfigured marks a relay that cannot serve requests because
// it is missing credentials.
var ErrUpstreamMisconfigured = errors.New("upstream misconfigured")

// KindOf classifies err for the widget's error taxonomy.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var (
		verr *leads.ValidationError
		rerr *RelayError
		serr *SubmissionError
	)
	switch {
	case errors.Is(err, ErrUpstreamMisconfigured):
		return KindUpstreamMisconfigured
	case errors.As(err, &verr), errors.Is(err, ErrEmptyMessage), errors.Is(err, ErrInvalidTransition):
		return KindValidation
	case errors.As(err, &rerr):
		if rerr.Kind == RelayMalformedResponse {
			return KindMalformedResponse
		}
		return KindTransport
	case errors.As(err, &serr):
		if serr.Status >= 400 && serr.Status < 500 {
			return KindValidation
		}
		return KindTransport
	default:
		return KindTransport
	}
}

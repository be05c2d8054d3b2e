package usartx

import (
	"github.com/pkg/errors"
)

var (
	// ErrConfigurationRejected matches any error where the hardware could not
	// accept the requested parameters.
	ErrConfigurationRejected = errors.New("configuration rejected")
	// ErrAlreadyBusy matches a re-initialization attempted while a transfer
	// is in flight.
	ErrAlreadyBusy = errors.New("already busy")
)

// Reason narrows a rejection down to its cause.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonInvalidFormat
	ReasonInvalidBaud
	ReasonNotReady
	ReasonHardwareFault
	ReasonUnknownInstance
	ReasonUnsupported
)

func (r Reason) String() string {
	switch r {
	case ReasonInvalidFormat:
		return "invalid_format"
	case ReasonInvalidBaud:
		return "invalid_baud"
	case ReasonNotReady:
		return "not_ready"
	case ReasonHardwareFault:
		return "hardware_fault"
	case ReasonUnknownInstance:
		return "unknown_instance"
	case ReasonUnsupported:
		return "unsupported"
	default:
		return "none"
	}
}

// Error carries the operation, instance and cause of a failed commit.
type Error struct {
	Op       string
	Instance string
	Kind     error // ErrConfigurationRejected or ErrAlreadyBusy
	Reason   Reason
	Err      error
}

func (e *Error) Error() string {
	s := e.Op + " " + e.Instance + ": " + e.Kind.Error()
	if e.Reason != ReasonNone {
		s += " (" + e.Reason.String() + ")"
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrConfigurationRejected) and
// errors.Is(err, ErrAlreadyBusy) match on Kind.
func (e *Error) Is(target error) bool { return target == e.Kind }

func reject(op, inst string, reason Reason, err error) *Error {
	return &Error{Op: op, Instance: inst, Kind: ErrConfigurationRejected, Reason: reason, Err: err}
}

// ReasonOf extracts the rejection reason from err, or ReasonNone.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		if e.Reason != ReasonNone || e.Err == nil {
			return e.Reason
		}
		return ReasonOf(e.Err)
	}
	return ReasonNone
}

// Code is a stable, short error identifier for callers across the C boundary.
type Code int32

const (
	CodeOK Code = iota
	CodeRejected
	CodeBusy
	CodeError
)

// CodeOf maps an Init result to a Code.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrAlreadyBusy):
		return CodeBusy
	case errors.Is(err, ErrConfigurationRejected):
		return CodeRejected
	default:
		return CodeError
	}
}

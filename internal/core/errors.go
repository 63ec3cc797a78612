package core

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned by Submit when the submission was superseded by a
// later one or cancelled by the caller. It carries no user-facing failure.
var ErrCancelled = errors.New("classification cancelled")

// GenericTransportMessage is shown when the service gave no detail
const GenericTransportMessage = "failed to classify email"

// ValidationError reports an input that failed a local precondition
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportFailure reports a network error, a timeout or a non-200 answer
type TransportFailure struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *TransportFailure) Error() string {
	msg := e.Message()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TransportFailure) Unwrap() error {
	return e.Err
}

// Message returns the human readable text to show the user
func (e *TransportFailure) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return GenericTransportMessage
}

// Outcome is the terminal state of one submission
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeFailure    Outcome = "failure"
	OutcomeCancelled  Outcome = "cancelled"
	OutcomeValidation Outcome = "validation"
)

// OutcomeOf maps an error returned by Submit to its outcome
func OutcomeOf(err error) Outcome {
	var ve *ValidationError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrCancelled):
		return OutcomeCancelled
	case errors.As(err, &ve):
		return OutcomeValidation
	default:
		return OutcomeFailure
	}
}

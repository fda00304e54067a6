// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"errors"
	"fmt"
)

const (
	// StateRunning indicates the job's worker is walking its roots.
	StateRunning State = iota
	// StateCancelling indicates cancellation was requested and the worker
	// has not yet stopped.
	StateCancelling
	// StateDone is terminal: the job's Result is available.
	StateDone
)

const (
	// OutcomeFinished means every root was walked.
	OutcomeFinished Outcome = iota + 1
	// OutcomeCancelled means the job stopped early. Records found before the
	// cancellation are kept in the Result.
	OutcomeCancelled
	// OutcomeError means the job could not run, for example because the
	// default roots could not be resolved.
	OutcomeError
)

// ErrInvalidOutcome is returned when an Outcome value is not one of the defined outcomes.
var ErrInvalidOutcome = errors.New("invalid outcome")

type (
	// State is the lifecycle state of a Job.
	State int32

	// Outcome is the terminal classification of a Job.
	Outcome int32

	// InvalidOutcomeError is returned when an Outcome value is not recognized.
	// It wraps ErrInvalidOutcome for errors.Is() compatibility.
	InvalidOutcomeError struct {
		Value Outcome
	}
)

// String returns a human-readable representation of the job state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCancelling:
		return "cancelling"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeFinished:
		return "finished"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Validate returns nil if the Outcome is one of the defined outcomes,
// or an error wrapping ErrInvalidOutcome if it is not.
func (o Outcome) Validate() error {
	switch o {
	case OutcomeFinished, OutcomeCancelled, OutcomeError:
		return nil
	default:
		return &InvalidOutcomeError{Value: o}
	}
}

// Error implements the error interface for InvalidOutcomeError.
func (e *InvalidOutcomeError) Error() string {
	return fmt.Sprintf("invalid outcome %d (valid: 1=finished, 2=cancelled, 3=error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidOutcomeError) Unwrap() error {
	return ErrInvalidOutcome
}

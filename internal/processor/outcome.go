// Package processor runs the extraction strategies in order and assembles
// the final result envelope.
package processor

import (
	"context"
	"slices"

	"resumeparser/internal/errors"
	"resumeparser/internal/types"
)

// FailureKind classifies why a strategy produced no value.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureProviderError
	FailureInvalidOutput
	FailureUnavailable
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureProviderError:
		return "provider_error"
	case FailureInvalidOutput:
		return "invalid_output"
	case FailureUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// ClassifyFailure maps a strategy error onto a FailureKind.
func ClassifyFailure(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.IsCode(err, errors.ErrCodeProviderUnavailable), errors.IsCode(err, errors.ErrCodeMissingAPIKey):
		return FailureUnavailable
	case errors.IsCode(err, errors.ErrCodeAIInvalidJSON):
		return FailureInvalidOutput
	default:
		return FailureProviderError
	}
}

// Outcome is the result of a single strategy: either a Value, or a Failure
// with the error that caused it.
type Outcome[T any] struct {
	Value   T
	Failure FailureKind
	Err     error
}

// Succeeded wraps a value.
func Succeeded[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Failed wraps an error. A nil error still counts as a provider failure.
func Failed[T any](err error) Outcome[T] {
	kind := ClassifyFailure(err)
	if kind == FailureNone {
		kind = FailureProviderError
	}
	return Outcome[T]{Failure: kind, Err: err}
}

// OK reports whether the strategy produced a value.
func (o Outcome[T]) OK() bool {
	return o.Failure == FailureNone
}

// State is a step of the extraction state machine.
type State string

const (
	StateStart         State = "start"
	StateAIAttempted   State = "ai_attempted"
	StateAISucceeded   State = "ai_succeeded"
	StateAIFailed      State = "ai_failed"
	StateRegexFallback State = "regex_fallback"
	StateDone          State = "done"
)

// Trace records the states visited by ExtractWithFallback and, when the
// primary strategy failed, why.
type Trace struct {
	States  []State
	Failure FailureKind
	Err     error
}

func (t *Trace) enter(s State) {
	t.States = append(t.States, s)
}

// FellBack reports whether the fallback produced the result.
func (t Trace) FellBack() bool {
	return slices.Contains(t.States, StateRegexFallback)
}

// Reason is a short machine-readable description of the failure, or "".
func (t Trace) Reason() string {
	if t.Failure == FailureNone {
		return ""
	}
	return t.Failure.String()
}

// ExtractWithFallback tries primary exactly once. Any failure, or a nil
// primary, hands over to fallback, which must not fail.
func ExtractWithFallback[T any](
	ctx context.Context,
	primary func(context.Context) Outcome[types.Extraction[T]],
	fallback func() types.Extraction[T],
) (types.Extraction[T], Trace) {
	var trace Trace
	trace.enter(StateStart)

	var outcome Outcome[types.Extraction[T]]
	if primary == nil {
		outcome = Failed[types.Extraction[T]](
			errors.NewAIError(errors.ErrCodeProviderUnavailable, "No AI provider configured", nil))
	} else {
		trace.enter(StateAIAttempted)
		outcome = primary(ctx)
		if outcome.OK() {
			trace.enter(StateAISucceeded)
			trace.enter(StateDone)
			return outcome.Value, trace
		}
		trace.enter(StateAIFailed)
	}

	trace.Failure = outcome.Failure
	trace.Err = outcome.Err
	trace.enter(StateRegexFallback)
	result := fallback()
	trace.enter(StateDone)
	return result, trace
}

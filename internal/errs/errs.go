// Package errs defines the structured error kinds surfaced by the Renko
// engine, analytics pipeline, expression evaluator and backtest evaluator.
// Nothing here wraps I/O errors: the engine only ever returns one of its
// own kinds or a plain Go error from arithmetic/validation.
package errs

import "fmt"

// Kind enumerates the structured failure categories the engine can return.
type Kind string

const (
	// InvalidBrickSize is returned when brick_size <= 0 or is non-finite.
	InvalidBrickSize Kind = "InvalidBrickSize"
	// BrickSizeTooSmall is returned when the estimated brick count exceeds the
	// 100,000 ceiling (price_range / brick_size).
	BrickSizeTooSmall Kind = "BrickSizeTooSmall"
	// InsufficientHistory is returned when ADR-mode is requested but no
	// session has N complete prior sessions.
	InsufficientHistory Kind = "InsufficientHistory"
	// EmptyInput marks an OHLC series with fewer than 2 rows. Not fatal at the
	// engine level — callers may treat it as "empty bricks, no pending".
	EmptyInput Kind = "EmptyInput"
	// InvalidExpression is returned when a predicate fails to parse or
	// references an unknown column.
	InvalidExpression Kind = "InvalidExpression"
	// InvalidConfig covers reversal_size < brick_size, negative periods,
	// an empty pwap_sigmas list, or duplicate MA periods.
	InvalidConfig Kind = "InvalidConfig"
)

// Error is the structured value returned by engine operations: a Kind plus
// human-readable context. It never wraps an upstream I/O error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is allows errors.Is(err, errs.InvalidConfig) style checks against a Kind
// via a sentinel comparison: errors.Is(err, &Error{Kind: InvalidConfig}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds a structured Error of the given Kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Sentinel returns a zero-message Error of the given Kind, useful as an
// errors.Is target: errors.Is(err, errs.Sentinel(errs.InvalidConfig)).
func Sentinel(kind Kind) *Error {
	return &Error{Kind: kind}
}

package textgrid

import (
	"errors"
	"fmt"
)

// Sentinel parents for the typed errors below. Match with errors.Is.
var (
	// ErrInvariant is the parent of every ordering, bounds and duration violation
	ErrInvariant = errors.New("invariant violation")
	// ErrNotFound is returned when a removal target does not exist
	ErrNotFound = errors.New("not found")
	// ErrFormat is the parent of every parse failure
	ErrFormat = errors.New("format error")
)

// DurationError reports an interval whose end does not come after its start.
type DurationError struct {
	MinTime float64
	MaxTime float64
}

func (e *DurationError) Error() string {
	return fmt.Sprintf(
		"interval duration must be positive: (%s, %s)",
		formatTime(e.MinTime),
		formatTime(e.MaxTime),
	)
}

func (e *DurationError) Unwrap() error {
	return ErrInvariant
}

// TimeError reports a time that is not a finite number.
type TimeError struct {
	Value float64
}

func (e *TimeError) Error() string {
	return fmt.Sprintf("time must be finite: %v", e.Value)
}

func (e *TimeError) Unwrap() error {
	return ErrInvariant
}

// OutOfBoundsError reports an element or tier that falls outside its container.
type OutOfBoundsError struct {
	Bound float64 // violated container bound
	Value float64 // offending start or end time
	Late  bool    // true when Value exceeds the upper bound
}

func (e *OutOfBoundsError) Error() string {
	if e.Late {
		return fmt.Sprintf(
			"too late: %s exceeds upper bound %s",
			formatTime(e.Value),
			formatTime(e.Bound),
		)
	}
	return fmt.Sprintf(
		"too early: %s precedes lower bound %s",
		formatTime(e.Value),
		formatTime(e.Bound),
	)
}

func (e *OutOfBoundsError) Unwrap() error {
	return ErrInvariant
}

// DuplicateError reports an element that compares equal to one already in the tier.
type DuplicateError struct {
	Existing TimeMark
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate element: %s", e.Existing)
}

func (e *DuplicateError) Unwrap() error {
	return ErrInvariant
}

// OverlapError carries both operands of a strict comparison so the caller
// can decide how to resolve the conflict.
type OverlapError struct {
	A *Interval
	B *Interval
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping intervals: %s and %s", e.A, e.B)
}

func (e *OverlapError) Unwrap() error {
	return ErrInvariant
}

// NotFoundError reports a removal that matched nothing.
type NotFoundError struct {
	Element TimeMark
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("element not found: %s", e.Element)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// FormatError reports malformed input. Line is 1-based; zero means unknown.
type FormatError struct {
	Line int
	Msg  string
	Err  error
}

func (e *FormatError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

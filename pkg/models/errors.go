package models

import "fmt"

// ParseError reports a timestamp that is not valid ISO-8601. Ordering
// correctness depends on every event carrying a valid instant, so
// consumers treat it as fatal for the affected analysis.
type ParseError struct {
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable timestamp %q", e.Value)
}

// MissingFieldError reports an event that lacks a required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// InputFormatError reports a malformed line of the event log.
type InputFormatError struct {
	Line int
	Err  error
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("malformed event on line %d: %v", e.Line, e.Err)
}

func (e *InputFormatError) Unwrap() error {
	return e.Err
}

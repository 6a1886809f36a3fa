package interpreter

import (
	"fmt"
	"strings"
)

// AmbiguousReferenceError is returned when a task reference cannot be
// resolved to any stored task above the similarity threshold. Candidates
// holds up to five of the user's task titles for the helper message.
type AmbiguousReferenceError struct {
	Reference  string
	Candidates []string
}

func (e *AmbiguousReferenceError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("I couldn't find a task matching %q - you don't have any tasks yet", e.Reference)
	}
	return fmt.Sprintf("I couldn't find a task matching %q. Your tasks include: %s", e.Reference, strings.Join(e.Candidates, ", "))
}

// MissingFieldError is returned when a required entity is absent after
// extraction. Hint carries a field-specific usage example.
type MissingFieldError struct {
	Field string
	Hint  string
}

func (e *MissingFieldError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("I couldn't find a %s in your command", e.Field)
	}
	return fmt.Sprintf("I couldn't find a %s in your command. %s", e.Field, e.Hint)
}

// InvalidValueError is returned when a value fails validation or a
// date/time phrase cannot be parsed.
type InvalidValueError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%q is not a valid %s: %s", e.Value, e.Field, e.Reason)
}

// NotFoundError is returned when a referenced goal or objective does not exist.
type NotFoundError struct {
	Kind      string // "goal" or "objective"
	Reference string
}

func (e *NotFoundError) Error() string {
	if e.Reference == "" {
		return fmt.Sprintf("no %s found - create one first", e.Kind)
	}
	return fmt.Sprintf("no %s matching %q found", e.Kind, e.Reference)
}

// DownstreamError wraps a fault from the Store or the generative planner.
// The user-facing message never exposes internals.
type DownstreamError struct {
	Op  string
	Err error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *DownstreamError) Unwrap() error {
	return e.Err
}

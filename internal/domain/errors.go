package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Form field names used as keys in ValidationError.Fields
const (
	FieldTask          = "task"
	FieldMinutesAmount = "minutesAmount"
)

var (
	// ErrTaskRequired is reported when the task name is empty
	ErrTaskRequired = errors.New("task is required")
	// ErrMinutesOutOfRange is the parent of both duration bound errors
	ErrMinutesOutOfRange = errors.New("minutes out of range")
	// ErrMinutesTooShort is reported for durations below MinMinutes
	ErrMinutesTooShort = fmt.Errorf("%w: cycle must be at least %d minute", ErrMinutesOutOfRange, MinMinutes)
	// ErrMinutesTooLong is reported for durations above MaxMinutes
	ErrMinutesTooLong = fmt.Errorf("%w: cycle must be at most %d minutes", ErrMinutesOutOfRange, MaxMinutes)
)

// ValidationError collects per-field errors from the new cycle form
type ValidationError struct {
	Fields map[string]error
}

func (e *ValidationError) add(field string, err error) {
	if e.Fields == nil {
		e.Fields = make(map[string]error)
	}
	e.Fields[field] = err
}

// Message returns the user facing message for a field, or ""
func (e *ValidationError) Message(field string) string {
	err, ok := e.Fields[field]
	if !ok {
		return ""
	}
	if errors.Is(err, ErrMinutesOutOfRange) {
		return strings.TrimPrefix(err.Error(), ErrMinutesOutOfRange.Error()+": ")
	}
	return err.Error()
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Message(name)))
	}
	return "invalid cycle: " + strings.Join(parts, "; ")
}

// Unwrap exposes the field errors to errors.Is
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, err := range e.Fields {
		errs = append(errs, err)
	}
	return errs
}

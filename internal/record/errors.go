// Package record renders logical records into fixed-width lines.
package record

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldOverflow is returned when a value is wider than its field.
	ErrFieldOverflow = errors.New("field overflow")

	// ErrInvalidValue is returned when a value cannot be represented by its field kind.
	ErrInvalidValue = errors.New("invalid field value")

	// ErrUnknownField is returned when a value names a field the record type does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrWidthMismatch is returned when a rendered or parsed line does not match the documented width.
	ErrWidthMismatch = errors.New("record width mismatch")
)

// FieldOverflowError describes a value that does not fit its field.
type FieldOverflowError struct {
	Code   string
	Field  string
	Width  int
	Length int
	Value  string
}

func (e *FieldOverflowError) Error() string {
	return fmt.Sprintf("%s.%s: value %q is %d characters, field width is %d", e.Code, e.Field, e.Value, e.Length, e.Width)
}

func (e *FieldOverflowError) Unwrap() error {
	return ErrFieldOverflow
}

// InvalidValueError describes a value rejected by its field kind.
type InvalidValueError struct {
	Code   string
	Field  string
	Value  any
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s.%s: invalid value %v: %s", e.Code, e.Field, e.Value, e.Reason)
}

func (e *InvalidValueError) Unwrap() error {
	return ErrInvalidValue
}

// UnknownFieldError names a field missing from the record layout.
type UnknownFieldError struct {
	Code  string
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s: unknown field %q", e.Code, e.Field)
}

func (e *UnknownFieldError) Unwrap() error {
	return ErrUnknownField
}

// WidthMismatchError reports a line whose length differs from the layout width.
type WidthMismatchError struct {
	Code string
	Want int
	Got  int
}

func (e *WidthMismatchError) Error() string {
	return fmt.Sprintf("%s: line is %d characters, layout width is %d", e.Code, e.Got, e.Want)
}

func (e *WidthMismatchError) Unwrap() error {
	return ErrWidthMismatch
}

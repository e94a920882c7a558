// Package document composes rendered records into INI and BKMVDATA documents.
package document

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDocument is returned when a document lacks its header/trailer pair.
	ErrEmptyDocument = errors.New("empty document")

	// ErrRecordOrderViolation is returned when records are supplied out of structural order.
	ErrRecordOrderViolation = errors.New("record order violation")
)

// OrderError pinpoints the record that broke the ordering rules.
type OrderError struct {
	Index  int
	Code   string
	Reason string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("record %d (%s): %s", e.Index+1, e.Code, e.Reason)
}

func (e *OrderError) Unwrap() error {
	return ErrRecordOrderViolation
}

// RenderError wraps an assembler failure with the record's position.
type RenderError struct {
	Index int
	Cause error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index+1, e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

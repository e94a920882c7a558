package layout

import (
	"errors"
	"fmt"
)

// ErrUnknownRecordType is returned when a record code is outside the closed set.
var ErrUnknownRecordType = errors.New("unknown record type")

// UnknownRecordTypeError carries the rejected record code.
type UnknownRecordTypeError struct {
	Code string
}

func (e *UnknownRecordTypeError) Error() string {
	return fmt.Sprintf("unknown record type %q", e.Code)
}

func (e *UnknownRecordTypeError) Unwrap() error {
	return ErrUnknownRecordType
}

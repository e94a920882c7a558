// Package transcode renders logical documents into legacy single-byte Hebrew codepages.
package transcode

import (
	"errors"
	"fmt"
)

var (
	// ErrUnmappableCharacter is returned when a character has no byte in the target codepage.
	ErrUnmappableCharacter = errors.New("unmappable character")

	// ErrUnknownEncoding is returned for a codepage identifier outside the supported set.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// UnmappableCharacterError locates the first character the codepage cannot represent.
type UnmappableCharacterError struct {
	Encoding string
	Char     rune
	Line     int // 1-based record line
	Column   int // 1-based character position within the line
	Offset   int // 0-based character position within the document, terminators included
}

func (e *UnmappableCharacterError) Error() string {
	return fmt.Sprintf("%s cannot represent %q (%U) at line %d, column %d", e.Encoding, e.Char, e.Char, e.Line, e.Column)
}

func (e *UnmappableCharacterError) Unwrap() error {
	return ErrUnmappableCharacter
}

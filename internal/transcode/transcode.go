package transcode

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/jonathan/openformat/internal/document"
)

// LineTerminator ends every record, whatever the codepage or host platform.
const LineTerminator = "\r\n"

// Encoding is one supported single-byte codepage.
type Encoding struct {
	Name    string
	Aliases []string
	table   *charmap.Charmap
}

var encodings = []Encoding{
	{Name: "windows-1255", Aliases: []string{"win1255", "cp1255"}, table: charmap.Windows1255},
	{Name: "iso-8859-8", Aliases: []string{"iso88598", "iso-8859-8-i", "iso8859-8"}, table: charmap.ISO8859_8},
	{Name: "cp862", Aliases: []string{"ibm862", "dos-862"}, table: charmap.CodePage862},
}

// Lookup resolves a codepage identifier or alias, ignoring case.
func Lookup(id string) (Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	for _, e := range encodings {
		if e.Name == key {
			return e, nil
		}
		for _, a := range e.Aliases {
			if a == key {
				return e, nil
			}
		}
	}
	return Encoding{}, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownEncoding, id, strings.Join(Supported(), ", "))
}

// Supported lists the canonical codepage identifiers.
func Supported() []string {
	names := make([]string, len(encodings))
	for i, e := range encodings {
		names[i] = e.Name
	}
	return names
}

// EncodedArtifact is a document rendered into one codepage.
type EncodedArtifact struct {
	Name     string
	Kind     document.Kind
	Encoding string
	Data     []byte
	Records  int
}

// Transcode encodes every record of doc and terminates each with CR LF.
// It never substitutes: the first unmappable character fails the whole call.
func Transcode(doc document.LogicalDocument, encoding string) (EncodedArtifact, error) {
	enc, err := Lookup(encoding)
	if err != nil {
		return EncodedArtifact{}, err
	}

	size := 0
	for _, line := range doc.Lines {
		size += len(line) + len(LineTerminator)
	}
	buf := bytes.NewBuffer(make([]byte, 0, size))

	offset := 0
	for i, line := range doc.Lines {
		column := 0
		for _, r := range line {
			b, ok := enc.table.EncodeRune(r)
			if !ok {
				return EncodedArtifact{}, &UnmappableCharacterError{
					Encoding: enc.Name,
					Char:     r,
					Line:     i + 1,
					Column:   column + 1,
					Offset:   offset,
				}
			}
			buf.WriteByte(b)
			column++
			offset++
		}
		buf.WriteString(LineTerminator)
		offset += len(LineTerminator)
	}

	return EncodedArtifact{
		Name:     doc.Kind.FileName(),
		Kind:     doc.Kind,
		Encoding: enc.Name,
		Data:     buf.Bytes(),
		Records:  doc.RecordCount(),
	}, nil
}

// Decode converts codepage bytes back to UTF-8 text.
func Decode(data []byte, encoding string) (string, error) {
	enc, err := Lookup(encoding)
	if err != nil {
		return "", err
	}
	out, err := enc.table.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", enc.Name, err)
	}
	return string(out), nil
}

// Lines splits decoded text on the record terminator.
func Lines(text string) []string {
	text = strings.TrimSuffix(text, LineTerminator)
	if text == "" {
		return nil
	}
	return strings.Split(text, LineTerminator)
}

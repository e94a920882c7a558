// Package layout defines the fixed-width record layouts of the Open Format (version 1.31).
package layout

import (
	"fmt"
	"strings"
)

// SystemCode is the constant system identifier carried by A000, A100 and Z900.
const SystemCode = "&OF1.31&"

// CodeWidth is the width of the record type code that opens every line.
const CodeWidth = 4

// Well-known field names shared by several record types.
const (
	FieldRecordCode   = "record_code"
	FieldRecordNumber = "record_number"
	FieldTotalRecords = "total_records"
	FieldSystemCode   = "system_code"
	FieldCount        = "count"
)

// Record type codes in the closed set.
const (
	CodeA000 = "A000"
	CodeA100 = "A100"
	CodeB100 = "B100"
	CodeB110 = "B110"
	CodeC100 = "C100"
	CodeD110 = "D110"
	CodeD120 = "D120"
	CodeM100 = "M100"
	CodeZ900 = "Z900"
)

// Kind classifies how a field value is converted to text.
type Kind int

const (
	// Text is an alphanumeric field (X), left justified and space padded.
	Text Kind = iota
	// Numeric is an unsigned number (9), right justified and zero padded.
	Numeric
	// Amount is a signed implied-decimal number: a leading sign, then zero padded digits.
	Amount
	// Date is a YYYYMMDD numeric field.
	Date
	// Time is a hhmm numeric field.
	Time
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "X"
	case Numeric:
		return "9"
	case Amount:
		return "S9"
	case Date:
		return "DATE"
	case Time:
		return "TIME"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Justify is the side a value is aligned to inside its field.
type Justify int

const (
	Left Justify = iota
	Right
)

// FieldSpec describes one fixed-width field.
type FieldSpec struct {
	Name     string
	ID       int // field number in the authority's document
	Offset   int // 0-based start position, filled when the table is built
	Width    int
	Kind     Kind
	Justify  Justify
	Pad      rune
	Decimals int
	Default  string
}

// RecordType is the ordered field layout of one record type.
type RecordType struct {
	Code        string
	Description string
	Width       int
	Summary     bool
	Fields      []FieldSpec
}

// Field returns the named field.
func (rt RecordType) Field(name string) (FieldSpec, bool) {
	for _, f := range rt.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Has reports whether the record type declares the named field.
func (rt RecordType) Has(name string) bool {
	_, ok := rt.Field(name)
	return ok
}

// FieldWidthSum adds up the declared field widths.
func (rt RecordType) FieldWidthSum() int {
	total := 0
	for _, f := range rt.Fields {
		total += f.Width
	}
	return total
}

// Lookup returns the record type registered under code.
func Lookup(code string) (RecordType, error) {
	rt, ok := registry[code]
	if !ok {
		return RecordType{}, &UnknownRecordTypeError{Code: code}
	}
	return clone(rt), nil
}

// WidthsFor returns the ordered field specs of a record type.
func WidthsFor(code string) ([]FieldSpec, error) {
	rt, err := Lookup(code)
	if err != nil {
		return nil, err
	}
	return rt.Fields, nil
}

// Summary returns the INI summary layout (record 1050) counting records of code.
func Summary(code string) (RecordType, error) {
	if _, ok := registry[code]; !ok {
		return RecordType{}, &UnknownRecordTypeError{Code: code}
	}
	rt := clone(summaryTemplate)
	rt.Code = code
	rt.Description = "INI summary of " + code
	rt.Fields[0].Default = code
	return rt, nil
}

// Codes lists every record type code in canonical order.
func Codes() []string {
	out := make([]string, len(canonicalOrder))
	copy(out, canonicalOrder)
	return out
}

// Rank returns the canonical position of code, or -1 when unknown.
func Rank(code string) int {
	for i, c := range canonicalOrder {
		if c == code {
			return i
		}
	}
	return -1
}

// Validate checks every registered table against its documented width.
func Validate() error {
	var problems []string
	for _, code := range canonicalOrder {
		if err := check(registry[code]); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if err := check(summaryTemplate); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("layout defects: %s", strings.Join(problems, "; "))
	}
	return nil
}

func check(rt RecordType) error {
	if sum := rt.FieldWidthSum(); sum != rt.Width {
		return fmt.Errorf("%s: field widths sum to %d, documented width is %d", rt.Code, sum, rt.Width)
	}
	if len(rt.Fields) == 0 || rt.Fields[0].Name != FieldRecordCode || rt.Fields[0].Width != CodeWidth {
		return fmt.Errorf("%s: first field must be a %d-character %s", rt.Code, CodeWidth, FieldRecordCode)
	}
	seen := make(map[string]bool, len(rt.Fields))
	for _, f := range rt.Fields {
		if f.Width <= 0 {
			return fmt.Errorf("%s.%s: width must be positive", rt.Code, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("%s.%s: duplicate field name", rt.Code, f.Name)
		}
		seen[f.Name] = true
		if f.Kind == Amount && f.Width < 2 {
			return fmt.Errorf("%s.%s: amount fields need room for a sign", rt.Code, f.Name)
		}
	}
	return nil
}

func clone(rt RecordType) RecordType {
	fields := make([]FieldSpec, len(rt.Fields))
	copy(fields, rt.Fields)
	rt.Fields = fields
	return rt
}

// build fills offsets and the record code default, and panics on a malformed table.
func build(code, description string, width int, fields ...FieldSpec) RecordType {
	offset := 0
	for i := range fields {
		fields[i].Offset = offset
		offset += fields[i].Width
	}
	fields[0].Default = code
	rt := RecordType{Code: code, Description: description, Width: width, Fields: fields}
	if err := check(rt); err != nil {
		panic(err)
	}
	return rt
}

func text(id int, name string, width int) FieldSpec {
	return FieldSpec{Name: name, ID: id, Width: width, Kind: Text, Justify: Left, Pad: ' '}
}

func fixed(id int, name string, width int, value string) FieldSpec {
	f := text(id, name, width)
	f.Default = value
	return f
}

func num(id int, name string, width int) FieldSpec {
	return FieldSpec{Name: name, ID: id, Width: width, Kind: Numeric, Justify: Right, Pad: '0'}
}

func dec(id int, name string, width, decimals int) FieldSpec {
	f := num(id, name, width)
	f.Decimals = decimals
	return f
}

func amount(id int, name string, width, decimals int) FieldSpec {
	return FieldSpec{Name: name, ID: id, Width: width, Kind: Amount, Justify: Right, Pad: '0', Decimals: decimals}
}

func date(id int, name string) FieldSpec {
	return FieldSpec{Name: name, ID: id, Width: 8, Kind: Date, Justify: Right, Pad: '0'}
}

func clock(id int, name string) FieldSpec {
	return FieldSpec{Name: name, ID: id, Width: 4, Kind: Time, Justify: Right, Pad: '0'}
}

package record

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/openformat/internal/layout"
)

// Values maps field names to pre-formatting values (string, integer, float, bool or time.Time).
type Values map[string]any

// Record is a record type plus the values to render into it.
type Record struct {
	Type   layout.RecordType
	Values Values
}

// New builds a record of the given type code. The values map is copied.
func New(code string, values Values) (Record, error) {
	rt, err := layout.Lookup(code)
	if err != nil {
		return Record{}, err
	}
	return Record{Type: rt, Values: copyValues(values)}, nil
}

// NewSummary builds an INI summary line counting records of code.
func NewSummary(code string, count int) (Record, error) {
	rt, err := layout.Summary(code)
	if err != nil {
		return Record{}, err
	}
	return Record{Type: rt, Values: Values{layout.FieldCount: count}}, nil
}

// Code returns the record type code.
func (r Record) Code() string {
	return r.Type.Code
}

// Get returns the value supplied for a field.
func (r Record) Get(name string) (any, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// With returns a copy of the record with one value replaced.
func (r Record) With(name string, v any) Record {
	out := Record{Type: r.Type, Values: copyValues(r.Values)}
	out.Values[name] = v
	return out
}

// Render lays the record out as one fixed-width line.
func Render(r Record) (string, error) {
	rt := r.Type
	if err := checkNames(rt, r.Values); err != nil {
		return "", err
	}
	if v, ok := r.Values[layout.FieldRecordCode]; ok && v != rt.Code {
		return "", &InvalidValueError{Code: rt.Code, Field: layout.FieldRecordCode, Value: v, Reason: "record code is fixed by the record type"}
	}

	var sb strings.Builder
	sb.Grow(rt.Width)
	for _, f := range rt.Fields {
		v, ok := r.Values[f.Name]
		s, err := formatField(rt.Code, f, v, ok)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}

	line := sb.String()
	if n := utf8.RuneCountInString(line); n != rt.Width {
		return "", &WidthMismatchError{Code: rt.Code, Want: rt.Width, Got: n}
	}
	return line, nil
}

// RenderCode renders values into a record of the given type code.
func RenderCode(code string, values Values) (string, error) {
	r, err := New(code, values)
	if err != nil {
		return "", err
	}
	return Render(r)
}

// Split cuts a rendered line back into its fields, removing declared padding.
func Split(rt layout.RecordType, line string) (map[string]string, error) {
	runes := []rune(line)
	if len(runes) != rt.Width {
		return nil, &WidthMismatchError{Code: rt.Code, Want: rt.Width, Got: len(runes)}
	}
	out := make(map[string]string, len(rt.Fields))
	for _, f := range rt.Fields {
		raw := string(runes[f.Offset : f.Offset+f.Width])
		out[f.Name] = unpad(f, raw)
	}
	return out, nil
}

func unpad(f layout.FieldSpec, raw string) string {
	switch f.Kind {
	case layout.Amount:
		r := []rune(raw)
		sign, digits := string(r[:1]), strings.TrimLeft(string(r[1:]), "0")
		if digits == "" {
			digits = "0"
		}
		return sign + digits
	case layout.Text:
		if f.Justify == layout.Right {
			return strings.TrimLeft(raw, string(f.Pad))
		}
		return strings.TrimRight(raw, string(f.Pad))
	default:
		trimmed := strings.TrimLeft(raw, string(f.Pad))
		if trimmed == "" {
			return "0"
		}
		return trimmed
	}
}

func checkNames(rt layout.RecordType, values Values) error {
	var unknown []string
	for name := range values {
		if !rt.Has(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &UnknownFieldError{Code: rt.Code, Field: unknown[0]}
}

func copyValues(in Values) Values {
	out := make(Values, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

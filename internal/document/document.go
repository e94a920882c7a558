package document

import (
	"fmt"

	"github.com/jonathan/openformat/internal/layout"
	"github.com/jonathan/openformat/internal/record"
)

// Kind selects which of the two Open Format files a document is.
type Kind int

const (
	// KindINI is the header file, INI.TXT.
	KindINI Kind = iota
	// KindData is the data file, BKMVDATA.TXT.
	KindData
)

func (k Kind) String() string {
	return k.BaseName()
}

// Marker is the file-type letter: A for INI, B for BKMVDATA.
func (k Kind) Marker() string {
	if k == KindINI {
		return "A"
	}
	return "B"
}

// BaseName is the canonical file name without extension.
func (k Kind) BaseName() string {
	if k == KindINI {
		return "INI"
	}
	return "BKMVDATA"
}

// FileName is the canonical, encoding-agnostic file name.
func (k Kind) FileName() string {
	return k.BaseName() + ".TXT"
}

// Header is the record code that must open the document.
func (k Kind) Header() string {
	if k == KindINI {
		return layout.CodeA000
	}
	return layout.CodeA100
}

// Trailer is the record code that must close the document.
func (k Kind) Trailer() string {
	return layout.CodeZ900
}

// isHeader reports whether r is this kind's header record.
func (k Kind) isHeader(r record.Record) bool {
	return r.Code() == k.Header() && !r.Type.Summary
}

// isTrailer reports whether r closes this kind of document. The INI closes
// with the Z900 summary line, the data file with the Z900 record itself.
func (k Kind) isTrailer(r record.Record) bool {
	return r.Code() == k.Trailer() && r.Type.Summary == (k == KindINI)
}

func (k Kind) acceptsBody(r record.Record) bool {
	if k == KindINI {
		return r.Type.Summary
	}
	return !r.Type.Summary && r.Code() != layout.CodeA000
}

// LogicalDocument is an ordered list of rendered lines plus metadata.
type LogicalDocument struct {
	Kind  Kind
	Lines []string
	Codes []string
}

// RecordCount is the number of lines, header and trailer included.
func (d LogicalDocument) RecordCount() int {
	return len(d.Lines)
}

// Marker is the file-type letter of the document.
func (d LogicalDocument) Marker() string {
	return d.Kind.Marker()
}

// CountByCode tallies records per type code.
func (d LogicalDocument) CountByCode() map[string]int {
	counts := make(map[string]int)
	for _, c := range d.Codes {
		counts[c]++
	}
	return counts
}

// Compose validates record order, fills derived fields and renders every record.
//
// Exactly one header comes first and exactly one trailer comes last. The
// trailer's total_records is 1 (header) plus the number of body records, and
// every record_number is the record's 1-based position; both are overwritten
// whatever the caller supplied.
func Compose(kind Kind, records []record.Record) (LogicalDocument, error) {
	if err := checkOrder(kind, records); err != nil {
		return LogicalDocument{}, err
	}

	body := len(records) - 2
	doc := LogicalDocument{
		Kind:  kind,
		Lines: make([]string, 0, len(records)),
		Codes: make([]string, 0, len(records)),
	}
	for i, r := range records {
		if r.Type.Has(layout.FieldRecordNumber) {
			r = r.With(layout.FieldRecordNumber, i+1)
		}
		if i == len(records)-1 && r.Type.Has(layout.FieldTotalRecords) {
			r = r.With(layout.FieldTotalRecords, 1+body)
		}
		line, err := record.Render(r)
		if err != nil {
			return LogicalDocument{}, &RenderError{Index: i, Cause: err}
		}
		doc.Lines = append(doc.Lines, line)
		doc.Codes = append(doc.Codes, r.Code())
	}
	return doc, nil
}

func checkOrder(kind Kind, records []record.Record) error {
	var headers, trailers int
	for _, r := range records {
		if kind.isHeader(r) {
			headers++
		}
		if kind.isTrailer(r) {
			trailers++
		}
	}
	if headers == 0 || trailers == 0 {
		return fmt.Errorf("%w: %s needs a %s header and a %s trailer", ErrEmptyDocument, kind.FileName(), kind.Header(), kind.Trailer())
	}

	if !kind.isHeader(records[0]) {
		return &OrderError{Index: 0, Code: records[0].Code(), Reason: fmt.Sprintf("document must open with %s", kind.Header())}
	}
	trailerAt := -1
	for i, r := range records[1:] {
		i++
		switch {
		case trailerAt >= 0:
			return &OrderError{Index: i, Code: r.Code(), Reason: "record after the trailer"}
		case kind.isTrailer(r):
			trailerAt = i
		case kind.isHeader(r):
			return &OrderError{Index: i, Code: r.Code(), Reason: "second header record"}
		case !kind.acceptsBody(r):
			return &OrderError{Index: i, Code: r.Code(), Reason: fmt.Sprintf("record does not belong in %s", kind.FileName())}
		}
	}
	return nil
}

// ComposeINI builds the INI document describing data: the A000 header with
// the data file's total record count, then one summary line per record type
// present in data, in canonical order. The Z900 summary line closes it.
func ComposeINI(header record.Values, data LogicalDocument) (LogicalDocument, error) {
	if data.Kind != KindData {
		return LogicalDocument{}, fmt.Errorf("INI must describe a %s document, got %s", KindData, data.Kind)
	}

	a000, err := record.New(layout.CodeA000, header)
	if err != nil {
		return LogicalDocument{}, err
	}
	records := []record.Record{a000.With(layout.FieldTotalRecords, data.RecordCount())}

	counts := data.CountByCode()
	for _, code := range layout.Codes() {
		if code == layout.CodeA000 || counts[code] == 0 {
			continue
		}
		summary, err := record.NewSummary(code, counts[code])
		if err != nil {
			return LogicalDocument{}, err
		}
		records = append(records, summary)
	}
	return Compose(KindINI, records)
}

// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/openformat/internal/document"
	"github.com/jonathan/openformat/internal/layout"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n characters, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintLayout outputs the field table of a record type.
func (p *Printer) PrintLayout(rt layout.RecordType) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-4s %-23s %-4s %5s %9s\n", "ID", "Field", "Type", "Width", "Position"))
	for _, f := range rt.Fields {
		kind := f.Kind.String()
		if f.Decimals > 0 {
			kind = fmt.Sprintf("%s.%d", kind, f.Decimals)
		}
		pos := fmt.Sprintf("%d-%d", f.Offset+1, f.Offset+f.Width)
		sb.WriteString(fmt.Sprintf("%-4d %-23s %-4s %5d %9s\n", f.ID, f.Name, kind, f.Width, pos))
	}

	p.printBox(fmt.Sprintf("%s %s (%d)", rt.Code, strings.ToUpper(rt.Description), rt.Width), sb.String())
}

// PrintDocument outputs the record counts of a composed document.
func (p *Printer) PrintDocument(doc document.LogicalDocument) {
	counts := doc.CountByCode()
	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		return layout.Rank(codes[i]) < layout.Rank(codes[j])
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Records: %d\n\n", doc.RecordCount()))
	for _, code := range codes {
		sb.WriteString(fmt.Sprintf("  %s  %d\n", code, counts[code]))
	}

	p.printBox(fmt.Sprintf("%s (%s)", doc.Kind.FileName(), doc.Marker()), sb.String())
}

// PrintFields outputs the raw field values of one decoded record, in layout order.
// Blank fields are skipped.
func (p *Printer) PrintFields(rt layout.RecordType, values map[string]string) {
	var sb strings.Builder
	shown := 0
	for _, f := range rt.Fields {
		v := strings.TrimSpace(values[f.Name])
		if v == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-23s %s\n", f.Name, v))
		shown++
	}
	if shown == 0 {
		sb.WriteString("(all fields blank)\n")
	}

	p.printBox(fmt.Sprintf("%s %s", rt.Code, strings.ToUpper(rt.Description)), sb.String())
}

// PrintVariant outputs the outcome of one encoding variant.
func (p *Printer) PrintVariant(name, encoding string, records int, paths []string, err error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Encoding: %s\n", encoding))
	if err != nil {
		sb.WriteString("Status:   FAILED\n")
		sb.WriteString(fmt.Sprintf("Error:    %v\n", err))
		p.printBox(fmt.Sprintf("VARIANT %s", name), sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("Records:  %d\n", records))
	sb.WriteString("\nFiles:\n")
	count := min(len(paths), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", paths[i]))
	}
	if len(paths) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(paths)-maxItemsToShow))
	}

	p.printBox(fmt.Sprintf("VARIANT %s", name), sb.String())
}

// PrintSummary outputs the totals of a generator run.
func (p *Printer) PrintSummary(outputDir string, written, failed int) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Output:   %s\n", outputDir))
	sb.WriteString(fmt.Sprintf("Written:  %d\n", written))
	sb.WriteString(fmt.Sprintf("Failed:   %d\n", failed))

	title := "✅ ALL VARIANTS WRITTEN"
	if failed > 0 {
		title = fmt.Sprintf("⚠️ %d VARIANT(S) FAILED", failed)
	}
	p.printBox(title, sb.String())
}

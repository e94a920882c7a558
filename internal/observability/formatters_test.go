package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonathan/openformat/internal/document"
	"github.com/jonathan/openformat/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintLayout(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	rt, err := layout.Lookup(layout.CodeZ900)
	require.NoError(t, err)

	p.PrintLayout(rt)
	output := buf.String()

	assert.Contains(t, output, "Z900")
	assert.Contains(t, output, "(110)")
	assert.Contains(t, output, "total_records")
	assert.Contains(t, output, "1-4")
	assert.Contains(t, output, "61-110")
}

func TestPrintLayout_Decimals(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	rt, err := layout.Lookup(layout.CodeD110)
	require.NoError(t, err)

	p.PrintLayout(rt)

	assert.Contains(t, buf.String(), "S9.4")
}

func TestPrintDocument(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	doc := document.LogicalDocument{
		Kind:  document.KindData,
		Lines: []string{"a", "b", "c", "d"},
		Codes: []string{"A100", "M100", "C100", "Z900"},
	}

	p.PrintDocument(doc)
	output := buf.String()

	assert.Contains(t, output, "BKMVDATA.TXT (B)")
	assert.Contains(t, output, "Records: 4")
	assert.Less(t, strings.Index(output, "C100"), strings.Index(output, "M100"))
}

func TestPrintFields(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	rt, err := layout.Lookup(layout.CodeA100)
	require.NoError(t, err)

	p.PrintFields(rt, map[string]string{
		"record_code": "A100",
		"vat_number":  "000223344",
		"reserved":    "     ",
	})
	output := buf.String()

	assert.Contains(t, output, "vat_number")
	assert.Contains(t, output, "000223344")
	assert.NotContains(t, output, "reserved")
}

func TestPrintFields_AllBlank(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	rt, err := layout.Lookup(layout.CodeA100)
	require.NoError(t, err)

	p.PrintFields(rt, nil)

	assert.Contains(t, buf.String(), "all fields blank")
}

func TestPrintVariant(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintVariant("Win1255", "windows-1255", 6, []string{"out/INI_WIN1255.TXT", "out/BKMVDATA_WIN1255.TXT", "out/BKMVDATA_WIN1255.zip"}, nil)
	output := buf.String()

	assert.Contains(t, output, "VARIANT Win1255")
	assert.Contains(t, output, "windows-1255")
	assert.Contains(t, output, "BKMVDATA_WIN1255.zip")
	assert.NotContains(t, output, "FAILED")
}

func TestPrintVariant_Failed(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintVariant("CP862", "cp862", 0, nil, errors.New("unmappable character '₪'"))
	output := buf.String()

	assert.Contains(t, output, "FAILED")
	assert.Contains(t, output, "unmappable")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSummary("out", 3, 0)
	assert.Contains(t, buf.String(), "ALL VARIANTS WRITTEN")

	buf.Reset()
	p.PrintSummary("out", 2, 1)
	assert.Contains(t, buf.String(), "1 VARIANT(S) FAILED")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	long := strings.Repeat("ש", 100)
	p.printBox("TITLE", long)

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), "line %q", line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "אבג...", truncate("אבגדהוזח", 6))
}

package main

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/openformat/internal/layout"
	"github.com/jonathan/openformat/internal/observability"
	"github.com/jonathan/openformat/internal/packaging"
	"github.com/jonathan/openformat/internal/record"
	"github.com/jonathan/openformat/internal/transcode"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode a generated file back to UTF-8",
	Long: `Reads an INI or BKMVDATA file (or a BKMVDATA zip) in the given codepage and prints it as UTF-8.
With --fields every record is split into its named fields.`,
	RunE: runDecode,
}

var (
	decodeInput    string
	decodeEncoding string
	decodeOutput   string
	decodeFields   bool
)

func init() {
	decodeCmd.Flags().StringVarP(&decodeInput, "in", "i", "", "Path to the encoded file or zip archive (required)")
	decodeCmd.Flags().StringVarP(&decodeEncoding, "encoding", "e", "", "Codepage of the file: windows-1255, iso-8859-8 or cp862 (required)")
	decodeCmd.Flags().StringVarP(&decodeOutput, "out", "o", "", "Write UTF-8 text to this file instead of stdout")
	decodeCmd.Flags().BoolVar(&decodeFields, "fields", false, "Print each record's fields")

	if err := decodeCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := decodeCmd.MarkFlagRequired("encoding"); err != nil {
		panic(fmt.Sprintf("failed to mark encoding flag as required: %v", err))
	}

	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(decodeInput); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", decodeInput)
	}

	data, err := readEncoded(decodeInput)
	if err != nil {
		return err
	}

	text, err := transcode.Decode(data, decodeEncoding)
	if err != nil {
		return err
	}

	if decodeFields {
		return printFields(cmd.OutOrStdout(), text)
	}

	if decodeOutput != "" {
		dir, name := filepath.Split(decodeOutput)
		if dir == "" {
			dir = "."
		}
		if _, err := packaging.WriteArtifact(dir, name, []byte(text)); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Decoded %s -> %s\n", decodeInput, decodeOutput)
		return nil
	}

	_, err = io.WriteString(cmd.OutOrStdout(), text)
	return err
}

// readEncoded returns the raw bytes of path, unwrapping a single-entry zip archive.
func readEncoded(path string) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		return data, nil
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	if len(zr.File) != 1 {
		return nil, fmt.Errorf("archive %s has %d entries, expected 1", path, len(zr.File))
	}
	rc, err := zr.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open archive entry %s: %w", zr.File[0].Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive entry %s: %w", zr.File[0].Name, err)
	}
	return data, nil
}

// recordTypeFor picks the layout a decoded line was rendered with. INI summary
// lines share their code with full records and are told apart by width.
func recordTypeFor(line string) (layout.RecordType, error) {
	if utf8.RuneCountInString(line) < 4 {
		return layout.RecordType{}, fmt.Errorf("line too short for a record code: %q", line)
	}
	code := string([]rune(line)[:4])
	rt, err := layout.Lookup(code)
	if err != nil {
		return layout.RecordType{}, err
	}
	if summary, err := layout.Summary(code); err == nil && utf8.RuneCountInString(line) == summary.Width && rt.Width != summary.Width {
		return summary, nil
	}
	return rt, nil
}

func printFields(out io.Writer, text string) error {
	printer := observability.NewPrinter(out)
	for i, line := range transcode.Lines(text) {
		rt, err := recordTypeFor(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		values, err := record.Split(rt, line)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		printer.PrintFields(rt, values)
	}
	return nil
}

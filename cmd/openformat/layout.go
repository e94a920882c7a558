package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/openformat/internal/layout"
	"github.com/jonathan/openformat/internal/observability"
	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [CODE...]",
	Short: "Print the field layout of record types",
	Long:  "Prints field numbers, names, types, widths and positions for the given record codes (all codes when none are given).",
	RunE:  runLayout,
}

var (
	layoutJSON    bool
	layoutSummary bool
)

func init() {
	layoutCmd.Flags().BoolVar(&layoutJSON, "json", false, "Print the layouts as JSON")
	layoutCmd.Flags().BoolVar(&layoutSummary, "summary", false, "Print the INI summary line layout instead")

	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
	codes := args
	if len(codes) == 0 {
		codes = layout.Codes()
	}

	rts := make([]layout.RecordType, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		var (
			rt  layout.RecordType
			err error
		)
		if layoutSummary {
			rt, err = layout.Summary(code)
		} else {
			rt, err = layout.Lookup(code)
		}
		if err != nil {
			return err
		}
		rts = append(rts, rt)
	}

	if layoutJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(rts); err != nil {
			return fmt.Errorf("failed to encode layouts: %w", err)
		}
		return nil
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	for _, rt := range rts {
		printer.PrintLayout(rt)
	}
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/jonathan/openformat/internal/fixtures"
	"github.com/jonathan/openformat/internal/packaging"
	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the built-in sample fixture as JSON",
	Long:  "Prints the built-in sample fixture in the --input JSON format, as a starting point for custom fixtures.",
	RunE:  runSample,
}

var sampleOutput string

func init() {
	sampleCmd.Flags().StringVarP(&sampleOutput, "out", "o", "", "Write the JSON to this file instead of stdout")

	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, _ []string) error {
	content, err := json.MarshalIndent(fixtures.Sample(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sample: %w", err)
	}
	content = append(content, '\n')

	if sampleOutput == "" {
		_, err = cmd.OutOrStdout().Write(content)
		return err
	}

	dir, name := filepath.Split(sampleOutput)
	if dir == "" {
		dir = "."
	}
	if _, err := packaging.WriteArtifact(dir, name, content); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Sample fixture written to %s\n", sampleOutput)
	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/openformat/internal/config"
	"github.com/jonathan/openformat/internal/fixtures"
	"github.com/jonathan/openformat/internal/schemas"
	schemafiles "github.com/jonathan/openformat/schemas"
	"github.com/spf13/cobra"
)

var validateInputCmd = &cobra.Command{
	Use:   "validate-input",
	Short: "Validate a fixture or config JSON file",
	Long: `Checks a fixture JSON file against the fixture schema and field rules, then renders every record
to catch overflowing or malformed values. With --kind config a CLI config file is checked instead.`,
	RunE: runValidateInput,
}

var (
	validateInputPath   string
	validateInputKind   string
	validateInputSchema string
)

func init() {
	validateInputCmd.Flags().StringVarP(&validateInputPath, "in", "i", "", "Path to fixture JSON file (required)")
	validateInputCmd.Flags().StringVar(&validateInputKind, "kind", "fixture", "What the file holds: fixture or config")
	validateInputCmd.Flags().StringVar(&validateInputSchema, "schema", "", "Check against this JSON Schema file before the bundled rules")

	if err := validateInputCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateInputCmd)
}

func runValidateInput(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(validateInputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", validateInputPath)
	}

	switch validateInputKind {
	case "fixture":
	case "config":
		return validateConfigFile(cmd)
	default:
		return fmt.Errorf("--kind must be fixture or config, got %q", validateInputKind)
	}

	if validateInputSchema != "" {
		if err := validateAgainstSchemaFile(cmd); err != nil {
			return err
		}
	}

	in, err := fixtures.LoadInput(validateInputPath)
	if err != nil {
		printFieldErrors(cmd, err)
		return err
	}

	if err := fixtures.Check(in); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid (%d records)\n", validateInputPath, len(in.Records))
	return nil
}

func validateConfigFile(cmd *cobra.Command) error {
	if err := schemas.ValidateFile(schemafiles.Config, validateInputPath); err != nil {
		printFieldErrors(cmd, err)
		return err
	}
	cfg, err := config.LoadConfig(validateInputPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is a valid config (%d encodings)\n", validateInputPath, len(cfg.Encodings))
	return nil
}

func validateAgainstSchemaFile(cmd *cobra.Command) error {
	schemaPath := schemas.ResolveSchemaPath(validateInputSchema)
	if schemaPath == "" {
		return fmt.Errorf("schema file not found: %s", validateInputSchema)
	}
	if err := schemas.ValidateJSON(schemaPath, validateInputPath); err != nil {
		printFieldErrors(cmd, err)
		return err
	}
	return nil
}

// printFieldErrors lists schema violations one per line on stderr.
func printFieldErrors(cmd *cobra.Command, err error) {
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		for _, fe := range validationErr.Errors {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  • %s: %s\n", fe.Field, fe.Message)
		}
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/jonathan/openformat/internal/config"
	"github.com/jonathan/openformat/internal/pipeline"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate INI and BKMVDATA fixtures in every configured encoding",
	Long: `Builds the fixture (built-in sample, --input JSON file, or POS sales from the database),
composes INI.TXT and BKMVDATA.TXT once, then writes INI_<E>.TXT, BKMVDATA_<E>.TXT and
BKMVDATA_<E>.zip for every encoding variant E.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runGenerate,
}

var (
	generateConfigPath  string
	generateOutput      string
	generateEncodings   string
	generateInput       string
	generateFrom        string
	generateTo          string
	generateAt          string
	generateFlat        bool
	generateParallel    bool
	generateVerbose     bool
	generateDatabaseURL string
)

func init() {
	// Config file flag (processed first)
	generateCmd.Flags().StringVar(&generateConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	generateCmd.Flags().StringVarP(&generateOutput, "out", "o", "", "Output root directory (default \"openformat_out\")")
	generateCmd.Flags().StringVarP(&generateEncodings, "encodings", "e", "", "Encoding variants as Name=codepage pairs, e.g. Win1255=windows-1255,CP862=cp862")
	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "", "Fixture JSON file (defaults to the built-in sample)")
	generateCmd.Flags().StringVar(&generateFrom, "from", "", "Load POS sales from this day on (YYYYMMDD, requires a database)")
	generateCmd.Flags().StringVar(&generateTo, "to", "", "Load POS sales up to this day, inclusive (YYYYMMDD)")
	generateCmd.Flags().StringVar(&generateAt, "at", "", "Process timestamp as YYYYMMDDhhmm (defaults to now)")
	generateCmd.Flags().BoolVar(&generateFlat, "flat", false, "Write directly into --out instead of OPENFRMT/<vat>.<yy>/<MMDDhhmm>")
	generateCmd.Flags().BoolVar(&generateParallel, "parallel", false, "Encode variants concurrently")
	generateCmd.Flags().BoolVarP(&generateVerbose, "verbose", "v", false, "Print detailed debug information")

	// Database URL for the sales source and run bookkeeping
	generateCmd.Flags().StringVar(&generateDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Step 1: Load config file, environment and defaults
	cfg, err := config.Load(generateConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if generateVerbose && generateConfigPath != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", generateConfigPath)
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = generateOutput
	}
	if cmd.Flags().Changed("encodings") {
		variants, err := config.ParseEncodings(generateEncodings)
		if err != nil {
			return fmt.Errorf("invalid --encodings: %w", err)
		}
		cfg.Encodings = variants
	}
	if cmd.Flags().Changed("input") {
		cfg.Input = generateInput
	}
	if cmd.Flags().Changed("from") {
		cfg.SalesFrom = generateFrom
	}
	if cmd.Flags().Changed("to") {
		cfg.SalesTo = generateTo
	}
	if cmd.Flags().Changed("flat") {
		cfg.Flat = generateFlat
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Parallel = generateParallel
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = generateVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = generateDatabaseURL
	}

	// Step 3: Validate the merged configuration
	if err := cfg.Validate(); err != nil {
		return err
	}

	at, err := parseAt(generateAt)
	if err != nil {
		return err
	}

	opts, err := runOptions(cfg, at)
	if err != nil {
		return err
	}
	opts.Out = cmd.OutOrStdout()

	report, err := pipeline.RunPipeline(ctx, opts)
	if err != nil {
		return err
	}
	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d encoding variants failed", failed, len(report.Variants))
	}
	return nil
}

// runOptions maps a validated configuration onto pipeline options.
func runOptions(cfg *config.Config, at time.Time) (pipeline.RunOptions, error) {
	opts := pipeline.RunOptions{
		InputPath:   cfg.Input,
		OutputDir:   cfg.OutputDir,
		Flat:        cfg.Flat,
		Variants:    cfg.Encodings,
		Parallel:    cfg.Parallel,
		Verbose:     cfg.Verbose,
		DatabaseURL: cfg.DatabaseURL,
		At:          at,
	}
	if cfg.UsesDatabaseSource() {
		from, to, err := cfg.SalesRange()
		if err != nil {
			return pipeline.RunOptions{}, err
		}
		opts.SalesFrom, opts.SalesTo = from, to
	}
	return opts, nil
}

// parseAt reads the --at flag; empty means the current time.
func parseAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("200601021504", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at must be YYYYMMDDhhmm: %w", err)
	}
	return t, nil
}

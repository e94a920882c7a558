// Package pipeline provides the high-level orchestration for fixture generation:
// load a fixture, compose both documents once, then encode and package them
// for every configured variant.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/openformat/internal/db"
	"github.com/jonathan/openformat/internal/document"
	"github.com/jonathan/openformat/internal/fixtures"
	"github.com/jonathan/openformat/internal/observability"
	"github.com/jonathan/openformat/internal/packaging"
	"github.com/jonathan/openformat/internal/pipeline/steps"
	"github.com/jonathan/openformat/internal/transcode"
	"github.com/jonathan/openformat/internal/types"
)

// ErrNoVariants is returned when a run is started without any encoding variant.
var ErrNoVariants = errors.New("no encoding variants configured")

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	// Fixture source. InputPath wins over Input; with neither the built-in
	// sample is used. A sales range replaces the fixture's records with the
	// POS sales loaded from the database.
	InputPath string
	Input     *types.FixtureInput
	SalesFrom time.Time
	SalesTo   time.Time

	OutputDir string
	Flat      bool
	Variants  []types.Variant
	Parallel  bool
	Verbose   bool

	DatabaseURL string
	OnProgress  ProgressCallback

	// At stamps the A000 process date and the output sub-path; zero means now.
	At time.Time
	// Out receives step lines and warnings; nil means stdout.
	Out io.Writer
}

// VariantResult is the outcome of one encoding variant.
type VariantResult struct {
	Name     string
	Encoding string
	Records  int
	Set      packaging.PackagedSet
	Err      error
}

// Report summarizes a completed run.
type Report struct {
	RunID       uuid.UUID
	PrimaryID   string
	OutputDir   string
	INIRecords  int
	DataRecords int
	Variants    []VariantResult
}

// Failed returns the number of variants that could not be written.
func (r *Report) Failed() int {
	n := 0
	for _, v := range r.Variants {
		if v.Err != nil {
			n++
		}
	}
	return n
}

// Written returns the number of variants whose files are on disk.
func (r *Report) Written() int {
	return len(r.Variants) - r.Failed()
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, category, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			Content:  content,
		})
	}
}

// RunPipeline generates every configured variant of one fixture.
//
// Composition errors are shared by all variants and abort the run. Failures
// inside a single variant (an unmappable character, a filesystem error) are
// recorded in its VariantResult and the remaining variants still run.
func RunPipeline(ctx context.Context, opts RunOptions) (*Report, error) {
	if len(opts.Variants) == 0 {
		return nil, ErrNoVariants
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	at := opts.At
	if at.IsZero() {
		at = time.Now()
	}

	// Initialize observability printer for verbose output
	printer := observability.NewPrinter(out)
	tracker := steps.NewTracker()

	// Initialize database connection if configured
	var database *db.DB
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			if useSales(opts) {
				return nil, fmt.Errorf("sales source unavailable: %w", err)
			}
			fmt.Fprintf(out, "Warning: Failed to connect to database: %v\n", err)
			fmt.Fprintf(out, "Continuing without database persistence...\n")
		} else {
			defer database.Close()
			if opts.Verbose {
				fmt.Fprintf(out, "[VERBOSE] Connected to database\n")
			}
		}
	} else if useSales(opts) {
		return nil, fmt.Errorf("sales source requires a database URL")
	}

	// Step 1: Load fixture
	label, err := tracker.Begin(steps.StepLoadFixture)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "%s...\n", label)
	fixture, source, err := loadFixture(ctx, &opts, database, at, out)
	if err != nil {
		return nil, err
	}
	tracker.Complete(steps.StepLoadFixture)
	emitProgress(&opts, steps.StepLoadFixture, steps.CategoryInput, fmt.Sprintf("Loaded %s fixture", source), fixture.PrimaryID)

	outputDir := opts.OutputDir
	if !opts.Flat {
		outputDir = fixtures.OutputDir(opts.OutputDir, fixture.VATNumber, at)
	}

	var runID uuid.UUID
	if database != nil {
		runID, err = database.CreateRun(ctx, db.RunInput{
			VATNumber: fixture.VATNumber,
			PrimaryID: fixture.PrimaryID,
			Source:    source,
			OutputDir: outputDir,
		})
		if err != nil {
			fmt.Fprintf(out, "Warning: Failed to create database run: %v\n", err)
			runID = uuid.Nil
		} else if opts.Verbose {
			fmt.Fprintf(out, "[VERBOSE] Created run %s\n", runID)
		}
	}
	finish := func(status string) {
		if database != nil && runID != uuid.Nil {
			if err := database.CompleteRun(ctx, runID, status); err != nil {
				fmt.Fprintf(out, "Warning: Failed to complete database run: %v\n", err)
			}
		}
	}

	// Step 2: Compose the data file
	if label, err = tracker.Begin(steps.StepComposeData); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "%s...\n", label)
	data, err := document.Compose(document.KindData, fixture.Records)
	if err != nil {
		finish(db.RunStatusFailed)
		return nil, fmt.Errorf("composing %s failed: %w", document.KindData.FileName(), err)
	}
	tracker.Complete(steps.StepComposeData)
	emitProgress(&opts, steps.StepComposeData, steps.CategoryCompose, fmt.Sprintf("Composed %d records", data.RecordCount()), nil)
	if opts.Verbose {
		printer.PrintDocument(data)
	}

	// Step 3: Compose the INI file describing it
	if label, err = tracker.Begin(steps.StepComposeINI); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "%s...\n", label)
	ini, err := document.ComposeINI(fixture.Header, data)
	if err != nil {
		finish(db.RunStatusFailed)
		return nil, fmt.Errorf("composing %s failed: %w", document.KindINI.FileName(), err)
	}
	tracker.Complete(steps.StepComposeINI)
	emitProgress(&opts, steps.StepComposeINI, steps.CategoryCompose, fmt.Sprintf("Composed %d records", ini.RecordCount()), nil)
	if opts.Verbose {
		printer.PrintDocument(ini)
	}

	// Step 4: Encode and package every variant
	if label, err = tracker.Begin(steps.StepWriteVariants); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "%s (%d)...\n", label, len(opts.Variants))

	results := make([]VariantResult, len(opts.Variants))
	if opts.Parallel {
		g, gCtx := errgroup.WithContext(ctx)
		var mu sync.Mutex // Serializes printing and progress callbacks

		for i, v := range opts.Variants {
			i, v := i, v
			g.Go(func() error {
				if err := gCtx.Err(); err != nil {
					return err
				}
				res := writeVariant(outputDir, v, ini, data)
				results[i] = res

				mu.Lock()
				defer mu.Unlock()
				reportVariant(&opts, printer, out, res)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			finish(db.RunStatusFailed)
			return nil, err
		}
	} else {
		for i, v := range opts.Variants {
			if err := ctx.Err(); err != nil {
				finish(db.RunStatusFailed)
				return nil, err
			}
			results[i] = writeVariant(outputDir, v, ini, data)
			reportVariant(&opts, printer, out, results[i])
		}
	}
	tracker.Complete(steps.StepWriteVariants)

	report := &Report{
		RunID:       runID,
		PrimaryID:   fixture.PrimaryID,
		OutputDir:   outputDir,
		INIRecords:  ini.RecordCount(),
		DataRecords: data.RecordCount(),
		Variants:    results,
	}

	if database != nil && runID != uuid.Nil {
		for _, res := range results {
			if err := database.SaveVariant(ctx, runID, variantOutput(res)); err != nil {
				fmt.Fprintf(out, "Warning: Failed to save variant %s: %v\n", res.Name, err)
			}
		}
	}
	finish(db.RunStatusFor(len(results), report.Failed()))

	printer.PrintSummary(outputDir, report.Written(), report.Failed())
	return report, nil
}

// useSales reports whether the run reads its records from the sales tables.
func useSales(opts RunOptions) bool {
	return !opts.SalesFrom.IsZero() || !opts.SalesTo.IsZero()
}

// loadFixture resolves the configured source into a built Fixture and names the source.
func loadFixture(ctx context.Context, opts *RunOptions, database *db.DB, at time.Time, out io.Writer) (fixtures.Fixture, string, error) {
	var in types.FixtureInput
	source := db.SourceSample
	switch {
	case opts.InputPath != "":
		loaded, err := fixtures.LoadInput(opts.InputPath)
		if err != nil {
			return fixtures.Fixture{}, "", fmt.Errorf("loading fixture input failed: %w", err)
		}
		in = loaded
		source = db.SourceInput
	case opts.Input != nil:
		in = *opts.Input
		source = db.SourceInput
	default:
		in = fixtures.Sample()
	}

	if useSales(*opts) {
		from, to := opts.SalesFrom, opts.SalesTo
		if from.IsZero() {
			from = to
		}
		if to.IsZero() {
			to = from
		}
		sales, err := database.LoadSales(ctx, from, to)
		if err != nil {
			return fixtures.Fixture{}, "", fmt.Errorf("loading sales failed: %w", err)
		}
		if len(sales) == 0 {
			fmt.Fprintf(out, "Warning: No completed sales between %s and %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
		}
		in.Records = fixtures.FromSales(sales)
		source = db.SourceDatabase
		if opts.Verbose {
			fmt.Fprintf(out, "[VERBOSE] Loaded %d sales (%d records)\n", len(sales), len(in.Records))
		}
	}

	fixture, err := fixtures.Build(in, at)
	if err != nil {
		return fixtures.Fixture{}, "", err
	}
	return fixture, source, nil
}

// writeVariant transcodes both documents into one encoding and writes the file set.
func writeVariant(dir string, v types.Variant, ini, data document.LogicalDocument) VariantResult {
	res := VariantResult{Name: v.Name, Encoding: v.Codepage}

	encINI, err := transcode.Transcode(ini, v.Codepage)
	if err != nil {
		res.Err = fmt.Errorf("encoding %s: %w", document.KindINI.FileName(), err)
		return res
	}
	encData, err := transcode.Transcode(data, v.Codepage)
	if err != nil {
		res.Err = fmt.Errorf("encoding %s: %w", document.KindData.FileName(), err)
		return res
	}
	res.Encoding = encData.Encoding
	res.Records = encData.Records

	set, err := packaging.Package(dir, v.Name, encINI, encData)
	if err != nil {
		res.Err = err
		return res
	}
	res.Set = set
	return res
}

func reportVariant(opts *RunOptions, printer *observability.Printer, out io.Writer, res VariantResult) {
	if res.Err != nil {
		fmt.Fprintf(out, "  ✗ %s (%s): %v\n", res.Name, res.Encoding, res.Err)
		emitProgress(opts, steps.StepWriteVariants, steps.CategoryOutput, fmt.Sprintf("Variant %s failed", res.Name), res.Err.Error())
	} else {
		fmt.Fprintf(out, "  ✓ %s (%s)\n", res.Name, res.Encoding)
		emitProgress(opts, steps.StepWriteVariants, steps.CategoryOutput, fmt.Sprintf("Variant %s written", res.Name), res.Set.Paths())
	}
	if opts.Verbose {
		printer.PrintVariant(res.Name, res.Encoding, res.Records, res.Set.Paths(), res.Err)
	}
}

// variantOutput converts a result into its bookkeeping row.
func variantOutput(res VariantResult) db.VariantOutput {
	v := db.VariantOutput{
		Name:     res.Name,
		Encoding: res.Encoding,
		Status:   db.VariantStatusWritten,
		Records:  res.Records,
	}
	if res.Err != nil {
		msg := res.Err.Error()
		v.Status = db.VariantStatusFailed
		v.ErrorMessage = &msg
		return v
	}
	v.INIPath = &res.Set.INIPath
	v.DataPath = &res.Set.DataPath
	v.ArchivePath = &res.Set.ArchivePath
	return v
}

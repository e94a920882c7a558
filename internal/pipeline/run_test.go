package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/openformat/internal/db"
	"github.com/jonathan/openformat/internal/fixtures"
	"github.com/jonathan/openformat/internal/packaging"
	"github.com/jonathan/openformat/internal/pipeline/steps"
	"github.com/jonathan/openformat/internal/transcode"
	"github.com/jonathan/openformat/internal/types"
)

var runTime = time.Date(2025, 9, 11, 10, 25, 0, 0, time.UTC)

func sampleInput() *types.FixtureInput {
	in := fixtures.Sample()
	in.PrimaryID = "000000000000042"
	return &in
}

func TestRunPipeline_DefaultVariants(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer

	report, err := RunPipeline(context.Background(), RunOptions{
		Input:     sampleInput(),
		OutputDir: dir,
		Flat:      true,
		Variants:  types.DefaultVariants(),
		At:        runTime,
		Out:       &buf,
	})
	require.NoError(t, err)

	assert.Equal(t, dir, report.OutputDir)
	assert.Equal(t, "000000000000042", report.PrimaryID)
	assert.Equal(t, 6, report.DataRecords)
	assert.Equal(t, 7, report.INIRecords)
	assert.Equal(t, 0, report.Failed())
	assert.Equal(t, 3, report.Written())

	require.Len(t, report.Variants, 3)
	assert.Equal(t, "Win1255", report.Variants[0].Name)
	assert.Equal(t, "ISO8859-8", report.Variants[1].Name)
	assert.Equal(t, "CP862", report.Variants[2].Name)

	for _, v := range report.Variants {
		for _, p := range v.Set.Paths() {
			_, err := os.Stat(p)
			assert.NoError(t, err, "missing %s", p)
		}
	}

	output := buf.String()
	assert.Contains(t, output, "Step 1/4")
	assert.Contains(t, output, "Step 4/4")
	assert.Contains(t, output, "ALL VARIANTS WRITTEN")
}

func TestRunPipeline_FileContents(t *testing.T) {
	dir := t.TempDir()

	report, err := RunPipeline(context.Background(), RunOptions{
		Input:     sampleInput(),
		OutputDir: dir,
		Flat:      true,
		Variants:  []types.Variant{{Name: "Win1255", Codepage: "windows-1255"}},
		At:        runTime,
		Out:       io.Discard,
	})
	require.NoError(t, err)
	set := report.Variants[0].Set

	data, err := os.ReadFile(set.DataPath)
	require.NoError(t, err)
	assert.Equal(t, "A100", string(data[:4]))
	assert.Equal(t, 6, bytes.Count(data, []byte("\r\n")))

	text, err := transcode.Decode(data, "windows-1255")
	require.NoError(t, err)
	lines := transcode.Lines(text)
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[5], "Z900"))
	// total_records = A100 + four body records
	assert.Equal(t, "000000000000005", lines[5][45:60])
	assert.Contains(t, text, "המבורגר")

	ini, err := os.ReadFile(set.INIPath)
	require.NoError(t, err)
	assert.Equal(t, "A000", string(ini[:4]))
	assert.Equal(t, "000000000000006", string(ini[9:24]))

	zr, err := zip.OpenReader(set.ArchivePath)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)
	assert.Equal(t, "BKMVDATA.TXT", zr.File[0].Name)
}

func TestRunPipeline_NestedOutputPath(t *testing.T) {
	dir := t.TempDir()

	report, err := RunPipeline(context.Background(), RunOptions{
		Input:     sampleInput(),
		OutputDir: dir,
		Variants:  []types.Variant{{Name: "CP862", Codepage: "cp862"}},
		At:        runTime,
		Out:       io.Discard,
	})
	require.NoError(t, err)

	want := filepath.Join(dir, "OPENFRMT", "00223344.25", "09111025")
	assert.Equal(t, want, report.OutputDir)
	assert.Equal(t, filepath.Join(want, "BKMVDATA_CP862.zip"), report.Variants[0].Set.ArchivePath)
}

func TestRunPipeline_UnmappableVariantDoesNotStopOthers(t *testing.T) {
	in := sampleInput()
	// ₪ exists in Windows-1255 only
	in.Business.Name = "חנות ₪"
	dir := t.TempDir()
	var buf bytes.Buffer

	report, err := RunPipeline(context.Background(), RunOptions{
		Input:     in,
		OutputDir: dir,
		Flat:      true,
		Variants:  types.DefaultVariants(),
		At:        runTime,
		Out:       &buf,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Failed())
	assert.NoError(t, report.Variants[0].Err)
	assert.ErrorIs(t, report.Variants[1].Err, transcode.ErrUnmappableCharacter)
	assert.ErrorIs(t, report.Variants[2].Err, transcode.ErrUnmappableCharacter)

	_, err = os.Stat(filepath.Join(dir, "INI_ISO8859-8.TXT"))
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, buf.String(), "2 VARIANT(S) FAILED")
}

func TestRunPipeline_Parallel(t *testing.T) {
	dir := t.TempDir()
	var mu sync.Mutex
	var events []ProgressEvent

	report, err := RunPipeline(context.Background(), RunOptions{
		Input:     sampleInput(),
		OutputDir: dir,
		Flat:      true,
		Variants:  types.DefaultVariants(),
		Parallel:  true,
		Verbose:   true,
		At:        runTime,
		Out:       io.Discard,
		OnProgress: func(e ProgressEvent) {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
		},
	})
	require.NoError(t, err)

	// Results keep declared order regardless of completion order
	names := []string{report.Variants[0].Name, report.Variants[1].Name, report.Variants[2].Name}
	assert.Equal(t, []string{"Win1255", "ISO8859-8", "CP862"}, names)

	variantEvents := 0
	for _, e := range events {
		if e.Step == steps.StepWriteVariants {
			variantEvents++
		}
	}
	assert.Equal(t, 3, variantEvents)
	assert.Equal(t, steps.StepLoadFixture, events[0].Step)
}

func TestRunPipeline_ParallelMatchesSequential(t *testing.T) {
	seqDir, parDir := t.TempDir(), t.TempDir()
	base := RunOptions{
		Input:    sampleInput(),
		Flat:     true,
		Variants: types.DefaultVariants(),
		At:       runTime,
		Out:      io.Discard,
	}

	seq := base
	seq.OutputDir = seqDir
	_, err := RunPipeline(context.Background(), seq)
	require.NoError(t, err)

	par := base
	par.OutputDir = parDir
	par.Parallel = true
	_, err = RunPipeline(context.Background(), par)
	require.NoError(t, err)

	for _, v := range types.DefaultVariants() {
		ini, data, archive := packaging.FileNames(v.Name)
		for _, name := range []string{ini, data, archive} {
			a, err := os.ReadFile(filepath.Join(seqDir, name))
			require.NoError(t, err)
			b, err := os.ReadFile(filepath.Join(parDir, name))
			require.NoError(t, err)
			assert.Equal(t, a, b, "%s differs", name)
		}
	}
}

func TestRunPipeline_InputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"business": {"vat_number": "512345678", "name": "Input Store"},
		"software": {"name": "MyPOS", "version": "1.0"},
		"records": [{"code": "M100", "values": {"name": "Widget", "opening_stock": 3}}]
	}`), 0644))

	report, err := RunPipeline(context.Background(), RunOptions{
		InputPath: path,
		OutputDir: t.TempDir(),
		Flat:      true,
		Variants:  []types.Variant{{Name: "Win1255", Codepage: "windows-1255"}},
		At:        runTime,
		Out:       io.Discard,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, report.DataRecords)
}

func TestRunPipeline_CompositionErrorAborts(t *testing.T) {
	in := sampleInput()
	in.Records = append(in.Records, types.RecordInput{
		Code:   "M100",
		Values: map[string]any{"name": strings.Repeat("x", 51)},
	})
	dir := t.TempDir()

	report, err := RunPipeline(context.Background(), RunOptions{
		Input:     in,
		OutputDir: dir,
		Flat:      true,
		Variants:  types.DefaultVariants(),
		At:        runTime,
		Out:       io.Discard,
	})
	require.Error(t, err)
	assert.Nil(t, report)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no variant is written when composition fails")
}

func TestRunPipeline_NoVariants(t *testing.T) {
	_, err := RunPipeline(context.Background(), RunOptions{Input: sampleInput(), Out: io.Discard})
	assert.ErrorIs(t, err, ErrNoVariants)
}

func TestRunPipeline_UnknownEncoding(t *testing.T) {
	report, err := RunPipeline(context.Background(), RunOptions{
		Input:     sampleInput(),
		OutputDir: t.TempDir(),
		Flat:      true,
		Variants:  []types.Variant{{Name: "EBCDIC", Codepage: "cp037"}},
		At:        runTime,
		Out:       io.Discard,
	})
	require.NoError(t, err)
	assert.ErrorIs(t, report.Variants[0].Err, transcode.ErrUnknownEncoding)
}

func TestRunPipeline_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunPipeline(ctx, RunOptions{
		Input:     sampleInput(),
		OutputDir: t.TempDir(),
		Flat:      true,
		Variants:  types.DefaultVariants(),
		At:        runTime,
		Out:       io.Discard,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunPipeline_SalesWithoutDatabase(t *testing.T) {
	_, err := RunPipeline(context.Background(), RunOptions{
		SalesFrom: runTime,
		OutputDir: t.TempDir(),
		Variants:  types.DefaultVariants(),
		Out:       io.Discard,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL")
}

func TestReport_Counts(t *testing.T) {
	r := &Report{Variants: []VariantResult{{Name: "a"}, {Name: "b", Err: errors.New("x")}}}
	assert.Equal(t, 1, r.Failed())
	assert.Equal(t, 1, r.Written())
}

func TestVariantOutput(t *testing.T) {
	ok := variantOutput(VariantResult{
		Name: "Win1255", Encoding: "windows-1255", Records: 6,
		Set: packaging.PackagedSet{INIPath: "i", DataPath: "d", ArchivePath: "a"},
	})
	assert.Equal(t, db.VariantStatusWritten, ok.Status)
	require.NotNil(t, ok.ArchivePath)
	assert.Equal(t, "a", *ok.ArchivePath)
	assert.Nil(t, ok.ErrorMessage)

	failed := variantOutput(VariantResult{Name: "CP862", Err: errors.New("boom")})
	assert.Equal(t, db.VariantStatusFailed, failed.Status)
	require.NotNil(t, failed.ErrorMessage)
	assert.Equal(t, "boom", *failed.ErrorMessage)
	assert.Nil(t, failed.INIPath)
}

package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/openformat/internal/layout"
)

func TestRecordTypeFor(t *testing.T) {
	full, err := layout.Lookup("C100")
	require.NoError(t, err)
	summary, err := layout.Summary("C100")
	require.NoError(t, err)

	rt, err := recordTypeFor("C100" + strings.Repeat(" ", full.Width-4))
	require.NoError(t, err)
	assert.Equal(t, full.Width, rt.Width)

	rt, err = recordTypeFor("C100" + strings.Repeat("0", summary.Width-4))
	require.NoError(t, err)
	assert.Equal(t, summary.Width, rt.Width)

	_, err = recordTypeFor("C1")
	assert.Error(t, err)

	_, err = recordTypeFor("X999 ")
	assert.Error(t, err)
}

func TestLayoutCommand_JSON(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "layout", "--json", "z900")
	output, err := cmd.Output()
	require.NoError(t, err)

	var rts []layout.RecordType
	require.NoError(t, json.Unmarshal(output, &rts))
	require.Len(t, rts, 1)
	assert.Equal(t, "Z900", rts[0].Code)
}

func TestLayoutCommand_UnknownCode(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "layout", "Q123")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err, "command should fail")
	assert.Contains(t, string(output), "Q123")
}

func TestSampleCommand_RoundTrip(t *testing.T) {
	binaryPath := getBinaryPath(t)
	samplePath := filepath.Join(t.TempDir(), "sample.json")

	cmd := exec.Command(binaryPath, "sample", "--out", samplePath)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))
	assert.FileExists(t, samplePath)

	cmd = exec.Command(binaryPath, "validate-input", "--in", samplePath)
	output, err = cmd.CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "is valid")
}

func TestValidateInputCommand_Overflow(t *testing.T) {
	binaryPath := getBinaryPath(t)
	path := filepath.Join(t.TempDir(), "overflow.json")

	content := `{
  "business": {"vat_number": "00223344", "name": "Overflow Ltd"},
  "software": {"name": "FixtureGen", "version": "1.0"},
  "period": {"start": "20250101", "end": "20251231"},
  "records": [{"code": "D110", "values": {"description": "` + strings.Repeat("x", 31) + `"}}]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cmd := exec.Command(binaryPath, "validate-input", "--in", path)
	output, err := cmd.CombinedOutput()

	assert.Error(t, err, "command should fail")
	assert.Contains(t, string(output), "D110")
}

func TestValidateInputCommand_Config(t *testing.T) {
	binaryPath := getBinaryPath(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"output_dir": "out", "parallel": true}`), 0o644))

	cmd := exec.Command(binaryPath, "validate-input", "--kind", "config", "--in", path)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "valid config")
}

func TestValidateInputCommand_MissingFlag(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "validate-input")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err, "command should fail")
	assert.Contains(t, string(output), "required", "should indicate flag is required")
}

func TestDecodeCommand_Fields(t *testing.T) {
	binaryPath := getBinaryPath(t)
	outDir := t.TempDir()

	gen := exec.Command(binaryPath, "generate", "--out", outDir, "--flat", "--encodings", "CP862=cp862")
	gen.Env = append(os.Environ(), "DATABASE_URL=")
	output, err := gen.CombinedOutput()
	require.NoError(t, err, string(output))

	cmd := exec.Command(binaryPath, "decode", "--in", filepath.Join(outDir, "BKMVDATA_CP862.zip"), "--encoding", "cp862", "--fields")
	output, err = cmd.CombinedOutput()
	require.NoError(t, err, string(output))
	assert.Contains(t, string(output), "Z900")

	decoded := filepath.Join(outDir, "ini.utf8.txt")
	cmd = exec.Command(binaryPath, "decode", "--in", filepath.Join(outDir, "INI_CP862.TXT"), "--encoding", "cp862", "--out", decoded)
	output, err = cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	text, err := os.ReadFile(decoded)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(text), "A000"))
	assert.Contains(t, string(text), "\r\n")
}

func TestValidateInputCommand_ExternalSchema(t *testing.T) {
	binaryPath := getBinaryPath(t)
	dir := t.TempDir()
	samplePath := filepath.Join(dir, "sample.json")
	schemaPath := filepath.Join(dir, "strict.schema.json")

	require.NoError(t, exec.Command(binaryPath, "sample", "--out", samplePath).Run())
	strict := `{"type": "object", "required": ["primary_id"]}`
	require.NoError(t, os.WriteFile(schemaPath, []byte(strict), 0o644))

	cmd := exec.Command(binaryPath, "validate-input", "--in", samplePath, "--schema", schemaPath)
	output, err := cmd.CombinedOutput()

	assert.Error(t, err, "command should fail")
	assert.Contains(t, string(output), "primary_id")
}

func TestValidateInputCommand_MissingSchemaFile(t *testing.T) {
	binaryPath := getBinaryPath(t)
	samplePath := filepath.Join(t.TempDir(), "sample.json")
	require.NoError(t, exec.Command(binaryPath, "sample", "--out", samplePath).Run())

	cmd := exec.Command(binaryPath, "validate-input", "--in", samplePath, "--schema", "nonexistent.schema.json")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err, "command should fail")
	assert.Contains(t, string(output), "not found", "should indicate file not found")
}

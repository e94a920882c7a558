package packaging

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/openformat/internal/document"
	"github.com/jonathan/openformat/internal/layout"
	"github.com/jonathan/openformat/internal/record"
	"github.com/jonathan/openformat/internal/transcode"
)

func artifacts(t *testing.T, encoding string) (ini, data transcode.EncodedArtifact) {
	t.Helper()
	ids := record.Values{"vat_number": "2233445", "primary_id": "123456789012345"}
	var records []record.Record
	for _, rv := range []struct {
		code   string
		values record.Values
	}{
		{layout.CodeA100, ids},
		{layout.CodeC100, record.Values{"customer_name": "ישראל ישראלי"}},
		{layout.CodeZ900, ids},
	} {
		r, err := record.New(rv.code, rv.values)
		require.NoError(t, err)
		records = append(records, r)
	}
	dataDoc, err := document.Compose(document.KindData, records)
	require.NoError(t, err)
	iniDoc, err := document.ComposeINI(record.Values{"vat_number": "2233445"}, dataDoc)
	require.NoError(t, err)

	data, err = transcode.Transcode(dataDoc, encoding)
	require.NoError(t, err)
	ini, err = transcode.Transcode(iniDoc, encoding)
	require.NoError(t, err)
	return ini, data
}

func TestFileNames(t *testing.T) {
	ini, data, archive := FileNames("Win1255")
	assert.Equal(t, "INI_Win1255.TXT", ini)
	assert.Equal(t, "BKMVDATA_Win1255.TXT", data)
	assert.Equal(t, "BKMVDATA_Win1255.zip", archive)
}

func TestPackage(t *testing.T) {
	dir := t.TempDir()
	ini, data := artifacts(t, "windows-1255")

	set, err := Package(dir, "Win1255", ini, data)
	require.NoError(t, err)

	assert.Equal(t, "Win1255", set.Variant)
	assert.Equal(t, "windows-1255", set.Encoding)
	assert.Equal(t, filepath.Join(dir, "INI_Win1255.TXT"), set.INIPath)
	assert.Equal(t, filepath.Join(dir, "BKMVDATA_Win1255.TXT"), set.DataPath)
	assert.Equal(t, filepath.Join(dir, "BKMVDATA_Win1255.zip"), set.ArchivePath)

	gotINI, err := os.ReadFile(set.INIPath)
	require.NoError(t, err)
	assert.Equal(t, ini.Data, gotINI)

	gotData, err := os.ReadFile(set.DataPath)
	require.NoError(t, err)
	assert.Equal(t, data.Data, gotData)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "temp files must not be left behind")
}

func TestPackage_ArchiveEntry(t *testing.T) {
	dir := t.TempDir()
	ini, data := artifacts(t, "cp862")

	set, err := Package(dir, "CP862", ini, data)
	require.NoError(t, err)

	zr, err := zip.OpenReader(set.ArchivePath)
	require.NoError(t, err)
	defer zr.Close()

	require.Len(t, zr.File, 1)
	entry := zr.File[0]
	assert.Equal(t, "BKMVDATA.TXT", entry.Name)
	assert.Equal(t, zip.Deflate, entry.Method)

	rc, err := entry.Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data.Data, content)
}

func TestPackage_RejectsSwappedArtifacts(t *testing.T) {
	ini, data := artifacts(t, "iso-8859-8")
	_, err := Package(t.TempDir(), "ISO8859-8", data, ini)
	assert.Error(t, err)
}

func TestPackage_FilesystemFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	ini, data := artifacts(t, "windows-1255")
	_, err := Package(filepath.Join(blocker, "out"), "Win1255", ini, data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFilesystem))

	var fsErr *FilesystemError
	require.True(t, errors.As(err, &fsErr))
	assert.Equal(t, "mkdir", fsErr.Op)
}

func TestWriteArtifact_Overwrites(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteArtifact(dir, "a.TXT", []byte("first"))
	require.NoError(t, err)
	path, err := WriteArtifact(dir, "a.TXT", []byte("second"))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestWriteArtifact_MissingDirectory(t *testing.T) {
	_, err := WriteArtifact(filepath.Join(t.TempDir(), "missing"), "a.TXT", []byte("x"))
	assert.ErrorIs(t, err, ErrFilesystem)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestArchive_FailureIsFilesystemError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "taken.zip"), 0755))

	_, err := Archive(dir, "taken.zip", "BKMVDATA.TXT", []byte("A100\r\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFilesystem)

	var fsErr *FilesystemError
	require.True(t, errors.As(err, &fsErr))
	assert.Equal(t, filepath.Join(dir, "taken.zip"), fsErr.Path)
}

func TestArchive_Deterministic(t *testing.T) {
	dir := t.TempDir()
	first, err := Archive(dir, "one.zip", "BKMVDATA.TXT", []byte("A100\r\n"))
	require.NoError(t, err)
	second, err := Archive(dir, "two.zip", "BKMVDATA.TXT", []byte("A100\r\n"))
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

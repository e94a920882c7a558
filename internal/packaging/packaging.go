package packaging

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/openformat/internal/document"
	"github.com/jonathan/openformat/internal/transcode"
)

const fileMode os.FileMode = 0644

// PackagedSet lists the files written for one encoding variant.
type PackagedSet struct {
	Variant     string
	Encoding    string
	INIPath     string
	DataPath    string
	ArchivePath string
}

// Paths returns the written files in write order.
func (s PackagedSet) Paths() []string {
	return []string{s.INIPath, s.DataPath, s.ArchivePath}
}

// FileNames returns the per-variant names: INI_<E>.TXT, BKMVDATA_<E>.TXT, BKMVDATA_<E>.zip.
func FileNames(variant string) (ini, data, archive string) {
	ini = fmt.Sprintf("%s_%s.TXT", document.KindINI.BaseName(), variant)
	data = fmt.Sprintf("%s_%s.TXT", document.KindData.BaseName(), variant)
	archive = fmt.Sprintf("%s_%s.zip", document.KindData.BaseName(), variant)
	return ini, data, archive
}

// Package writes one variant's INI, data file and data archive into dir.
// The archive's single entry keeps the canonical name BKMVDATA.TXT so that
// extraction yields the file name the format requires.
func Package(dir, variant string, ini, data transcode.EncodedArtifact) (PackagedSet, error) {
	if ini.Kind != document.KindINI || data.Kind != document.KindData {
		return PackagedSet{}, fmt.Errorf("package %s: expected INI and BKMVDATA artifacts, got %s and %s", variant, ini.Kind, data.Kind)
	}
	if err := ensureDir(dir); err != nil {
		return PackagedSet{}, err
	}

	iniName, dataName, archiveName := FileNames(variant)
	set := PackagedSet{Variant: variant, Encoding: data.Encoding}

	var err error
	if set.INIPath, err = WriteArtifact(dir, iniName, ini.Data); err != nil {
		return PackagedSet{}, err
	}
	if set.DataPath, err = WriteArtifact(dir, dataName, data.Data); err != nil {
		return PackagedSet{}, err
	}
	if set.ArchivePath, err = Archive(dir, archiveName, data.Name, data.Data); err != nil {
		return PackagedSet{}, err
	}
	return set, nil
}

// WriteArtifact writes data to dir/name and returns the path.
func WriteArtifact(dir, name string, data []byte) (string, error) {
	path := filepath.Join(dir, name)
	if err := writeFile(path, data, fileMode); err != nil {
		return "", err
	}
	return path, nil
}

// Archive writes a zip holding exactly one deflate-compressed entry.
func Archive(dir, zipName, entryName string, data []byte) (string, error) {
	path := filepath.Join(dir, zipName)
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	header := &zip.FileHeader{
		Name:     entryName,
		Method:   zip.Deflate,
		Modified: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return "", &FilesystemError{Op: "zip entry " + entryName, Path: path, Cause: err}
	}
	if _, err := w.Write(data); err != nil {
		return "", &FilesystemError{Op: "compress " + entryName, Path: path, Cause: err}
	}
	if err := zw.Close(); err != nil {
		return "", &FilesystemError{Op: "finish zip", Path: path, Cause: err}
	}

	return WriteArtifact(dir, zipName, buf.Bytes())
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &FilesystemError{Op: "mkdir", Path: dir, Cause: err}
	}
	return nil
}

// writeFile writes through a temp file in the target directory, then renames
// it over path so readers never see a partial artifact.
func writeFile(path string, b []byte, mode os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return &FilesystemError{Op: "create", Path: path, Cause: err}
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return &FilesystemError{Op: "write", Path: path, Cause: err}
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return &FilesystemError{Op: "chmod", Path: path, Cause: err}
	}
	if err := f.Close(); err != nil {
		return &FilesystemError{Op: "close", Path: path, Cause: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &FilesystemError{Op: "rename", Path: path, Cause: err}
	}
	return nil
}

// Package fs writes report files to disk.
package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/classload"
)

// Ensure ReportFile implements io.Writer at compile time.
var _ io.Writer = (*ReportFile)(nil)

// ReportFile writes a file atomically. Data goes to path.tmp and is moved
// to path on Commit, so a failed run never leaves a truncated spreadsheet
// where a good one used to be.
type ReportFile struct {
	path string
	tmp  *os.File
	done bool
}

// CreateReportFile creates the parent directory of path and opens the
// temporary file.
func CreateReportFile(path string) (*ReportFile, error) {
	if path == "" {
		return nil, classload.Errorf(classload.EINVALID, "output path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	tmp, err := os.Create(path + ".tmp")
	if err != nil {
		return nil, err
	}
	return &ReportFile{path: path, tmp: tmp}, nil
}

// Path returns the final path of the file.
func (f *ReportFile) Path() string {
	return f.path
}

// Write writes to the temporary file.
func (f *ReportFile) Write(p []byte) (int, error) {
	if f.done {
		return 0, classload.Errorf(classload.EINVALID, "report file %s already closed", f.path)
	}
	return f.tmp.Write(p)
}

// Commit flushes the temporary file and renames it over path.
func (f *ReportFile) Commit() error {
	if f.done {
		return classload.Errorf(classload.EINVALID, "report file %s already closed", f.path)
	}
	f.done = true

	if err := f.tmp.Sync(); err != nil {
		_ = f.tmp.Close()
		_ = os.Remove(f.tmp.Name())
		return err
	}
	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	return os.Rename(f.tmp.Name(), f.path)
}

// Abort discards the temporary file. It is a no-op after Commit, so it can
// be deferred.
func (f *ReportFile) Abort() error {
	if f.done {
		return nil
	}
	f.done = true
	err := f.tmp.Close()
	if rmErr := os.Remove(f.tmp.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		return rmErr
	}
	return err
}

// WriteReport encodes report with w and commits it to path.
func WriteReport(path string, w classload.ReportWriter, report *classload.Report) error {
	f, err := CreateReportFile(path)
	if err != nil {
		return err
	}
	defer f.Abort()

	if err := w.WriteReport(f, report); err != nil {
		return err
	}
	return f.Commit()
}

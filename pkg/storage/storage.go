package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

type Storage struct{}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

// SizeMB reports the size in mebibytes, the unit the console report uses.
func (fs FileStats) SizeMB() float64 {
	return float64(fs.SizeBytes) / 1024 / 1024
}

// File is one destination of a paired write.
type File struct {
	Path    string
	Content []byte
}

// readCloser closes the decompressor before the underlying file.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenInput opens a source file, decompressing .gz and .zst transparently.
// The returned error wraps the os error so callers can test os.ErrNotExist.
func (s *Storage) OpenInput(filePath string) (io.ReadCloser, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("error reading gzip header: %w", err)
		}
		return &readCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil

	case ".zst", ".zstd":
		dec, err := zstd.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("error creating zstd reader: %w", err)
		}
		zr := dec.IOReadCloser()
		return &readCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	}

	return f, nil
}

// SaveFilesAtomic writes every file to a temp sibling first and renames them
// into place only after all writes succeeded. A failed write removes the
// temp files and leaves existing destinations untouched.
func (s *Storage) SaveFilesAtomic(files ...File) error {
	temps := make([]string, 0, len(files))
	cleanup := func() {
		for _, t := range temps {
			_ = os.Remove(t)
		}
	}

	for _, file := range files {
		tmp, err := writeTemp(file)
		if err != nil {
			cleanup()
			return err
		}
		temps = append(temps, tmp)
	}

	for i, file := range files {
		if err := os.Rename(temps[i], file.Path); err != nil {
			cleanup()
			return fmt.Errorf("error renaming %s into place: %w", file.Path, err)
		}
	}

	return nil
}

func writeTemp(file File) (string, error) {
	dir := filepath.Dir(file.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating directory %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(file.Path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("error creating temp file for %s: %w", file.Path, err)
	}
	name := f.Name()

	fail := func(err error) (string, error) {
		_ = f.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("error saving file %s: %w", file.Path, err)
	}

	if _, err := f.Write(file.Content); err != nil {
		return fail(err)
	}
	if err := f.Chmod(0644); err != nil {
		return fail(err)
	}
	if err := f.Sync(); err != nil {
		return fail(err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("error saving file %s: %w", file.Path, err)
	}

	return name, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

func (s *Storage) HasFile(fn string) bool {
	return fileExists(fn)
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

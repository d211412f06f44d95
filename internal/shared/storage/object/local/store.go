package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"portfolio-pulse/internal/shared/storage/object"
	"portfolio-pulse/internal/shared/util"
)

// Store implements ObjectStore using a flat directory on the local filesystem.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Save writes the reader to baseDir/fileName, replacing any file with the same name.
func (s *Store) Save(ctx context.Context, fileName string, r io.Reader) (string, int64, error) {
	sanitizedName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", 0, fmt.Errorf("sanitize file name: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("mkdir: %w", err)
	}

	// Write to a temp file first so a concurrent List never sees a partial upload.
	tmp, err := os.CreateTemp(s.baseDir, ".upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("open file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", 0, fmt.Errorf("write body: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.baseDir, sanitizedName)); err != nil {
		return "", 0, fmt.Errorf("rename: %w", err)
	}
	return sanitizedName, written, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := filepath.Clean(storageKey)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid storage key")
	}

	return os.Open(filepath.Join(s.baseDir, clean))
}

// List returns regular files directly under baseDir. A missing directory is empty.
func (s *Store) List(ctx context.Context) ([]object.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []object.Object
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, object.Object{Key: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

var _ object.ObjectStore = (*Store)(nil)

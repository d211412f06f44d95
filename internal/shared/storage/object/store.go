package object

import (
	"context"
	"io"
	"time"
)

// Object describes one stored spreadsheet.
type Object struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// ObjectStore defines the contract for saving, listing and reading spreadsheet files.
type ObjectStore interface {
	Save(ctx context.Context, fileName string, r io.Reader) (storageKey string, sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	// List returns objects sorted by key.
	List(ctx context.Context) ([]Object, error)
}

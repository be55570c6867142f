package ports

import (
	"context"
	"io"
	"time"
)

// Upload folders.
const (
	FolderExcel  = "excel"
	FolderPDF    = "pdf"
	FolderImages = "images"
)

// StoredFile describes one file of the upload directory.
type StoredFile struct {
	Path    string // relative to the upload root, slash separated
	Size    int64
	ModTime time.Time
}

// FileStore keeps uploaded files. Paths are relative to the store root.
type FileStore interface {
	// Save writes r under folder with a unique name derived from name and
	// returns the stored relative path.
	Save(ctx context.Context, folder, name string, r io.Reader) (string, error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
	Walk(fn func(StoredFile) error) error
	URL(path string) string
}

package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrInvalidPath  = errors.New("path escapes storage root")
	ErrFileNotFound = errors.New("file not found")
)

// FileStorage keeps generated artifacts such as archived paystub PDFs.
type FileStorage interface {
	// Upload stores file under path and returns the cleaned key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Download opens a stored file; ErrFileNotFound when absent
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file. Deleting a missing file succeeds.
	Delete(ctx context.Context, path string) error

	// GetURL returns a link clients can fetch the file from
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	Exists(ctx context.Context, path string) (bool, error)
}

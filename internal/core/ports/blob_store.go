package ports

import (
	"context"
	"io"
)

// BlobStore persists uploaded files and returns a URL the stored file is
// served from. The original filename is only used to keep the extension.
type BlobStore interface {
	Store(ctx context.Context, filename string, r io.Reader) (string, error)
}

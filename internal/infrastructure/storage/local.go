package storage

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalStore writes uploaded files to a directory on disk and returns URLs
// under urlPrefix. The HTTP layer is expected to serve dir at that prefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: urlPrefix}, nil
}

// Store copies r to a new file with a random name, keeping the original
// extension, and returns the URL the file is served from.
func (s *LocalStore) Store(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := randomName() + filepath.Ext(filename)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("store upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	return s.urlPrefix + "/" + name, nil
}

// Dir returns the directory uploads are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// randomName returns a unique file name in the format upload-XXXXXXXXXXXXXXXX.
func randomName() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("upload-%016X", time.Now().UnixNano())
	}
	return fmt.Sprintf("upload-%016X", b)
}

package client

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/lantera/be-slf-workflow/internal/platform/errors"
)

// LocalFileStore stores attachment bytes (inspection photos, payment proofs)
// on local disk and hands back an opaque path. The workflow only ever stores
// and returns the path string; it never interprets file contents.
type LocalFileStore struct {
	root string
}

// NewLocalFileStore creates a file store rooted at dir, creating it when
// missing.
func NewLocalFileStore(dir string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create file store root: %w", err)
	}
	return &LocalFileStore{root: dir}, nil
}

// Store writes the bytes under a generated name and returns the path.
func (s *LocalFileStore) Store(data []byte, ext string) (string, error) {
	name := uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	path := filepath.Join(s.root, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to store file")
	}
	return name, nil
}

// Retrieve reads back the bytes for a previously returned path.
func (s *LocalFileStore) Retrieve(path string) ([]byte, error) {
	// Paths are generated names, never client input, but keep traversal out
	// regardless.
	clean := filepath.Base(path)

	data, err := os.ReadFile(filepath.Join(s.root, clean))
	if os.IsNotExist(err) {
		return nil, errors.NotFound("file", path)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to retrieve file")
	}
	return data, nil
}

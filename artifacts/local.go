package artifacts

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore implements Store backed by a local directory.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a new local artifact store.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifact store directory: %w", err)
	}

	return &LocalStore{
		basePath: basePath,
	}, nil
}

// Fetch retrieves an artifact from the local store.
func (s *LocalStore) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, name)

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact not found: %s", name)
		}
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}

	return file, nil
}

// Publish stores an artifact in the local store.
func (s *LocalStore) Publish(ctx context.Context, name string, data io.Reader) error {
	fullPath := filepath.Join(s.basePath, name)

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create artifact file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		os.Remove(fullPath) // Clean up on error
		return fmt.Errorf("failed to write artifact file: %w", err)
	}

	return nil
}

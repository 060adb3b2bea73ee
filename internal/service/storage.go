package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// PlaceholderImageURL is substituted when an image upload fails. The record
// is still created; only the image reference degrades.
const PlaceholderImageURL = "/static/placeholder-car.png"

// ImageStore is the interface for the object storage collaborator. It
// accepts a binary upload and returns a publicly resolvable URL.
type ImageStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// FileImageStore stores uploads on the local filesystem and serves them
// under a base URL.
type FileImageStore struct {
	dir     string
	baseURL string
}

// NewFileImageStore creates a new FileImageStore rooted at dir.
func NewFileImageStore(dir, baseURL string) (*FileImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &FileImageStore{dir: dir, baseURL: baseURL}, nil
}

// Upload writes the file under a collision-free name and returns its URL.
func (s *FileImageStore) Upload(ctx context.Context, name string, data []byte) (string, error) {
	fileName := uuid.New().String() + "-" + filepath.Base(name)
	if err := os.WriteFile(filepath.Join(s.dir, fileName), data, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + "/" + fileName, nil
}

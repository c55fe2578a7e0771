package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio"

	"github.com/omran-mahr/Aspiro-AI/internal/domain"
)

// FileStore keeps the gallery as a single JSON document on local disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (domain.Gallery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Gallery{}, nil
	}
	if err != nil {
		return nil, domain.ErrStorageRead.WithError(fmt.Errorf("read %s: %w", s.path, err))
	}

	gallery, err := decodeGallery(data)
	if err != nil {
		return nil, domain.ErrStorageRead.WithError(fmt.Errorf("%s: %w", s.path, err))
	}
	return gallery, nil
}

// Save writes to a temporary file in the same directory and renames it over
// the document, so readers see either the old or the new gallery.
func (s *FileStore) Save(ctx context.Context, gallery domain.Gallery) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeGallery(gallery)
	if err != nil {
		return domain.ErrStorageWrite.WithError(err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.ErrStorageWrite.WithError(fmt.Errorf("create %s: %w", dir, err))
		}
	}

	if err := renameio.WriteFile(s.path, data, 0o644); err != nil {
		return domain.ErrStorageWrite.WithError(fmt.Errorf("write %s: %w", s.path, err))
	}
	return nil
}

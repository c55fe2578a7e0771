package resume

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
	"github.com/google/uuid"
)

// Uploads stores uploaded documents under a directory as <uuid>_<basename>
type Uploads struct {
	dir string
}

func NewUploads(dir string) *Uploads {
	return &Uploads{dir: dir}
}

// Save writes data atomically and returns the path it was saved at
func (u *Uploads) Save(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(u.dir, uuid.New().String()+"_"+baseName(filename))
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path, nil
}

// baseName strips any client-supplied directories, including Windows ones
func baseName(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == ".." {
		return "upload"
	}
	return name
}

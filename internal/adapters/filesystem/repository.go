package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"treedit/internal/adapters/codec"
	"treedit/internal/domain"
	"treedit/internal/ports"
)

// Repository implements ports.DocumentRepository using the filesystem
type Repository struct {
	codec ports.Codec
}

// NewRepository creates a new filesystem repository
func NewRepository(c ports.Codec) *Repository {
	return &Repository{codec: c}
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}
	return path
}

// Load reads and parses a document, picking the format from its extension.
// A missing file loads as an empty object so new documents can be created.
func (r *Repository) Load(path string) (*domain.Node, ports.Format, error) {
	path = ExpandPath(path)
	format := codec.DetectFormat(path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if format == ports.FormatJSONLines {
			return domain.MultiDoc(), format, nil
		}
		return domain.Object(), format, nil
	}
	if err != nil {
		return nil, format, fmt.Errorf("failed to read %s: %w", path, err)
	}

	root, err := r.codec.Decode(data, format)
	if err != nil {
		return nil, format, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return root, format, nil
}

// Save serializes the tree and replaces the file atomically, keeping its permissions
func (r *Repository) Save(path string, root *domain.Node, format ports.Format) error {
	path = ExpandPath(path)

	data, err := r.codec.Encode(root, format)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

var _ ports.DocumentRepository = (*Repository)(nil)

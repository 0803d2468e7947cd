package editor

import (
	"fmt"
	"os"

	"treedit/internal/domain"
	"treedit/internal/ports"
)

// ValueFile is a temporary YAML file holding one value for external editing
type ValueFile struct {
	Path  string
	codec ports.Codec
}

// WriteValueFile serializes n into a new temporary file
func WriteValueFile(codec ports.Codec, n *domain.Node) (*ValueFile, error) {
	data, err := codec.Encode(n, ports.FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}

	f, err := os.CreateTemp("", "treedit-*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	return &ValueFile{Path: f.Name(), codec: codec}, nil
}

// Read parses the edited file back into a value
func (v *ValueFile) Read() (*domain.Node, error) {
	data, err := os.ReadFile(v.Path)
	if err != nil {
		return nil, err
	}
	n, err := v.codec.Decode(data, ports.FormatYAML)
	if err != nil {
		return nil, err
	}
	if n.Kind == domain.KindMultiDoc {
		return nil, domain.ErrNestedMultiDoc
	}
	return n, nil
}

// Remove deletes the temporary file
func (v *ValueFile) Remove() error {
	return os.Remove(v.Path)
}

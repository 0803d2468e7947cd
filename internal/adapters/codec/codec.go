// Package codec converts between document text and node trees using yaml.v3.
// JSON is read as the YAML subset it is, so key order and number spelling
// survive a load and save.
package codec

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"treedit/internal/domain"
	"treedit/internal/ports"
)

// DefaultIndent is the indentation used when writing YAML and JSON
const DefaultIndent = 2

// Codec implements ports.Codec
type Codec struct {
	Indent int
}

// New creates a Codec with the default indentation
func New() *Codec {
	return &Codec{Indent: DefaultIndent}
}

// Decode parses a complete document
func (c *Codec) Decode(data []byte, format ports.Format) (*domain.Node, error) {
	if format == ports.FormatJSONLines {
		return decodeJSONLines(data)
	}
	return decodeYAML(data)
}

// Encode serializes a tree in the given format
func (c *Codec) Encode(root *domain.Node, format ports.Format) ([]byte, error) {
	if root == nil {
		root = domain.Null()
	}
	switch format {
	case ports.FormatJSON:
		return encodeJSON(root, c.indent(), false)
	case ports.FormatJSONLines:
		return encodeJSON(root, 0, true)
	}
	return encodeYAML(root, c.indent())
}

// ParseScalar reads a single value typed by the user. Flow collections such
// as {a: 1} or [1, 2] are accepted too; empty input is null.
func (c *Codec) ParseScalar(text string) (*domain.Node, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Null(), nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}
	if doc.Kind == 0 {
		return domain.Null(), nil
	}
	return fromYAML(&doc)
}

func (c *Codec) indent() int {
	if c.Indent <= 0 {
		return DefaultIndent
	}
	return c.Indent
}

// DetectFormat picks a format from a file extension, defaulting to YAML
func DetectFormat(path string) ports.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ports.FormatJSON
	case ".jsonl", ".ndjson":
		return ports.FormatJSONLines
	}
	return ports.FormatYAML
}

// ParseFormat reads a format name as given on the command line
func ParseFormat(name string) (ports.Format, error) {
	switch strings.ToLower(name) {
	case "yaml", "yml":
		return ports.FormatYAML, nil
	case "json":
		return ports.FormatJSON, nil
	case "jsonl", "ndjson":
		return ports.FormatJSONLines, nil
	}
	return ports.FormatYAML, fmt.Errorf("unknown format %q", name)
}

var _ ports.Codec = (*Codec)(nil)

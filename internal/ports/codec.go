package ports

import "treedit/internal/domain"

// Format identifies a text representation of a document
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatJSONLines // one JSON document per line, loaded as a document stream
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatJSONLines:
		return "jsonl"
	default:
		return "yaml"
	}
}

// Codec converts between document text and node trees.
// The editing core never parses or serializes on its own.
type Codec interface {
	// Decode parses a complete document
	Decode(data []byte, format Format) (*domain.Node, error)

	// Encode serializes a tree, preserving key order and string styles
	Encode(root *domain.Node, format Format) ([]byte, error)

	// ParseScalar turns user input such as `42`, `true`, `"x"` or `[]` into a node
	ParseScalar(text string) (*domain.Node, error)
}

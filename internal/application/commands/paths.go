package commands

import (
	"context"

	"treedit/internal/domain"
)

// PathEntry describes one addressable node
type PathEntry struct {
	Path  domain.Path
	Key   string
	Kind  domain.Kind
	Depth int
}

// ListPathsCommand lists every node below From in document order
type ListPathsCommand struct {
	root     *domain.Node
	From     domain.Path
	MaxDepth int // 0 means unlimited
}

// NewListPathsCommand creates a new ListPathsCommand
func NewListPathsCommand(root *domain.Node, from domain.Path, maxDepth int) *ListPathsCommand {
	return &ListPathsCommand{root: root, From: from, MaxDepth: maxDepth}
}

// Execute runs the list paths command
func (c *ListPathsCommand) Execute(ctx context.Context) ([]PathEntry, error) {
	start, err := resolveFrom(c.root, c.From)
	if err != nil {
		return nil, err
	}

	var out []PathEntry
	domain.Walk(start, func(rel domain.Path, n *domain.Node) bool {
		if len(rel) == 0 {
			return true
		}
		p := append(c.From.Clone(), rel...)
		parent, index, _ := p.Parent()
		key, _ := domain.Get(c.root, parent).Key(index)
		out = append(out, PathEntry{Path: p, Key: key, Kind: n.Kind, Depth: len(rel)})
		return c.MaxDepth == 0 || len(rel) < c.MaxDepth
	})
	return out, nil
}

func resolveFrom(root *domain.Node, from domain.Path) (*domain.Node, error) {
	if err := domain.Validate(root, from); err != nil {
		return nil, err
	}
	return domain.Get(root, from), nil
}

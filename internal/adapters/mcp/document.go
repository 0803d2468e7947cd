package mcp

import (
	"fmt"
	"sync"

	"treedit/internal/application"
	"treedit/internal/domain"
	"treedit/internal/ports"
)

// Document is the one open document the tools operate on.
// Tool calls may arrive concurrently, so every access holds mu.
type Document struct {
	mu      sync.Mutex
	session *application.Session
	codec   ports.Codec
	repo    ports.DocumentRepository
	path    string
	format  ports.Format
}

// OpenDocument loads path through repo and starts a session over it
func OpenDocument(repo ports.DocumentRepository, codec ports.Codec, path string, opts application.Options) (*Document, error) {
	root, format, err := repo.Load(path)
	if err != nil {
		return nil, err
	}
	return &Document{
		session: application.NewSession(root, opts),
		codec:   codec,
		repo:    repo,
		path:    path,
		format:  format,
	}, nil
}

// with runs fn while holding the document lock
func (d *Document) with(fn func(s *application.Session) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.session)
}

// focus moves the cursor to the path given as text
func focus(s *application.Session, text string) error {
	p, err := application.ValidatePath("path", text)
	if err != nil {
		return err
	}
	if len(p) == 0 {
		return fmt.Errorf("%w: the root has no key or siblings", domain.ErrInvalidPath)
	}
	return s.SetCursor(p)
}

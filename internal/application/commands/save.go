package commands

import (
	"context"
	"fmt"

	"treedit/internal/application"
	"treedit/internal/ports"
)

// SaveResult contains the result of a save operation
type SaveResult struct {
	Path    string
	Message string
}

// SaveCommand writes the session's tree back to disk
type SaveCommand struct {
	session *application.Session
	repo    ports.DocumentRepository
	Path    string
	Format  ports.Format
}

// NewSaveCommand creates a new SaveCommand
func NewSaveCommand(session *application.Session, repo ports.DocumentRepository, path string, format ports.Format) *SaveCommand {
	return &SaveCommand{
		session: session,
		repo:    repo,
		Path:    path,
		Format:  format,
	}
}

// Validate checks if the save operation is valid
func (c *SaveCommand) Validate() error {
	return application.ValidateRequired("docPath", c.Path)
}

// Execute runs the save command
func (c *SaveCommand) Execute(ctx context.Context) (*SaveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.repo.Save(c.Path, c.session.Root(), c.Format); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", c.Path, err)
	}
	c.session.MarkSaved()

	return &SaveResult{
		Path:    c.Path,
		Message: fmt.Sprintf("Wrote %s", c.Path),
	}, nil
}

package commands

import (
	"context"
	"fmt"

	"treedit/internal/application"
	"treedit/internal/domain"
	"treedit/internal/ports"
)

// InsertResult contains the result of an insert operation
type InsertResult struct {
	Path    domain.Path
	Message string
}

// InsertCommand inserts a new value next to or inside the cursor node
type InsertCommand struct {
	session *application.Session
	codec   ports.Codec
	Mode    application.InsertMode
	Key     string
	Value   string
}

// NewInsertCommand creates a new InsertCommand
func NewInsertCommand(session *application.Session, codec ports.Codec, mode application.InsertMode, key, value string) *InsertCommand {
	return &InsertCommand{
		session: session,
		codec:   codec,
		Mode:    mode,
		Key:     key,
		Value:   value,
	}
}

// NeedsKey reports whether the insert targets an object
func (c *InsertCommand) NeedsKey() bool {
	container, err := c.session.InsertContainer(c.Mode)
	if err != nil {
		return false
	}
	n := c.session.Get(container)
	return n != nil && n.Kind == domain.KindObject
}

// Validate checks if the insert operation is valid
func (c *InsertCommand) Validate() error {
	if _, err := c.session.InsertContainer(c.Mode); err != nil {
		return err
	}
	if c.NeedsKey() {
		return application.ValidateRequired("key", c.Key)
	}
	return nil
}

// Execute runs the insert command
func (c *InsertCommand) Execute(ctx context.Context) (*InsertResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	value, err := c.codec.ParseScalar(c.Value)
	if err != nil {
		return nil, &application.ValidationError{
			Field:   "value",
			Message: err.Error(),
		}
	}

	p, err := c.session.Insert(c.Mode, c.Key, value)
	if err != nil {
		return nil, fmt.Errorf("failed to insert: %w", err)
	}

	return &InsertResult{
		Path:    p,
		Message: fmt.Sprintf("Inserted %s at %s", describe(c.Key, value), p),
	}, nil
}

func describe(key string, n *domain.Node) string {
	if key != "" && n.Kind != domain.KindComment {
		return key
	}
	return n.Kind.String()
}

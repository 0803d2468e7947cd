package commands

import (
	"context"
	"fmt"

	"treedit/internal/application"
	"treedit/internal/domain"
	"treedit/internal/ports"
)

// SetValueResult contains the result of a set operation
type SetValueResult struct {
	Path    domain.Path
	Kind    domain.Kind
	Message string
}

// SetValueCommand replaces the value under the cursor with parsed text.
// Text is read the way a document value would be: 42, true, "x", [] and so on.
type SetValueCommand struct {
	session *application.Session
	codec   ports.Codec
	Value   string
}

// NewSetValueCommand creates a new SetValueCommand
func NewSetValueCommand(session *application.Session, codec ports.Codec, value string) *SetValueCommand {
	return &SetValueCommand{
		session: session,
		codec:   codec,
		Value:   value,
	}
}

// Validate checks if the set operation is valid
func (c *SetValueCommand) Validate() error {
	return domain.Validate(c.session.Root(), c.session.Cursor())
}

// Execute runs the set command
func (c *SetValueCommand) Execute(ctx context.Context) (*SetValueResult, error) {
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

	p := c.session.Cursor()
	if err := c.session.Replace(value); err != nil {
		return nil, fmt.Errorf("failed to set %s: %w", p, err)
	}

	return &SetValueResult{
		Path:    p,
		Kind:    value.Kind,
		Message: fmt.Sprintf("Set %s to %s", p, domain.Preview(value, domain.DefaultPreviewWidth)),
	}, nil
}

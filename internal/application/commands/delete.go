package commands

import (
	"context"
	"fmt"

	"treedit/internal/application"
	"treedit/internal/domain"
	"treedit/internal/ports"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	DeletedPath domain.Path
	Removed     domain.Entry
	Message     string
}

// DeleteCommand removes the cursor node. When registers are configured the
// removed value is kept in Register so it can be pasted back.
type DeleteCommand struct {
	session   *application.Session
	registers ports.Registers
	Register  rune
}

// NewDeleteCommand creates a new DeleteCommand; registers may be nil
func NewDeleteCommand(session *application.Session, registers ports.Registers, register rune) *DeleteCommand {
	return &DeleteCommand{
		session:   session,
		registers: registers,
		Register:  register,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteCommand) Validate() error {
	if c.registers != nil {
		if err := application.ValidateRegister(c.Register); err != nil {
			return err
		}
	}
	if len(c.session.Cursor()) == 0 {
		return &application.ValidationError{
			Field:   "path",
			Message: domain.ErrCannotDeleteRoot.Error(),
		}
	}
	return nil
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	target := c.session.Cursor()
	removed, err := c.session.Delete()
	if err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", target, err)
	}

	if c.registers != nil {
		if err := c.registers.Put(c.Register, removed); err != nil {
			return nil, fmt.Errorf("deleted %s but failed to write register: %w", target, err)
		}
	}

	return &DeleteResult{
		DeletedPath: target,
		Removed:     removed,
		Message:     fmt.Sprintf("Deleted %s", describe(removed.Key, removed.Value)),
	}, nil
}

package commands

import (
	"context"
	"fmt"

	"treedit/internal/application"
	"treedit/internal/domain"
	"treedit/internal/ports"
)

// YankResult contains the result of a yank operation
type YankResult struct {
	Path    domain.Path
	Message string
}

// YankCommand copies the cursor node and its key into a register
type YankCommand struct {
	session   *application.Session
	registers ports.Registers
	Register  rune
}

// NewYankCommand creates a new YankCommand
func NewYankCommand(session *application.Session, registers ports.Registers, register rune) *YankCommand {
	return &YankCommand{
		session:   session,
		registers: registers,
		Register:  register,
	}
}

// Validate checks if the yank operation is valid
func (c *YankCommand) Validate() error {
	if err := application.ValidateRegister(c.Register); err != nil {
		return err
	}
	if c.session.CursorNode() == nil {
		return application.ErrNoSelection
	}
	return nil
}

// Execute runs the yank command
func (c *YankCommand) Execute(ctx context.Context) (*YankResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cursor := c.session.Cursor()
	entry := domain.Entry{Key: keyAt(c.session, cursor), Value: c.session.CursorNode().Clone()}
	if err := c.registers.Put(c.Register, entry); err != nil {
		return nil, fmt.Errorf("failed to write register: %w", err)
	}

	return &YankResult{
		Path:    cursor,
		Message: fmt.Sprintf("Yanked %s into %s", cursor, registerName(c.Register)),
	}, nil
}

// keyAt returns the object key of the entry at p, or "" for array elements and the root
func keyAt(session *application.Session, p domain.Path) string {
	parent, index, ok := p.Parent()
	if !ok {
		return ""
	}
	key, _ := session.Get(parent).Key(index)
	return key
}

func registerName(r rune) string {
	if r == ports.UnnamedRegister {
		return "unnamed register"
	}
	return fmt.Sprintf("register %c", r)
}

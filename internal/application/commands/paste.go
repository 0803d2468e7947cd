package commands

import (
	"context"
	"fmt"

	"treedit/internal/application"
	"treedit/internal/domain"
	"treedit/internal/ports"
)

// defaultPasteKey names values pasted into an object when they had no key
const defaultPasteKey = "value"

// PasteResult contains the result of a paste operation
type PasteResult struct {
	Path    domain.Path
	Key     string
	Message string
}

// PasteCommand inserts the contents of a register relative to the cursor.
// A key that already exists in the target object gets a numeric suffix.
type PasteCommand struct {
	session   *application.Session
	registers ports.Registers
	Register  rune
	Mode      application.InsertMode
}

// NewPasteCommand creates a new PasteCommand
func NewPasteCommand(session *application.Session, registers ports.Registers, register rune, mode application.InsertMode) *PasteCommand {
	return &PasteCommand{
		session:   session,
		registers: registers,
		Register:  register,
		Mode:      mode,
	}
}

// Validate checks if the paste operation is valid
func (c *PasteCommand) Validate() error {
	if err := application.ValidateRegister(c.Register); err != nil {
		return err
	}
	_, err := c.session.InsertContainer(c.Mode)
	return err
}

// Execute runs the paste command
func (c *PasteCommand) Execute(ctx context.Context) (*PasteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	entry, ok, err := c.registers.Get(c.Register)
	if err != nil {
		return nil, fmt.Errorf("failed to read register: %w", err)
	}
	if !ok || entry.Value == nil {
		return nil, &application.RegisterError{Name: c.Register, Reason: "nothing to paste"}
	}

	container, _ := c.session.InsertContainer(c.Mode)
	key := entry.Key
	if entry.Value.Kind != domain.KindComment {
		if key == "" {
			key = defaultPasteKey
		}
		key = c.session.UniqueKey(container, key)
	}

	p, err := c.session.Insert(c.Mode, key, entry.Value.Clone())
	if err != nil {
		return nil, fmt.Errorf("failed to paste: %w", err)
	}

	if n := c.session.Get(container); n == nil || n.Kind != domain.KindObject {
		key = ""
	}
	return &PasteResult{
		Path:    p,
		Key:     key,
		Message: fmt.Sprintf("Pasted %s at %s", describe(key, entry.Value), p),
	}, nil
}

package commands

import (
	"context"
	"fmt"

	"treedit/internal/application"
	"treedit/internal/domain"
)

// HistoryResult contains the result of an undo or redo
type HistoryResult struct {
	Applied bool
	Cursor  domain.Path
	Message string
}

// UndoCommand steps back to the previous checkpoint
type UndoCommand struct {
	session *application.Session
}

// NewUndoCommand creates a new UndoCommand
func NewUndoCommand(session *application.Session) *UndoCommand {
	return &UndoCommand{session: session}
}

// Execute runs the undo command. Reaching the oldest state is not an error.
func (c *UndoCommand) Execute(ctx context.Context) (*HistoryResult, error) {
	if !c.session.Undo() {
		return &HistoryResult{Message: "Already at oldest change"}, nil
	}
	return &HistoryResult{
		Applied: true,
		Cursor:  c.session.Cursor(),
		Message: "Undid last change",
	}, nil
}

// RedoCommand moves forward along the newest branch, or along Branch when it is set
type RedoCommand struct {
	session *application.Session
	Branch  int
}

// NewRedoCommand creates a new RedoCommand following the most recent branch
func NewRedoCommand(session *application.Session) *RedoCommand {
	return &RedoCommand{session: session, Branch: -1}
}

// Validate checks that an explicit branch exists
func (c *RedoCommand) Validate() error {
	if c.Branch < 0 {
		return nil
	}
	if n := c.session.History().Branches(); c.Branch >= n {
		return &application.ValidationError{
			Field:   "branch",
			Message: fmt.Sprintf("branch %d does not exist, %d available", c.Branch, n),
		}
	}
	return nil
}

// Execute runs the redo command. Reaching the newest state is not an error.
func (c *RedoCommand) Execute(ctx context.Context) (*HistoryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var ok bool
	if c.Branch < 0 {
		ok = c.session.Redo()
	} else {
		ok = c.session.RedoBranch(c.Branch)
	}
	if !ok {
		return &HistoryResult{Message: "Already at newest change"}, nil
	}
	return &HistoryResult{
		Applied: true,
		Cursor:  c.session.Cursor(),
		Message: "Redid change",
	}, nil
}

package commands

import (
	"context"
	"fmt"

	"treedit/internal/application"
	"treedit/internal/domain"
)

// RenameResult contains the result of a rename operation
type RenameResult struct {
	Path    domain.Path
	OldKey  string
	NewKey  string
	Message string
}

// RenameCommand changes the key of the object entry under the cursor
type RenameCommand struct {
	session *application.Session
	NewKey  string
}

// NewRenameCommand creates a new RenameCommand
func NewRenameCommand(session *application.Session, newKey string) *RenameCommand {
	return &RenameCommand{
		session: session,
		NewKey:  newKey,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameCommand) Validate() error {
	if c.NewKey == "" {
		return &application.ValidationError{
			Field:   "newKey",
			Message: "new key is required",
		}
	}

	eligibility := CheckRenameEligibility(c.session, c.session.Cursor())
	if !eligibility.CanRename {
		return &application.ValidationError{
			Field:   "path",
			Message: eligibility.Reason,
		}
	}
	return nil
}

// Execute runs the rename command
func (c *RenameCommand) Execute(ctx context.Context) (*RenameResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	p := c.session.Cursor()
	oldKey := keyAt(c.session, p)
	if err := c.session.Rename(c.NewKey); err != nil {
		return nil, fmt.Errorf("failed to rename: %w", err)
	}

	return &RenameResult{
		Path:    p,
		OldKey:  oldKey,
		NewKey:  c.NewKey,
		Message: fmt.Sprintf("Renamed %s to %s", oldKey, c.NewKey),
	}, nil
}

// RenameEligibility contains the result of checking if a node can be renamed
type RenameEligibility struct {
	CanRename bool
	Reason    string
}

// CheckRenameEligibility determines if the entry at p has a key to rename
func CheckRenameEligibility(session *application.Session, p domain.Path) RenameEligibility {
	parent, _, ok := p.Parent()
	if !ok {
		return RenameEligibility{Reason: "the root has no key"}
	}
	container := session.Get(parent)
	if container == nil || container.Kind != domain.KindObject {
		return RenameEligibility{Reason: "only object entries have keys"}
	}
	if n := session.Get(p); n != nil && n.Kind == domain.KindComment {
		return RenameEligibility{Reason: "comments have no key"}
	}
	return RenameEligibility{CanRename: true}
}

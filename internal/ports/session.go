package ports

import "treedit/internal/domain"

// ViewState is the per-document state restored when a file is reopened
type ViewState struct {
	Expanded []domain.Path
	Cursor   domain.Path
}

// SessionStore persists view state between editing sessions
type SessionStore interface {
	Load(docPath string) (*ViewState, error) // nil, nil when nothing was stored
	Save(docPath string, state ViewState) error
	Close() error
}

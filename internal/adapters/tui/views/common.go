package views

import "treedit/internal/domain"

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Messages for view switching
type SwitchToSearchMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToEditorMsg struct{}

// JumpToMsg asks the editor to move its cursor to Path
type JumpToMsg struct {
	Path domain.Path
}

// SearchSelectMsg is sent when a search result is chosen
type SearchSelectMsg struct {
	Path domain.Path
}

// EditExternallyMsg asks the app to open the value at Path in $EDITOR
type EditExternallyMsg struct {
	Path domain.Path
}

// SaveRequestMsg asks the app to write the document; Quit exits afterwards
type SaveRequestMsg struct {
	Quit bool
}

// QuitRequestMsg asks the app to store view state and exit
type QuitRequestMsg struct{}

package ports

import "os/exec"

// EditorOpener builds the command that opens a file in the user's editor
type EditorOpener interface {
	// Command returns a command ready for tea.ExecProcess
	Command(path string) (*exec.Cmd, error)
}

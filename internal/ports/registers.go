package ports

import "treedit/internal/domain"

// UnnamedRegister is the default register used by yank, delete and paste
const UnnamedRegister = '"'

// Registers stores yanked and deleted values. Entries are opaque to the
// editing core: the key is kept so a pasted object entry can reuse it.
type Registers interface {
	Put(name rune, entry domain.Entry) error
	Get(name rune) (domain.Entry, bool, error)
}

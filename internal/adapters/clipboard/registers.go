// Package clipboard stores yanked and deleted values. The unnamed register
// is mirrored to the system clipboard as YAML text.
package clipboard

import (
	"strings"
	"sync"

	sysclip "github.com/atotto/clipboard"

	"treedit/internal/domain"
	"treedit/internal/ports"
)

// System is the system clipboard
type System interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type atottoClipboard struct{}

func (atottoClipboard) ReadAll() (string, error) { return sysclip.ReadAll() }

func (atottoClipboard) WriteAll(text string) error { return sysclip.WriteAll(text) }

// Registers implements ports.Registers
type Registers struct {
	mu       sync.Mutex
	entries  map[rune]domain.Entry
	codec    ports.Codec
	system   System
	lastText string
}

// NewRegisters creates registers backed by the system clipboard when one is available
func NewRegisters(codec ports.Codec) *Registers {
	var system System
	if !sysclip.Unsupported {
		system = atottoClipboard{}
	}
	return NewRegistersWith(codec, system)
}

// NewRegistersWith creates registers using the given clipboard; nil keeps everything in memory
func NewRegistersWith(codec ports.Codec, system System) *Registers {
	return &Registers{
		entries: make(map[rune]domain.Entry),
		codec:   codec,
		system:  system,
	}
}

// Put stores a copy of entry. Writing the unnamed register also sets the clipboard.
func (r *Registers) Put(name rune, entry domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry = domain.Entry{Key: entry.Key, Value: entry.Value.Clone()}
	r.entries[name] = entry

	if name != ports.UnnamedRegister || r.system == nil {
		return nil
	}
	data, err := r.codec.Encode(entry.Value, ports.FormatYAML)
	if err != nil {
		return err
	}
	text := strings.TrimSuffix(string(data), "\n")
	if err := r.system.WriteAll(text); err != nil {
		// no clipboard, the value stays in memory
		return nil
	}
	r.lastText = text
	return nil
}

// Get returns a copy of the register's entry. For the unnamed register,
// clipboard text copied from elsewhere wins over the stored value.
func (r *Registers) Get(name rune) (domain.Entry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == ports.UnnamedRegister && r.system != nil {
		if text, err := r.system.ReadAll(); err == nil && text != "" && text != r.lastText {
			n, err := r.codec.Decode([]byte(text), ports.FormatYAML)
			if err != nil || n.Kind == domain.KindMultiDoc {
				n = domain.String(text)
			}
			return domain.Entry{Value: n}, true, nil
		}
	}

	entry, ok := r.entries[name]
	if !ok {
		return domain.Entry{}, false, nil
	}
	return domain.Entry{Key: entry.Key, Value: entry.Value.Clone()}, true, nil
}

var _ ports.Registers = (*Registers)(nil)

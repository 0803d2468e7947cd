package clipboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treedit/internal/adapters/codec"
	"treedit/internal/domain"
	"treedit/internal/ports"
)

type fakeSystem struct {
	text string
	err  error
}

func (f *fakeSystem) ReadAll() (string, error) { return f.text, f.err }

func (f *fakeSystem) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func TestRegisters_NamedInMemory(t *testing.T) {
	sys := &fakeSystem{}
	r := NewRegistersWith(codec.New(), sys)

	require.NoError(t, r.Put('a', domain.E("k", domain.Int(1))))
	assert.Empty(t, sys.text, "named registers do not touch the clipboard")

	e, ok, err := r.Get('a')
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "k", e.Key)
	assert.Equal(t, int64(1), e.Value.Int)

	_, ok, err = r.Get('b')
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegisters_ReturnsCopies(t *testing.T) {
	r := NewRegistersWith(codec.New(), nil)
	v := domain.Array(domain.Int(1))
	require.NoError(t, r.Put('a', domain.E("", v)))
	v.Items[0].Int = 9

	e, _, _ := r.Get('a')
	assert.Equal(t, int64(1), e.Value.Items[0].Int)
	e.Value.Items[0].Int = 7

	again, _, _ := r.Get('a')
	assert.Equal(t, int64(1), again.Value.Items[0].Int)
}

func TestRegisters_UnnamedMirrorsClipboard(t *testing.T) {
	sys := &fakeSystem{}
	r := NewRegistersWith(codec.New(), sys)

	require.NoError(t, r.Put(ports.UnnamedRegister, domain.E("tags", domain.Array(domain.String("a")))))
	assert.Equal(t, "- a", sys.text)

	e, ok, err := r.Get(ports.UnnamedRegister)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tags", e.Key, "own clipboard text keeps the key")
}

func TestRegisters_ExternalClipboardText(t *testing.T) {
	sys := &fakeSystem{}
	r := NewRegistersWith(codec.New(), sys)
	require.NoError(t, r.Put(ports.UnnamedRegister, domain.E("k", domain.Int(1))))

	sys.text = "{a: 1, b: [2]}"
	e, ok, err := r.Get(ports.UnnamedRegister)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "", e.Key)
	assert.Equal(t, domain.KindObject, e.Value.Kind)

	sys.text = "key: [unclosed"
	e, _, _ = r.Get(ports.UnnamedRegister)
	assert.Equal(t, domain.KindString, e.Value.Kind, "unparseable text pastes as a string")
}

func TestRegisters_ClipboardUnavailable(t *testing.T) {
	sys := &fakeSystem{err: errors.New("no display")}
	r := NewRegistersWith(codec.New(), sys)

	require.NoError(t, r.Put(ports.UnnamedRegister, domain.E("k", domain.Int(1))))
	e, ok, err := r.Get(ports.UnnamedRegister)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), e.Value.Int)
}

package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() *Node {
	return Object(
		E("name", String("treedit")),
		E("tags", Array(String("a"), String("b"))),
		E("nested", Object(
			E("deep", Array(Int(1), Object(E("x", Null())))),
			E("flag", Bool(true)),
		)),
		E("pi", Float(3.14)),
	)
}

func TestGet_ResolvesEveryWalkedNode(t *testing.T) {
	root := sampleDoc()

	seen := 0
	Walk(root, func(p Path, n *Node) bool {
		seen++
		assert.Same(t, n, Get(root, p), "path %s", p)
		return true
	})
	assert.Equal(t, CountNodes(root), seen)
}

func TestGet_DistinctPathsResolveToDistinctNodes(t *testing.T) {
	root := sampleDoc()

	byNode := map[*Node]Path{}
	Walk(root, func(p Path, n *Node) bool {
		if prev, dup := byNode[n]; dup {
			t.Fatalf("paths %s and %s resolve to the same node", prev, p)
		}
		byNode[n] = p
		return true
	})
}

func TestGet_InvalidPaths(t *testing.T) {
	root := sampleDoc()

	tests := []struct {
		name string
		path Path
	}{
		{name: "index past end", path: Path{4}},
		{name: "negative index", path: Path{-1}},
		{name: "descend into scalar", path: Path{0, 0}},
		{name: "deep out of range", path: Path{2, 0, 5}},
		{name: "longer than tree depth", path: Path{2, 0, 1, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Get(root, tt.path))
			err := Validate(root, tt.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrPathNotFound))
		})
	}
}

func TestGet_EmptyPathIsRoot(t *testing.T) {
	root := sampleDoc()
	assert.Same(t, root, Get(root, Path{}))
	assert.Same(t, root, Get(root, nil))

	scalar := Int(7)
	assert.Same(t, scalar, Get(scalar, Root))
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in      string
		want    Path
		wantErr bool
	}{
		{in: ".", want: Path{}},
		{in: "", want: Path{}},
		{in: "0", want: Path{0}},
		{in: "2.0.1", want: Path{2, 0, 1}},
		{in: "/1.3", want: Path{1, 3}},
		{in: "1.x", wantErr: true},
		{in: "1.-2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPath))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	p := Path{3, 1, 4}
	back, err := ParsePath(p.String())
	require.NoError(t, err)
	assert.True(t, p.Equal(back))
}

func TestPath_HasPrefixAndParent(t *testing.T) {
	p := Path{1, 2, 3}
	assert.True(t, p.HasPrefix(Path{}))
	assert.True(t, p.HasPrefix(Path{1, 2}))
	assert.True(t, p.HasPrefix(p))
	assert.False(t, p.HasPrefix(Path{1, 3}))
	assert.False(t, Path{1}.HasPrefix(p))

	parent, idx, ok := p.Parent()
	require.True(t, ok)
	assert.True(t, parent.Equal(Path{1, 2}))
	assert.Equal(t, 3, idx)

	_, _, ok = Path{}.Parent()
	assert.False(t, ok)
}

func TestPath_ChildDoesNotAlias(t *testing.T) {
	base := make(Path, 2, 8)
	a := base.Child(1)
	b := base.Child(2)
	assert.Equal(t, 1, a[2])
	assert.Equal(t, 2, b[2])
}

func TestResolveAlias(t *testing.T) {
	target := Object(E("k", Int(1)))
	target.Meta.Anchor = "base"
	root := Object(
		E("defaults", target),
		E("copy", Alias("base")),
	)

	assert.Same(t, target, ResolveAlias(root, "base"))
	assert.Nil(t, ResolveAlias(root, "missing"))
}

func TestNode_CloneIsDeep(t *testing.T) {
	root := sampleDoc()
	c := root.Clone()
	require.True(t, root.Equal(c))

	Get(c, Path{1}).Items[0].Text = "changed"
	assert.Equal(t, "a", Get(root, Path{1, 0}).Text)
	assert.False(t, root.Equal(c))
}

func TestNode_NumberText(t *testing.T) {
	assert.Equal(t, "42", Int(42).NumberText())
	assert.Equal(t, "3.0", Float(3).NumberText())
	assert.Equal(t, "2.5", Float(2.5).NumberText())
	raw := Float(1)
	raw.Raw = "1.000"
	assert.Equal(t, "1.000", raw.NumberText())
}

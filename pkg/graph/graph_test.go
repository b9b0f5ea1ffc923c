package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/partgraph/pkg/wire"
)

func TestAttributesKeepInsertionOrder(t *testing.T) {
	n := NewNode(0x5194E9A3, "Surface")
	n.Set("u8_0", KindU8, uint8(1))
	n.Set("a2", KindArray, []float64{1, 2, 3})
	n.Set("index", KindU32, uint32(7))
	n.Set("u8_0", KindU8, uint8(9))

	var names []string
	for _, a := range n.Attrs() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"u8_0", "a2", "index"}, names)

	v, ok := n.Get("u8_0")
	require.True(t, ok)
	assert.Equal(t, uint8(9), v)
	_, ok = n.Get("missing")
	assert.False(t, ok)
}

func TestAdmitAssignsIndicesAndKeys(t *testing.T) {
	g := New("graphics")
	a := NewNode(1, "A")
	a.Keys = []uint32{1}
	b := NewNode(2, "B")
	b.Keys = []uint32{2, 100}

	require.NoError(t, g.Admit(a, b))
	assert.Equal(t, 0, a.Index)
	assert.Equal(t, 1, b.Index)
	assert.Equal(t, 2, g.Len())

	got, ok := g.Lookup(100)
	require.True(t, ok)
	assert.Same(t, b, got)

	n, ok := g.Resolve(NodeID{Graph: "graphics", Index: 1})
	require.True(t, ok)
	assert.Same(t, b, n)
	_, ok = g.Resolve(NodeID{Graph: "browser", Index: 1})
	assert.False(t, ok)
	assert.Nil(t, g.Node(5))
}

func TestAdmitIsAllOrNothing(t *testing.T) {
	g := New("g")
	a := NewNode(1, "A")
	a.Keys = []uint32{1}
	require.NoError(t, g.Admit(a))

	b := NewNode(2, "B")
	c := NewNode(3, "C")
	c.Keys = []uint32{1}
	err := g.Admit(b, c)
	assert.ErrorIs(t, err, wire.ErrDuplicateKey)
	assert.Equal(t, 1, g.Len())
	assert.False(t, b.Admitted())

	d := NewNode(4, "D")
	d.Keys = []uint32{5, 5}
	assert.ErrorIs(t, g.Admit(d), wire.ErrDuplicateKey)
	assert.Error(t, g.Admit(a))
}

func TestRefsAndRelations(t *testing.T) {
	g := New("g")
	parent := NewNode(1, "Parent")
	child := NewNode(2, "Child")
	require.NoError(t, g.Admit(parent, child))

	link := &Ref{Owner: parent, Role: RoleChild, Key: 2, Resolved: true, Target: g.ID(child)}
	parent.Children = append(parent.Children, link)
	back := &Ref{Owner: child, Role: RoleParent, Key: 1, Resolved: true, Target: g.ID(parent)}
	child.Parent = back
	plain := []*Ref{{Owner: child, Role: RolePlain, Key: 9}}
	child.Set("lst0", KindRefs, plain)

	assert.Equal(t, []*Node{child}, g.ChildrenOf(parent))
	p, ok := g.ParentOf(child)
	require.True(t, ok)
	assert.Same(t, parent, p)

	refs := child.Refs()
	require.Len(t, refs, 2)
	assert.True(t, refs[1].Pending())
	assert.Equal(t, "->?9", refs[1].String())
	assert.Equal(t, "->[0]", back.String())
}

func TestSplitRawReference(t *testing.T) {
	key, flags := Split(0x80000011)
	assert.EqualValues(t, 0x11, key)
	assert.EqualValues(t, FlagMask, flags)
}

func TestDescribe(t *testing.T) {
	g := New("g")
	n := NewNode(0x022AC1B5, "PartDrawAttr")
	n.Manager = true
	n.Set("u8_0", KindU8, uint8(3))
	n.Set("name", KindText, "Body")
	n.Set("a2", KindArray, []uint16{1, 2, 3})
	n.Set("c0", KindColor, wire.Color{R: 1, A: 1})
	n.Set("lst0", KindMap, []MapEntry{{Key: 1, Ref: &Ref{Optional: true}}})
	require.NoError(t, g.Admit(n))

	assert.Equal(t,
		`[0000] PartDrawAttr(022AC1B5) M u8_0=3 name="Body" a2=[1 2 3] c0=#FF0000FF lst0={1:-}`,
		n.Describe())

	anon := NewNode(0xA79EACCB, "")
	assert.Equal(t, "[-001] A79EACCB", anon.Describe())
}

func TestIndexTableIsSeparate(t *testing.T) {
	g := New("graphics")
	a := NewNode(1, "A")
	a.Keys = []uint32{1}
	a.Indexed = []uint32{1}
	require.NoError(t, g.Admit(a))

	n, ok := g.LookupIndex(1)
	require.True(t, ok)
	assert.Same(t, a, n)

	b := NewNode(2, "B")
	b.Keys = []uint32{2}
	b.Indexed = []uint32{1}
	assert.ErrorIs(t, g.Admit(b), wire.ErrDuplicateKey)
	_, ok = g.LookupIndex(2)
	assert.False(t, ok)
	assert.Equal(t, 1, g.Len())
}

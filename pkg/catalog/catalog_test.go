package catalog

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/partgraph"
	"github.com/rawbytedev/partgraph/pkg/dispatch"
	"github.com/rawbytedev/partgraph/pkg/graph"
	"github.com/rawbytedev/partgraph/pkg/resolve"
	"github.com/rawbytedev/partgraph/pkg/wire"
)

func partDrawAttr(modern bool) func(*wire.Builder) {
	return func(b *wire.Builder) {
		b.U32(0).U32(7).U32(0) // header
		b.U8(3).U32(0).U32(0x11)
		if modern {
			b.Count(1).U32(2)
		} else {
			b.U16s(4, 5)
		}
		b.U16s(1, 2, 3)
		b.U32(0).U8(1).U8(2)
		b.Color(wire.Color{R: 1, A: 1}).Color(wire.Color{G: 1, A: 1}).
			Color(wire.Color{B: 1, A: 1}).Color(wire.Color{A: 1})
		b.U16s(8, 9)
		b.U32(0).U16s(6, 7)
	}
}

func TestPartDrawAttrVersions(t *testing.T) {
	for _, tc := range []struct {
		version dispatch.Version
		modern  bool
	}{
		{2011, false},
		{2017, true},
	} {
		t.Run(tc.version.String(), func(t *testing.T) {
			buf := wire.NewBuilder(0).
				Segment(0x022AC1B5, partDrawAttr(tc.modern)).
				Segment(0x04F234D9, func(*wire.Builder) {}).
				Bytes()
			s := partgraph.NewSession(New(), partgraph.WithVersion(tc.version))
			require.NoError(t, s.Decode(context.Background(), buf))
			rep, err := s.Finalize(nil)
			require.NoError(t, err)
			assert.True(t, rep.Clean(), "%+v", rep.Segments)

			n := s.Graph().Node(0)
			assert.Equal(t, "PartDrawAttr", n.TypeName)
			_, hasList := n.Get("lst0")
			_, hasPair := n.Get("a1")
			assert.Equal(t, tc.modern, hasList)
			assert.Equal(t, !tc.modern, hasPair)
			c, _ := n.Get("ColorAttr.c1")
			assert.Equal(t, "#00FF00FF", c.(wire.Color).String())
			a0, _ := n.Get("a0")
			assert.Equal(t, []uint16{6, 7}, a0)
		})
	}
}

// Reading the 2017 layout as 2011 leaves bytes behind.
func TestPartDrawAttrWrongVersion(t *testing.T) {
	buf := wire.NewBuilder(0).Segment(0x022AC1B5, partDrawAttr(true)).Bytes()
	s := partgraph.NewSession(New(), partgraph.WithVersion(2011))
	require.NoError(t, s.Decode(context.Background(), buf))
	rep, _ := s.Finalize(nil)
	assert.False(t, rep.Clean())
	require.NotEmpty(t, rep.Segments[0].Errors)
}

func workPoint(index uint32) func(*wire.Builder) {
	return func(b *wire.Builder) {
		b.U32(0).U32(0) // header
		b.U32(0).U32(0).U8(0).Count(0)
		b.U32(0).U32(0)
		b.U32(1).U32(2).U32(index)
		b.U32(0).F64s(1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0)
		b.U8(1).U8(1)
	}
}

func TestIndexedFeatureReachableFromOtherSegment(t *testing.T) {
	gfx := partgraph.NewSession(New(), partgraph.WithGraphName("graphics"))
	require.NoError(t, gfx.Decode(context.Background(),
		wire.NewBuilder(0).Segment(0x2C7020F8, workPoint(310)).Bytes()))
	_, err := gfx.Finalize(nil)
	require.NoError(t, err)

	n, ok := gfx.Graph().LookupIndex(310)
	require.True(t, ok)
	assert.Equal(t, "WrkPoint", n.TypeName)
	m, _ := n.Get("transformation")
	assert.Len(t, m, 12)

	reg := dispatch.NewRegistry()
	reg.Register(0xA79EACCF, "3dObject", read3dObject)
	obj := partgraph.NewSession(reg, partgraph.WithGraphName("scene"))
	require.NoError(t, obj.Decode(context.Background(), wire.NewBuilder(0).
		Segment(0xA79EACCF, func(b *wire.Builder) {
			b.U32(0).U32(0).U32(0).U32(0).U32(0)
			b.U32(310).U32(0)
			b.U32(0).Count(0).U8(0)
		}).Bytes()))
	_, err = obj.Finalize(resolve.IndexOf(gfx.Graph()))
	require.NoError(t, err)

	x, _ := obj.Graph().Node(0).Get("ref2")
	assert.Equal(t, graph.NodeID{Graph: "graphics", Index: 0}, x.(*graph.Ref).Target)
}

func TestRegisterTwicePanics(t *testing.T) {
	reg := dispatch.NewRegistry()
	Register(reg)
	assert.Panics(t, func() { Register(reg) })
	assert.Equal(t, len(scene)+len(graphics), reg.Len())
}

// Random bodies must be rejected or accepted, never crash the session.
func TestRandomBodiesNeverPanic(t *testing.T) {
	reg := New()
	rng := rand.New(rand.NewPCG(1, 2))
	for _, hash := range reg.Hashes() {
		for range 20 {
			body := make([]byte, rng.IntN(160))
			for i := range body {
				body[i] = byte(rng.UintN(256))
			}
			buf := wire.NewBuilder(0).Segment(hash, func(b *wire.Builder) { b.Raw(body...) }).Bytes()
			s := partgraph.NewSession(reg, partgraph.WithStrictFrames(false))
			assert.NotPanics(t, func() {
				_ = s.Decode(context.Background(), buf)
				_, _ = s.Finalize(nil)
			})
		}
	}
}

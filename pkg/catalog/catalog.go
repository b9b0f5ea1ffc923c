// Package catalog registers the known record layouts of the scene and
// graphics segments.
//
// Names are those used in the part browser where known. Records without a
// name decode under their hash.
package catalog

import (
	"github.com/rawbytedev/partgraph/pkg/dispatch"
	"github.com/rawbytedev/partgraph/pkg/list"
)

type layout struct {
	hash    uint32
	name    string
	handler dispatch.Handler
}

// Register adds every catalog layout to reg.
func Register(reg *dispatch.Registry) {
	for _, l := range scene {
		reg.Register(l.hash, l.name, l.handler)
	}
	for _, l := range graphics {
		reg.Register(l.hash, l.name, l.handler)
	}
}

// New returns a sealed registry holding the catalog.
func New() *dispatch.Registry {
	reg := dispatch.NewRegistry()
	Register(reg)
	return reg.Seal()
}

var (
	refs     = list.Descriptor{Type: list.NodeRef}
	xrefs    = list.Descriptor{Type: list.NodeXRef}
	refMap   = list.Descriptor{Type: list.MapKeyRef}
	u32s     = list.Descriptor{Type: list.Uint32}
	points2  = list.Descriptor{Type: list.Float32A, Dim: 2}
	points3  = list.Descriptor{Type: list.Float32A, Dim: 3}
	pairs16  = list.Descriptor{Type: list.Uint16A, Dim: 2}
	pairs32s = list.Descriptor{Type: list.Sint32A, Dim: 2}
	samples  = list.Descriptor{Type: list.F64F64U32U8U8U16}
)

// empty is the handler of records that carry nothing beyond the type hash.
func empty(_ *dispatch.Record, i int) (int, error) { return i, nil }

// header32RRR2 is the prologue of geometry records: header, index, two child
// references, the parent and a u32.
func header32RRR2(rec *dispatch.Record, i int, typeName string) int {
	i = rec.Header0(i, typeName)
	i = rec.U32(i, "index")
	i = rec.ChildRef(i, "styles")
	i = rec.ChildRef(i, "ref_1")
	i = rec.ParentRef(i)
	i = rec.U32(i, "u32_0")
	return rec.SkipBlockSize(i)
}

// headerU32RefU8List is the prologue of work features and meshes.
func headerU32RefU8List(rec *dispatch.Record, i int, typeName, listName string) int {
	i = rec.Header0(i, typeName)
	i = rec.U32(i, "u32_0")
	i = rec.ChildRef(i, "ref_0")
	i = rec.U8(i, "u8_0")
	return rec.List(i, refs, listName)
}

// colorAttr is the shared colour block of draw attributes.
func colorAttr(rec *dispatch.Record, i int) int {
	i = rec.SkipBlockSize(i)
	i = rec.U8A(i, 2, "ColorAttr.a0")
	i = rec.Color(i, "ColorAttr.c0")
	i = rec.Color(i, "ColorAttr.c1")
	i = rec.Color(i, "ColorAttr.c2")
	i = rec.Color(i, "ColorAttr.c3")
	return rec.U16A(i, 2, "ColorAttr.a5")
}

// transformation is a 3x4 matrix preceded by a u32 of flags.
func transformation(rec *dispatch.Record, i int) int {
	i = rec.U32(i, "transformation.flags")
	return rec.F64A(i, 12, "transformation")
}

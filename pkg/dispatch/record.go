package dispatch

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rawbytedev/partgraph/pkg/frame"
	"github.com/rawbytedev/partgraph/pkg/graph"
	"github.com/rawbytedev/partgraph/pkg/list"
	"github.com/rawbytedev/partgraph/pkg/wire"
)

// MaxDepth bounds nested dispatch.
const MaxDepth = 32

// Record is the handler's view of one record: the bytes, the node being
// filled and the session state the reads feed. Every read takes the current
// offset and returns the next one. The first failure is kept; after it every
// read returns its offset unchanged, so a handler can run straight through and
// check Err once.
type Record struct {
	run   *run
	node  *graph.Node
	id    graph.NodeID
	depth int
	err   error
}

func (r *Record) Node() *graph.Node { return r.node }

// ID is the address the node will have once the record is admitted.
func (r *Record) ID() graph.NodeID { return r.id }

func (r *Record) Version() Version { return r.run.env.Version }

func (r *Record) Bytes() []byte { return r.run.buf }

func (r *Record) Err() error { return r.err }

// Fail records err unless an earlier error is already kept.
func (r *Record) Fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// SetTypeName overrides the registered name for this node.
func (r *Record) SetTypeName(name string) {
	if name != "" {
		r.node.TypeName = name
	}
}

// Bind enters the node in the graph's index table under key. Other segments
// reach indexed nodes through resolve.IndexOf.
func (r *Record) Bind(key uint32) {
	r.node.Indexed = append(r.node.Indexed, key)
}

// Index reads a u32 index key into name and binds the node under it.
func (r *Record) Index(off int, name string) int {
	if r.err != nil {
		return off
	}
	v, next, err := wire.U32(r.run.buf, off)
	if err != nil {
		r.err = err
		return off
	}
	r.node.Set(name, graph.KindU32, v)
	r.Bind(v)
	return next
}

// Set stores an attribute computed by the handler.
func (r *Record) Set(name string, kind graph.Kind, v any) {
	r.node.Set(name, kind, v)
}

func read[T any](r *Record, off int, name string, kind graph.Kind, fn wire.Reader[T]) int {
	if r.err != nil {
		return off
	}
	v, next, err := fn(r.run.buf, off)
	if err != nil {
		r.err = err
		return off
	}
	r.node.Set(name, kind, v)
	return next
}

func readN[T any](r *Record, off, n int, name string, fn func([]byte, int, int) ([]T, int, error)) int {
	if r.err != nil {
		return off
	}
	v, next, err := fn(r.run.buf, off, n)
	if err != nil {
		r.err = err
		return off
	}
	r.node.Set(name, graph.KindArray, v)
	return next
}

func (r *Record) U8(off int, name string) int    { return read(r, off, name, graph.KindU8, wire.U8) }
func (r *Record) U16(off int, name string) int   { return read(r, off, name, graph.KindU16, wire.U16) }
func (r *Record) U32(off int, name string) int   { return read(r, off, name, graph.KindU32, wire.U32) }
func (r *Record) S8(off int, name string) int    { return read(r, off, name, graph.KindS8, wire.I8) }
func (r *Record) S16(off int, name string) int   { return read(r, off, name, graph.KindS16, wire.I16) }
func (r *Record) S32(off int, name string) int   { return read(r, off, name, graph.KindS32, wire.I32) }
func (r *Record) F32(off int, name string) int   { return read(r, off, name, graph.KindF32, wire.F32) }
func (r *Record) F64(off int, name string) int   { return read(r, off, name, graph.KindF64, wire.F64) }
func (r *Record) Bool(off int, name string) int  { return read(r, off, name, graph.KindBool, wire.Bool) }
func (r *Record) Text(off int, name string) int  { return read(r, off, name, graph.KindText, wire.Text16) }
func (r *Record) Color(off int, name string) int { return read(r, off, name, graph.KindColor, wire.Color4) }
func (r *Record) Vec2(off int, name string) int  { return read(r, off, name, graph.KindVec2, wire.Vec2) }
func (r *Record) Vec3(off int, name string) int  { return read(r, off, name, graph.KindVec3, wire.Vec3) }

func (r *Record) UUID(off int, name string) int {
	return read[uuid.UUID](r, off, name, graph.KindUUID, wire.UUID)
}

func (r *Record) U8A(off, n int, name string) int  { return readN(r, off, n, name, wire.U8s) }
func (r *Record) U16A(off, n int, name string) int { return readN(r, off, n, name, wire.U16s) }
func (r *Record) U32A(off, n int, name string) int { return readN(r, off, n, name, wire.U32s) }
func (r *Record) S32A(off, n int, name string) int { return readN(r, off, n, name, wire.I32s) }
func (r *Record) F32A(off, n int, name string) int { return readN(r, off, n, name, wire.F32s) }
func (r *Record) F64A(off, n int, name string) int { return readN(r, off, n, name, wire.F64s) }

// List reads a count-prefixed container described by d.
func (r *Record) List(off int, d list.Descriptor, name string) int {
	if r.err != nil {
		return off
	}
	kind, v, next, err := list.Decode(r.run.buf, off, d, r.requester(name))
	if err != nil {
		r.err = err
		return off
	}
	r.node.Set(name, kind, v)
	return next
}

func (r *Record) requester(name string) list.Requester {
	return func(role graph.Role, raw uint32, off int) *graph.Ref {
		return r.run.env.Resolver.Request(r.node, role, name, raw, off)
	}
}

func (r *Record) ref(off int, role graph.Role, name string) int {
	if r.err != nil {
		return off
	}
	raw, next, err := wire.U32(r.run.buf, off)
	if err != nil {
		r.err = err
		return off
	}
	r.node.Set(name, graph.KindRef, r.run.env.Resolver.Request(r.node, role, name, raw, off))
	return next
}

// ChildRef reads a reference to a child node.
func (r *Record) ChildRef(off int, name string) int { return r.ref(off, graph.RoleChild, name) }

// ParentRef reads the reference to the node's parent. A second parent
// reference replaces the first.
func (r *Record) ParentRef(off int) int { return r.ref(off, graph.RoleParent, "parent") }

// CrossRef reads a reference into another segment's graph.
func (r *Record) CrossRef(off int, name string) int { return r.ref(off, graph.RoleCross, name) }

// Ref reads a plain reference stored only as an attribute.
func (r *Record) Ref(off int, name string) int { return r.ref(off, graph.RolePlain, name) }

// Frame opens a framed region at off.
func (r *Record) Frame(off int) int {
	if r.err != nil {
		return off
	}
	next, err := r.run.env.Guard.Open(r.run.buf, off)
	if err != nil {
		r.err = err
		return off
	}
	return next
}

// EndFrame closes the innermost framed region. With strict frames a mismatch
// fails the record.
func (r *Record) EndFrame(off int) int {
	if r.err != nil {
		return off
	}
	next, err := r.run.env.Guard.Close(r.run.buf, off)
	if err != nil {
		r.err = err
		return off
	}
	return next
}

// SkipBlockSize steps over one block-size marker without checking it.
func (r *Record) SkipBlockSize(off int) int { return r.SkipBlockSizeN(off, frame.MarkerSize) }

// SkipBlockSizeN steps over n bytes of block-size markers.
func (r *Record) SkipBlockSizeN(off, n int) int {
	if r.err != nil {
		return off
	}
	next, err := r.run.env.Guard.SkipN(r.run.buf, off, n)
	if err != nil {
		r.err = err
		return off
	}
	return next
}

// Skip steps over n bytes whose meaning is unknown.
func (r *Record) Skip(off, n int) int {
	if r.err != nil {
		return off
	}
	next, err := wire.Skip(r.run.buf, off, n)
	if err != nil {
		r.err = err
		return off
	}
	return next
}

// Dispatch reads a nested type hash at off and runs its handler on a new node.
// The nested node is staged with this record and admitted with it; name holds
// a reference to it and the nested node's parent is this node.
func (r *Record) Dispatch(off int, name string) int {
	if r.err != nil {
		return off
	}
	if r.depth+1 > MaxDepth {
		r.err = fmt.Errorf("dispatch: nesting deeper than %d at offset %d", MaxDepth, off)
		return off
	}
	hash, i, err := wire.U32(r.run.buf, off)
	if err != nil {
		r.err = err
		return off
	}
	e, err := r.run.env.Registry.Lookup(hash)
	if err != nil {
		r.err = wire.UnknownRecordType(off, hash)
		return off
	}
	n := graph.NewNode(hash, e.Name)
	n.Segment = r.node.Segment
	n.Offset = off
	child := r.run.stage(n, r.depth+1)
	res := r.run.env.Resolver
	r.node.Set(name, graph.KindRef, res.Direct(r.node, graph.RolePlain, name, child.id))
	res.Direct(n, graph.RoleParent, "parent", r.id)

	next, err := e.Handler(child, i)
	if err == nil {
		err = child.err
	}
	if err != nil {
		r.err = err
		return off
	}
	return next
}

// Header0 is the common record prologue: a u32 header word and a block-size
// marker. A non-empty typeName overrides the registered name.
func (r *Record) Header0(off int, typeName string) int {
	r.SetTypeName(typeName)
	off = r.U32(off, "hdr")
	return r.SkipBlockSize(off)
}

// HeaderParent is the prologue of records that start with their parent: two
// block-size markers, the parent reference and one more marker.
func (r *Record) HeaderParent(off int, typeName string) int {
	r.SetTypeName(typeName)
	off = r.SkipBlockSizeN(off, 8)
	off = r.ParentRef(off)
	return r.SkipBlockSize(off)
}

// HeaderSU32S is a u32 bracketed by block-size markers.
func (r *Record) HeaderSU32S(off int, typeName string) int {
	r.SetTypeName(typeName)
	off = r.SkipBlockSize(off)
	off = r.U32(off, "u32_0")
	return r.SkipBlockSize(off)
}

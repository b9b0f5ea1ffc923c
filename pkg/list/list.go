// Package list decodes the count-prefixed containers of the segment format:
// scalar lists, lists of inline arrays, reference lists, ordered maps and
// nested float tuple lists.
//
// Every container starts with a u32 element count. Before the first element
// is read the count is checked against the bytes left in the buffer, so a
// corrupt count fails with Truncated instead of allocating.
package list

import (
	"fmt"

	"github.com/rawbytedev/partgraph/internal/common"
	"github.com/rawbytedev/partgraph/pkg/graph"
	"github.com/rawbytedev/partgraph/pkg/wire"
)

// Type names the element layout of a list.
type Type uint8

const (
	Uint8 Type = iota + 1
	Uint16
	Uint32
	Sint32
	Float32
	Float64
	Text16
	Uint16A
	Uint32A
	Sint32A
	Float32A
	Float64A
	NodeRef          // plain reference, resolved in the local graph
	NodeXRef         // cross reference into another segment graph
	MapKeyRef        // u32 key -> reference
	MapU32U32        // u32 key -> u32 value
	ListFloat64A     // list of lists of float64 tuples
	F64F64U32U8U8U16 // fixed 24 byte record
)

var typeNames = [...]string{
	Uint8: "u8", Uint16: "u16", Uint32: "u32", Sint32: "s32", Float32: "f32",
	Float64: "f64", Text16: "text16", Uint16A: "u16[]", Uint32A: "u32[]",
	Sint32A: "s32[]", Float32A: "f32[]", Float64A: "f64[]", NodeRef: "ref",
	NodeXRef: "xref", MapKeyRef: "map<u32,ref>", MapU32U32: "map<u32,u32>",
	ListFloat64A: "list<f64[]>", F64F64U32U8U8U16: "f64f64u32u8u8u16",
}

func (t Type) String() string {
	if int(t) < len(typeNames) && typeNames[t] != "" {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Descriptor selects a list layout. Dim is the inline array width for the
// array types and ListFloat64A, ignored otherwise.
type Descriptor struct {
	Type Type
	Dim  int
}

func (d Descriptor) String() string {
	if d.Dim > 0 {
		return fmt.Sprintf("%s/%d", d.Type, d.Dim)
	}
	return d.Type.String()
}

// RecordSize is the width of one F64F64U32U8U8U16 element.
const RecordSize = 8 + 8 + 4 + 1 + 1 + 2

// Requester records a reference read at off and returns its edge. The caller
// binds the owner and attribute name.
type Requester func(role graph.Role, raw uint32, off int) *graph.Ref

// Count reads the u32 element count and checks that count elements of at
// least width bytes fit in the rest of the buffer.
func Count(buf []byte, off, width int) (int, int, error) {
	n, i, err := wire.U32(buf, off)
	if err != nil {
		return 0, off, err
	}
	count := int(n)
	if !common.Fits(buf, i, count, width) {
		return 0, off, wire.Truncated(i, common.Span(count, width), int64(common.Remaining(buf, i)))
	}
	return count, i, nil
}

// Scalars reads a count-prefixed list of fixed-width values.
func Scalars[T common.Fixed](buf []byte, off int, read wire.Reader[T]) ([]T, int, error) {
	width := common.SizeOf[T]()
	n, i, err := Count(buf, off, width)
	if err != nil {
		return nil, off, err
	}
	out, next, err := wire.Array(buf, i, n, width, read)
	if err != nil {
		return nil, off, err
	}
	return out, next, nil
}

// Tuples reads a count-prefixed list of dim-wide inline arrays.
func Tuples[T common.Fixed](buf []byte, off, dim int, read wire.Reader[T]) ([][]T, int, error) {
	if dim <= 0 {
		return nil, off, fmt.Errorf("list: tuple dimension %d", dim)
	}
	width := common.SizeOf[T]()
	n, i, err := Count(buf, off, dim*width)
	if err != nil {
		return nil, off, err
	}
	out := make([][]T, n)
	for j := range out {
		if out[j], i, err = wire.Array(buf, i, dim, width, read); err != nil {
			return nil, off, err
		}
	}
	return out, i, nil
}

// Texts reads a count-prefixed list of UTF-16 strings.
func Texts(buf []byte, off int) ([]string, int, error) {
	n, i, err := Count(buf, off, 4)
	if err != nil {
		return nil, off, err
	}
	out := make([]string, n)
	for j := range out {
		if out[j], i, err = wire.Text16(buf, i); err != nil {
			return nil, off, err
		}
	}
	return out, i, nil
}

// Refs reads a count-prefixed list of references.
func Refs(buf []byte, off int, role graph.Role, req Requester) ([]*graph.Ref, int, error) {
	n, i, err := Count(buf, off, 4)
	if err != nil {
		return nil, off, err
	}
	out := make([]*graph.Ref, n)
	for j := range out {
		at := i
		raw, _, _ := wire.U32(buf, i)
		i += 4
		out[j] = req(role, raw, at)
	}
	return out, i, nil
}

// Map reads an ordered u32 key to reference map. A repeated key fails with
// DuplicateKey before the repeated entry's reference is requested.
func Map(buf []byte, off int, req Requester) ([]graph.MapEntry, int, error) {
	n, i, err := Count(buf, off, 8)
	if err != nil {
		return nil, off, err
	}
	out := make([]graph.MapEntry, n)
	seen := make(map[uint32]struct{}, n)
	for j := range out {
		at := i
		key := le32(buf, i)
		if _, dup := seen[key]; dup {
			return nil, off, wire.DuplicateKey(at, key)
		}
		seen[key] = struct{}{}
		out[j] = graph.MapEntry{Key: key, Ref: req(graph.RolePlain, le32(buf, i+4), i+4)}
		i += 8
	}
	return out, i, nil
}

// MapU32 reads an ordered u32 to u32 map with the same duplicate rule as Map.
func MapU32(buf []byte, off int) ([]graph.U32Entry, int, error) {
	n, i, err := Count(buf, off, 8)
	if err != nil {
		return nil, off, err
	}
	out := make([]graph.U32Entry, n)
	seen := make(map[uint32]struct{}, n)
	for j := range out {
		key := le32(buf, i)
		if _, dup := seen[key]; dup {
			return nil, off, wire.DuplicateKey(i, key)
		}
		seen[key] = struct{}{}
		out[j] = graph.U32Entry{Key: key, Value: le32(buf, i+4)}
		i += 8
	}
	return out, i, nil
}

// Nested reads a count-prefixed list whose elements are themselves lists of
// dim-wide float64 tuples, as used by multi-curve geometry.
func Nested(buf []byte, off, dim int) ([][][]float64, int, error) {
	n, i, err := Count(buf, off, 4)
	if err != nil {
		return nil, off, err
	}
	out := make([][][]float64, n)
	for j := range out {
		if out[j], i, err = Tuples(buf, i, dim, wire.F64); err != nil {
			return nil, off, err
		}
	}
	return out, i, nil
}

// Records reads a count-prefixed list of (f64, f64, u32, u8, u8, u16)
// records.
func Records(buf []byte, off int) ([][]any, int, error) {
	n, i, err := Count(buf, off, RecordSize)
	if err != nil {
		return nil, off, err
	}
	out := make([][]any, n)
	for j := range out {
		a, _, _ := wire.F64(buf, i)
		b, _, _ := wire.F64(buf, i+8)
		c, _, _ := wire.U32(buf, i+16)
		d, e := buf[i+20], buf[i+21]
		f, _, _ := wire.U16(buf, i+22)
		out[j] = []any{a, b, c, d, e, f}
		i += RecordSize
	}
	return out, i, nil
}

// le32 reads a u32 already covered by a Count bound check.
func le32(buf []byte, off int) uint32 {
	v, _, _ := wire.U32(buf, off)
	return v
}

// Decode reads the list described by d at off and returns the attribute kind
// and value to store on a node.
func Decode(buf []byte, off int, d Descriptor, req Requester) (graph.Kind, any, int, error) {
	var (
		v    any
		next int
		err  error
		kind = graph.KindList
	)
	switch d.Type {
	case Uint8:
		v, next, err = Scalars(buf, off, wire.U8)
	case Uint16:
		v, next, err = Scalars(buf, off, wire.U16)
	case Uint32:
		v, next, err = Scalars(buf, off, wire.U32)
	case Sint32:
		v, next, err = Scalars(buf, off, wire.I32)
	case Float32:
		v, next, err = Scalars(buf, off, wire.F32)
	case Float64:
		v, next, err = Scalars(buf, off, wire.F64)
	case Text16:
		v, next, err = Texts(buf, off)
	case Uint16A:
		v, next, err = Tuples(buf, off, d.Dim, wire.U16)
	case Uint32A:
		v, next, err = Tuples(buf, off, d.Dim, wire.U32)
	case Sint32A:
		v, next, err = Tuples(buf, off, d.Dim, wire.I32)
	case Float32A:
		v, next, err = Tuples(buf, off, d.Dim, wire.F32)
	case Float64A:
		v, next, err = Tuples(buf, off, d.Dim, wire.F64)
	case NodeRef:
		kind = graph.KindRefs
		v, next, err = Refs(buf, off, graph.RolePlain, req)
	case NodeXRef:
		kind = graph.KindRefs
		v, next, err = Refs(buf, off, graph.RoleCross, req)
	case MapKeyRef:
		kind = graph.KindMap
		v, next, err = Map(buf, off, req)
	case MapU32U32:
		kind = graph.KindU32Map
		v, next, err = MapU32(buf, off)
	case ListFloat64A:
		kind = graph.KindNested
		v, next, err = Nested(buf, off, d.Dim)
	case F64F64U32U8U8U16:
		kind = graph.KindRecords
		v, next, err = Records(buf, off)
	default:
		return 0, nil, off, fmt.Errorf("list: unknown element type %s", d.Type)
	}
	if err != nil {
		return 0, nil, off, err
	}
	return kind, v, next, nil
}

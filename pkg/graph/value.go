package graph

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rawbytedev/partgraph/pkg/wire"
)

// Kind is the wire type an attribute was decoded from.
type Kind uint8

const (
	KindU8 Kind = iota + 1
	KindU16
	KindU32
	KindS8
	KindS16
	KindS32
	KindF32
	KindF64
	KindVec2
	KindVec3
	KindBool
	KindText
	KindUUID
	KindColor
	KindArray  // inline fixed-size array ([]uint16, []float64 ...)
	KindList   // count-prefixed list of scalars or tuples
	KindNested // list of float tuple lists
	KindRef    // single *Ref
	KindRefs   // []*Ref
	KindMap    // []MapEntry
	KindU32Map // []U32Entry
	KindRecords
)

var kindNames = map[Kind]string{
	KindU8: "u8", KindU16: "u16", KindU32: "u32", KindS8: "s8", KindS16: "s16",
	KindS32: "s32", KindF32: "f32", KindF64: "f64", KindVec2: "vec2",
	KindVec3: "vec3", KindBool: "bool", KindText: "text", KindUUID: "uuid",
	KindColor: "color", KindArray: "array", KindList: "list", KindNested: "nested",
	KindRef: "ref", KindRefs: "refs", KindMap: "map", KindU32Map: "u32map",
	KindRecords: "records",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Attr is one named, typed attribute of a node.
type Attr struct {
	Name  string
	Kind  Kind
	Value any
}

// MapEntry is one entry of an ordered key to node map.
type MapEntry struct {
	Key uint32
	Ref *Ref
}

type U32Entry struct {
	Key   uint32
	Value uint32
}

// Format renders an attribute value for diagnostics.
func Format(v any) string {
	var sb strings.Builder
	format(&sb, v)
	return sb.String()
}

func format(sb *strings.Builder, v any) {
	switch x := v.(type) {
	case *Ref:
		sb.WriteString(x.String())
	case []*Ref:
		sb.WriteByte('[')
		for i, r := range x {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(r.String())
		}
		sb.WriteByte(']')
	case []MapEntry:
		sb.WriteByte('{')
		for i, e := range x {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(sb, "%d:%s", e.Key, e.Ref)
		}
		sb.WriteByte('}')
	case []U32Entry:
		sb.WriteByte('{')
		for i, e := range x {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(sb, "%d:%d", e.Key, e.Value)
		}
		sb.WriteByte('}')
	case string:
		fmt.Fprintf(sb, "%q", x)
	case uint32:
		fmt.Fprintf(sb, "%04X", x)
	case float32, float64:
		fmt.Fprintf(sb, "%g", x)
	case uuid.UUID:
		sb.WriteString(x.String())
	case wire.Color:
		sb.WriteString(x.String())
	case [][]any:
		sb.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				sb.WriteByte(',')
			}
			format(sb, e)
		}
		sb.WriteByte(']')
	case []any:
		sb.WriteByte('(')
		for i, e := range x {
			if i > 0 {
				sb.WriteByte(',')
			}
			format(sb, e)
		}
		sb.WriteByte(')')
	default:
		fmt.Fprintf(sb, "%v", x)
	}
}

package wire

import (
	"github.com/google/uuid"
)

// Builder assembles test streams: scalars, frames bracketed by two length
// markers, and whole segments. A marker holds the byte length of the region
// between the two markers.
type Builder struct {
	buf  []byte
	open []int
}

func NewBuilder(capHint int) *Builder {
	return &Builder{buf: make([]byte, 0, capHint)}
}

func (b *Builder) U8(v uint8) *Builder       { b.buf = AppendU8(b.buf, v); return b }
func (b *Builder) U16(v uint16) *Builder     { b.buf = AppendU16(b.buf, v); return b }
func (b *Builder) U32(v uint32) *Builder     { b.buf = AppendU32(b.buf, v); return b }
func (b *Builder) U64(v uint64) *Builder     { b.buf = AppendU64(b.buf, v); return b }
func (b *Builder) I32(v int32) *Builder      { b.buf = AppendI32(b.buf, v); return b }
func (b *Builder) F32(v float32) *Builder    { b.buf = AppendF32(b.buf, v); return b }
func (b *Builder) F64(v float64) *Builder    { b.buf = AppendF64(b.buf, v); return b }
func (b *Builder) Bool(v bool) *Builder      { b.buf = AppendBool(b.buf, v); return b }
func (b *Builder) UUID(u uuid.UUID) *Builder { b.buf = AppendUUID(b.buf, u); return b }
func (b *Builder) Text16(s string) *Builder  { b.buf = AppendText16(b.buf, s); return b }
func (b *Builder) Color(c Color) *Builder    { b.buf = AppendColor(b.buf, c); return b }
func (b *Builder) Raw(p ...byte) *Builder    { b.buf = append(b.buf, p...); return b }

func (b *Builder) F64s(v ...float64) *Builder { b.buf = AppendF64s(b.buf, v...); return b }
func (b *Builder) F32s(v ...float32) *Builder { b.buf = AppendF32s(b.buf, v...); return b }
func (b *Builder) U16s(v ...uint16) *Builder  { b.buf = AppendU16s(b.buf, v...); return b }
func (b *Builder) U32s(v ...uint32) *Builder  { b.buf = AppendU32s(b.buf, v...); return b }

// Count writes a u32 element count.
func (b *Builder) Count(n int) *Builder { return b.U32(uint32(n)) }

// Begin writes a placeholder leading marker and opens a frame.
func (b *Builder) Begin() *Builder {
	b.open = append(b.open, len(b.buf))
	b.buf = AppendU32(b.buf, 0)
	return b
}

// End patches the leading marker of the innermost frame with the body length
// and writes the trailing marker.
func (b *Builder) End() *Builder {
	if len(b.open) == 0 {
		panic("wire: End without Begin")
	}
	start := b.open[len(b.open)-1]
	b.open = b.open[:len(b.open)-1]
	n := uint32(len(b.buf) - start - 4)
	le.PutUint32(b.buf[start:], n)
	b.buf = AppendU32(b.buf, n)
	return b
}

// Frame writes body between two matching markers.
func (b *Builder) Frame(body func(*Builder)) *Builder {
	b.Begin()
	body(b)
	return b.End()
}

// Segment writes a framed top-level record: markers around the type hash and
// the body.
func (b *Builder) Segment(hash uint32, body func(*Builder)) *Builder {
	return b.Frame(func(b *Builder) {
		b.U32(hash)
		body(b)
	})
}

func (b *Builder) Len() int { return len(b.buf) }

// Bytes returns the assembled stream. Open frames are not closed.
func (b *Builder) Bytes() []byte { return b.buf }

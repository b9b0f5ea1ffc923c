// Package wire reads the fixed-width scalars, inline arrays and
// length-prefixed text of the segment format.
//
// Every reader is a pure function over (buf, off): it returns the value and the
// offset just past it. On failure the returned offset equals off. All values
// are little-endian.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"

	"github.com/rawbytedev/partgraph/internal/common"
)

var le = binary.LittleEndian

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Reader is the shape shared by every primitive read.
type Reader[T any] func(buf []byte, off int) (T, int, error)

// Color is an RGBA colour stored as four float32.
type Color struct {
	R, G, B, A float32
}

func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B), channel(c.A))
}

func channel(f float32) uint8 {
	switch {
	case f <= 0 || math.IsNaN(float64(f)):
		return 0
	case f >= 1:
		return 0xFF
	default:
		return uint8(f*255 + 0.5)
	}
}

func short(buf []byte, off, n int) error {
	return Truncated(off, int64(n), int64(common.Remaining(buf, off)))
}

func U8(buf []byte, off int) (uint8, int, error) {
	if !common.Need(buf, off, 1) {
		return 0, off, short(buf, off, 1)
	}
	return buf[off], off + 1, nil
}

func U16(buf []byte, off int) (uint16, int, error) {
	if !common.Need(buf, off, 2) {
		return 0, off, short(buf, off, 2)
	}
	return le.Uint16(buf[off:]), off + 2, nil
}

func U32(buf []byte, off int) (uint32, int, error) {
	if !common.Need(buf, off, 4) {
		return 0, off, short(buf, off, 4)
	}
	return le.Uint32(buf[off:]), off + 4, nil
}

func U64(buf []byte, off int) (uint64, int, error) {
	if !common.Need(buf, off, 8) {
		return 0, off, short(buf, off, 8)
	}
	return le.Uint64(buf[off:]), off + 8, nil
}

func I8(buf []byte, off int) (int8, int, error) {
	v, next, err := U8(buf, off)
	return int8(v), next, err
}

func I16(buf []byte, off int) (int16, int, error) {
	v, next, err := U16(buf, off)
	return int16(v), next, err
}

func I32(buf []byte, off int) (int32, int, error) {
	v, next, err := U32(buf, off)
	return int32(v), next, err
}

func F32(buf []byte, off int) (float32, int, error) {
	v, next, err := U32(buf, off)
	return math.Float32frombits(v), next, err
}

func F64(buf []byte, off int) (float64, int, error) {
	v, next, err := U64(buf, off)
	return math.Float64frombits(v), next, err
}

// Bool accepts only the canonical encodings 0x00 and 0x01.
func Bool(buf []byte, off int) (bool, int, error) {
	v, next, err := U8(buf, off)
	if err != nil {
		return false, off, err
	}
	switch v {
	case 0:
		return false, next, nil
	case 1:
		return true, next, nil
	default:
		return false, off, InvalidBoolean(off, v)
	}
}

// UUID reads a 16 byte GUID whose first three groups are little-endian and
// returns it in RFC 4122 byte order.
func UUID(buf []byte, off int) (uuid.UUID, int, error) {
	if !common.Need(buf, off, 16) {
		return uuid.Nil, off, short(buf, off, 16)
	}
	var u uuid.UUID
	copy(u[:], buf[off:off+16])
	swapGUID(&u)
	return u, off + 16, nil
}

// swapGUID converts between the mixed-endian GUID layout and RFC order. It is
// its own inverse.
func swapGUID(u *uuid.UUID) {
	u[0], u[1], u[2], u[3] = u[3], u[2], u[1], u[0]
	u[4], u[5] = u[5], u[4]
	u[6], u[7] = u[7], u[6]
}

// Text16 reads a u32 count of UTF-16 code units followed by the units. An
// unpaired surrogate fails with InvalidText rather than being replaced.
func Text16(buf []byte, off int) (string, int, error) {
	n, i, err := U32(buf, off)
	if err != nil {
		return "", off, err
	}
	if !common.Fits(buf, i, int(n), 2) {
		return "", off, Truncated(i, common.Span(int(n), 2), int64(common.Remaining(buf, i)))
	}
	end := i + int(n)*2
	if j := loneSurrogate(buf[i:end]); j >= 0 {
		return "", off, InvalidText(i+j, le.Uint16(buf[i+j:]))
	}
	s, err := utf16le.NewDecoder().Bytes(buf[i:end])
	if err != nil {
		return "", off, errors.Wrapf(err, "utf-16 text at offset %d", i)
	}
	return string(s), end, nil
}

// loneSurrogate returns the byte offset in p of the first surrogate that is not
// part of a high-low pair, or -1.
func loneSurrogate(p []byte) int {
	for j := 0; j+1 < len(p); j += 2 {
		u := le.Uint16(p[j:])
		switch {
		case u >= 0xDC00 && u <= 0xDFFF:
			return j
		case u >= 0xD800 && u <= 0xDBFF:
			if j+3 >= len(p) {
				return j
			}
			if w := le.Uint16(p[j+2:]); w < 0xDC00 || w > 0xDFFF {
				return j
			}
			j += 2
		}
	}
	return -1
}

func Color4(buf []byte, off int) (Color, int, error) {
	v, next, err := F32s(buf, off, 4)
	if err != nil {
		return Color{}, off, err
	}
	return Color{R: v[0], G: v[1], B: v[2], A: v[3]}, next, nil
}

func Vec2(buf []byte, off int) ([2]float64, int, error) {
	var v [2]float64
	if !common.Need(buf, off, 16) {
		return v, off, short(buf, off, 16)
	}
	for j := range v {
		v[j] = math.Float64frombits(le.Uint64(buf[off+8*j:]))
	}
	return v, off + 16, nil
}

func Vec3(buf []byte, off int) ([3]float64, int, error) {
	var v [3]float64
	if !common.Need(buf, off, 24) {
		return v, off, short(buf, off, 24)
	}
	for j := range v {
		v[j] = math.Float64frombits(le.Uint64(buf[off+8*j:]))
	}
	return v, off + 24, nil
}

// Array reads n inline elements of the given width with no count prefix. The
// whole span is bounds-checked before the first element is read.
func Array[T any](buf []byte, off, n, width int, read Reader[T]) ([]T, int, error) {
	if !common.Fits(buf, off, n, width) {
		return nil, off, Truncated(off, common.Span(n, width), int64(common.Remaining(buf, off)))
	}
	out := make([]T, n)
	i := off
	for j := range out {
		var err error
		if out[j], i, err = read(buf, i); err != nil {
			return nil, off, err
		}
	}
	return out, i, nil
}

func U8s(buf []byte, off, n int) ([]uint8, int, error)    { return Array(buf, off, n, 1, U8) }
func U16s(buf []byte, off, n int) ([]uint16, int, error)  { return Array(buf, off, n, 2, U16) }
func U32s(buf []byte, off, n int) ([]uint32, int, error)  { return Array(buf, off, n, 4, U32) }
func I32s(buf []byte, off, n int) ([]int32, int, error)   { return Array(buf, off, n, 4, I32) }
func F32s(buf []byte, off, n int) ([]float32, int, error) { return Array(buf, off, n, 4, F32) }
func F64s(buf []byte, off, n int) ([]float64, int, error) { return Array(buf, off, n, 8, F64) }

// Skip advances n bytes.
func Skip(buf []byte, off, n int) (int, error) {
	if !common.Need(buf, off, n) {
		return off, short(buf, off, n)
	}
	return off + n, nil
}

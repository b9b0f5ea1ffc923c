package wire

import (
	"math"

	"github.com/google/uuid"
)

// The Append functions encode values exactly as the matching readers decode
// them. They build fixtures and verify round-trips; the engine never writes
// part files.

func AppendU8(dst []byte, v uint8) []byte   { return append(dst, v) }
func AppendU16(dst []byte, v uint16) []byte { return le.AppendUint16(dst, v) }
func AppendU32(dst []byte, v uint32) []byte { return le.AppendUint32(dst, v) }
func AppendU64(dst []byte, v uint64) []byte { return le.AppendUint64(dst, v) }
func AppendI8(dst []byte, v int8) []byte    { return append(dst, byte(v)) }
func AppendI16(dst []byte, v int16) []byte  { return le.AppendUint16(dst, uint16(v)) }
func AppendI32(dst []byte, v int32) []byte  { return le.AppendUint32(dst, uint32(v)) }

func AppendF32(dst []byte, v float32) []byte {
	return le.AppendUint32(dst, math.Float32bits(v))
}

func AppendF64(dst []byte, v float64) []byte {
	return le.AppendUint64(dst, math.Float64bits(v))
}

func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

func AppendUUID(dst []byte, u uuid.UUID) []byte {
	swapGUID(&u)
	return append(dst, u[:]...)
}

// AppendText16 writes the u32 code unit count followed by UTF-16LE units.
func AppendText16(dst []byte, s string) []byte {
	units, err := utf16le.NewEncoder().String(s)
	if err != nil {
		// the encoder replaces invalid input, so this only fires on a broken
		// transformer
		panic("wire: utf-16 encoder: " + err.Error())
	}
	dst = AppendU32(dst, uint32(len(units)/2))
	return append(dst, units...)
}

func AppendColor(dst []byte, c Color) []byte {
	for _, f := range [4]float32{c.R, c.G, c.B, c.A} {
		dst = AppendF32(dst, f)
	}
	return dst
}

func AppendF64s(dst []byte, v ...float64) []byte {
	for _, f := range v {
		dst = AppendF64(dst, f)
	}
	return dst
}

func AppendF32s(dst []byte, v ...float32) []byte {
	for _, f := range v {
		dst = AppendF32(dst, f)
	}
	return dst
}

func AppendU16s(dst []byte, v ...uint16) []byte {
	for _, x := range v {
		dst = AppendU16(dst, x)
	}
	return dst
}

func AppendU32s(dst []byte, v ...uint32) []byte {
	for _, x := range v {
		dst = AppendU32(dst, x)
	}
	return dst
}

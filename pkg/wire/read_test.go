package wire

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"testing/quick"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip decodes v from a buffer with junk on both sides, then re-encodes
// it at the same offset and compares the bytes.
func roundTrip[T any](t *testing.T, enc func([]byte, T) []byte, dec Reader[T], v T) bool {
	t.Helper()
	prefix := []byte{0xAA, 0xBB, 0xCC}
	buf := enc(append([]byte(nil), prefix...), v)
	end := len(buf)
	buf = append(buf, 0xEE)

	got, next, err := dec(buf, len(prefix))
	require.NoError(t, err)
	require.Equal(t, end, next)

	again := enc(append([]byte(nil), prefix...), got)
	return bytes.Equal(buf[:end], again)
}

func TestScalarRoundTrip(t *testing.T) {
	checks := []any{
		func(v uint8) bool { return roundTrip(t, AppendU8, U8, v) },
		func(v uint16) bool { return roundTrip(t, AppendU16, U16, v) },
		func(v uint32) bool { return roundTrip(t, AppendU32, U32, v) },
		func(v uint64) bool { return roundTrip(t, AppendU64, U64, v) },
		func(v int8) bool { return roundTrip(t, AppendI8, I8, v) },
		func(v int16) bool { return roundTrip(t, AppendI16, I16, v) },
		func(v int32) bool { return roundTrip(t, AppendI32, I32, v) },
		func(v float32) bool { return roundTrip(t, AppendF32, F32, v) },
		func(v float64) bool { return roundTrip(t, AppendF64, F64, v) },
		func(v bool) bool { return roundTrip(t, AppendBool, Bool, v) },
	}
	for _, check := range checks {
		require.NoError(t, quick.Check(check, &quick.Config{}))
	}
}

func TestFloatBitsSurviveRoundTrip(t *testing.T) {
	nan := math.Float64frombits(0x7FF8000000000001)
	assert.True(t, roundTrip(t, AppendF64, F64, nan))
	assert.True(t, roundTrip(t, AppendF64, F64, math.Copysign(0, -1)))
	assert.True(t, roundTrip(t, AppendF32, F32, float32(math.Inf(-1))))
}

func TestUUIDLayout(t *testing.T) {
	raw := []byte{
		0x33, 0x22, 0x11, 0x00, 0x55, 0x44, 0x77, 0x66,
		0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
	}
	u, next, err := UUID(raw, 0)
	require.NoError(t, err)
	assert.Equal(t, 16, next)
	assert.Equal(t, "00112233-4455-6677-8899-aabbccddeeff", u.String())
	assert.Equal(t, raw, AppendUUID(nil, u))

	require.NoError(t, quick.Check(func(b [16]byte) bool {
		return roundTrip(t, AppendUUID, UUID, uuid.UUID(b))
	}, nil))
}

func TestText16(t *testing.T) {
	for _, s := range []string{"", "Sketch1", "Bohrung Ø 5", "𝔘nicode"} {
		assert.True(t, roundTrip(t, AppendText16, Text16, s), s)
	}

	buf := AppendText16(nil, "abc")
	assert.Equal(t, uint32(3), le.Uint32(buf))
	assert.Len(t, buf, 4+6)
}

func TestText16Truncated(t *testing.T) {
	buf := AppendU32(nil, 10)
	buf = append(buf, 'a', 0, 'b', 0)

	_, next, err := Text16(buf, 0)
	require.Error(t, err)
	assert.Equal(t, 0, next)
	assert.ErrorIs(t, err, ErrTruncated)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 4, de.Offset)
	assert.EqualValues(t, 20, de.Expected)
	assert.EqualValues(t, 4, de.Actual)
}

func TestText16RejectsLoneSurrogates(t *testing.T) {
	for _, tc := range []struct {
		name  string
		units []byte
		at    int
	}{
		{"high alone", []byte{0x00, 0xD8}, 4},
		{"low alone", []byte{0x41, 0x00, 0x00, 0xDC}, 6},
		{"high then bmp", []byte{0x00, 0xD8, 0x41, 0x00}, 4},
	} {
		t.Run(tc.name, func(t *testing.T) {
			buf := append(AppendU32(nil, uint32(len(tc.units)/2)), tc.units...)
			s, next, err := Text16(buf, 0)
			assert.Empty(t, s)
			assert.Equal(t, 0, next)
			assert.ErrorIs(t, err, ErrInvalidText)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tc.at, de.Offset)
		})
	}

	pair := append(AppendU32(nil, 2), 0x35, 0xD8, 0x18, 0xDD)
	s, next, err := Text16(pair, 0)
	require.NoError(t, err)
	assert.Equal(t, "𝔘", s)
	assert.Equal(t, len(pair), next)
}

func TestText16HugeCount(t *testing.T) {
	buf := AppendU32(nil, math.MaxUint32)
	_, _, err := Text16(buf, 0)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestBoolRejectsNonCanonical(t *testing.T) {
	for _, b := range []byte{0x02, 0x7F, 0xFF} {
		_, next, err := Bool([]byte{b}, 0)
		assert.ErrorIs(t, err, ErrInvalidBoolean)
		assert.Equal(t, 0, next)
	}
}

func TestReadPastEnd(t *testing.T) {
	buf := []byte{1, 2, 3}
	_, _, err := U32(buf, 0)
	assert.ErrorIs(t, err, ErrTruncated)
	_, _, err = U8(buf, 3)
	assert.ErrorIs(t, err, ErrTruncated)
	_, _, err = U8(buf, -1)
	assert.ErrorIs(t, err, ErrTruncated)
	_, _, err = Vec3(buf, 0)
	assert.ErrorIs(t, err, ErrTruncated)
	_, err = Skip(buf, 2, 2)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestArrays(t *testing.T) {
	buf := AppendF64s(nil, 1.5, -2.25, 3)
	v, next, err := F64s(buf, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -2.25, 3}, v)
	assert.Equal(t, 24, next)

	_, next, err = F64s(buf, 0, 4)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, 0, next)

	u16, _, err := U16s(AppendU16s(nil, 7, 8), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint16{7, 8}, u16)

	vec, _, err := Vec2(buf, 8)
	require.NoError(t, err)
	assert.Equal(t, [2]float64{-2.25, 3}, vec)
}

func TestColor(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: 0, A: 1}
	got, next, err := Color4(AppendColor(nil, c), 0)
	require.NoError(t, err)
	assert.Equal(t, 16, next)
	assert.Equal(t, c, got)
	assert.Equal(t, "#FF8000FF", got.String())
}

func TestDecodeErrorIs(t *testing.T) {
	err := FrameMismatch(12, 40, 41)
	assert.ErrorIs(t, err, ErrFrameMismatch)
	assert.NotErrorIs(t, err, ErrTruncated)
	assert.Contains(t, err.Error(), "expected 40, got 41")

	un := UnconsumedBytes(0, 10, 6)
	assert.EqualValues(t, 4, un.Remaining())
	assert.Contains(t, UnknownRecordType(8, 0xA79EACCF).Error(), "A79EACCF")
}

func FuzzText16(f *testing.F) {
	f.Add(AppendText16(nil, "Part1"))
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0x7F})
	f.Fuzz(func(t *testing.T, data []byte) {
		s, next, err := Text16(data, 0)
		if err != nil {
			require.Equal(t, 0, next)
			return
		}
		require.LessOrEqual(t, next, len(data))
		require.Equal(t, data[:next], AppendText16(nil, s))
	})
}

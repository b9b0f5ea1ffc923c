package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderFrames(t *testing.T) {
	buf := NewBuilder(64).
		Frame(func(b *Builder) {
			b.U8(1)
			b.Frame(func(b *Builder) { b.U16(2) })
		}).
		Bytes()

	// outer: 4 + [1 + 4 + 2 + 4] + 4
	assert.Len(t, buf, 19)
	assert.Equal(t, uint32(11), le.Uint32(buf[0:]))
	assert.Equal(t, uint32(11), le.Uint32(buf[15:]))
	assert.Equal(t, uint32(2), le.Uint32(buf[5:]))
	assert.Equal(t, uint32(2), le.Uint32(buf[11:]))
}

func TestBuilderSegment(t *testing.T) {
	buf := NewBuilder(0).Segment(0x120284EF, func(b *Builder) { b.U8(9) }).Bytes()
	assert.Len(t, buf, 4+4+1+4)
	assert.Equal(t, uint32(5), le.Uint32(buf))
	assert.Equal(t, uint32(0x120284EF), le.Uint32(buf[4:]))
}

func TestBuilderEndWithoutBegin(t *testing.T) {
	assert.Panics(t, func() { NewBuilder(0).End() })
}

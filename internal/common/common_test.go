package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeOf(t *testing.T) {
	assert.Equal(t, 1, SizeOf[bool]())
	assert.Equal(t, 1, SizeOf[uint8]())
	assert.Equal(t, 2, SizeOf[int16]())
	assert.Equal(t, 4, SizeOf[uint32]())
	assert.Equal(t, 4, SizeOf[float32]())
	assert.Equal(t, 8, SizeOf[float64]())
	assert.Equal(t, 8, SizeOf[uint64]())

	type key uint32
	assert.Equal(t, 4, SizeOf[key]())
}

func TestNeed(t *testing.T) {
	buf := make([]byte, 8)
	assert.True(t, Need(buf, 0, 8))
	assert.True(t, Need(buf, 8, 0))
	assert.False(t, Need(buf, 5, 4))
	assert.False(t, Need(buf, -1, 1))
	assert.False(t, Need(buf, 9, 0))
}

func TestFitsDoesNotOverflow(t *testing.T) {
	buf := make([]byte, 16)
	assert.True(t, Fits(buf, 0, 2, 8))
	assert.False(t, Fits(buf, 1, 2, 8))
	assert.False(t, Fits(buf, 0, math.MaxInt, 8))
	assert.True(t, Fits(buf, 16, 0, 8))
	assert.False(t, Fits(buf, 0, -1, 4))
}

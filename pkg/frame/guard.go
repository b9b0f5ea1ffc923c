// Package frame checks the redundant length markers that bracket framed
// regions of a record.
//
// A region is written as
//
//	[u32 marker][region bytes][u32 marker]
//
// and both markers carry the same value. A disagreement means the stream is
// corrupt or the record layout used to read it is wrong for this version.
package frame

import (
	"github.com/rawbytedev/partgraph/pkg/wire"
)

// MarkerSize is the width of one length marker.
const MarkerSize = 4

type mark struct {
	offset   int    // offset of the leading marker
	declared uint32 // leading marker value
}

// Guard tracks the frames opened by one record. Frames nest, so the open
// frames form a stack. A zero Guard is lenient.
type Guard struct {
	// Strict makes Close return FrameMismatch. When false mismatches are only
	// recorded.
	Strict bool

	stack      []mark
	mismatches []*wire.DecodeError
}

func New(strict bool) *Guard {
	return &Guard{Strict: strict}
}

// Open reads a leading marker at off and pushes a frame.
func (g *Guard) Open(buf []byte, off int) (int, error) {
	v, next, err := wire.U32(buf, off)
	if err != nil {
		return off, err
	}
	g.stack = append(g.stack, mark{offset: off, declared: v})
	return next, nil
}

// Close reads the trailing marker of the innermost frame and compares it with
// the leading one. In strict mode a mismatch is returned and the offset does
// not move past the frame.
func (g *Guard) Close(buf []byte, off int) (int, error) {
	v, next, err := wire.U32(buf, off)
	if err != nil {
		return off, err
	}
	if len(g.stack) == 0 {
		return g.mismatch(off, next, 0, v)
	}
	top := g.stack[len(g.stack)-1]
	g.stack = g.stack[:len(g.stack)-1]
	if v != top.declared {
		return g.mismatch(off, next, top.declared, v)
	}
	return next, nil
}

func (g *Guard) mismatch(off, next int, expected, actual uint32) (int, error) {
	err := wire.FrameMismatch(off, expected, actual)
	g.mismatches = append(g.mismatches, err)
	if g.Strict {
		return off, err
	}
	return next, nil
}

// Skip is the legacy block-size skip: it steps over one marker without
// validating it.
func (g *Guard) Skip(buf []byte, off int) (int, error) {
	return wire.Skip(buf, off, MarkerSize)
}

// SkipN steps over n bytes of markers, as in the layouts that carry two
// adjacent markers.
func (g *Guard) SkipN(buf []byte, off, n int) (int, error) {
	return wire.Skip(buf, off, n)
}

// Declared returns the leading marker of the innermost open frame.
func (g *Guard) Declared() (uint32, bool) {
	if len(g.stack) == 0 {
		return 0, false
	}
	return g.stack[len(g.stack)-1].declared, true
}

// Consumed returns the bytes read inside the innermost open frame up to off.
func (g *Guard) Consumed(off int) int {
	if len(g.stack) == 0 {
		return 0
	}
	return off - g.stack[len(g.stack)-1].offset - MarkerSize
}

func (g *Guard) Depth() int { return len(g.stack) }

// Unclosed returns a FrameMismatch when frames above depth are still open at
// off, meaning their trailing markers were never checked. Expected is the
// leading marker of the innermost open frame and Actual the bytes read inside
// it.
func (g *Guard) Unclosed(depth, off int) error {
	if len(g.stack) <= depth {
		return nil
	}
	declared, _ := g.Declared()
	err := wire.FrameMismatch(g.stack[len(g.stack)-1].offset, declared, uint32(g.Consumed(off)))
	err.Detail = "frame not closed"
	return err
}

// Mismatches returns every mismatch seen since the last Reset, strict or not.
func (g *Guard) Mismatches() []*wire.DecodeError { return g.mismatches }

// Truncate drops open frames above depth, used when a record fails part way.
func (g *Guard) Truncate(depth int) {
	if depth < len(g.stack) {
		g.stack = g.stack[:depth]
	}
}

func (g *Guard) Reset() {
	g.stack = g.stack[:0]
	g.mismatches = g.mismatches[:0]
}

// Package partgraph decodes the segment streams of a part file into a graph
// of typed nodes.
//
// A stream is a sequence of segments:
//
//	[u32 size][u32 type hash][body][u32 size]
//
// where size counts the type hash and the body. Each segment is read by the
// handler registered for its type hash. A segment that fails is recorded and
// skipped; decoding continues with the next one. References between nodes are
// resolved once, by Finalize, after every segment has been read.
package partgraph

import (
	"context"
	"encoding/hex"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"

	"github.com/rawbytedev/partgraph/pkg/dispatch"
	"github.com/rawbytedev/partgraph/pkg/frame"
	"github.com/rawbytedev/partgraph/pkg/graph"
	"github.com/rawbytedev/partgraph/pkg/resolve"
	"github.com/rawbytedev/partgraph/pkg/wire"
)

var (
	ErrFinalized = errors.New("partgraph: session already finalized")
	ErrNoHandler = errors.New("partgraph: registry is nil")
)

// markers is the size of the two length markers around a segment.
const markers = 2 * frame.MarkerSize

// Session decodes one or more buffers into a single graph. A session is not
// safe for concurrent use; run one session per input instead.
type Session struct {
	opts     Options
	log      *slog.Logger
	env      *dispatch.Env
	graph    *graph.Graph
	resolver *resolve.Resolver
	guard    *frame.Guard
	hasher   *blake3.Hasher
	segments []SegmentReport
	done     bool
}

// NewSession prepares a session over reg. The registry is sealed if it was
// not already.
func NewSession(reg *dispatch.Registry, opts ...Option) *Session {
	o := buildOptions(opts)
	if reg != nil && !reg.Sealed() {
		reg.Seal()
	}
	s := &Session{
		opts:     o,
		log:      o.Logger.With("graph", o.GraphName),
		graph:    graph.New(o.GraphName),
		resolver: resolve.New(),
		guard:    frame.New(o.StrictFrames),
		hasher:   blake3.New(),
	}
	s.env = &dispatch.Env{
		Registry: reg,
		Version:  o.Version,
		Guard:    s.guard,
		Resolver: s.resolver,
		Graph:    s.graph,
		Logger:   s.log,
	}
	return s
}

func (s *Session) Graph() *graph.Graph { return s.graph }

func (s *Session) Options() Options { return s.opts }

// Decode reads every segment of buf. Record failures are recorded on the
// segment report and do not stop decoding. Decode returns an error only when
// the stream cannot be followed any further (a truncated segment header) or
// ctx is done; segments read before that are kept. The context is checked
// between segments.
func (s *Session) Decode(ctx context.Context, buf []byte) error {
	if s.done {
		return ErrFinalized
	}
	if s.env.Registry == nil {
		return ErrNoHandler
	}
	_, _ = s.hasher.Write(buf)

	for off := 0; off < len(buf); {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, err := s.segment(buf, off)
		if err != nil {
			return err
		}
		off = next
	}
	return nil
}

// segment reads the segment at off and returns the offset of the next one.
func (s *Session) segment(buf []byte, off int) (int, error) {
	id := len(s.segments) + 1
	rep := SegmentReport{ID: id, Offset: off}

	declared, i, err := wire.U32(buf, off)
	if need := int64(declared) + markers; err == nil && (declared < 4 || need > int64(len(buf)-off)) {
		err = wire.Truncated(off, need, int64(len(buf)-off))
	}
	if err != nil {
		rep.Errors = append(rep.Errors, errorReport(err))
		s.segments = append(s.segments, rep)
		s.log.Warn("segment header truncated", "segment", id, "offset", off, "err", err)
		return off, errors.Wrapf(err, "segment %d", id)
	}
	end := i + int(declared)
	rep.DeclaredBytes = int64(declared)
	rep.TypeHash, _, _ = wire.U32(buf, i)
	rep.TypeName = s.env.Registry.Name(rep.TypeHash)

	s.guard.Reset()
	_, _ = s.guard.Open(buf, off)
	if _, err := s.guard.Close(buf, end); err != nil {
		// Strict: the segment bounds cannot be trusted, so the record is not read.
		rep.Errors = append(rep.Errors, errorReport(err))
		rep.FrameMismatches = mismatchReports(s.guard.Mismatches())
		s.segments = append(s.segments, rep)
		s.log.Warn("segment frame mismatch", "segment", id, "offset", off, "err", err)
		return end + frame.MarkerSize, nil
	}

	node := graph.NewNode(rep.TypeHash, "")
	node.Manager = true
	node.Segment = id
	node.Offset = i
	node.Keys = []uint32{uint32(id)}

	next, err := s.env.Decode(buf[:end], node, i+4)
	switch {
	case err != nil:
		rep.Errors = append(rep.Errors, errorReport(err))
		s.log.Warn("record failed", "segment", id, "type", node.Name(), "err", err)
	default:
		rep.TypeName = node.TypeName
		rep.ConsumedBytes = int64(next - i)
		if rep.ConsumedBytes != rep.DeclaredBytes {
			ub := wire.UnconsumedBytes(next, rep.DeclaredBytes, rep.ConsumedBytes)
			ub.TypeHash = rep.TypeHash
			rep.Errors = append(rep.Errors, errorReport(ub))
			s.log.Warn("record not fully read", "segment", id, "type", node.Name(), "remaining", ub.Remaining())
		}
	}
	rep.FrameMismatches = mismatchReports(s.guard.Mismatches())
	for _, m := range s.guard.Mismatches() {
		s.log.Warn("frame mismatch", "segment", id, "offset", m.Offset, "expected", m.Expected, "actual", m.Actual)
	}
	s.segments = append(s.segments, rep)
	s.log.Debug("segment", "segment", id, "type", node.Name(), "offset", off, "declared", declared)
	return end + frame.MarkerSize, nil
}

// Finalize resolves every pending reference and builds the report. cross
// resolves cross references into other graphs; when nil they resolve in this
// graph. The report is always returned. If references are left dangling the
// error is a *resolve.UnresolvedError listing all of them; they are also in
// Report.Unresolved. No more buffers can be decoded after Finalize.
func (s *Session) Finalize(cross resolve.CrossIndex) (*Report, error) {
	s.done = true
	err := s.resolver.Finalize(s.graph, cross)

	rep := &Report{
		Version:  int(s.opts.Version),
		Digest:   hex.EncodeToString(s.hasher.Sum(nil)),
		Graph:    s.graph.Name,
		Nodes:    s.graph.Len(),
		Segments: append([]SegmentReport(nil), s.segments...),
	}
	var ue *resolve.UnresolvedError
	if errors.As(err, &ue) {
		rep.Unresolved = unresolvedReports(ue)
		for _, u := range rep.Unresolved {
			if u.Segment >= 1 && u.Segment <= len(rep.Segments) {
				rep.Segments[u.Segment-1].UnresolvedReferences++
			}
		}
	}
	s.log.Info("session finalized",
		"segments", len(rep.Segments),
		"nodes", rep.Nodes,
		"errors", rep.Errors(),
		"unresolved", len(rep.Unresolved))
	return rep, err
}

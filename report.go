package partgraph

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/rawbytedev/partgraph/pkg/graph"
	"github.com/rawbytedev/partgraph/pkg/resolve"
	"github.com/rawbytedev/partgraph/pkg/wire"
)

// Report is the outcome of one session: every anomaly found, per segment,
// plus the references left dangling at finalize.
type Report struct {
	Version    int             `cbor:"version"`
	Digest     string          `cbor:"digest"` // BLAKE3-256 of the decoded input, hex
	Graph      string          `cbor:"graph"`
	Nodes      int             `cbor:"nodes"`
	Segments   []SegmentReport `cbor:"segments"`
	Unresolved []RefReport     `cbor:"unresolved,omitempty"`
}

// SegmentReport describes one top-level segment.
type SegmentReport struct {
	ID                   int           `cbor:"id"`
	Offset               int           `cbor:"offset"`
	TypeHash             uint32        `cbor:"type"`
	TypeName             string        `cbor:"name,omitempty"`
	ConsumedBytes        int64         `cbor:"consumed"`
	DeclaredBytes        int64         `cbor:"declared"`
	FrameMismatches      []ErrorReport `cbor:"mismatches,omitempty"`
	UnresolvedReferences int           `cbor:"unresolved,omitempty"`
	Errors               []ErrorReport `cbor:"errors,omitempty"`
}

// ErrorReport is a recorded DecodeError.
type ErrorReport struct {
	Kind     wire.Kind `cbor:"kind"`
	Offset   int       `cbor:"offset"`
	Expected int64     `cbor:"expected,omitempty"`
	Actual   int64     `cbor:"actual,omitempty"`
	TypeHash uint32    `cbor:"type,omitempty"`
	Key      uint32    `cbor:"key,omitempty"`
	Message  string    `cbor:"message"`
}

// RefReport describes a reference whose target key was never produced.
type RefReport struct {
	Key       uint32     `cbor:"key"`
	Role      graph.Role `cbor:"role"`
	Name      string     `cbor:"name"`
	Owner     int        `cbor:"owner"`
	OwnerType uint32     `cbor:"owner_type"`
	Segment   int        `cbor:"segment"`
	Offset    int        `cbor:"offset"`
}

func errorReport(err error) ErrorReport {
	rep := ErrorReport{Message: err.Error()}
	var de *wire.DecodeError
	if errors.As(err, &de) {
		rep.Kind = de.Kind
		rep.Offset = de.Offset
		rep.Expected = de.Expected
		rep.Actual = de.Actual
		rep.TypeHash = de.TypeHash
		rep.Key = de.Key
	}
	return rep
}

func mismatchReports(ms []*wire.DecodeError) []ErrorReport {
	if len(ms) == 0 {
		return nil
	}
	out := make([]ErrorReport, len(ms))
	for i, m := range ms {
		out[i] = errorReport(m)
	}
	return out
}

func refReport(ref *graph.Ref) RefReport {
	rep := RefReport{Key: ref.Key, Role: ref.Role, Name: ref.Name, Offset: ref.Offset, Owner: -1}
	if ref.Owner != nil {
		rep.Owner = ref.Owner.Index
		rep.OwnerType = ref.Owner.TypeHash
		rep.Segment = ref.Owner.Segment
	}
	return rep
}

func unresolvedReports(err *resolve.UnresolvedError) []RefReport {
	out := make([]RefReport, len(err.Refs))
	for i, ref := range err.Refs {
		out[i] = refReport(ref)
	}
	return out
}

// Segment returns the report of segment id.
func (r *Report) Segment(id int) (SegmentReport, bool) {
	if id < 1 || id > len(r.Segments) {
		return SegmentReport{}, false
	}
	return r.Segments[id-1], true
}

// Errors counts recorded errors over all segments.
func (r *Report) Errors() int {
	n := 0
	for _, s := range r.Segments {
		n += len(s.Errors)
	}
	return n
}

// Clean reports whether the session decoded without any anomaly.
func (r *Report) Clean() bool {
	if len(r.Unresolved) > 0 {
		return false
	}
	for _, s := range r.Segments {
		if len(s.Errors) > 0 || len(s.FrameMismatches) > 0 || s.ConsumedBytes != s.DeclaredBytes {
			return false
		}
	}
	return true
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic("partgraph: CBOR encoder: " + err.Error())
	}
	if decMode, err = (cbor.DecOptions{}).DecMode(); err != nil {
		panic("partgraph: CBOR decoder: " + err.Error())
	}
}

// report drops the methods of Report so encoding does not recurse.
type report Report

// MarshalCBOR encodes the report with deterministic encoding, so the same
// session always produces the same bytes.
func (r *Report) MarshalCBOR() ([]byte, error) {
	return encMode.Marshal((*report)(r))
}

// UnmarshalReport decodes a report written by MarshalCBOR.
func UnmarshalReport(data []byte) (*Report, error) {
	var r report
	if err := decMode.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, "decode report")
	}
	return (*Report)(&r), nil
}

// WriteText prints the report one segment per line.
func (r *Report) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("version %d digest %s nodes %d segments %d\n", r.Version, r.Digest, r.Nodes, len(r.Segments))
	for _, s := range r.Segments {
		name := s.TypeName
		if name == "" {
			name = fmt.Sprintf("%08X", s.TypeHash)
		}
		ew.printf("#%d @%d %s consumed %d/%d", s.ID, s.Offset, name, s.ConsumedBytes, s.DeclaredBytes)
		if len(s.FrameMismatches) > 0 {
			ew.printf(" mismatches %d", len(s.FrameMismatches))
		}
		if s.UnresolvedReferences > 0 {
			ew.printf(" unresolved %d", s.UnresolvedReferences)
		}
		ew.printf("\n")
		for _, e := range s.Errors {
			ew.printf("\t%s: %s\n", e.Kind, e.Message)
		}
		for _, m := range s.FrameMismatches {
			ew.printf("\tmarker @%d: expected %d, got %d\n", m.Offset, m.Expected, m.Actual)
		}
	}
	for _, u := range r.Unresolved {
		ew.printf("unresolved key %d (%s %q) from node %d in segment %d at offset %d\n",
			u.Key, u.Role, u.Name, u.Owner, u.Segment, u.Offset)
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

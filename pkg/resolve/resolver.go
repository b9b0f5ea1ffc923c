// Package resolve records references while records are decoded and binds them
// to nodes once the whole session has been read, so forward and cyclic
// references need no second pass over the bytes.
package resolve

import (
	"fmt"
	"strings"

	"github.com/rawbytedev/partgraph/pkg/graph"
	"github.com/rawbytedev/partgraph/pkg/wire"
)

// CrossIndex resolves cross references into another segment's graph. It is
// supplied by whoever decoded that segment.
type CrossIndex interface {
	LookupCross(key uint32) (graph.NodeID, bool)
}

// CrossMap is a CrossIndex backed by a map.
type CrossMap map[uint32]graph.NodeID

func (m CrossMap) LookupCross(key uint32) (graph.NodeID, bool) {
	id, ok := m[key]
	return id, ok
}

// GraphIndex exposes the key table of a finished graph as a CrossIndex.
func GraphIndex(g *graph.Graph) CrossIndex { return graphIndex{g} }

type graphIndex struct{ g *graph.Graph }

func (x graphIndex) LookupCross(key uint32) (graph.NodeID, bool) {
	n, ok := x.g.Lookup(key)
	if !ok {
		return graph.NodeID{}, false
	}
	return x.g.ID(n), true
}

// IndexOf exposes the index table of a finished graph as a CrossIndex.
func IndexOf(g *graph.Graph) CrossIndex { return indexTable{g} }

type indexTable struct{ g *graph.Graph }

func (x indexTable) LookupCross(key uint32) (graph.NodeID, bool) {
	n, ok := x.g.LookupIndex(key)
	if !ok {
		return graph.NodeID{}, false
	}
	return x.g.ID(n), true
}

// Resolver keeps every reference of a session in request order.
type Resolver struct {
	refs      []*graph.Ref
	committed int
}

func New() *Resolver { return &Resolver{} }

// Request records a reference read from the stream. A raw value of zero is
// the null reference and is kept as optional-absent. The reference is attached
// to owner according to its role; plain references are left for the caller to
// store in an attribute.
func (r *Resolver) Request(owner *graph.Node, role graph.Role, name string, raw uint32, off int) *graph.Ref {
	key, flags := graph.Split(raw)
	ref := &graph.Ref{
		Owner:    owner,
		Role:     role,
		Name:     name,
		Key:      key,
		Flags:    flags,
		Offset:   off,
		Optional: key == 0,
	}
	r.attach(ref)
	return ref
}

// Direct records a reference whose target is already known, such as a
// backward reference to an admitted node.
func (r *Resolver) Direct(owner *graph.Node, role graph.Role, name string, target graph.NodeID) *graph.Ref {
	ref := &graph.Ref{
		Owner:    owner,
		Role:     role,
		Name:     name,
		Resolved: true,
		Target:   target,
	}
	r.attach(ref)
	return ref
}

func (r *Resolver) attach(ref *graph.Ref) {
	r.refs = append(r.refs, ref)
	switch ref.Role {
	case graph.RoleParent:
		if old := ref.Owner.Parent; old != nil {
			r.drop(old)
		}
		ref.Owner.Parent = ref
	case graph.RoleChild:
		ref.Owner.Children = append(ref.Owner.Children, ref)
	case graph.RoleCross:
		ref.Owner.Cross = append(ref.Owner.Cross, ref)
	}
}

// drop removes a superseded reference. It is always recent, so the scan runs
// backwards.
func (r *Resolver) drop(ref *graph.Ref) {
	for i := len(r.refs) - 1; i >= r.committed; i-- {
		if r.refs[i] == ref {
			r.refs = append(r.refs[:i], r.refs[i+1:]...)
			return
		}
	}
}

// Begin starts a record transaction and returns the mark Rollback returns to.
func (r *Resolver) Begin() int { return len(r.refs) }

// Commit keeps every reference requested so far. A later Rollback cannot go
// below this point.
func (r *Resolver) Commit() { r.committed = len(r.refs) }

// Rollback forgets every reference requested after mark. Used when a record
// fails and its staged nodes are discarded.
func (r *Resolver) Rollback(mark int) {
	mark = max(mark, r.committed)
	if mark >= len(r.refs) {
		return
	}
	clear(r.refs[mark:])
	r.refs = r.refs[:mark]
}

func (r *Resolver) Len() int { return len(r.refs) }

// Pending returns the references that still need a target.
func (r *Resolver) Pending() []*graph.Ref {
	var out []*graph.Ref
	for _, ref := range r.refs {
		if ref.Pending() {
			out = append(out, ref)
		}
	}
	return out
}

// Finalize binds every pending reference in request order. Plain, child and
// parent references resolve against the graph's key table; cross references go
// through cross when it is non-nil. Every reference left unbound is returned in
// one UnresolvedError. Finalize can be called again after more nodes exist.
func (r *Resolver) Finalize(g *graph.Graph, cross CrossIndex) error {
	var missing []*graph.Ref
	for _, ref := range r.refs {
		if !ref.Pending() {
			continue
		}
		if ref.Role == graph.RoleCross && cross != nil {
			if id, ok := cross.LookupCross(ref.Key); ok {
				ref.Target, ref.Resolved = id, true
				continue
			}
		} else if n, ok := g.Lookup(ref.Key); ok {
			ref.Target, ref.Resolved = g.ID(n), true
			continue
		}
		missing = append(missing, ref)
	}
	if len(missing) > 0 {
		return &UnresolvedError{Refs: missing}
	}
	return nil
}

// UnresolvedError lists every reference whose target key was never produced.
type UnresolvedError struct {
	Refs []*graph.Ref
}

func (e *UnresolvedError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d unresolved references", len(e.Refs))
	for i, ref := range e.Refs {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString("; ")
		}
		sb.WriteString(Describe(ref))
	}
	return sb.String()
}

// Is matches wire.ErrUnresolvedReference.
func (e *UnresolvedError) Is(target error) bool {
	t, ok := target.(*wire.DecodeError)
	return ok && t.Kind == wire.KindUnresolvedReference
}

// Errors returns one DecodeError per dangling reference.
func (e *UnresolvedError) Errors() []*wire.DecodeError {
	out := make([]*wire.DecodeError, len(e.Refs))
	for i, ref := range e.Refs {
		de := wire.UnresolvedReference(ref.Key, Describe(ref))
		de.Offset = ref.Offset
		if ref.Owner != nil {
			de.TypeHash = ref.Owner.TypeHash
		}
		out[i] = de
	}
	return out
}

// Describe names a reference by key, role, attribute and owner.
func Describe(ref *graph.Ref) string {
	owner := "?"
	if ref.Owner != nil {
		owner = fmt.Sprintf("[%d] %s", ref.Owner.Index, ref.Owner.Name())
	}
	return fmt.Sprintf("key %d (%s %q of %s at offset %d)", ref.Key, ref.Role, ref.Name, owner, ref.Offset)
}

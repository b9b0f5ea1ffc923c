package dispatch

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/rawbytedev/partgraph/pkg/frame"
	"github.com/rawbytedev/partgraph/pkg/graph"
	"github.com/rawbytedev/partgraph/pkg/resolve"
	"github.com/rawbytedev/partgraph/pkg/wire"
)

// Env is the session state records are decoded into.
type Env struct {
	Registry *Registry
	Version  Version
	Guard    *frame.Guard
	Resolver *resolve.Resolver
	Graph    *graph.Graph
	Logger   *slog.Logger
}

// run stages the nodes of one top-level record.
type run struct {
	env    *Env
	buf    []byte
	base   int
	staged []*graph.Node
}

func (rn *run) stage(n *graph.Node, depth int) *Record {
	id := graph.NodeID{Graph: rn.env.Graph.Name, Index: rn.base + len(rn.staged)}
	rn.staged = append(rn.staged, n)
	return &Record{run: rn, node: n, id: id, depth: depth}
}

// Decode runs the handler registered for node.TypeHash on buf starting at off.
// buf must end where the record ends. On success the node and every nested
// node are admitted to the graph and their references committed. On failure
// nothing is admitted, the references are rolled back and the error is
// returned with the record's type hash set.
func (e *Env) Decode(buf []byte, node *graph.Node, off int) (int, error) {
	entry, err := e.Registry.Lookup(node.TypeHash)
	if err != nil {
		return off, wire.UnknownRecordType(node.Offset, node.TypeHash)
	}
	if node.TypeName == "" {
		node.TypeName = entry.Name
	}

	mark := e.Resolver.Begin()
	depth := e.Guard.Depth()
	rn := &run{env: e, buf: buf, base: e.Graph.Len()}
	rec := rn.stage(node, 0)

	next, err := entry.Handler(rec, off)
	if err == nil {
		err = rec.err
	}
	if err == nil {
		err = e.Guard.Unclosed(depth, next)
	}
	if err == nil {
		err = e.Graph.Admit(rn.staged...)
	}
	if err != nil {
		e.Resolver.Rollback(mark)
		e.Guard.Truncate(depth)
		return off, errors.Wrapf(withTypeHash(err, node.TypeHash), "%s at offset %d", node.Name(), node.Offset)
	}
	e.Resolver.Commit()
	if len(rn.staged) > 1 && e.Logger != nil {
		e.Logger.Debug("nested records admitted", "type", node.Name(), "count", len(rn.staged)-1)
	}
	return next, nil
}

// withTypeHash returns err with the record's type hash filled in. A bare
// DecodeError is copied first, since handlers may return the shared sentinels.
func withTypeHash(err error, hash uint32) error {
	de, ok := err.(*wire.DecodeError)
	if !ok || de.TypeHash != 0 {
		return err
	}
	cp := *de
	cp.TypeHash = hash
	return &cp
}

// Package graph is the output model: an append-only arena of typed,
// attributed nodes joined by parent, child, cross and plain references.
package graph

import (
	"fmt"

	"github.com/rawbytedev/partgraph/pkg/wire"
)

// Graph owns every node of a decode session. Nodes are never removed.
type Graph struct {
	Name  string
	nodes []*Node
	keys  map[uint32]int
	index map[uint32]int
}

func New(name string) *Graph {
	return &Graph{Name: name, keys: make(map[uint32]int), index: make(map[uint32]int)}
}

// Admit appends nodes in order, assigning indices and binding their keys and
// index keys. It is all or nothing: if any key is already bound, or bound
// twice among nodes, nothing is admitted.
func (g *Graph) Admit(nodes ...*Node) error {
	seen := make(map[uint32]struct{})
	seenIndex := make(map[uint32]struct{})
	for _, n := range nodes {
		if n.Admitted() {
			return fmt.Errorf("graph: node %s already admitted at %d", n.Name(), n.Index)
		}
		if err := unbound(n, n.Keys, g.keys, seen); err != nil {
			return err
		}
		if err := unbound(n, n.Indexed, g.index, seenIndex); err != nil {
			return err
		}
	}
	for _, n := range nodes {
		n.Index = len(g.nodes)
		n.graph = g
		g.nodes = append(g.nodes, n)
		for _, k := range n.Keys {
			g.keys[k] = n.Index
		}
		for _, k := range n.Indexed {
			g.index[k] = n.Index
		}
	}
	return nil
}

func unbound(n *Node, keys []uint32, bound map[uint32]int, seen map[uint32]struct{}) error {
	for _, k := range keys {
		if _, ok := bound[k]; ok {
			return wire.DuplicateKey(n.Offset, k)
		}
		if _, ok := seen[k]; ok {
			return wire.DuplicateKey(n.Offset, k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Lookup returns the node bound to key.
func (g *Graph) Lookup(key uint32) (*Node, bool) {
	i, ok := g.keys[key]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// LookupIndex returns the node bound to key in the index table.
func (g *Graph) LookupIndex(key uint32) (*Node, bool) {
	i, ok := g.index[key]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

func (g *Graph) Node(i int) *Node {
	if i < 0 || i >= len(g.nodes) {
		return nil
	}
	return g.nodes[i]
}

// Resolve returns the node a resolved reference target addresses, if it lives
// in this graph.
func (g *Graph) Resolve(id NodeID) (*Node, bool) {
	if id.Graph != g.Name {
		return nil, false
	}
	n := g.Node(id.Index)
	return n, n != nil
}

// ID returns the address of the node in this graph.
func (g *Graph) ID(n *Node) NodeID {
	return NodeID{Graph: g.Name, Index: n.Index}
}

func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns the nodes in admission order. The slice is shared.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Managers returns the top-level catalog entries.
func (g *Graph) Managers() []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Manager {
			out = append(out, n)
		}
	}
	return out
}

// ChildrenOf returns the resolved child nodes of n that live in this graph.
func (g *Graph) ChildrenOf(n *Node) []*Node {
	var out []*Node
	for _, r := range n.Children {
		if !r.Resolved {
			continue
		}
		if c, ok := g.Resolve(r.Target); ok {
			out = append(out, c)
		}
	}
	return out
}

// ParentOf returns the resolved parent of n, if it lives in this graph.
func (g *Graph) ParentOf(n *Node) (*Node, bool) {
	if n.Parent == nil || !n.Parent.Resolved {
		return nil, false
	}
	return g.Resolve(n.Parent.Target)
}

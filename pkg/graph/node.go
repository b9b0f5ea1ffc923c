package graph

import (
	"fmt"
	"strings"
)

// Node is one decoded record. Attributes keep insertion order; setting an
// existing name replaces the value in place.
type Node struct {
	Index    int // position in the graph, -1 until admitted
	TypeHash uint32
	TypeName string
	Manager  bool // top-level catalog entry rather than a nested structure
	Segment  int  // 1-based segment ordinal the node was decoded from
	Offset   int  // stream offset of the record's type hash

	Parent   *Ref
	Children []*Ref
	Cross    []*Ref
	Keys     []uint32 // keys references resolve against
	Indexed  []uint32 // keys in the graph's index table

	attrs []Attr
	names map[string]int
	graph *Graph
}

func NewNode(hash uint32, typeName string) *Node {
	return &Node{Index: -1, TypeHash: hash, TypeName: typeName}
}

func (n *Node) Set(name string, kind Kind, v any) {
	if n.names == nil {
		n.names = make(map[string]int)
	}
	if i, ok := n.names[name]; ok {
		n.attrs[i] = Attr{Name: name, Kind: kind, Value: v}
		return
	}
	n.names[name] = len(n.attrs)
	n.attrs = append(n.attrs, Attr{Name: name, Kind: kind, Value: v})
}

func (n *Node) Attr(name string) (Attr, bool) {
	i, ok := n.names[name]
	if !ok {
		return Attr{}, false
	}
	return n.attrs[i], true
}

func (n *Node) Get(name string) (any, bool) {
	a, ok := n.Attr(name)
	return a.Value, ok
}

// Attrs returns the attributes in insertion order. The slice is shared.
func (n *Node) Attrs() []Attr { return n.attrs }

func (n *Node) Admitted() bool { return n.Index >= 0 }

// Refs returns every reference owned by the node: parent, children, cross
// references and references nested in attributes, in that order.
func (n *Node) Refs() []*Ref {
	var out []*Ref
	if n.Parent != nil {
		out = append(out, n.Parent)
	}
	out = append(out, n.Children...)
	out = append(out, n.Cross...)
	for _, a := range n.attrs {
		switch v := a.Value.(type) {
		case []*Ref:
			out = append(out, v...)
		case []MapEntry:
			for _, e := range v {
				out = append(out, e.Ref)
			}
		case *Ref:
			if v.Role == RolePlain {
				out = append(out, v)
			}
		}
	}
	return out
}

func (n *Node) Name() string {
	if n.TypeName != "" {
		return n.TypeName
	}
	return fmt.Sprintf("%08X", n.TypeHash)
}

// Describe renders the node and its attributes on one line. It is built on
// demand from the typed attributes.
func (n *Node) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%04d] %s", n.Index, n.Name())
	if n.TypeName != "" {
		fmt.Fprintf(&sb, "(%08X)", n.TypeHash)
	}
	if n.Manager {
		sb.WriteString(" M")
	}
	for _, a := range n.attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteByte('=')
		format(&sb, a.Value)
	}
	return sb.String()
}

func (n *Node) String() string { return n.Describe() }

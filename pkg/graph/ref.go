package graph

import (
	"fmt"
)

// Role is the relation a reference expresses.
type Role uint8

const (
	RoleParent Role = iota + 1
	RoleChild
	RoleCross // into a sibling or external segment graph
	RolePlain // inside an attribute list or map
)

func (r Role) String() string {
	switch r {
	case RoleParent:
		return "parent"
	case RoleChild:
		return "child"
	case RoleCross:
		return "cross"
	case RolePlain:
		return "plain"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// FlagMask selects the flag bit carried in the top bit of a raw reference.
const FlagMask = 0x80000000

// NodeID addresses a node in a named graph. Resolved references hold a
// NodeID rather than a pointer, so the graph stays the only owner of nodes.
type NodeID struct {
	Graph string
	Index int
}

// Ref is an edge recorded while decoding. It stays pending until the resolver
// finalizes the session.
type Ref struct {
	Owner    *Node
	Role     Role
	Name     string
	Key      uint32 // target key with the flag bit cleared
	Flags    uint32
	Offset   int  // stream offset the reference was read from
	Optional bool // null in the stream, never resolved
	Resolved bool
	Target   NodeID
}

// Split separates a raw stream reference into its key and flag bits.
func Split(raw uint32) (key, flags uint32) {
	return raw &^ FlagMask, raw & FlagMask
}

// Pending reports whether the reference still needs a target.
func (r *Ref) Pending() bool {
	return !r.Optional && !r.Resolved
}

func (r *Ref) String() string {
	switch {
	case r == nil:
		return "<nil>"
	case r.Optional:
		return "-"
	case r.Resolved:
		if r.Target.Graph != "" && (r.Owner == nil || r.Owner.graph == nil || r.Owner.graph.Name != r.Target.Graph) {
			return fmt.Sprintf("->%s[%d]", r.Target.Graph, r.Target.Index)
		}
		return fmt.Sprintf("->[%d]", r.Target.Index)
	default:
		return fmt.Sprintf("->?%d", r.Key)
	}
}

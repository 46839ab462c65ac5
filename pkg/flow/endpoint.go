package flow

import "fmt"

// Endpoint is one side of a Link. It is a closed sum type: UnsetEndpoint,
// UserEndpoint, NodeEndpoint, or FileEndpoint.
type Endpoint interface {
	fmt.Stringer
	isEndpoint()
}

// UnsetEndpoint is the zero endpoint; a Link with an Unset side (paired
// with another Unset, or with a UserEndpoint) is invalid.
type UnsetEndpoint struct{}

func (UnsetEndpoint) isEndpoint()    {}
func (UnsetEndpoint) String() string { return "unset" }

// UserEndpoint names an external, caller-visible side of a link: after
// instantiation it remains open as a readable or writable stream handed
// back to the caller.
type UserEndpoint struct {
	Name string
}

func (UserEndpoint) isEndpoint()         {}
func (e UserEndpoint) String() string    { return fmt.Sprintf("user(%s)", e.Name) }
func NewUserEndpoint(name string) Endpoint { return UserEndpoint{Name: name} }

// NodeEndpoint names a child node and the set of its ports this side of the
// link occupies. An empty node name refers to the System doing the naming
// itself (its own outward-facing ports).
type NodeEndpoint struct {
	NodeName string
	PortIDs  map[PortID]struct{}
}

func (NodeEndpoint) isEndpoint() {}
func (e NodeEndpoint) String() string {
	return fmt.Sprintf("node(%s, %v)", e.NodeName, e.sortedPorts())
}

func (e NodeEndpoint) sortedPorts() []PortID {
	out := make([]PortID, 0, len(e.PortIDs))
	for id := range e.PortIDs {
		out = append(out, id)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// NewNodeEndpoint builds a NodeEndpoint for the given child name and ports.
func NewNodeEndpoint(nodeName string, ports ...PortID) NodeEndpoint {
	set := make(map[PortID]struct{}, len(ports))
	for _, p := range ports {
		set[p] = struct{}{}
	}
	return NodeEndpoint{NodeName: nodeName, PortIDs: set}
}

// Self reports whether this NodeEndpoint refers to the System node hosting
// the link itself, rather than one of its children.
func (e NodeEndpoint) Self() bool { return e.NodeName == "" }

// FileEndpoint names a filesystem path. The child that reaches a link with
// this endpoint opens path during its own rewiring, after fork.
type FileEndpoint struct {
	Path string
}

func (FileEndpoint) isEndpoint()      {}
func (e FileEndpoint) String() string { return fmt.Sprintf("file(%s)", e.Path) }

// EndpointEqual reports whether two endpoints denote the same conceptual
// side. NodeEndpoint carries a map, which the language refuses to compare
// with ==, so equality is decided per concrete type instead of relying on
// interface comparison.
func EndpointEqual(a, b Endpoint) bool {
	switch av := a.(type) {
	case UnsetEndpoint:
		_, ok := b.(UnsetEndpoint)
		return ok
	case UserEndpoint:
		bv, ok := b.(UserEndpoint)
		return ok && av.Name == bv.Name
	case FileEndpoint:
		bv, ok := b.(FileEndpoint)
		return ok && av.Path == bv.Path
	case NodeEndpoint:
		bv, ok := b.(NodeEndpoint)
		if !ok || av.NodeName != bv.NodeName || len(av.PortIDs) != len(bv.PortIDs) {
			return false
		}
		for id := range av.PortIDs {
			if _, ok := bv.PortIDs[id]; !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

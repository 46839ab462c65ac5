package channel

import "github.com/procflow/flow/pkg/flow"

// ChildPorts is what the resolver needs to know about one child node of
// the System being resolved: just its declared Ports, to validate that a
// NodeEndpoint's port ids actually exist.
type ChildPorts map[string]flow.Ports

type endpointKind int

const (
	kindUnset endpointKind = iota
	kindUser
	kindFile
	kindSelf  // NodeEndpoint naming the System doing the resolving
	kindChild // NodeEndpoint naming one of its children
)

func classify(e flow.Endpoint) endpointKind {
	switch v := e.(type) {
	case flow.UnsetEndpoint:
		return kindUnset
	case flow.UserEndpoint:
		return kindUser
	case flow.FileEndpoint:
		return kindFile
	case flow.NodeEndpoint:
		if v.Self() {
			return kindSelf
		}
		return kindChild
	default:
		return kindUnset
	}
}

// Resolve builds the Channels array for a System node's links, one
// channel per link at the same index, per spec.md section 4.3.
//
// selfName is the name this System has in its parent's node map (empty at
// the root, where there is no parent). selfPorts is the System's own
// declared Ports. children maps each child's name to its declared Ports,
// for validating that a NodeEndpoint's ports actually exist. parentLinks
// and parentChannels are the parent System's own links/channels, used to
// resolve references to this System's outward-facing ports; both must be
// empty at the root and must otherwise have equal length (a length
// mismatch is a LogicError, not an InvalidLink — it means the caller built
// an inconsistent Instance, not that the Node tree is malformed).
func Resolve(selfName string, selfPorts flow.Ports, children ChildPorts, links []flow.Link, parentLinks []flow.Link, parentChannels []Channel) ([]Channel, error) {
	if len(parentLinks) != len(parentChannels) {
		return nil, flow.LogicErrorf("parent has %d links but %d channels", len(parentLinks), len(parentChannels))
	}

	out := make([]Channel, len(links))
	for i, link := range links {
		c, err := resolveOne(selfName, selfPorts, children, link, parentLinks, parentChannels)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func resolveOne(selfName string, selfPorts flow.Ports, children ChildPorts, link flow.Link, parentLinks []flow.Link, parentChannels []Channel) (Channel, error) {
	a, b := link.Endpoints()
	ka, kb := classify(a), classify(b)

	if ka == kindUnset || kb == kindUnset {
		return nil, flow.InvalidLinkf("link %s/%s has an unset endpoint", a, b)
	}
	if ka == kindUser && kb == kindUser {
		return nil, flow.InvalidLinkf("link %s/%s: both endpoints are user endpoints", a, b)
	}
	if ka == kindFile && kb == kindFile {
		return nil, flow.InvalidLinkf("link %s/%s: both endpoints are file endpoints", a, b)
	}

	// Normalize so node-ish endpoints (self/child) are handled uniformly
	// regardless of which side of the link they were written on.
	switch {
	case (ka == kindSelf && kb == kindSelf):
		if err := validatePorts(selfPorts, a.(flow.NodeEndpoint).PortIDs); err != nil {
			return nil, err
		}
		return resolveReference(selfName, a, parentLinks, parentChannels)

	case ka == kindSelf && kb == kindChild, ka == kindChild && kb == kindSelf:
		self, other := a, b
		if ka != kindSelf {
			self, other = b, a
		}
		if err := validatePorts(selfPorts, self.(flow.NodeEndpoint).PortIDs); err != nil {
			return nil, err
		}
		if err := validateChildPort(children, other); err != nil {
			return nil, err
		}
		return resolveReference(selfName, self, parentLinks, parentChannels)

	case ka == kindChild && kb == kindChild:
		if err := validateChildPort(children, a); err != nil {
			return nil, err
		}
		if err := validateChildPort(children, b); err != nil {
			return nil, err
		}
		return NewPipe()

	case ka == kindChild && kb == kindFile, ka == kindFile && kb == kindChild:
		child := a
		if ka != kindChild {
			child = b
		}
		if err := validateChildPort(children, child); err != nil {
			return nil, err
		}
		fe := a.(flow.FileEndpoint)
		if ka == kindChild {
			fe = b.(flow.FileEndpoint)
		}
		dir := directionOf(children, child.(flow.NodeEndpoint))
		return &FileChannel{Path: fe.Path, Direction: dir}, nil

	case ka == kindChild && kb == kindUser, ka == kindUser && kb == kindChild:
		child := a
		if ka != kindChild {
			child = b
		}
		if err := validateChildPort(children, child); err != nil {
			return nil, err
		}
		return NewPipe()

	case ka == kindSelf && kb == kindUser, ka == kindUser && kb == kindSelf:
		self := a
		if ka != kindSelf {
			self = b
		}
		ne := self.(flow.NodeEndpoint)
		if err := validatePorts(selfPorts, ne.PortIDs); err != nil {
			return nil, err
		}
		if len(parentLinks) != 0 || len(parentChannels) != 0 {
			return nil, flow.InvalidLinkf("link %s/%s: a non-root system cannot expose a port directly to a user endpoint", a, b)
		}
		return NewPipe()

	default:
		return nil, flow.InvalidLinkf("link %s/%s: unsupported endpoint combination", a, b)
	}
}

func validateChildPort(children ChildPorts, e flow.Endpoint) error {
	ne, ok := e.(flow.NodeEndpoint)
	if !ok {
		return flow.InvalidLinkf("%s is not a node endpoint", e)
	}
	ports, ok := children[ne.NodeName]
	if !ok {
		return flow.InvalidLinkf("link references nonexistent child %q", ne.NodeName)
	}
	return validatePorts(ports, ne.PortIDs)
}

func validatePorts(ports flow.Ports, ids map[flow.PortID]struct{}) error {
	for id := range ids {
		if _, ok := ports[id]; !ok {
			return flow.InvalidLinkf("link references nonexistent port %d", id)
		}
	}
	return nil
}

func directionOf(children ChildPorts, ne flow.NodeEndpoint) flow.Direction {
	ports := children[ne.NodeName]
	sawIn, sawOut := false, false
	for id := range ne.PortIDs {
		switch ports[id].Direction {
		case flow.DirIn:
			sawIn = true
		case flow.DirOut:
			sawOut = true
		default:
			sawIn, sawOut = true, true
		}
	}
	switch {
	case sawIn && sawOut:
		return flow.DirBidir
	case sawIn:
		return flow.DirIn
	default:
		return flow.DirOut
	}
}

// resolveReference looks up the parent link that corresponds to selfEnd
// (a NodeEndpoint naming this System itself, as seen from inside), finds
// the parent's matching link by the endpoint naming this System under
// selfName, and returns a ReferenceChannel to the parent's channel at that
// index.
func resolveReference(selfName string, selfEnd flow.Endpoint, parentLinks []flow.Link, parentChannels []Channel) (Channel, error) {
	ne, ok := selfEnd.(flow.NodeEndpoint)
	if !ok {
		return nil, flow.InvalidLinkf("%s is not a node endpoint", selfEnd)
	}
	want := flow.NewNodeEndpoint(selfName, sortedKeys(ne.PortIDs)...)
	for i, pl := range parentLinks {
		if pl.Has(want) {
			return NewReference(parentChannels[i]), nil
		}
	}
	return nil, flow.LogicErrorf("no parent link exposes %s's ports %v", selfName, sortedKeys(ne.PortIDs))
}

func sortedKeys(m map[flow.PortID]struct{}) []flow.PortID {
	out := make([]flow.PortID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

package flow

// Link is an unordered pair of endpoints expressing that two conceptual I/O
// sides are the same conduit. A Link with both endpoints UserEndpoint, or
// both Unset, is invalid and rejected during instantiation (see
// pkg/flow/channel's resolver).
type Link struct {
	A, B Endpoint
}

// NewLink builds a Link from two endpoints. It does not validate the shape;
// validation happens during channel resolution, where the full context
// (the node's position in its parent, sibling links) is available.
func NewLink(a, b Endpoint) Link {
	return Link{A: a, B: b}
}

// Endpoints returns the link's two endpoints in a fixed order.
func (l Link) Endpoints() (Endpoint, Endpoint) { return l.A, l.B }

// Other returns the endpoint on the opposite side of e, and whether e
// matched one of the link's two sides at all.
func (l Link) Other(e Endpoint) (Endpoint, bool) {
	if EndpointEqual(l.A, e) {
		return l.B, true
	}
	if EndpointEqual(l.B, e) {
		return l.A, true
	}
	return nil, false
}

// Has reports whether the link has an endpoint equal to e.
func (l Link) Has(e Endpoint) bool {
	return EndpointEqual(l.A, e) || EndpointEqual(l.B, e)
}

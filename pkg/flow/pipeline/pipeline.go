// Package pipeline is builder sugar for the common case of a linear chain
// of nodes, each one's outputs wired straight into the next one's inputs,
// with an optional endpoint capping either end. It is the Go stand-in for
// the original source's operator| overloads on node_pipeline, which Go
// has no operator-overloading syntax to express directly.
package pipeline

import (
	"strconv"

	"github.com/procflow/flow/pkg/flow"
)

// Builder accumulates a chain of nodes into a flow.System. Build() turns
// it into a Node any System can embed as a child, or that Instantiate can
// launch on its own.
type Builder struct {
	nodes  *flow.NodeMap
	links  []flow.Link
	srcEnd flow.Endpoint
	dstEnd flow.Endpoint
	err    error
}

// New starts an empty pipeline.
func New() *Builder {
	return &Builder{
		nodes:  flow.NewNodeMap(),
		srcEnd: flow.UnsetEndpoint{},
		dstEnd: flow.UnsetEndpoint{},
	}
}

// Err returns the first error encountered by any Append/AppendEndpoint
// call. Once set, every subsequent builder call is a no-op.
func (b *Builder) Err() error { return b.err }

func (b *Builder) fail(format string, args ...interface{}) *Builder {
	if b.err == nil {
		b.err = flow.InvalidLinkf(format, args...)
	}
	return b
}

// Append adds n as the next stage of the pipeline, linking the previous
// stage's output ports to n's input ports. The first Append requires n to
// have no input ports unless a source endpoint was appended first.
func (b *Builder) Append(n flow.Node) *Builder {
	if b.err != nil {
		return b
	}
	if !isUnset(b.dstEnd) {
		return b.fail("pipeline: cannot append a node after a destination endpoint")
	}

	count := b.nodes.Len()
	name := strconv.Itoa(count)
	inputs := matchingPorts(n.Ports, flow.DirIn)

	if count == 0 {
		if isUnset(b.srcEnd) {
			if len(inputs) != 0 {
				return b.fail("pipeline: first node must not declare input ports")
			}
		} else {
			if len(inputs) == 0 {
				return b.fail("pipeline: first node must declare input ports to match the source endpoint")
			}
			b.links = append(b.links, flow.NewLink(b.srcEnd, flow.NewNodeEndpoint(name, inputs...)))
		}
	} else {
		lastName := strconv.Itoa(count - 1)
		last, _ := b.nodes.Get(lastName)
		outputs := matchingPorts(last.Ports, flow.DirOut)
		if len(outputs) == 0 {
			return b.fail("pipeline: node %q must declare output ports", lastName)
		}
		if len(inputs) == 0 {
			return b.fail("pipeline: node %q must declare input ports", name)
		}
		b.links = append(b.links, flow.NewLink(flow.NewNodeEndpoint(lastName, outputs...), flow.NewNodeEndpoint(name, inputs...)))
	}

	b.nodes.Set(name, n)
	return b
}

// AppendEndpoint caps one end of the pipeline with a user- or
// file-facing endpoint: the first call (before any node) sets the
// source, the second (after at least one node) sets the destination.
func (b *Builder) AppendEndpoint(end flow.Endpoint) *Builder {
	if b.err != nil {
		return b
	}
	if _, ok := end.(flow.NodeEndpoint); ok {
		return b.fail("pipeline: cannot append a node endpoint directly")
	}
	if isUnset(end) {
		return b.fail("pipeline: cannot append an unset endpoint")
	}

	count := b.nodes.Len()
	if count == 0 {
		if !isUnset(b.srcEnd) {
			return b.fail("pipeline: source endpoint already set")
		}
		b.srcEnd = end
		return b
	}

	if !isUnset(b.dstEnd) {
		return b.fail("pipeline: destination endpoint already set")
	}
	lastName := strconv.Itoa(count - 1)
	last, _ := b.nodes.Get(lastName)
	outputs := matchingPorts(last.Ports, flow.DirOut)
	if len(outputs) == 0 {
		return b.fail("pipeline: node %q must declare output ports", lastName)
	}
	b.dstEnd = end
	b.links = append(b.links, flow.NewLink(flow.NewNodeEndpoint(lastName, outputs...), end))
	return b
}

// Build turns the accumulated chain into a System node, or returns the
// first error any builder call failed with.
func (b *Builder) Build() (flow.Node, error) {
	if b.err != nil {
		return flow.Node{}, b.err
	}
	return flow.NewSystem(nil, b.nodes, b.links), nil
}

func isUnset(e flow.Endpoint) bool {
	_, ok := e.(flow.UnsetEndpoint)
	return ok
}

func matchingPorts(ports flow.Ports, dir flow.Direction) []flow.PortID {
	var out []flow.PortID
	for id, info := range ports {
		if info.Direction == dir {
			out = append(out, id)
		}
	}
	return out
}

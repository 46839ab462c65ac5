package flow

import "github.com/procflow/flow/pkg/flow/ident"

// Implementation is a closed sum type: either Executable (a leaf program)
// or System (a composite of further named nodes and links).
type Implementation interface {
	isImplementation()
}

// Executable is a leaf node: a program file path, its arguments, and the
// directory it should run in.
type Executable struct {
	File             string
	Arguments        []string
	WorkingDirectory string
}

func (Executable) isImplementation() {}

// System is an interior node: a local environment overlay, a mapping of
// named child nodes, and the ordered list of links joining their ports,
// files, and user endpoints.
type System struct {
	Environment map[string]string
	Nodes       *NodeMap
	Links       []Link
}

func (System) isImplementation() {}

// Node pairs a declared Ports map with an Implementation. Ports says which
// descriptors of the node's own process (or inside-facing view, for a
// System) face which direction; Implementation says what the node actually
// is.
type Node struct {
	Ports          Ports
	Implementation Implementation
}

// NewExecutable builds a leaf Node with the default Executable ports
// (stdin in, stdout/stderr out).
func NewExecutable(file string, args []string, workdir string) Node {
	return Node{
		Ports: DefaultExecutablePorts(),
		Implementation: Executable{
			File:             file,
			Arguments:        args,
			WorkingDirectory: workdir,
		},
	}
}

// NewSystem builds an interior Node with an empty default Ports map. Use
// WithPorts to declare ports the parent's links can reach.
func NewSystem(env map[string]string, nodes *NodeMap, links []Link) Node {
	if nodes == nil {
		nodes = NewNodeMap()
	}
	return Node{
		Ports: Ports{},
		Implementation: System{
			Environment: env,
			Nodes:       nodes,
			Links:       links,
		},
	}
}

// WithPorts returns a copy of n with its Ports map replaced.
func (n Node) WithPorts(p Ports) Node {
	n.Ports = p
	return n
}

// AsExecutable reports whether n is a leaf node and returns its
// Executable implementation.
func (n Node) AsExecutable() (Executable, bool) {
	e, ok := n.Implementation.(Executable)
	return e, ok
}

// AsSystem reports whether n is an interior node and returns its System
// implementation.
func (n Node) AsSystem() (System, bool) {
	s, ok := n.Implementation.(System)
	return s, ok
}

// ValidateNames checks every child name of a System against the NodeName
// charset contract, returning a CharsetValidation error for the first
// offender.
func (s System) ValidateNames() error {
	for _, name := range s.Nodes.Names() {
		if !ident.ValidNodeName(name) {
			return CharsetValidationf("node name %q is not a valid identifier", name)
		}
	}
	for name := range s.Environment {
		if !ident.ValidEnvName(name) {
			return CharsetValidationf("environment name %q is not a valid identifier", name)
		}
	}
	for name, value := range s.Environment {
		if !ident.ValidEnvValue(value) {
			return CharsetValidationf("environment value for %q contains NUL", name)
		}
	}
	return nil
}

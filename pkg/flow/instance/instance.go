// Package instance defines the runtime tree instantiation produces: the
// parallel structure to a flow.Node tree whose leaves are forked children
// and whose interior nodes hold the channel array built for their links.
// It owns nothing by itself beyond bookkeeping; pkg/flow/instantiate builds
// these values and pkg/flow/wait walks them to reap live children.
package instance

import (
	"io"

	"github.com/procflow/flow/pkg/flow/channel"
	"github.com/procflow/flow/pkg/flow/owning"
)

// Info is a closed sum type: Forked (a leaf whose live child this Instance
// owns) or Custom (an interior node owning child Instances and a channel
// array).
type Info interface {
	isInfo()
}

// Forked is a leaf Instance: the live child process forked for an
// Executable node.
type Forked struct {
	Pid        *owning.Pid
	Diag       io.ReadWriteCloser
	DiagPath   string
	FinalState *FinalStatus
}

func (*Forked) isInfo() {}

// FinalStatus is set once the wait subsystem has observed this leaf's
// terminal wait status, so a second Wait call is a no-op rather than a
// blocking reap of a pid that no longer exists.
type FinalStatus struct {
	Code       int
	Signaled   bool
	Signal     int
	CoreDumped bool
}

// Custom is an interior Instance: the process-group leader slot, the named
// child instances in the insertion order they were forked, and the
// channel array resolved for the owning Node's links (one channel per
// link, same index).
type Custom struct {
	Pgrp     int
	Order    []string
	Children map[string]*Instance
	Channels []channel.Channel
}

func (*Custom) isInfo() {}

// ChildAt returns the i-th child in forking order.
func (c *Custom) ChildAt(i int) (string, *Instance) {
	name := c.Order[i]
	return name, c.Children[name]
}

// Instance is one node of the runtime tree: the environment it ran with,
// and whether it is a forked leaf or a custom interior node.
type Instance struct {
	Environment map[string]string
	Info        Info
}

// AsForked reports whether this Instance is a leaf and returns its Forked
// info.
func (i *Instance) AsForked() (*Forked, bool) {
	f, ok := i.Info.(*Forked)
	return f, ok
}

// AsCustom reports whether this Instance is an interior node and returns
// its Custom info.
func (i *Instance) AsCustom() (*Custom, bool) {
	c, ok := i.Info.(*Custom)
	return c, ok
}

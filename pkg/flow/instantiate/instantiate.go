// Package instantiate implements the wiring/fork algorithm: walking a
// flow.Node tree, resolving each System's links into channel.Channels,
// and forking an Executable leaf for every program in the graph, wired
// together exactly as its Node's Ports and Links describe.
package instantiate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/docker/docker/pkg/reexec"
	"github.com/pkg/errors"
	"github.com/procflow/flow/pkg/flow"
	"github.com/procflow/flow/pkg/flow/channel"
	"github.com/procflow/flow/pkg/flow/instance"
	"github.com/procflow/flow/pkg/flow/owning"
)

// diagFD is the fixed fd a leaf's diagnostics stream is rewired to inside
// the child, alongside its declared ports. It sits well above any
// descriptor number a real port or file redirection would plausibly use
// (stdio, plus a handful of extra redirections), so it never collides
// with a node's own Rewires/Opens targets.
const diagFD = 997

// Instantiate walks node and forks every Executable leaf it contains,
// wiring their ports together per the Links declared at each System
// level. The root's own ports, if any, are only reachable by UserEndpoint
// links; a non-root System exposing a port straight to a UserEndpoint is
// rejected by the link resolver.
func Instantiate(node flow.Node, opts Options) (*instance.Instance, error) {
	pgrp := 0
	return build(node, "", mergeEnv(opts.BaseEnvironment, nil), nil, nil, &pgrp, opts)
}

func build(node flow.Node, name string, env map[string]string, parentLinks []flow.Link, parentChannels []channel.Channel, pgrp *int, opts Options) (*instance.Instance, error) {
	switch impl := node.Implementation.(type) {
	case flow.Executable:
		return buildExecutable(impl, node.Ports, name, env, parentLinks, parentChannels, pgrp, opts)
	case flow.System:
		return buildSystem(impl, node.Ports, name, env, parentLinks, parentChannels, pgrp, opts)
	default:
		return nil, flow.LogicErrorf("node %q has an unrecognized implementation %T", name, node.Implementation)
	}
}

func buildSystem(sys flow.System, ports flow.Ports, name string, parentEnv map[string]string, parentLinks []flow.Link, parentChannels []channel.Channel, pgrp *int, opts Options) (*instance.Instance, error) {
	if err := sys.ValidateNames(); err != nil {
		return nil, err
	}
	env := mergeEnv(parentEnv, sys.Environment)

	children := channel.ChildPorts{}
	sys.Nodes.Range(func(childName string, n flow.Node) bool {
		children[childName] = n.Ports
		return true
	})

	channels, err := channel.Resolve(name, ports, children, sys.Links, parentLinks, parentChannels)
	if err != nil {
		return nil, err
	}

	custom := &instance.Custom{
		Order:    sys.Nodes.Names(),
		Children: map[string]*instance.Instance{},
		Channels: channels,
	}

	for _, childName := range custom.Order {
		childNode, _ := sys.Nodes.Get(childName)
		childInst, err := build(childNode, childName, env, sys.Links, channels, pgrp, opts)
		if err != nil {
			return nil, err
		}
		custom.Children[childName] = childInst
	}
	custom.Pgrp = *pgrp

	closeHandedOffPipes(sys.Links, channels, ports, children)

	return &instance.Instance{Environment: env, Info: custom}, nil
}

// closeHandedOffPipes closes the parent's copy of every PipeChannel side
// a forked descendant has already received its own duplicate of via
// ForkExec. A pipe between two child node endpoints is fully internal to
// the parent's own bookkeeping, so both sides close. Links resolved to a
// ReferenceChannel (those naming this System's own ports from inside) or
// to a FileChannel are left alone: a referenced pipe is owned, and
// closed, by the ancestor System that holds it. A link
// between a node endpoint and a UserEndpoint keeps its user-facing side
// open for the caller to read or write — only the side the node itself
// already has its own descriptor for is closed, the same "stdout write
// end closes in the parent once the child that writes to it has forked"
// rule a shell applies to its own pipeline. Getting this backwards is
// fatal to a caller reading captured output: the reader's read end never
// sees EOF, because the parent would still hold the write end open
// alongside the child that actually writes to it.
func closeHandedOffPipes(links []flow.Link, channels []channel.Channel, selfPorts flow.Ports, children channel.ChildPorts) {
	for i, link := range links {
		a, b := link.Endpoints()
		_, aIsUser := a.(flow.UserEndpoint)
		_, bIsUser := b.(flow.UserEndpoint)

		pc, ok := channels[i].(*channel.PipeChannel)
		if !ok {
			continue
		}

		switch {
		case aIsUser && bIsUser:
			// Rejected by the link resolver; nothing to do.
			continue
		case !aIsUser && !bIsUser:
			pc.CloseBoth()
		default:
			nodeEnd := a
			if aIsUser {
				nodeEnd = b
			}
			ne, ok := nodeEnd.(flow.NodeEndpoint)
			if !ok {
				continue
			}
			switch nodeDirection(selfPorts, children, ne) {
			case flow.DirOut:
				pc.Close(channel.WriteSide)
			case flow.DirIn:
				pc.Close(channel.ReadSide)
			default:
				// Bidirectional (or mixed) over a single pipe can't be
				// split into "the half the node already has" and "the
				// half the user gets"; leave both open rather than
				// guess which one the caller actually needs.
			}
		}
	}
}

// nodeDirection reports the aggregate Direction of a NodeEndpoint's named
// ports, looking them up in selfPorts if ne names the System doing the
// resolving or in children otherwise. Mirrors
// pkg/flow/channel/resolve.go's unexported directionOf, which only ever
// looks a child up; this needs the self case too, for a root System
// exposing its own ports straight to a UserEndpoint.
func nodeDirection(selfPorts flow.Ports, children channel.ChildPorts, ne flow.NodeEndpoint) flow.Direction {
	ports := selfPorts
	if !ne.Self() {
		ports = children[ne.NodeName]
	}
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

func buildExecutable(exe flow.Executable, ports flow.Ports, name string, env map[string]string, parentLinks []flow.Link, parentChannels []channel.Channel, pgrp *int, opts Options) (*instance.Instance, error) {
	if exe.File == "" || filepath.Base(exe.File) == "." || filepath.Base(exe.File) == string(filepath.Separator) {
		return nil, flow.InvalidExecutablef("node %q has an empty or invalid executable path", name)
	}

	diag, err := newDiag(opts)
	if err != nil {
		return nil, err
	}

	resolved, err := resolveExecutable(exe.File, env)
	if err != nil {
		fmt.Fprintf(diag.stream, "flow: %v\n", err)
		diag.stream.Close()
		return nil, err
	}

	plan := trampolinePlan{
		Argv:             append([]string{resolved}, exe.Arguments...),
		WorkingDirectory: exe.WorkingDirectory,
		Env:              envSlice(env),
		ProcessTitle:     exe.File,
		DiagFD:           diagFD,
	}

	files := []uintptr{uintptr(diag.writeFD)}
	plan.Rewires = append(plan.Rewires, fdRewire{SlotFD: 0, TargetFD: diagFD})
	for portID, info := range ports {
		ch, ok := channelForPort(name, portID, parentLinks, parentChannels)
		if !ok {
			diag.stream.Close()
			return nil, flow.InvalidPortMapf("node %q port %d is not satisfied by any link", name, portID)
		}
		switch rc := channel.Deref(ch).(type) {
		case *channel.PipeChannel:
			side := channel.WriteSide
			if info.Direction == flow.DirIn {
				side = channel.ReadSide
			}
			slot := len(files)
			files = append(files, uintptr(rc.FD(side)))
			plan.Rewires = append(plan.Rewires, fdRewire{SlotFD: slot, TargetFD: int(portID)})
		case *channel.FileChannel:
			plan.Opens = append(plan.Opens, fileOpen{Path: rc.Path, Flags: rc.OpenFlags(), Mode: 0600, TargetFD: int(portID)})
		default:
			diag.stream.Close()
			return nil, flow.LogicErrorf("node %q port %d resolved to unsupported channel %T", name, portID, rc)
		}
	}

	pid, err := forkLeaf(plan, files, pgrp)
	if err != nil {
		diag.stream.Close()
		return nil, err
	}

	return &instance.Instance{
		Environment: env,
		Info: &instance.Forked{
			Pid:      pid,
			Diag:     diag.stream,
			DiagPath: diag.path,
		},
	}, nil
}

// resolveExecutable finds the actual path unix.Exec should be handed for
// file. execve(2) never searches PATH itself, unlike a shell, so a bare
// command name (no "/" anywhere in it) has to be resolved here, in the
// parent, before fork: searching each ":"-separated entry of the child's
// own PATH (env, not this process's os.Environ()) the way cmd/k3s's
// stageAndRun resolves its staged binaries with exec.LookPath, except
// against a caller-supplied environment rather than the calling process's
// own. A file that already names a directory (absolute or relative) is
// used as-is. Resolution failing means no fork happens at all.
func resolveExecutable(file string, env map[string]string) (string, error) {
	if strings.ContainsRune(file, filepath.Separator) {
		return file, nil
	}
	for _, dir := range filepath.SplitList(env["PATH"]) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, file)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() && info.Mode()&0111 != 0 {
			return candidate, nil
		}
	}
	return "", flow.InvalidExecutablef("no PATH to find file %q", file)
}

// channelForPort finds the link among parentLinks that names this leaf's
// port and returns the already-resolved channel at the same index. A
// single link whose NodeEndpoint names more than one port binds all of
// them to the same channel (e.g. redirecting stdout and stderr together).
func channelForPort(name string, portID flow.PortID, links []flow.Link, channels []channel.Channel) (channel.Channel, bool) {
	for i, link := range links {
		a, b := link.Endpoints()
		if endpointNamesPort(a, name, portID) || endpointNamesPort(b, name, portID) {
			return channels[i], true
		}
	}
	return nil, false
}

func endpointNamesPort(e flow.Endpoint, name string, portID flow.PortID) bool {
	ne, ok := e.(flow.NodeEndpoint)
	if !ok || ne.NodeName != name {
		return false
	}
	_, has := ne.PortIDs[portID]
	return has
}

// forkLeaf launches the flow-child trampoline via syscall.ForkExec,
// handing it files (positionally landing at fd 0..len(files)-1 in the
// child) and the gob-encoded plan it needs to finish the job. The first
// leaf forked for a pgrp of 0 becomes that group's leader; every
// subsequent leaf sharing the same pgrp pointer (the whole tree, since
// Instantiate passes one pointer down every level) joins it. Grounded on
// pkg/cli/cmds/init_linux.go's HandleInit, which forks the same way with
// an explicit ProcAttr.Files/Sys.Setsid.
func forkLeaf(plan trampolinePlan, files []uintptr, pgrp *int) (*owning.Pid, error) {
	planPath, err := writePlan(plan)
	if err != nil {
		return nil, err
	}

	sys := &syscall.SysProcAttr{Setpgid: true, Pgid: *pgrp}
	attr := &syscall.ProcAttr{
		Env:   append(os.Environ(), planPathEnv+"="+planPath),
		Files: files,
		Sys:   sys,
	}

	pid, err := syscall.ForkExec(reexec.Self(), []string{trampolineName}, attr)
	if err != nil {
		os.Remove(planPath)
		return nil, errors.Wrapf(err, "forking leaf %q", plan.Argv[0])
	}
	if *pgrp == 0 {
		*pgrp = pid
	}
	return owning.New(pid), nil
}

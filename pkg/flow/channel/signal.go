//go:build unix

package channel

import "golang.org/x/sys/unix"

// SignalChannel models forwarding a set of OS signals to a named target
// instance. It is grounded directly on the original source's
// signal_channel (a set<signal> plus a system_name address) but, as in the
// original, is not a shape the link resolver ever produces on its own —
// the resolver table in spec.md never names a Signal endpoint kind. It is
// exercised by pkg/flow/wait's interrupt-escalation logic, which builds
// one internally to describe "forward these signals to this pgrp" rather
// than hard-coding a kill() call inline.
type SignalChannel struct {
	Signals []unix.Signal
	Address string
}

func (*SignalChannel) Kind() Kind { return KindSignal }

// Deliver sends every signal in the channel to pid (or, if negative, to
// the process group -pid), stopping at the first failure.
func (s *SignalChannel) Deliver(pid int) error {
	for _, sig := range s.Signals {
		if err := unix.Kill(pid, sig); err != nil {
			return &osError{op: "kill", err: err}
		}
	}
	return nil
}

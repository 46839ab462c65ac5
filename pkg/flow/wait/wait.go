package wait

import (
	"os"
	"os/signal"
	"sync"

	"github.com/procflow/flow/pkg/flow/channel"
	"github.com/procflow/flow/pkg/flow/instance"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// wait performs one wait4(2) call for pid with flags, decoding the raw
// status into a Result. EINTR is retried transparently; ECHILD and other
// failures are reported as distinct Result kinds rather than an error
// return, so callers never have to sniff errno out of a generic error.
func wait(pid int, flags int) Result {
	var ws unix.WaitStatus
	got, err := unix.Wait4(pid, &ws, flags, nil)
	switch {
	case err == unix.EINTR:
		return wait(pid, flags)
	case err == unix.ECHILD:
		return Result{Kind: ResultNoChildren}
	case err != nil:
		return Result{Kind: ResultError, Errno: err}
	case got == 0:
		return Result{Kind: ResultEmpty}
	default:
		return Result{Kind: ResultInfo, PID: got, Status: decodeStatus(ws)}
	}
}

// Reap blocks until pid's Forked leaf reaches a terminal status, recording
// it on f.FinalState. A leaf already marked Reaped is a no-op, returning
// ResultNoChildren, so a tree can be Wait-ed more than once without
// blocking on pids that no longer exist.
func Reap(f *instance.Forked) Result {
	if f.Pid.Reaped() {
		return Result{Kind: ResultNoChildren}
	}
	for {
		r := wait(f.Pid.PID(), 0)
		if r.Kind == ResultInfo && !r.Status.Terminal() {
			// Stopped or Continued: the child is still alive, keep waiting
			// for the status that actually ends its lifetime.
			continue
		}
		if r.Kind == ResultInfo {
			f.Pid.MarkReaped()
			f.FinalState = finalStatus(r.Status)
		}
		return r
	}
}

func finalStatus(s Status) *instance.FinalStatus {
	fs := &instance.FinalStatus{}
	switch s.Kind {
	case StatusExit:
		fs.Code = s.Code
	case StatusSignaled:
		fs.Signaled = true
		fs.Signal = int(s.Signal)
		fs.CoreDumped = s.CoreDumped
	}
	return fs
}

// Wait walks inst's entire tree, reaping every live Forked leaf, and
// returns one Result per leaf in the insertion order its owning Custom
// node's children were forked in.
func Wait(inst *instance.Instance) []Result {
	var out []Result
	walk(inst, &out)
	return out
}

func walk(inst *instance.Instance, out *[]Result) {
	if inst == nil {
		return
	}
	if f, ok := inst.AsForked(); ok {
		*out = append(*out, Reap(f))
		return
	}
	c, ok := inst.AsCustom()
	if !ok {
		return
	}
	for i := 0; i < len(c.Order); i++ {
		_, child := c.ChildAt(i)
		walk(child, out)
	}
}

var shutdownSignals = []os.Signal{unix.SIGINT, unix.SIGTERM}

// Escalation forwards SIGINT/SIGTERM received by this process onto a
// target pid (or, if negative, a process group), the way
// pkg/signals/signals.go escalates a second shutdown signal into
// os.Exit(1), but aimed at a waited-for child rather than this process:
// the first signal forwards SIGINT to target, a second escalates to
// SIGKILL.
type Escalation struct {
	target int
	sig    chan os.Signal
	once   sync.Once
}

// WatchForInterrupt starts forwarding SIGINT/SIGTERM to target and returns
// a function that stops watching. Calling the returned function more than
// once is safe.
func WatchForInterrupt(target int) func() {
	e := &Escalation{target: target, sig: make(chan os.Signal, 2)}
	signal.Notify(e.sig, shutdownSignals...)
	go e.run()
	return func() {
		signal.Stop(e.sig)
		e.once.Do(func() { close(e.sig) })
	}
}

func (e *Escalation) run() {
	first, ok := <-e.sig
	if !ok {
		return
	}
	logrus.Debugf("wait: forwarding %s to %d as SIGINT", first, e.target)
	sc := &channel.SignalChannel{Signals: []unix.Signal{unix.SIGINT}}
	if err := sc.Deliver(e.target); err != nil {
		logrus.Warnf("wait: forwarding SIGINT to %d failed: %v", e.target, err)
	}

	second, ok := <-e.sig
	if !ok {
		return
	}
	logrus.Infof("wait: second signal %s received, sending SIGKILL to %d", second, e.target)
	sc = &channel.SignalChannel{Signals: []unix.Signal{unix.SIGKILL}}
	if err := sc.Deliver(e.target); err != nil {
		logrus.Warnf("wait: SIGKILL to %d failed: %v", e.target, err)
	}
}

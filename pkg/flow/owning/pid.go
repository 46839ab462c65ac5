package owning

// NoPID is the sentinel held by a Pid that owns no live child.
const NoPID = 0

// Pid owns at most one child process whose terminal status has not yet
// been observed. It does not itself know how to wait(2) — that belongs to
// pkg/flow/wait, which is the one place the reap algorithm (including
// EINTR/signal handling) lives. Pid is the bookkeeping the wait subsystem
// mutates: MarkReaped must be called once a terminal status (Exit or
// Signaled) has been observed for this pid, so that a second reap attempt
// on the same Pid is recognized (Reaped reports true) and skipped instead
// of waiting on a pid this process no longer owns.
type Pid struct {
	pid    int
	reaped bool
}

// New wraps a pid returned by a successful fork/exec in the parent.
func New(pid int) *Pid {
	return &Pid{pid: pid}
}

// PID returns the owned pid, or NoPID if this value owns no child.
func (p *Pid) PID() int {
	if p == nil {
		return NoPID
	}
	return p.pid
}

// Reaped reports whether a terminal status has already been observed for
// this pid.
func (p *Pid) Reaped() bool {
	return p == nil || p.reaped || p.pid == NoPID
}

// MarkReaped records that a terminal status has been observed. It is
// idempotent: calling it again leaves the Pid marked reaped.
func (p *Pid) MarkReaped() {
	if p != nil {
		p.reaped = true
	}
}

// Package wait implements the tree-walking, signal-interruptible wait/reap
// subsystem: decoding raw wait(2) statuses into a structured Status,
// walking an Instance tree to reap every Forked leaf, and escalating
// SIGINT/SIGTERM delivered to this process into signals forwarded at the
// waited-for child, the way pkg/signals/signals.go escalates a second
// shutdown signal into os.Exit(1) but aimed at a child pid instead of this
// process.
package wait

import "golang.org/x/sys/unix"

// StatusKind discriminates the four terminal/non-terminal shapes a raw
// wait status decodes to.
type StatusKind int

const (
	StatusUnknown StatusKind = iota
	StatusExit
	StatusSignaled
	StatusStopped
	StatusContinued
)

func (k StatusKind) String() string {
	switch k {
	case StatusExit:
		return "Exit"
	case StatusSignaled:
		return "Signaled"
	case StatusStopped:
		return "Stopped"
	case StatusContinued:
		return "Continued"
	default:
		return "Unknown"
	}
}

// Status is the decoded interpretation of a raw OS wait status.
type Status struct {
	Kind       StatusKind
	Code       int         // valid when Kind == StatusExit
	Signal     unix.Signal // valid when Kind == StatusSignaled or StatusStopped
	CoreDumped bool        // valid when Kind == StatusSignaled
}

// Terminal reports whether this status ends the child's lifetime (Exit or
// Signaled); Stopped and Continued leave the child alive.
func (s Status) Terminal() bool {
	return s.Kind == StatusExit || s.Kind == StatusSignaled
}

func (s Status) String() string {
	switch s.Kind {
	case StatusExit:
		return "Exit{" + itoa(s.Code) + "}"
	case StatusSignaled:
		return "Signaled{" + s.Signal.String() + "}"
	case StatusStopped:
		return "Stopped{" + s.Signal.String() + "}"
	case StatusContinued:
		return "Continued"
	default:
		return "Unknown"
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// decodeStatus converts a raw unix.WaitStatus into the structured Status.
func decodeStatus(raw unix.WaitStatus) Status {
	switch {
	case raw.Exited():
		return Status{Kind: StatusExit, Code: raw.ExitStatus()}
	case raw.Signaled():
		return Status{Kind: StatusSignaled, Signal: raw.Signal(), CoreDumped: raw.CoreDump()}
	case raw.Stopped():
		return Status{Kind: StatusStopped, Signal: raw.StopSignal()}
	case raw.Continued():
		return Status{Kind: StatusContinued}
	default:
		return Status{Kind: StatusUnknown}
	}
}

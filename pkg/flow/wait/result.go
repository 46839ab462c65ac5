package wait

// ResultKind discriminates the four shapes a single wait(2) call can
// produce.
type ResultKind int

const (
	// ResultNoChildren means waitpid returned -1/ECHILD: nothing left to
	// wait for.
	ResultNoChildren ResultKind = iota
	// ResultEmpty means a non-blocking wait had nothing ready yet.
	ResultEmpty
	// ResultError means waitpid failed for a reason other than ECHILD.
	ResultError
	// ResultInfo means waitpid returned a pid and a decoded status.
	ResultInfo
)

// Result is one outcome of a single wait(pid, flags) call.
type Result struct {
	Kind   ResultKind
	PID    int
	Status Status
	Errno  error // valid when Kind == ResultError
}

func (r Result) String() string {
	switch r.Kind {
	case ResultNoChildren:
		return "NoChildren"
	case ResultEmpty:
		return "Empty"
	case ResultError:
		return "Error{" + r.Errno.Error() + "}"
	case ResultInfo:
		return "Info{" + itoa(r.PID) + ", " + r.Status.String() + "}"
	default:
		return "Unknown"
	}
}

package instantiate

import (
	"encoding/gob"
	"fmt"
	"os"
	"strconv"

	"github.com/docker/docker/pkg/reexec"
	"github.com/pkg/errors"
	"github.com/procflow/flow/pkg/proctitle"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

const (
	trampolineName = "flow-child"
	planPathEnv    = "FLOW_TRAMPOLINE_PLAN"

	// pidToken is the exact argv element (or process title) substituted
	// with this leaf's own decimal pid. It must match a whole element,
	// not a substring within one — an argument like "PATH=$HOME" must
	// survive untouched.
	pidToken = "$$"
)

func init() {
	reexec.Register(trampolineName, runTrampoline)
}

// MaybeRunTrampoline must be called at the very top of main, before any
// flag parsing or other flow API use. If this process was launched as the
// flow-child trampoline, it runs the registered entrypoint and never
// returns; a normal invocation returns immediately. Grounded on
// pkg/enterchroot/enter.go and pkg/cli/cmds/init_linux.go's HandleInit,
// both of which reexec into a helper that does setup a bare fork() cannot
// safely do before its own final exec.
func MaybeRunTrampoline() {
	reexec.Init()
}

// fdRewire says a descriptor landed at SlotFD (its position in the
// parent's ProcAttr.Files) must end up at TargetFD, the number the
// executed program actually expects it at.
type fdRewire struct {
	SlotFD   int
	TargetFD int
}

// fileOpen says the child itself must open Path with Flags and land the
// result at TargetFD, for links resolved to a FileChannel: the parent
// never holds this descriptor at all.
type fileOpen struct {
	Path     string
	Flags    int
	Mode     uint32
	TargetFD int
}

// trampolinePlan is everything the flow-child entrypoint needs to finish
// launching one leaf. It is gob-encoded to a private temp file and handed
// to the trampoline process via an environment variable naming the path,
// the same "serialize to a side channel, read it back in the reexec'd
// process" shape pkg/enterchroot/enter.go uses with its ENTER_* env vars.
type trampolinePlan struct {
	Argv             []string
	WorkingDirectory string
	Env              []string
	Rewires          []fdRewire
	Opens            []fileOpen
	ProcessTitle     string

	// DiagFD is the fd, after Rewires has run, that this leaf's
	// diagnostics stream lives at. A rewire entry moving the descriptor
	// handed off in ProcAttr.Files slot 0 to this target is always
	// present alongside the port rewires, so by the time a failure past
	// rewireDescriptors can occur DiagFD is live.
	DiagFD int
}

func writePlan(plan trampolinePlan) (string, error) {
	f, err := os.CreateTemp("", "flow-plan-*")
	if err != nil {
		return "", errors.Wrap(err, "creating trampoline plan file")
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(plan); err != nil {
		os.Remove(f.Name())
		return "", errors.Wrap(err, "encoding trampoline plan")
	}
	return f.Name(), nil
}

func readPlan(path string) (trampolinePlan, error) {
	var plan trampolinePlan
	f, err := os.Open(path)
	if err != nil {
		return plan, errors.Wrap(err, "opening trampoline plan file")
	}
	defer f.Close()
	defer os.Remove(path)
	if err := gob.NewDecoder(f).Decode(&plan); err != nil {
		return plan, errors.Wrap(err, "decoding trampoline plan")
	}
	return plan, nil
}

// runTrampoline is the flow-child entrypoint. It runs in a freshly
// exec'd, single-threaded process, so unlike the parent (which can never
// safely run arbitrary code between a raw fork() and its exec in a
// multi-threaded Go runtime) it is safe here to rewire descriptors,
// substitute this process's own pid into argv, and chdir, all before the
// final exec into the leaf's real program.
func runTrampoline() {
	path := os.Getenv(planPathEnv)
	if path == "" {
		logrus.Fatal("flow-child: missing " + planPathEnv)
	}
	plan, err := readPlan(path)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := rewireDescriptors(plan.Rewires); err != nil {
		// The diag fd's own rewire may be among what just failed, so it
		// cannot be trusted yet; this is the one failure mode that must
		// still go to stderr.
		logrus.Fatal(err)
	}
	if err := openFiles(plan.Opens); err != nil {
		fatal(plan.DiagFD, err)
	}

	if plan.WorkingDirectory != "" {
		if err := os.Chdir(plan.WorkingDirectory); err != nil {
			fatal(plan.DiagFD, errors.Wrapf(err, "chdir %q", plan.WorkingDirectory))
		}
	}

	pid := strconv.Itoa(os.Getpid())
	argv := make([]string, len(plan.Argv))
	for i, a := range plan.Argv {
		if a == pidToken {
			argv[i] = pid
		} else {
			argv[i] = a
		}
	}

	if plan.ProcessTitle != "" {
		title := plan.ProcessTitle
		if title == pidToken {
			title = pid
		}
		proctitle.SetProcTitle(title)
	}

	if err := unix.Exec(argv[0], argv, plan.Env); err != nil {
		fatal(plan.DiagFD, errors.Wrapf(err, "exec %q", argv[0]))
	}
}

// fatal reports err on this leaf's diagnostic fd, the child-local stream
// instance.Forked.Diag reads back in the parent, then exits non-zero. If
// the diag fd isn't actually usable (DiagFD unset, or its own rewire
// failed), the message falls back to this process's stderr instead of
// being lost.
func fatal(diagFD int, err error) {
	msg := fmt.Sprintf("flow-child: %v\n", err)
	if diagFD > 0 {
		if f := os.NewFile(uintptr(diagFD), "diag"); f != nil {
			if _, werr := f.WriteString(msg); werr == nil {
				os.Exit(1)
			}
		}
	}
	logrus.Error(msg)
	os.Exit(1)
}

// rewireDescriptors moves every source descriptor to its declared target
// fd. A direct dup2 per rewire would risk one rewire's dup2 clobbering a
// descriptor a later rewire still needs to read from, since incoming
// slots always land at the low fd numbers 0..len(Files)-1 where common
// targets also live. To avoid that, every source is first moved to a
// high, mutually-exclusive fd via F_DUPFD, and only once all sources are
// safely parked there are they dup2'd down onto their real targets.
func rewireDescriptors(rewires []fdRewire) error {
	if len(rewires) == 0 {
		return nil
	}
	safeBase := 0
	for _, rw := range rewires {
		if rw.SlotFD > safeBase {
			safeBase = rw.SlotFD
		}
		if rw.TargetFD > safeBase {
			safeBase = rw.TargetFD
		}
	}
	safeBase++

	parked := make([]int, len(rewires))
	for i, rw := range rewires {
		nfd, err := unix.FcntlInt(uintptr(rw.SlotFD), unix.F_DUPFD_CLOEXEC, safeBase+i)
		if err != nil {
			return errors.Wrapf(err, "parking descriptor %d", rw.SlotFD)
		}
		parked[i] = nfd
		unix.Close(rw.SlotFD)
	}
	for i, rw := range rewires {
		if parked[i] == rw.TargetFD {
			continue
		}
		if err := unix.Dup2(parked[i], rw.TargetFD); err != nil {
			return errors.Wrapf(err, "dup2(%d, %d)", parked[i], rw.TargetFD)
		}
		unix.Close(parked[i])
	}
	return nil
}

func openFiles(opens []fileOpen) error {
	for _, o := range opens {
		fd, err := unix.Open(o.Path, o.Flags, o.Mode)
		if err != nil {
			return errors.Wrapf(err, "opening %q", o.Path)
		}
		if fd == o.TargetFD {
			continue
		}
		if err := unix.Dup2(fd, o.TargetFD); err != nil {
			return errors.Wrapf(err, "dup2(%d, %d)", fd, o.TargetFD)
		}
		unix.Close(fd)
	}
	return nil
}

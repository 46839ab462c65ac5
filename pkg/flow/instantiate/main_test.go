package instantiate

import (
	"os"
	"testing"

	"github.com/docker/docker/pkg/reexec"
)

// TestMain guards against this test binary itself being launched as the
// flow-child trampoline: forkLeaf execs reexec.Self(), which during `go
// test` is the test binary, not cmd/flowctl. None of this package's own
// tests invoke Instantiate (which would trigger that), but any future
// test that does needs this guard in place first, the same way moby's own
// reexec-using packages guard their test binaries.
func TestMain(m *testing.M) {
	if reexec.Init() {
		return
	}
	os.Exit(m.Run())
}

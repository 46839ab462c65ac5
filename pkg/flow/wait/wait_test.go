package wait

import (
	"os/exec"
	"testing"

	"github.com/procflow/flow/pkg/flow/instance"
	"github.com/procflow/flow/pkg/flow/owning"
)

func startTrue(t *testing.T) int {
	t.Helper()
	cmd := exec.Command("/bin/true")
	if err := cmd.Start(); err != nil {
		t.Fatalf("starting /bin/true: %v", err)
	}
	return cmd.Process.Pid
}

func Test_UnitReapObservesExitStatus(t *testing.T) {
	pid := startTrue(t)
	f := &instance.Forked{Pid: owning.New(pid)}

	r := Reap(f)
	if r.Kind != ResultInfo {
		t.Fatalf("Reap() kind = %v, want ResultInfo", r.Kind)
	}
	if !r.Status.Terminal() {
		t.Fatalf("Reap() status = %v, want terminal", r.Status)
	}
	if !f.Pid.Reaped() {
		t.Errorf("Pid.Reaped() = false after Reap")
	}
	if f.FinalState == nil {
		t.Fatalf("FinalState not set after Reap")
	}
}

func Test_UnitReapIsNoOpOnceReaped(t *testing.T) {
	pid := startTrue(t)
	f := &instance.Forked{Pid: owning.New(pid)}
	Reap(f)

	r := Reap(f)
	if r.Kind != ResultNoChildren {
		t.Errorf("second Reap() kind = %v, want ResultNoChildren", r.Kind)
	}
}

func Test_UnitWaitWalksTreeInOrder(t *testing.T) {
	pidA := startTrue(t)
	pidB := startTrue(t)

	leafA := &instance.Instance{Info: &instance.Forked{Pid: owning.New(pidA)}}
	leafB := &instance.Instance{Info: &instance.Forked{Pid: owning.New(pidB)}}
	root := &instance.Instance{Info: &instance.Custom{
		Order:    []string{"a", "b"},
		Children: map[string]*instance.Instance{"a": leafA, "b": leafB},
	}}

	results := Wait(root)
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for i, r := range results {
		if r.Kind != ResultInfo {
			t.Errorf("results[%d].Kind = %v, want ResultInfo", i, r.Kind)
		}
	}
}

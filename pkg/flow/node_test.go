package flow

import "testing"

func Test_UnitSystemValidateNamesRejectsBadNodeName(t *testing.T) {
	nodes := NewNodeMap()
	nodes.Set("bad name", NewExecutable("/bin/ls", nil, ""))
	sys, _ := NewSystem(nil, nodes, nil).AsSystem()

	err := sys.ValidateNames()
	if err == nil {
		t.Fatalf("expected an error for an invalid node name")
	}
	fe, ok := err.(*Error)
	if !ok || fe.Kind != KindCharsetValidation {
		t.Errorf("err = %v, want a CharsetValidation error", err)
	}
}

func Test_UnitSystemValidateNamesRejectsBadEnvName(t *testing.T) {
	nodes := NewNodeMap()
	nodes.Set("ok", NewExecutable("/bin/ls", nil, ""))
	env := map[string]string{"BAD=NAME": "v"}
	sys, _ := NewSystem(env, nodes, nil).AsSystem()

	if err := sys.ValidateNames(); err == nil {
		t.Fatalf("expected an error for an invalid environment name")
	}
}

func Test_UnitSystemValidateNamesAcceptsValidGraph(t *testing.T) {
	nodes := NewNodeMap()
	nodes.Set("producer", NewExecutable("/bin/ls", nil, ""))
	nodes.Set("consumer", NewExecutable("/usr/bin/wc", []string{"-l"}, ""))
	env := map[string]string{"STAGE": "1"}
	sys, _ := NewSystem(env, nodes, nil).AsSystem()

	if err := sys.ValidateNames(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func Test_UnitNewExecutableDefaultPorts(t *testing.T) {
	n := NewExecutable("/bin/ls", []string{"-l"}, "/tmp")
	exe, ok := n.AsExecutable()
	if !ok {
		t.Fatalf("expected an Executable node")
	}
	if exe.File != "/bin/ls" || exe.WorkingDirectory != "/tmp" {
		t.Errorf("unexpected executable fields: %+v", exe)
	}
	if n.Ports[Stdin].Direction != DirIn {
		t.Errorf("stdin direction = %v, want DirIn", n.Ports[Stdin].Direction)
	}
	if n.Ports[Stdout].Direction != DirOut || n.Ports[Stderr].Direction != DirOut {
		t.Errorf("stdout/stderr direction mismatch: %+v", n.Ports)
	}
}

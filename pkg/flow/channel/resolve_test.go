package channel

import (
	"testing"

	"github.com/procflow/flow/pkg/flow"
)

func childPorts() ChildPorts {
	return ChildPorts{
		"producer": flow.DefaultExecutablePorts(),
		"consumer": flow.DefaultExecutablePorts(),
	}
}

func Test_UnitResolveChildToChildProducesPipe(t *testing.T) {
	links := []flow.Link{
		flow.NewLink(flow.NewNodeEndpoint("producer", flow.Stdout), flow.NewNodeEndpoint("consumer", flow.Stdin)),
	}
	chans, err := Resolve("", flow.Ports{}, childPorts(), links, nil, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(chans) != 1 {
		t.Fatalf("len(chans) = %d, want 1", len(chans))
	}
	pc, ok := chans[0].(*PipeChannel)
	if !ok {
		t.Fatalf("chans[0] = %T, want *PipeChannel", chans[0])
	}
	pc.CloseBoth()
}

func Test_UnitResolveUnknownChildIsInvalid(t *testing.T) {
	links := []flow.Link{
		flow.NewLink(flow.NewNodeEndpoint("ghost", flow.Stdout), flow.NewNodeEndpoint("consumer", flow.Stdin)),
	}
	_, err := Resolve("", flow.Ports{}, childPorts(), links, nil, nil)
	assertInvalidLink(t, err)
}

func Test_UnitResolveBothUserEndpointsIsInvalid(t *testing.T) {
	links := []flow.Link{
		flow.NewLink(flow.NewUserEndpoint("in"), flow.NewUserEndpoint("out")),
	}
	_, err := Resolve("", flow.Ports{}, childPorts(), links, nil, nil)
	assertInvalidLink(t, err)
}

func Test_UnitResolveSelfToUserAtRootProducesPipe(t *testing.T) {
	selfPorts := flow.Ports{flow.Stdout: {Direction: flow.DirOut}}
	links := []flow.Link{
		flow.NewLink(flow.NewNodeEndpoint("", flow.Stdout), flow.NewUserEndpoint("out")),
	}
	chans, err := Resolve("", selfPorts, childPorts(), links, nil, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if _, ok := chans[0].(*PipeChannel); !ok {
		t.Fatalf("chans[0] = %T, want *PipeChannel", chans[0])
	}
	chans[0].(*PipeChannel).CloseBoth()
}

func Test_UnitResolveSelfToUserNonRootIsInvalid(t *testing.T) {
	selfPorts := flow.Ports{flow.Stdout: {Direction: flow.DirOut}}
	links := []flow.Link{
		flow.NewLink(flow.NewNodeEndpoint("", flow.Stdout), flow.NewUserEndpoint("out")),
	}
	parentLinks := []flow.Link{flow.NewLink(flow.NewNodeEndpoint("child", flow.Stdout), flow.NewUserEndpoint("out"))}
	parentChannels := []Channel{&PipeChannel{}}
	_, err := Resolve("child", selfPorts, childPorts(), links, parentLinks, parentChannels)
	assertInvalidLink(t, err)
}

func Test_UnitResolveSelfToChildReferencesParentChannel(t *testing.T) {
	parentPipe, err := NewPipe()
	if err != nil {
		t.Fatalf("NewPipe() error = %v", err)
	}
	defer parentPipe.CloseBoth()

	parentLinks := []flow.Link{
		flow.NewLink(flow.NewNodeEndpoint("sub", flow.Stdout), flow.NewUserEndpoint("out")),
	}
	parentChannels := []Channel{parentPipe}

	selfPorts := flow.Ports{flow.Stdout: {Direction: flow.DirOut}}
	links := []flow.Link{
		flow.NewLink(flow.NewNodeEndpoint("", flow.Stdout), flow.NewNodeEndpoint("producer", flow.Stdout)),
	}
	chans, err := Resolve("sub", selfPorts, childPorts(), links, parentLinks, parentChannels)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	ref, ok := chans[0].(*ReferenceChannel)
	if !ok {
		t.Fatalf("chans[0] = %T, want *ReferenceChannel", chans[0])
	}
	if Deref(ref) != Channel(parentPipe) {
		t.Errorf("Deref(ref) = %v, want the parent's pipe channel", Deref(ref))
	}
}

func Test_UnitResolveParentLinkChannelLengthMismatchIsLogicError(t *testing.T) {
	_, err := Resolve("sub", flow.Ports{}, childPorts(), nil, []flow.Link{flow.NewLink(flow.UnsetEndpoint{}, flow.UnsetEndpoint{})}, nil)
	fe, ok := err.(*flow.Error)
	if !ok || fe.Kind != flow.KindLogicError {
		t.Errorf("err = %v, want a LogicError", err)
	}
}

func assertInvalidLink(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error")
	}
	fe, ok := err.(*flow.Error)
	if !ok || fe.Kind != flow.KindInvalidLink {
		t.Errorf("err = %v, want an InvalidLink error", err)
	}
}

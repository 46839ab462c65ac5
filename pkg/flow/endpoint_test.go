package flow

import "testing"

func Test_UnitEndpointEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Endpoint
		want bool
	}{
		{"unset/unset", UnsetEndpoint{}, UnsetEndpoint{}, true},
		{"unset/user", UnsetEndpoint{}, NewUserEndpoint("x"), false},
		{"user/user same", NewUserEndpoint("x"), NewUserEndpoint("x"), true},
		{"user/user diff", NewUserEndpoint("x"), NewUserEndpoint("y"), false},
		{"file/file same", FileEndpoint{Path: "/tmp/a"}, FileEndpoint{Path: "/tmp/a"}, true},
		{"file/file diff", FileEndpoint{Path: "/tmp/a"}, FileEndpoint{Path: "/tmp/b"}, false},
		{"node/node same", NewNodeEndpoint("c", Stdout), NewNodeEndpoint("c", Stdout), true},
		{"node/node diff name", NewNodeEndpoint("c", Stdout), NewNodeEndpoint("d", Stdout), false},
		{"node/node diff ports", NewNodeEndpoint("c", Stdout), NewNodeEndpoint("c", Stderr), false},
		{"node/node multi ports", NewNodeEndpoint("c", Stdout, Stderr), NewNodeEndpoint("c", Stderr, Stdout), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EndpointEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("EndpointEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func Test_UnitNodeEndpointSelf(t *testing.T) {
	if !NewNodeEndpoint("", Stdin).Self() {
		t.Errorf("empty-name endpoint should report Self() == true")
	}
	if NewNodeEndpoint("child", Stdin).Self() {
		t.Errorf("child endpoint should report Self() == false")
	}
}

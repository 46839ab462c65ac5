package wait

import (
	"testing"

	"golang.org/x/sys/unix"
)

func Test_UnitStatusTerminal(t *testing.T) {
	tests := []struct {
		name string
		s    Status
		want bool
	}{
		{"exit", Status{Kind: StatusExit, Code: 0}, true},
		{"signaled", Status{Kind: StatusSignaled, Signal: unix.SIGKILL}, true},
		{"stopped", Status{Kind: StatusStopped, Signal: unix.SIGSTOP}, false},
		{"continued", Status{Kind: StatusContinued}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Terminal(); got != tt.want {
				t.Errorf("Terminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_UnitStatusString(t *testing.T) {
	tests := []struct {
		name string
		s    Status
		want string
	}{
		{"exit", Status{Kind: StatusExit, Code: 7}, "Exit{7}"},
		{"continued", Status{Kind: StatusContinued}, "Continued"},
		{"unknown", Status{}, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func Test_UnitItoa(t *testing.T) {
	tests := map[int]string{0: "0", 7: "7", -7: "-7", 123: "123", -123: "-123"}
	for in, want := range tests {
		if got := itoa(in); got != want {
			t.Errorf("itoa(%d) = %q, want %q", in, got, want)
		}
	}
}

package ident

import "testing"

func Test_UnitValidNodeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"empty", "", false},
		{"letters", "ls", true},
		{"mixed", "stage_1-output+2", true},
		{"space", "my node", false},
		{"slash", "a/b", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidNodeName(tt.in); got != tt.want {
				t.Errorf("ValidNodeName(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func Test_UnitValidEnvName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"empty", "", false},
		{"ok", "PATH", true},
		{"equals", "A=B", false},
		{"nul", "A\x00B", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidEnvName(tt.in); got != tt.want {
				t.Errorf("ValidEnvName(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func Test_UnitValidEnvValue(t *testing.T) {
	if !ValidEnvValue("") {
		t.Error("empty value should be valid")
	}
	if !ValidEnvValue("derived value") {
		t.Error("plain value should be valid")
	}
	if ValidEnvValue("bad\x00value") {
		t.Error("NUL-containing value should be invalid")
	}
}

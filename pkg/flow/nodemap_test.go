package flow

import (
	"reflect"
	"testing"
)

func Test_UnitNodeMapInsertionOrder(t *testing.T) {
	m := NewNodeMap()
	m.Set("c", NewExecutable("/bin/c", nil, ""))
	m.Set("a", NewExecutable("/bin/a", nil, ""))
	m.Set("b", NewExecutable("/bin/b", nil, ""))

	want := []string{"c", "a", "b"}
	if got := m.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if got := m.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}

func Test_UnitNodeMapReplaceKeepsPosition(t *testing.T) {
	m := NewNodeMap()
	m.Set("a", NewExecutable("/bin/a", nil, ""))
	m.Set("b", NewExecutable("/bin/b", nil, ""))
	m.Set("a", NewExecutable("/bin/a2", nil, ""))

	want := []string{"a", "b"}
	if got := m.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	n, ok := m.Get("a")
	if !ok {
		t.Fatalf("Get(a) not found")
	}
	exe, _ := n.AsExecutable()
	if exe.File != "/bin/a2" {
		t.Errorf("Get(a).File = %q, want /bin/a2", exe.File)
	}
}

func Test_UnitNodeMapRangeStopsEarly(t *testing.T) {
	m := NewNodeMap()
	m.Set("a", NewExecutable("/bin/a", nil, ""))
	m.Set("b", NewExecutable("/bin/b", nil, ""))
	m.Set("c", NewExecutable("/bin/c", nil, ""))

	var seen []string
	m.Range(func(name string, n Node) bool {
		seen = append(seen, name)
		return name != "b"
	})
	want := []string{"a", "b"}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("Range visited %v, want %v", seen, want)
	}
}

func Test_UnitNilNodeMap(t *testing.T) {
	var m *NodeMap
	if m.Len() != 0 {
		t.Errorf("nil Len() = %d, want 0", m.Len())
	}
	if m.Names() != nil {
		t.Errorf("nil Names() = %v, want nil", m.Names())
	}
	if _, ok := m.Get("a"); ok {
		t.Errorf("nil Get(a) ok = true, want false")
	}
}

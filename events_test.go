package glowfield

import "testing"

func TestRegistryEmitOrder(t *testing.T) {
	var r registry[int]
	var got []int
	r.add(func(v int) { got = append(got, v*10) })
	r.add(func(v int) { got = append(got, v*100) })
	r.emit(2)
	if len(got) != 2 || got[0] != 20 || got[1] != 200 {
		t.Errorf("got %v, want [20 200]", got)
	}
}

func TestRegistryRemove(t *testing.T) {
	var r registry[int]
	calls := 0
	h := r.add(func(int) { calls++ })
	r.emit(0)
	h.Remove()
	h.Remove()
	r.emit(0)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if r.len() != 0 {
		t.Errorf("len = %d, want 0", r.len())
	}
}

func TestRegistryRemoveDuringEmit(t *testing.T) {
	var r registry[int]
	calls := 0
	var h CallbackHandle
	h = r.add(func(int) {
		calls++
		h.Remove()
	})
	other := 0
	r.add(func(int) { other++ })

	r.emit(0)
	r.emit(0)
	if calls != 1 || other != 2 {
		t.Errorf("calls = %d, other = %d, want 1, 2", calls, other)
	}
}

func TestRegistryRemoveMiddle(t *testing.T) {
	var r registry[string]
	var got []string
	r.add(func(string) { got = append(got, "a") })
	h := r.add(func(string) { got = append(got, "b") })
	r.add(func(string) { got = append(got, "c") })
	h.Remove()
	r.emit("")
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("got %v, want [a c]", got)
	}
}

func TestZeroHandleRemove(t *testing.T) {
	var h CallbackHandle
	h.Remove()
}

package chanlib

import "testing"

func TestRingAddRemoveFIFO(t *testing.T) {
	q, err := newRing[int](3)
	if err != nil {
		t.Fatalf("newRing: %v", err)
	}
	if !q.empty() {
		t.Fatalf("new ring should be empty")
	}

	q.add(10)
	q.add(20)
	q.add(30)
	if !q.full() {
		t.Fatalf("ring should be full at capacity")
	}

	for _, want := range []int{10, 20, 30} {
		got, ok := q.remove()
		if !ok {
			t.Fatalf("remove: expected a value")
		}
		if got != want {
			t.Fatalf("remove: got %d, want %d", got, want)
		}
	}
	if !q.empty() {
		t.Fatalf("ring should be empty after draining")
	}
	if _, ok := q.remove(); ok {
		t.Fatalf("remove on empty ring should report !ok")
	}
}

func TestRingWrapsAroundHead(t *testing.T) {
	q, err := newRing[int](2)
	if err != nil {
		t.Fatalf("newRing: %v", err)
	}
	q.add(1)
	q.add(2)
	if v, _ := q.remove(); v != 1 {
		t.Fatalf("got %d, want 1", v)
	}
	q.add(3) // wraps: head=1, tail writes to index 0
	if v, _ := q.remove(); v != 2 {
		t.Fatalf("got %d, want 2", v)
	}
	if v, _ := q.remove(); v != 3 {
		t.Fatalf("got %d, want 3", v)
	}
}

func TestRingPeekDoesNotMutate(t *testing.T) {
	q, _ := newRing[string](1)
	if _, ok := q.peek(); ok {
		t.Fatalf("peek on empty ring should report !ok")
	}
	q.add("x")
	v, ok := q.peek()
	if !ok || v != "x" {
		t.Fatalf("peek: got (%q, %v), want (\"x\", true)", v, ok)
	}
	if q.size != 1 {
		t.Fatalf("peek mutated size: got %d, want 1", q.size)
	}
}

func TestRingAddPanicsWhenFull(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected add on full ring to panic")
		}
	}()
	q, _ := newRing[int](1)
	q.add(1)
	q.add(2)
}

func TestNewRingInvalidCapacity(t *testing.T) {
	if _, err := newRing[int](-1); !IsInvalidArgument(err) {
		t.Fatalf("newRing(-1): got %v, want InvalidArgument", err)
	}
}

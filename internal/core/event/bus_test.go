package event

import "testing"

type ping struct{ n int }

func TestBusDeliversNextTick(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(p ping) { got = append(got, p.n) })

	Emit(b, ping{1})
	Emit(b, ping{2})
	if b.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", b.Pending())
	}

	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("delivered %v before swap", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("delivered %v, want [1 2]", got)
	}
	if b.Pending() != 0 {
		t.Fatalf("pending after swap = %d", b.Pending())
	}

	// The old front buffer becomes the new back buffer and is cleared.
	b.SwapBuffers()
	got = got[:0]
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("redelivered %v", got)
	}
}

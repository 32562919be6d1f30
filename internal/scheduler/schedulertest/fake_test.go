package schedulertest

import (
	"testing"
	"time"
)

func TestFakeTimers(t *testing.T) {
	var f FakeTimers
	var ticks, shots int
	every := f.Every(5*time.Second, func() { ticks++ })
	f.After(3*time.Second, func() { shots++ })
	f.After(3*time.Second, func() { shots++ })

	f.Tick()
	f.Tick()
	if ticks != 2 {
		t.Fatalf("expected 2 ticks, got %d", ticks)
	}
	if !f.Pop() || shots != 1 {
		t.Fatalf("expected one shot fired, got %d", shots)
	}
	f.Flush()
	f.Flush()
	if shots != 2 {
		t.Fatalf("one-shot tasks fire once, got %d", shots)
	}
	if f.Pop() {
		t.Fatal("no one-shot task should remain")
	}

	every.Cancel()
	f.Tick()
	if ticks != 2 {
		t.Fatalf("cancelled task ticked")
	}
	if len(f.Active(true)) != 0 || len(f.Active(false)) != 0 {
		t.Fatal("expected no active tasks")
	}
}

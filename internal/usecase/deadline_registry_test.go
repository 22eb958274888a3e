package usecase

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before timeout")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestDeadlineRegistry_FiresOnce(t *testing.T) {
	clk := clock.NewMock()
	reg := NewDeadlineRegistry(clk)

	var fired atomic.Int32
	reg.Schedule(1, time.Minute, func() { fired.Add(1) })

	clk.Add(59 * time.Second)
	if fired.Load() != 0 {
		t.Fatalf("timer fired early")
	}
	clk.Add(time.Second)
	waitFor(t, func() bool { return fired.Load() == 1 })

	if reg.Len() != 0 {
		t.Fatalf("fired timer must be removed")
	}
	clk.Add(time.Hour)
	time.Sleep(10 * time.Millisecond)
	if fired.Load() != 1 {
		t.Fatalf("unexpected fire count: got=%d want=1", fired.Load())
	}
}

func TestDeadlineRegistry_RescheduleReplacesTimer(t *testing.T) {
	clk := clock.NewMock()
	reg := NewDeadlineRegistry(clk)

	var first, second atomic.Int32
	reg.Schedule(7, time.Minute, func() { first.Add(1) })
	reg.Schedule(7, 2*time.Minute, func() { second.Add(1) })

	if reg.Len() != 1 {
		t.Fatalf("unexpected pending count: %d", reg.Len())
	}
	at, ok := reg.Pending(7)
	if !ok || !at.Equal(clk.Now().Add(2*time.Minute)) {
		t.Fatalf("unexpected pending deadline: %s ok=%v", at, ok)
	}

	clk.Add(2 * time.Minute)
	waitFor(t, func() bool { return second.Load() == 1 })
	if first.Load() != 0 {
		t.Fatalf("replaced timer must not fire")
	}
}

func TestDeadlineRegistry_CancelAndStop(t *testing.T) {
	clk := clock.NewMock()
	reg := NewDeadlineRegistry(clk)

	var fired atomic.Int32
	reg.Schedule(1, time.Minute, func() { fired.Add(1) })
	reg.Schedule(2, time.Minute, func() { fired.Add(1) })
	reg.Schedule(3, time.Minute, func() { fired.Add(1) })

	if !reg.Cancel(1) {
		t.Fatalf("expected pending timer to be cancelled")
	}
	if reg.Cancel(1) {
		t.Fatalf("second cancel must report false")
	}
	if stopped := reg.Stop(); stopped != 2 {
		t.Fatalf("unexpected stopped count: got=%d want=2", stopped)
	}

	clk.Add(time.Hour)
	time.Sleep(10 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatalf("stopped timers must not fire: %d", fired.Load())
	}
}

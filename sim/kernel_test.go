package sim

import (
	"errors"
	"testing"
)

func TestKernel_SameTimestampEventsResumeInSchedulingOrder(t *testing.T) {
	// GIVEN two processes spawned at the same timestamp
	k := NewKernel(10)
	var order []string
	k.Spawn("a", func(p *Proc) { order = append(order, "a") })
	k.Spawn("b", func(p *Proc) { order = append(order, "b") })

	// WHEN the kernel runs
	k.Run()

	// THEN they resume in scheduling order
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("same-timestamp order: got %v, want [a b]", order)
	}
}

func TestKernel_HoldAdvancesClock(t *testing.T) {
	// GIVEN a process holding twice
	k := NewKernel(100)
	var times []float64
	k.Spawn("p", func(p *Proc) {
		if err := p.Hold(5); err != nil {
			t.Errorf("Hold(5): unexpected error %v", err)
		}
		times = append(times, p.Now())
		if err := p.Hold(2.5); err != nil {
			t.Errorf("Hold(2.5): unexpected error %v", err)
		}
		times = append(times, p.Now())
	})

	// WHEN the kernel runs
	k.Run()

	// THEN the clock advances by exactly the held durations
	if len(times) != 2 || times[0] != 5 || times[1] != 7.5 {
		t.Errorf("hold timestamps: got %v, want [5 7.5]", times)
	}
	if k.EndTime() != 7.5 {
		t.Errorf("EndTime: got %v, want 7.5", k.EndTime())
	}
}

func TestKernel_InterruptSupersedesTimer(t *testing.T) {
	// GIVEN a victim holding for 10 and a breaker interrupting it at 2
	k := NewKernel(100)
	var resumes []float64
	var interrupted bool
	victim := k.Spawn("victim", func(p *Proc) {
		err := p.Hold(10)
		interrupted = errors.Is(err, ErrInterrupted)
		resumes = append(resumes, p.Now())
	})
	k.Spawn("breaker", func(p *Proc) {
		if err := p.Hold(2); err != nil {
			t.Errorf("breaker Hold: unexpected error %v", err)
		}
		k.Interrupt(victim)
	})

	// WHEN the kernel runs
	k.Run()

	// THEN the victim resumes exactly once, at the interrupt time, with a
	// distinguishable error; the superseded timer at t=10 never fires
	if !interrupted {
		t.Error("victim did not observe ErrInterrupted")
	}
	if len(resumes) != 1 || resumes[0] != 2 {
		t.Errorf("victim resumptions: got %v, want [2]", resumes)
	}
	if k.EndTime() != 2 {
		t.Errorf("EndTime: got %v, want 2 (canceled timer must not advance the clock)", k.EndTime())
	}
}

func TestKernel_StopsAtHorizonWithPendingEvents(t *testing.T) {
	// GIVEN a process ticking every 2 time units forever
	k := NewKernel(5)
	ticks := 0
	k.Spawn("ticker", func(p *Proc) {
		for {
			if p.Hold(2) != nil {
				return
			}
			ticks++
		}
	})

	// WHEN the kernel runs to a horizon of 5
	k.Run()

	// THEN ticks at 2 and 4 fire, the tick pending at 6 does not
	if ticks != 2 {
		t.Errorf("ticks: got %d, want 2", ticks)
	}
	if k.EndTime() > 5 {
		t.Errorf("EndTime: got %v, want <= 5", k.EndTime())
	}
}

func TestSignal_WaitersResumeInWaitOrder(t *testing.T) {
	// GIVEN three processes waiting on one signal
	k := NewKernel(100)
	sig := k.NewSignal()
	var order []string
	waiter := func(name string) func(*Proc) {
		return func(p *Proc) {
			if err := sig.Wait(p); err != nil {
				t.Errorf("%s Wait: unexpected error %v", name, err)
			}
			order = append(order, name)
		}
	}
	k.Spawn("w1", waiter("w1"))
	k.Spawn("w2", waiter("w2"))
	k.Spawn("w3", waiter("w3"))
	k.Spawn("trigger", func(p *Proc) {
		if err := p.Hold(1); err != nil {
			t.Errorf("trigger Hold: unexpected error %v", err)
		}
		sig.Broadcast()
	})

	// WHEN the signal broadcasts
	k.Run()

	// THEN waiters resume in the order they started waiting
	want := []string{"w1", "w2", "w3"}
	if len(order) != 3 {
		t.Fatalf("resumed waiters: got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("waiter order[%d]: got %s, want %s", i, order[i], want[i])
		}
	}
}

package sim

import (
	"testing"
)

func TestQueue_FIFOOrder(t *testing.T) {
	// GIVEN three materials put in order
	k := NewKernel(100)
	q := NewQueue(k, "q", 10)
	var got []string
	k.Spawn("producer", func(p *Proc) {
		q.Put(p, &Material{ID: "m1"})
		q.Put(p, &Material{ID: "m2"})
		q.Put(p, &Material{ID: "m3"})
	})
	k.Spawn("consumer", func(p *Proc) {
		for i := 0; i < 3; i++ {
			got = append(got, q.Get(p, nil).ID)
		}
	})

	// WHEN the kernel runs
	k.Run()

	// THEN gets observe insertion order
	want := []string{"m1", "m2", "m3"}
	if len(got) != 3 {
		t.Fatalf("consumed: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d]: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestQueue_GetByPredicateSkipsNonMatching(t *testing.T) {
	// GIVEN a queue holding two material types
	k := NewKernel(100)
	q := NewQueue(k, "q", 10)
	var got *Material
	k.Spawn("producer", func(p *Proc) {
		q.Put(p, &Material{ID: "a1", Type: "a"})
		q.Put(p, &Material{ID: "b1", Type: "b"})
	})
	k.Spawn("consumer", func(p *Proc) {
		got = q.Get(p, func(m *Material) bool { return m.Type == "b" })
	})

	// WHEN the consumer gets by type
	k.Run()

	// THEN it receives the earliest matching item and the other stays queued
	if got == nil || got.ID != "b1" {
		t.Fatalf("predicate get: got %v, want b1", got)
	}
	if q.Len() != 1 || q.items[0].ID != "a1" {
		t.Errorf("queue remainder: got len=%d, want a1 still buffered", q.Len())
	}
}

func TestQueue_PutBlocksUntilGetDrains(t *testing.T) {
	// GIVEN a capacity-1 queue with one buffered item
	k := NewKernel(100)
	q := NewQueue(k, "q", 1)
	put2Done := -1.0
	var first *Material
	k.Spawn("producer", func(p *Proc) {
		q.Put(p, &Material{ID: "m1"})
		q.Put(p, &Material{ID: "m2"})
		put2Done = p.Now()
	})
	k.Spawn("consumer", func(p *Proc) {
		if err := p.Hold(5); err != nil {
			t.Errorf("consumer Hold: unexpected error %v", err)
		}
		first = q.Get(p, nil)
	})

	// WHEN a second put arrives before any get
	k.Run()

	// THEN the put suspends and completes only at the get's timestamp,
	// strictly after the first put, with the get ordered before it
	if put2Done != 5 {
		t.Errorf("second put completed at %v, want 5", put2Done)
	}
	if first == nil || first.ID != "m1" {
		t.Errorf("get: got %v, want m1", first)
	}
	if q.Len() != 1 || q.items[0].ID != "m2" {
		t.Errorf("queue after drain: got len=%d, want only m2 buffered", q.Len())
	}
}

func TestQueue_GetBlocksWhileEmpty(t *testing.T) {
	// GIVEN a consumer arriving before any material exists
	k := NewKernel(100)
	q := NewQueue(k, "q", 10)
	gotAt := -1.0
	k.Spawn("consumer", func(p *Proc) {
		q.Get(p, nil)
		gotAt = p.Now()
	})
	k.Spawn("producer", func(p *Proc) {
		if err := p.Hold(3); err != nil {
			t.Errorf("producer Hold: unexpected error %v", err)
		}
		q.Put(p, &Material{ID: "m1"})
	})

	// WHEN the material arrives at t=3
	k.Run()

	// THEN the get resumes exactly then
	if gotAt != 3 {
		t.Errorf("get resumed at %v, want 3", gotAt)
	}
}

func TestQueue_UnboundedNeverBlocksPut(t *testing.T) {
	// GIVEN an unbounded queue
	k := NewKernel(100)
	q := NewQueue(k, "q", 0)
	doneAt := -1.0
	k.Spawn("producer", func(p *Proc) {
		for i := 0; i < 50; i++ {
			q.Put(p, &Material{ID: "m"})
		}
		doneAt = p.Now()
	})

	// WHEN many puts happen with no consumer
	k.Run()

	// THEN none of them suspends
	if doneAt != 0 {
		t.Errorf("puts finished at %v, want 0", doneAt)
	}
	if q.Len() != 50 {
		t.Errorf("buffered: got %d, want 50", q.Len())
	}
}

package sim

import (
	"fmt"
	"testing"
)

// pendingRequests builds an arrival-ordered pending list with the given
// expected durations.
func pendingRequests(t *testing.T, durations ...float64) []*Request {
	t.Helper()
	out := make([]*Request, 0, len(durations))
	for i, d := range durations {
		tm, err := NewFunctionalTimeModel("constant", map[string]float64{"value": d}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, &Request{
			Material: &Material{ID: fmt.Sprintf("m%d", i+1)},
			Process:  &Process{ID: fmt.Sprintf("p%d", i+1), Kind: ProcessProduction, TM: tm},
			seq:      uint64(i + 1),
		})
	}
	return out
}

func TestFIFOPolicy_SelectsOldest(t *testing.T) {
	pending := pendingRequests(t, 9, 1, 5)
	if i := (FIFOPolicy{}).Select(pending, 0); i != 0 {
		t.Errorf("fifo: got index %d, want 0", i)
	}
}

func TestLIFOPolicy_SelectsNewest(t *testing.T) {
	pending := pendingRequests(t, 9, 1, 5)
	if i := (LIFOPolicy{}).Select(pending, 0); i != 2 {
		t.Errorf("lifo: got index %d, want 2", i)
	}
}

func TestSPTPolicy_SelectsShortestExpectedDuration(t *testing.T) {
	pending := pendingRequests(t, 9, 1, 5)
	if i := (SPTPolicy{}).Select(pending, 0); i != 1 {
		t.Errorf("spt: got index %d, want 1", i)
	}
}

func TestSPTPolicy_BreaksTiesByArrivalOrder(t *testing.T) {
	// GIVEN two requests with identical expected durations
	pending := pendingRequests(t, 9, 4, 4)

	// THEN the earlier arrival wins the tie
	if i := (SPTPolicy{}).Select(pending, 0); i != 1 {
		t.Errorf("spt tie: got index %d, want 1 (earlier arrival)", i)
	}
}

func TestNewDispatchPolicy_ResolvesByName(t *testing.T) {
	for _, name := range []string{"", "fifo", "lifo", "spt"} {
		if !IsValidDispatchPolicy(name) {
			t.Errorf("IsValidDispatchPolicy(%q) = false, want true", name)
		}
		if _, err := NewDispatchPolicy(name); err != nil {
			t.Errorf("NewDispatchPolicy(%q): unexpected error %v", name, err)
		}
	}
	if IsValidDispatchPolicy("bogus") {
		t.Error("IsValidDispatchPolicy(bogus) = true, want false")
	}
	if _, err := NewDispatchPolicy("bogus"); err == nil {
		t.Error("NewDispatchPolicy(bogus): expected error")
	}
}

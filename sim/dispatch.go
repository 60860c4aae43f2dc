// Dispatch policies decide which pending request a controller serves next.
// Policies are pure selection functions over the pending-request list;
// resolution happens by validated name at build time, never at dispatch
// time.

package sim

import (
	"fmt"
)

// DispatchPolicy selects the index of the pending request to serve next.
// Implementations MUST NOT modify the requests or the slice.
type DispatchPolicy interface {
	Select(pending []*Request, clock float64) int
}

// FIFOPolicy serves requests in stable arrival order.
type FIFOPolicy struct{}

func (FIFOPolicy) Select(_ []*Request, _ float64) int { return 0 }

// LIFOPolicy serves the most recently arrived request first.
type LIFOPolicy struct{}

func (LIFOPolicy) Select(pending []*Request, _ float64) int { return len(pending) - 1 }

// SPTPolicy serves the request with the lowest expected process time,
// breaking ties by arrival order.
type SPTPolicy struct{}

func (SPTPolicy) Select(pending []*Request, _ float64) int {
	best := 0
	bestD := pending[0].ExpectedDuration()
	for i := 1; i < len(pending); i++ {
		// Strict < keeps the earliest arrival on ties; pending is in
		// arrival order.
		if d := pending[i].ExpectedDuration(); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

var validDispatchPolicies = map[string]bool{
	"":     true, // defaults to fifo
	"fifo": true,
	"lifo": true,
	"spt":  true,
}

// IsValidDispatchPolicy reports whether name resolves to a dispatch policy.
func IsValidDispatchPolicy(name string) bool {
	return validDispatchPolicies[name]
}

// NewDispatchPolicy creates a DispatchPolicy by name. Empty string defaults
// to FIFO. Unknown names are a configuration error.
func NewDispatchPolicy(name string) (DispatchPolicy, error) {
	switch name {
	case "", "fifo":
		return FIFOPolicy{}, nil
	case "lifo":
		return LIFOPolicy{}, nil
	case "spt":
		return SPTPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown dispatch policy %q", name)
	}
}

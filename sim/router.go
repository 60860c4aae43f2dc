// Implements the Router, which resolves a material's next process and the
// resources currently capable of executing it, plus the pluggable
// resource-selection policies that break ties between candidates.

package sim

import (
	"fmt"
	"math/rand"
)

// ResourcePolicy breaks ties when several resources qualify for a process.
// Candidates arrive in configuration order; implementations must be
// deterministic given the run seed.
type ResourcePolicy interface {
	Select(candidates []*Resource, m *Material) *Resource
}

// LeastLoadedPolicy picks the resource with the shortest backlog (input
// queue length plus pending dispatch requests), ties broken by candidate
// order.
type LeastLoadedPolicy struct{}

func (LeastLoadedPolicy) Select(candidates []*Resource, _ *Material) *Resource {
	best := candidates[0]
	bestLoad := best.Input.Len() + best.Controller.Pending()
	for _, r := range candidates[1:] {
		if load := r.Input.Len() + r.Controller.Pending(); load < bestLoad {
			best, bestLoad = r, load
		}
	}
	return best
}

// NearestPolicy picks the resource closest to the material's current
// location, ties broken by candidate order.
type NearestPolicy struct{}

func (NearestPolicy) Select(candidates []*Resource, m *Material) *Resource {
	best := candidates[0]
	bestD := manhattan(m.Location, best.Location)
	for _, r := range candidates[1:] {
		if d := manhattan(m.Location, r.Location); d < bestD {
			best, bestD = r, d
		}
	}
	return best
}

// RandomPolicy picks uniformly among candidates using the router's RNG
// stream.
type RandomPolicy struct {
	rng *rand.Rand
}

func (p *RandomPolicy) Select(candidates []*Resource, _ *Material) *Resource {
	return candidates[p.rng.Intn(len(candidates))]
}

var validResourcePolicies = map[string]bool{
	"":             true, // defaults to least-loaded
	"least-loaded": true,
	"nearest":      true,
	"random":       true,
}

// IsValidResourcePolicy reports whether name resolves to a resource
// selection policy.
func IsValidResourcePolicy(name string) bool {
	return validResourcePolicies[name]
}

// NewResourcePolicy creates a ResourcePolicy by name. Empty string defaults
// to least-loaded. Unknown names are a configuration error.
func NewResourcePolicy(name string, rng *rand.Rand) (ResourcePolicy, error) {
	switch name {
	case "", "least-loaded":
		return LeastLoadedPolicy{}, nil
	case "nearest":
		return NearestPolicy{}, nil
	case "random":
		return &RandomPolicy{rng: rng}, nil
	default:
		return nil, fmt.Errorf("unknown resource policy %q", name)
	}
}

// Router resolves, from a material's remaining route, the next process and
// the resources capable of executing it. Capability maps are built once at
// configuration time; no name lookups happen at dispatch time.
type Router struct {
	routes      map[string][]string // material type -> ordered process ids
	byProcess   map[string][]*Resource
	sinksByType map[string][]*Sink
	policy      ResourcePolicy
}

// RouteFor returns the ordered process route assigned to a material type.
func (r *Router) RouteFor(materialType string) ([]string, bool) {
	route, ok := r.routes[materialType]
	return route, ok
}

// NextResource picks a resource for the process, or nil when no resource
// currently qualifies (a routing deadlock the caller must surface).
func (r *Router) NextResource(processID string, m *Material) *Resource {
	candidates := r.byProcess[processID]
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	return r.policy.Select(candidates, m)
}

// SinkFor returns the first configured sink consuming the material type,
// nil when none exists.
func (r *Router) SinkFor(materialType string) *Sink {
	sinks := r.sinksByType[materialType]
	if len(sinks) == 0 {
		return nil
	}
	return sinks[0]
}

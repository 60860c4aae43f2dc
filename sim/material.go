// Defines the Material struct that models a unit of work (job/part/token)
// flowing through the production system.

package sim

import (
	"fmt"
)

// Material is a unit of work flowing through the system. It is created by a
// Source, travels its assigned route hop by hop, and is destroyed on arrival
// at a matching Sink.
//
// Invariant: Visited concatenated with Remaining always equals the full
// assigned route.
type Material struct {
	ID        string
	Type      string
	CreatedAt float64
	DueAt     float64 // optional due time, zero when the route has none
	Location  Location

	Visited   []string // completed route steps, in execution order
	Remaining []string // route steps still ahead, in order

	route []string // full assigned route, immutable after creation

	// next is a committed next-hop resource choice, set when a transport
	// destination had to be resolved ahead of time.
	next *Resource
}

// NewMaterial creates a material with the given route assigned and not yet
// started.
func NewMaterial(id, materialType string, route []string, createdAt float64, loc Location) *Material {
	full := append([]string(nil), route...)
	return &Material{
		ID:        id,
		Type:      materialType,
		CreatedAt: createdAt,
		Location:  loc,
		Remaining: full,
		route:     append([]string(nil), route...),
	}
}

// Route returns the full assigned route.
func (m *Material) Route() []string { return m.route }

// Advance marks the head of the remaining route as completed. The process id
// must match the head; anything else is a routing bug, not a recoverable
// condition.
func (m *Material) Advance(processID string) {
	if len(m.Remaining) == 0 || m.Remaining[0] != processID {
		panic(fmt.Sprintf("material %s: advance %q does not match remaining route head %v", m.ID, processID, m.Remaining))
	}
	m.Visited = append(m.Visited, processID)
	m.Remaining = m.Remaining[1:]
}

// This method returns a human-readable string representation of a Material.
func (m Material) String() string {
	return fmt.Sprintf("Material: (ID: %s, Type: %s, Visited: %v, Remaining: %v)", m.ID, m.Type, m.Visited, m.Remaining)
}

// Tracks run-wide aggregate counters for final reporting.

package sim

import "fmt"

// Metrics aggregates statistics about one simulation run for final
// reporting: throughput per resource and sink, stalled materials, and the
// simulated end time.
type Metrics struct {
	PartsMade         map[string]int // resource id -> parts completed
	MaterialsCreated  map[string]int // source id -> materials created
	MaterialsFinished map[string]int // sink id -> materials consumed
	StalledMaterials  int            // materials with no feasible next resource
	EndTime           float64        // simulated time the run stopped at
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		PartsMade:         make(map[string]int),
		MaterialsCreated:  make(map[string]int),
		MaterialsFinished: make(map[string]int),
	}
}

// TotalFinished sums finished materials across all sinks.
func (m *Metrics) TotalFinished() int {
	total := 0
	for _, n := range m.MaterialsFinished {
		total += n
	}
	return total
}

// Print displays aggregated counters at the end of the simulation.
func (m *Metrics) Print(resourceOrder, sourceOrder, sinkOrder []string) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Simulated end time   : %.3f\n", m.EndTime)
	for _, id := range sourceOrder {
		fmt.Printf("Source %-12s : %d materials created\n", id, m.MaterialsCreated[id])
	}
	for _, id := range resourceOrder {
		fmt.Printf("Resource %-10s : %d parts made\n", id, m.PartsMade[id])
	}
	for _, id := range sinkOrder {
		fmt.Printf("Sink %-14s : %d materials finished\n", id, m.MaterialsFinished[id])
	}
	if m.StalledMaterials > 0 {
		fmt.Printf("Stalled materials    : %d\n", m.StalledMaterials)
	}
}

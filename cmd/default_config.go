package cmd

import (
	"github.com/factory-sim/factory-sim/sim"
)

// DefaultConfig is the built-in demo scenario: one source feeding a
// two-machine line (milling then assembly) with a transporter between the
// machines, a breakdown/repair cycle on the first machine, and one sink.
func DefaultConfig() sim.Config {
	return sim.Config{
		TimeModels: []sim.TimeModelConfig{
			{ID: "arrivals", Kind: "functional", Distribution: "exponential", Params: map[string]float64{"mean": 6}},
			{ID: "mill_time", Kind: "functional", Distribution: "normal", Params: map[string]float64{"mean": 4, "stdev": 1}},
			{ID: "assembly_time", Kind: "functional", Distribution: "constant", Params: map[string]float64{"value": 3}},
			{ID: "agv_speed", Kind: "distance-based", Speed: 5, ReactionTime: 0.5},
			{ID: "mill_failures", Kind: "functional", Distribution: "exponential", Params: map[string]float64{"mean": 120}},
			{ID: "mill_repair", Kind: "functional", Distribution: "uniform", Params: map[string]float64{"min": 5, "max": 15}},
		},
		Processes: []sim.ProcessConfig{
			{ID: "milling", Kind: "production", TimeModel: "mill_time"},
			{ID: "haul", Kind: "transport", TimeModel: "agv_speed"},
			{ID: "assembly", Kind: "production", TimeModel: "assembly_time"},
		},
		Queues: []sim.QueueConfig{
			{ID: "source_out", Capacity: 0},
			{ID: "mill_in", Capacity: 8},
			{ID: "mill_out", Capacity: 8},
			{ID: "agv_in", Capacity: 8},
			{ID: "agv_out", Capacity: 8},
			{ID: "assembly_in", Capacity: 8},
			{ID: "assembly_out", Capacity: 8},
			{ID: "sink_in", Capacity: 0},
		},
		States: []sim.StateConfig{
			{ID: "mill_breakdown", Kind: "breakdown", TimeModel: "mill_failures", RepairTimeModel: "mill_repair"},
		},
		Resources: []sim.ResourceConfig{
			{ID: "mill", Capacity: 1, Location: [2]float64{0, 10}, Processes: []string{"milling"},
				InputQueue: "mill_in", OutputQueue: "mill_out", States: []string{"mill_breakdown"}},
			{ID: "agv", Capacity: 1, Location: [2]float64{5, 10}, Processes: []string{"haul"},
				InputQueue: "agv_in", OutputQueue: "agv_out"},
			{ID: "assembly", Capacity: 1, Location: [2]float64{20, 10}, Processes: []string{"assembly"},
				InputQueue: "assembly_in", OutputQueue: "assembly_out"},
		},
		Sources: []sim.SourceConfig{
			{ID: "src", MaterialType: "housing", Location: [2]float64{0, 0}, TimeModel: "arrivals", OutputQueue: "source_out"},
		},
		Sinks: []sim.SinkConfig{
			{ID: "sink", MaterialType: "housing", Location: [2]float64{25, 10}, InputQueue: "sink_in"},
		},
		Routes: []sim.RouteConfig{
			{MaterialType: "housing", Processes: []string{"milling", "haul", "assembly"}},
		},
	}
}

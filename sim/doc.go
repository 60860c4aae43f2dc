// Package sim provides the core discrete-event simulation engine for
// factory-sim: resources process material tokens routed through bounded
// queues, governed by stochastic time models, pluggable dispatch policies,
// and breakdown/repair cycles.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - kernel.go: the cooperative scheduler (clock, event heap, Hold/Wait/Interrupt)
//   - controller.go: the per-resource dispatch loop and execution of one request
//   - simulator.go: configuration build, entity wiring, and the run entry point
//
// # Architecture
//
// Every entity's behavior is a resumable unit of work (a Proc): sources emit
// materials, each material travels its route as its own process, controllers
// dispatch work on their resource, and breakdown states run failure/repair
// cycles. The kernel resumes exactly one process at any simulated instant
// and orders same-timestamp events by scheduling order, which makes a run
// bit-for-bit reproducible for a given seed.
//
// Sub-packages:
//   - sim/trace/: pure-data event log records and derived summaries
//   - sim/scenario/: YAML scenario files mapped onto Config
//
// # Key Interfaces
//
// The extension points are small interfaces resolved by validated name at
// build time, never at dispatch time:
//   - TimeModel: duration sampling (functional, historical, distance-based)
//   - DispatchPolicy: which pending request a controller serves next (fifo, lifo, spt)
//   - ResourcePolicy: which capable resource a material routes to (least-loaded, nearest, random)
package sim

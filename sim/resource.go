// Defines the Resource, a capacity-bounded server (machine or transporter)
// that owns its states and queues, and the breakdown/repair cycle that can
// preempt its work.

package sim

import (
	"fmt"
)

// job tracks one in-flight production/transport execution so breakdowns can
// target the oldest active state.
type job struct {
	proc  *Proc
	state *State
}

// Resource is a capacity-bounded server executing processes. All of its
// states are created once at build time; production/transport states exist
// in capacity-many instances per process so concurrent work up to capacity
// always finds an idle state.
type Resource struct {
	ID       string
	Capacity int
	Location Location

	Processes []*Process
	Input     *Queue
	Output    *Queue

	Controller *Controller

	prodStates map[string][]*State // process id -> capacity-many state instances
	Setup      *State              // optional, nil when the resource needs no changeovers
	Breakdowns []*State

	active   int    // capacity slots claimed by dispatched work
	down     bool   // true while a breakdown occupies the resource
	lastProc string // last process run, drives setup decisions
	repaired *Signal

	jobs []*job // in-flight executions, oldest first

	PartsMade int // production/transport completions
}

func newResource(k *Kernel, id string, capacity int, loc Location) *Resource {
	return &Resource{
		ID:         id,
		Capacity:   capacity,
		Location:   loc,
		prodStates: make(map[string][]*State),
		repaired:   k.NewSignal(),
	}
}

// process returns the resource's process with the given id, nil if the
// resource cannot execute it.
func (r *Resource) process(id string) *Process {
	for _, p := range r.Processes {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FreeCapacity is the number of additional executions the controller may
// dispatch right now.
func (r *Resource) FreeCapacity() int {
	if r.down {
		return 0
	}
	return r.Capacity - r.active
}

// Down reports whether a breakdown currently occupies the resource.
func (r *Resource) Down() bool { return r.down }

// ActiveStates returns the production/transport states currently executing,
// oldest first. Never longer than Capacity.
func (r *Resource) ActiveStates() []*State {
	out := make([]*State, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j.state)
	}
	return out
}

// acquireState claims an idle production/transport state for the process.
// One is always available because dispatched work never exceeds capacity and
// capacity-many instances exist per process.
func (r *Resource) acquireState(processID string) *State {
	for _, s := range r.prodStates[processID] {
		if s.Phase == PhaseIdle {
			return s
		}
	}
	panic(fmt.Sprintf("resource %s: no idle state for process %s", r.ID, processID))
}

func (r *Resource) addJob(j *job) {
	r.jobs = append(r.jobs, j)
}

func (r *Resource) removeJob(j *job) {
	for i, x := range r.jobs {
		if x == j {
			r.jobs = append(r.jobs[:i], r.jobs[i+1:]...)
			return
		}
	}
}

// breakdownLoop runs one breakdown state's failure/repair cycle: wait for
// the next failure, preempt the oldest running production/transport state if
// any, occupy the resource for the repair duration, then release the
// preempted work to resume with its exact saved remainder.
func (r *Resource) breakdownLoop(p *Proc, bst *State) {
	for {
		if err := p.Hold(bst.TM.Sample()); err != nil {
			return
		}
		bst.activate(0)
		r.down = true
		if len(r.jobs) > 0 {
			p.k.Interrupt(r.jobs[0].proc)
		}
		if err := p.Hold(bst.RepairTM.Sample()); err != nil {
			return
		}
		bst.complete()
		r.down = false
		r.repaired.Broadcast()
		if r.Controller != nil {
			r.Controller.work.Broadcast()
		}
	}
}

// Implements the Controller, the per-resource dispatcher that serializes
// access to the resource's capacity and applies the dispatch policy.

package sim

import (
	"fmt"

	"github.com/factory-sim/factory-sim/sim/trace"
)

// Request is one pending unit of dispatchable work: a material asking a
// resource to execute the next process on its route. The submitting travel
// process waits on Done until the controller has finished the work and moved
// the material to the output queue.
type Request struct {
	Material *Material
	Process  *Process
	From, To Location // endpoints for distance-based durations
	Time     float64  // submission time
	Done     *Signal

	seq uint64 // arrival order within the controller
}

// ExpectedDuration is the deterministic process-time estimate the SPT policy
// ranks requests by.
func (rq *Request) ExpectedDuration() float64 {
	return expectedDuration(rq.Process.TM, rq.From, rq.To)
}

// Controller serializes access to one resource's capacity and selects, among
// pending requests, which to serve next. Exactly one controller exists per
// resource, created at build time.
type Controller struct {
	res     *Resource
	policy  DispatchPolicy
	pending []*Request
	work    *Signal
	seq     uint64
	sim     *Simulator
}

func newController(s *Simulator, res *Resource, policy DispatchPolicy) *Controller {
	c := &Controller{
		res:    res,
		policy: policy,
		work:   s.kernel.NewSignal(),
		sim:    s,
	}
	res.Controller = c
	return c
}

// Pending returns the number of requests awaiting dispatch.
func (c *Controller) Pending() int { return len(c.pending) }

// Submit appends a dispatch request and nudges the control loop. The
// material must already sit in the resource's input queue.
func (c *Controller) Submit(rq *Request) {
	c.seq++
	rq.seq = c.seq
	rq.Time = c.sim.kernel.clock
	c.pending = append(c.pending, rq)
	c.work.Broadcast()
}

// loop is the dispatch cycle: wait for free capacity and at least one
// pending request, apply the policy to pick the next request, then hand it
// to an execution process. A breakdown may fire between any two resumptions,
// so the guard conditions are re-validated every time the loop wakes up.
func (c *Controller) loop(p *Proc) {
	for {
		for len(c.pending) == 0 || c.res.FreeCapacity() == 0 {
			if err := c.work.Wait(p); err != nil {
				return
			}
		}
		i := c.policy.Select(c.pending, p.Now())
		rq := c.pending[i]
		c.pending = append(c.pending[:i], c.pending[i+1:]...)
		c.res.active++
		p.k.Spawn(fmt.Sprintf("exec/%s/%s", c.res.ID, rq.Material.ID), func(jp *Proc) {
			c.execute(jp, rq)
		})
	}
}

// execute runs one granted request to completion: claim the material from
// the input queue, run setup on a process changeover, run the
// production/transport state (re-arming it with its exact remainder after
// every breakdown preemption), then move the material to the output queue
// and resolve its finished signal.
func (c *Controller) execute(jp *Proc, rq *Request) {
	res := c.res
	m := rq.Material

	// The material was put before the request was submitted, so this never
	// suspends.
	res.Input.Get(jp, func(x *Material) bool { return x == m })

	needSetup := res.lastProc != "" && res.lastProc != rq.Process.ID && res.Setup != nil
	res.lastProc = rq.Process.ID
	if needSetup {
		res.Setup.activate(res.Setup.TM.Sample())
		c.sim.record(jp.Now(), res.ID, res.Setup.ID, trace.ActivityStart, "")
		_ = jp.Hold(res.Setup.Remaining) // setup is not preemptable
		res.Setup.complete()
		c.sim.record(jp.Now(), res.ID, res.Setup.ID, trace.ActivityEnd, "")
	}

	// A breakdown may have fired while setup ran; production waits out the
	// repair before arming.
	for res.down {
		_ = res.repaired.Wait(jp)
	}

	st := res.acquireState(rq.Process.ID)
	st.activate(sampleDuration(rq.Process.TM, rq.From, rq.To))
	j := &job{proc: jp, state: st}
	res.addJob(j)
	c.sim.record(jp.Now(), res.ID, rq.Process.ID, trace.ActivityStart, m.ID)

	for st.Remaining > 0 {
		began := jp.Now()
		if err := jp.Hold(st.Remaining); err == nil {
			st.Remaining = 0
			break
		}
		// Preempted by a breakdown: save the exact remainder, yield until
		// the repair completes, then re-arm.
		st.interruptAfter(jp.Now() - began)
		c.sim.record(jp.Now(), res.ID, rq.Process.ID, trace.ActivityInterrupt, m.ID)
		for res.down {
			_ = res.repaired.Wait(jp)
		}
		st.reactivate()
	}
	st.complete()
	res.removeJob(j)
	res.PartsMade++
	c.sim.record(jp.Now(), res.ID, rq.Process.ID, trace.ActivityEnd, m.ID)

	// May suspend while the output queue is full; the capacity slot stays
	// claimed until the finished part has actually left the machine.
	res.Output.Put(jp, m)
	res.active--
	rq.Done.Broadcast()
	c.work.Broadcast()
}

// sim/kernel.go
package sim

import (
	"container/heap"
	"errors"
	"runtime"

	"github.com/sirupsen/logrus"
)

// ErrInterrupted is returned by Hold and Signal.Wait when another process
// forces early resumption via Interrupt.
var ErrInterrupted = errors.New("interrupted")

type wakeKind int

const (
	wakeTimer wakeKind = iota
	wakeSignal
	wakeInterrupt
	wakeHalt
)

// event is a scheduled resumption of a process. Events with equal timestamps
// resolve in posting order via seq; this is what makes a run reproducible for
// a given seed.
type event struct {
	time     float64
	seq      uint64
	proc     *Proc
	kind     wakeKind
	canceled bool
}

// eventHeap implements heap.Interface and orders events by (time, seq).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type eventHeap []*event

func (eh eventHeap) Len() int { return len(eh) }
func (eh eventHeap) Less(i, j int) bool {
	if eh[i].time != eh[j].time {
		return eh[i].time < eh[j].time
	}
	return eh[i].seq < eh[j].seq
}
func (eh eventHeap) Swap(i, j int) { eh[i], eh[j] = eh[j], eh[i] }

func (eh *eventHeap) Push(x any) {
	*eh = append(*eh, x.(*event))
}

func (eh *eventHeap) Pop() any {
	old := *eh
	n := len(old)
	item := old[n-1]
	*eh = old[:n-1]
	return item
}

// Kernel is the cooperative scheduler every entity runs on. It owns the
// simulated clock and the pending-event heap and resumes exactly one process
// at any simulated instant; apparent concurrency between sources, materials,
// controllers and breakdown cycles is purely logical.
type Kernel struct {
	clock   float64
	horizon float64
	seq     uint64
	events  eventHeap
	procs   []*Proc

	// parked is signaled by the running process whenever it suspends or
	// finishes, handing control back to the event loop.
	parked chan struct{}
}

// Proc is a resumable unit of work. Procs are backed by goroutines, but the
// kernel serializes them completely: a proc runs from one suspension point
// (Hold, Signal.Wait, queue put/get) to the next while the kernel blocks.
type Proc struct {
	k      *Kernel
	name   string
	resume chan wakeKind

	// pending is the proc's outstanding timer event, nil while running or
	// while waiting on a Signal. A proc is suspended on at most one thing.
	pending   *event
	waitingOn *Signal
	done      bool
}

// NewKernel creates a kernel that runs until the given horizon in simulated
// time units.
func NewKernel(horizon float64) *Kernel {
	return &Kernel{horizon: horizon, parked: make(chan struct{})}
}

// Now returns the current simulated time.
func (k *Kernel) Now() float64 { return k.clock }

// Horizon returns the configured run horizon.
func (k *Kernel) Horizon() float64 { return k.horizon }

func (k *Kernel) post(t float64, p *Proc, kind wakeKind) *event {
	k.seq++
	ev := &event{time: t, seq: k.seq, proc: p, kind: kind}
	p.pending = ev
	heap.Push(&k.events, ev)
	return ev
}

// Spawn registers a new process. Its first activation happens at the current
// clock, after events already scheduled for this timestamp.
func (k *Kernel) Spawn(name string, fn func(*Proc)) *Proc {
	p := &Proc{k: k, name: name, resume: make(chan wakeKind)}
	k.procs = append(k.procs, p)
	go func() {
		if w := <-p.resume; w == wakeHalt {
			p.done = true
			k.parked <- struct{}{}
			return
		}
		fn(p)
		p.done = true
		k.parked <- struct{}{}
	}()
	k.post(k.clock, p, wakeTimer)
	return p
}

// Run pops the earliest event, resumes its owner, and repeats until the
// horizon is reached or no events remain. Events past the horizon never
// fire, even if still pending; canceled (superseded) events are skipped.
func (k *Kernel) Run() {
	for k.events.Len() > 0 {
		ev := heap.Pop(&k.events).(*event)
		if ev.canceled {
			continue
		}
		if ev.time > k.horizon {
			break
		}
		k.clock = ev.time
		ev.proc.pending = nil
		logrus.Debugf("[t=%010.3f] resuming %s", k.clock, ev.proc.name)
		ev.proc.resume <- ev.kind
		<-k.parked
	}
	k.shutdown()
	logrus.Infof("[t=%010.3f] run ended", k.EndTime())
}

// shutdown unwinds every process still suspended so that no goroutine
// outlives the run.
func (k *Kernel) shutdown() {
	for _, p := range k.procs {
		if p.done {
			continue
		}
		p.resume <- wakeHalt
		<-k.parked
	}
}

// EndTime is the simulated time at which the run stopped, capped at the
// horizon.
func (k *Kernel) EndTime() float64 {
	if k.clock > k.horizon {
		return k.horizon
	}
	return k.clock
}

// Interrupt forces early, distinguishable resumption of a suspended process.
// The superseded timer is canceled and never fires. No-op if the target is
// not currently suspended.
func (k *Kernel) Interrupt(target *Proc) {
	if target == nil || target.done {
		return
	}
	switch {
	case target.pending != nil && !target.pending.canceled:
		target.pending.canceled = true
	case target.waitingOn != nil:
		target.waitingOn.drop(target)
		target.waitingOn = nil
	default:
		return
	}
	k.post(k.clock, target, wakeInterrupt)
}

// park suspends the calling process until the kernel resumes it. Must only
// be called from the proc's own goroutine.
func (p *Proc) park() wakeKind {
	p.k.parked <- struct{}{}
	w := <-p.resume
	if w == wakeHalt {
		p.done = true
		p.k.parked <- struct{}{}
		runtime.Goexit()
	}
	return w
}

// Now returns the current simulated time.
func (p *Proc) Now() float64 { return p.k.clock }

// Name returns the process name, used in kernel debug logs.
func (p *Proc) Name() string { return p.name }

// Hold suspends the process for d simulated time units. It returns
// ErrInterrupted if another process interrupts the hold before the timer
// fires.
func (p *Proc) Hold(d float64) error {
	if d < 0 {
		d = 0
	}
	p.k.post(p.k.clock+d, p, wakeTimer)
	if p.park() == wakeInterrupt {
		return ErrInterrupted
	}
	return nil
}

// Signal is a logical event processes can await: a queue slot freeing, a
// dispatch grant, a repair completing. Waiters resume in wait order.
type Signal struct {
	k       *Kernel
	waiters []*Proc
}

// NewSignal creates a Signal bound to this kernel.
func (k *Kernel) NewSignal() *Signal { return &Signal{k: k} }

// Wait suspends the process until the next Broadcast. It returns
// ErrInterrupted if the process is interrupted first.
func (s *Signal) Wait(p *Proc) error {
	s.waiters = append(s.waiters, p)
	p.waitingOn = s
	w := p.park()
	p.waitingOn = nil
	if w == wakeInterrupt {
		return ErrInterrupted
	}
	return nil
}

// Broadcast schedules resumption of every current waiter at the present
// timestamp, preserving wait order.
func (s *Signal) Broadcast() {
	for _, w := range s.waiters {
		w.waitingOn = nil
		s.k.post(s.k.clock, w, wakeSignal)
	}
	s.waiters = s.waiters[:0]
}

func (s *Signal) drop(p *Proc) {
	for i, w := range s.waiters {
		if w == p {
			s.waiters = append(s.waiters[:i], s.waiters[i+1:]...)
			return
		}
	}
}

// Implements the bounded FIFO Queue that buffers materials between sources,
// resources and sinks.

package sim

// Queue is a bounded FIFO buffer of material references. Put suspends the
// calling process while the queue is full; Get suspends until a matching
// item exists. Ordering is strictly FIFO; prioritization is the
// Controller's responsibility, never the Queue's.
type Queue struct {
	ID       string
	Capacity int // <= 0 means unbounded

	items    []*Material
	notFull  *Signal
	notEmpty *Signal
}

// NewQueue creates a queue bound to the kernel's suspension machinery.
func NewQueue(k *Kernel, id string, capacity int) *Queue {
	return &Queue{
		ID:       id,
		Capacity: capacity,
		notFull:  k.NewSignal(),
		notEmpty: k.NewSignal(),
	}
}

// Len returns the number of buffered materials.
func (q *Queue) Len() int { return len(q.items) }

// Full reports whether a Put would suspend right now.
func (q *Queue) Full() bool {
	return q.Capacity > 0 && len(q.items) >= q.Capacity
}

// Put appends m to the queue, suspending while the queue is full. Waiting
// putters are served oldest first when space frees.
func (q *Queue) Put(p *Proc, m *Material) {
	for q.Full() {
		_ = q.notFull.Wait(p)
	}
	q.items = append(q.items, m)
	q.notEmpty.Broadcast()
}

// Get removes and returns the earliest item matching pred (nil matches
// anything), suspending until one exists. Waiting getters are woken oldest
// first, so FIFO fairness holds between competing consumers.
func (q *Queue) Get(p *Proc, pred func(*Material) bool) *Material {
	for {
		for i, m := range q.items {
			if pred == nil || pred(m) {
				q.items = append(q.items[:i], q.items[i+1:]...)
				q.notFull.Broadcast()
				return m
			}
		}
		_ = q.notEmpty.Wait(p)
	}
}

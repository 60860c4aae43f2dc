// Defines the Source and Sink endpoints of the material flow: sources emit
// materials at time-model-governed intervals, sinks consume and discard
// finished materials.

package sim

// Source creates materials of its configured type at inter-arrival
// intervals drawn from its time model and stages them in its output queue,
// from which each material's own travel process picks them up.
type Source struct {
	ID       string
	Type     string
	Location Location
	TM       TimeModel
	Output   *Queue

	Created int
}

// Sink consumes matching materials from its input queue, emits a finished
// event, and discards them.
type Sink struct {
	ID       string
	Type     string
	Location Location
	Input    *Queue

	Finished int
}

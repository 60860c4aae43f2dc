// Defines the State machine instances that execute work on a resource.
// States replace the deep inheritance of classic simulation frameworks with
// a tagged variant carrying variant-specific fields.

package sim

// StateKind tags the variant of a resource state.
type StateKind string

const (
	StateProduction StateKind = "production"
	StateTransport  StateKind = "transport"
	StateSetup      StateKind = "setup"
	StateBreakDown  StateKind = "breakdown"
)

// StatePhase is the lifecycle position of a state:
// Idle -> Active -> (Completed | Interrupted) -> Idle.
// Completion returns straight to Idle; Interrupted is observable while the
// owning resource is under repair.
type StatePhase int

const (
	PhaseIdle StatePhase = iota
	PhaseActive
	PhaseInterrupted
)

// State is the runtime activity instance executing a process, setup, or
// breakdown on a resource. States are created once at resource build time
// and persist for the run, toggling between phases.
type State struct {
	ID        string
	Kind      StateKind
	ProcessID string    // production/transport variants only
	TM        TimeModel // duration model; failure inter-arrival for breakdowns
	RepairTM  TimeModel // breakdown variant only

	Phase     StatePhase
	Remaining float64 // remaining duration while Active or Interrupted
}

// activate arms the state with a freshly drawn duration.
func (s *State) activate(d float64) {
	s.Phase = PhaseActive
	s.Remaining = d
}

// interruptAfter records that elapsed time units of work happened before a
// preemption, saving the exact remainder for later reactivation.
func (s *State) interruptAfter(elapsed float64) {
	s.Remaining -= elapsed
	if s.Remaining < 0 {
		s.Remaining = 0
	}
	s.Phase = PhaseInterrupted
}

// reactivate re-arms an interrupted state with its saved remainder.
func (s *State) reactivate() {
	s.Phase = PhaseActive
}

// complete returns the state to idle.
func (s *State) complete() {
	s.Phase = PhaseIdle
	s.Remaining = 0
}

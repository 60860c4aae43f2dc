// Defines the configuration record a run consumes and its eager validation.
// Every reference is checked before scheduling starts; a run never begins on
// a broken configuration.

package sim

import (
	"fmt"
)

// ConfigurationError reports an invalid configuration detected during build,
// before any event is scheduled. Fatal: the run aborts.
type ConfigurationError struct {
	Section string
	ID      string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("configuration %s: %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("configuration %s %q: %s", e.Section, e.ID, e.Reason)
}

func configErrorf(section, id, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Section: section, ID: id, Reason: fmt.Sprintf(format, args...)}
}

// TimeModelConfig declares one duration generator.
type TimeModelConfig struct {
	ID   string `yaml:"id"`
	Kind string `yaml:"kind"` // functional, historical, distance-based

	// Functional variant
	Distribution string             `yaml:"distribution,omitempty"`
	Params       map[string]float64 `yaml:"params,omitempty"`

	// Historical variant
	Samples []float64 `yaml:"samples,omitempty"`

	// Distance-based variant
	Speed        float64 `yaml:"speed,omitempty"`
	ReactionTime float64 `yaml:"reaction_time,omitempty"`
}

// ProcessConfig declares a unit of required work.
type ProcessConfig struct {
	ID        string `yaml:"id"`
	Kind      string `yaml:"kind"` // production, transport, capability
	TimeModel string `yaml:"time_model"`
}

// QueueConfig declares a bounded buffer. Capacity 0 means unbounded.
type QueueConfig struct {
	ID       string `yaml:"id"`
	Capacity int    `yaml:"capacity"`
}

// StateConfig declares a setup or breakdown state bound to resources via
// ResourceConfig.States. Production/transport states are derived from the
// resource's process list and need no declaration.
type StateConfig struct {
	ID              string `yaml:"id"`
	Kind            string `yaml:"kind"` // setup, breakdown
	TimeModel       string `yaml:"time_model"`
	RepairTimeModel string `yaml:"repair_time_model,omitempty"` // breakdown only
}

// ResourceConfig declares a capacity-bounded server.
type ResourceConfig struct {
	ID             string     `yaml:"id"`
	Capacity       int        `yaml:"capacity"`
	Location       [2]float64 `yaml:"location"`
	Processes      []string   `yaml:"processes"`
	InputQueue     string     `yaml:"input_queue"`
	OutputQueue    string     `yaml:"output_queue"`
	States         []string   `yaml:"states,omitempty"`          // setup/breakdown state ids
	DispatchPolicy string     `yaml:"dispatch_policy,omitempty"` // fifo (default), lifo, spt
}

// SourceConfig declares a material source.
type SourceConfig struct {
	ID           string     `yaml:"id"`
	MaterialType string     `yaml:"material_type"`
	Location     [2]float64 `yaml:"location"`
	TimeModel    string     `yaml:"time_model"`
	OutputQueue  string     `yaml:"output_queue"`
}

// SinkConfig declares a material sink.
type SinkConfig struct {
	ID           string     `yaml:"id"`
	MaterialType string     `yaml:"material_type"`
	Location     [2]float64 `yaml:"location"`
	InputQueue   string     `yaml:"input_queue"`
}

// RouteConfig assigns an ordered process route to a material type.
type RouteConfig struct {
	MaterialType string   `yaml:"material_type"`
	Processes    []string `yaml:"processes"`
	DueOffset    float64  `yaml:"due_offset,omitempty"` // due time = creation + offset, 0 = none
}

// Config is the validated configuration record one run consumes.
type Config struct {
	TimeModels     []TimeModelConfig `yaml:"time_models"`
	Processes      []ProcessConfig   `yaml:"processes"`
	Queues         []QueueConfig     `yaml:"queues"`
	States         []StateConfig     `yaml:"states,omitempty"`
	Resources      []ResourceConfig  `yaml:"resources"`
	Sources        []SourceConfig    `yaml:"sources"`
	Sinks          []SinkConfig      `yaml:"sinks"`
	Routes         []RouteConfig     `yaml:"routes"`
	ResourcePolicy string            `yaml:"resource_policy,omitempty"` // least-loaded (default), nearest, random
}

var validProcessKinds = map[string]bool{
	string(ProcessProduction): true,
	string(ProcessTransport):  true,
	string(ProcessCapability): true,
}

// Validate checks every cross-reference and value constraint eagerly.
// It returns the first *ConfigurationError found, or nil.
func (c *Config) Validate() error {
	tms := map[string]bool{}
	for _, tm := range c.TimeModels {
		if tm.ID == "" {
			return configErrorf("time_model", "", "missing id")
		}
		if tms[tm.ID] {
			return configErrorf("time_model", tm.ID, "duplicate id")
		}
		tms[tm.ID] = true
		switch tm.Kind {
		case "functional":
			if tm.Distribution == "" {
				return configErrorf("time_model", tm.ID, "functional model requires a distribution")
			}
		case "historical":
			if len(tm.Samples) == 0 {
				return configErrorf("time_model", tm.ID, "historical model requires samples")
			}
		case "distance-based":
			if tm.Speed <= 0 {
				return configErrorf("time_model", tm.ID, "distance-based model requires positive speed")
			}
		default:
			return configErrorf("time_model", tm.ID, "unknown kind %q", tm.Kind)
		}
	}

	procs := map[string]string{} // id -> kind
	for _, pc := range c.Processes {
		if pc.ID == "" {
			return configErrorf("process", "", "missing id")
		}
		if _, dup := procs[pc.ID]; dup {
			return configErrorf("process", pc.ID, "duplicate id")
		}
		procs[pc.ID] = pc.Kind
		if !validProcessKinds[pc.Kind] {
			return configErrorf("process", pc.ID, "unknown kind %q", pc.Kind)
		}
		if pc.TimeModel == "" {
			return configErrorf("process", pc.ID, "no time model assigned")
		}
		if !tms[pc.TimeModel] {
			return configErrorf("process", pc.ID, "unknown time model %q", pc.TimeModel)
		}
	}

	queues := map[string]bool{}
	for _, qc := range c.Queues {
		if qc.ID == "" {
			return configErrorf("queue", "", "missing id")
		}
		if queues[qc.ID] {
			return configErrorf("queue", qc.ID, "duplicate id")
		}
		queues[qc.ID] = true
		if qc.Capacity < 0 {
			return configErrorf("queue", qc.ID, "capacity must be >= 0, got %d", qc.Capacity)
		}
	}

	states := map[string]string{} // id -> kind
	for _, sc := range c.States {
		if sc.ID == "" {
			return configErrorf("state", "", "missing id")
		}
		if _, dup := states[sc.ID]; dup {
			return configErrorf("state", sc.ID, "duplicate id")
		}
		switch sc.Kind {
		case string(StateSetup), string(StateBreakDown):
		default:
			return configErrorf("state", sc.ID, "unknown kind %q (production states derive from the resource's process list)", sc.Kind)
		}
		states[sc.ID] = sc.Kind
		if sc.TimeModel == "" {
			return configErrorf("state", sc.ID, "no time model assigned")
		}
		if !tms[sc.TimeModel] {
			return configErrorf("state", sc.ID, "unknown time model %q", sc.TimeModel)
		}
		if sc.Kind == string(StateBreakDown) {
			if sc.RepairTimeModel == "" {
				return configErrorf("state", sc.ID, "breakdown state requires a repair time model")
			}
			if !tms[sc.RepairTimeModel] {
				return configErrorf("state", sc.ID, "unknown repair time model %q", sc.RepairTimeModel)
			}
		}
	}

	resources := map[string]bool{}
	capable := map[string]int{} // process id -> number of capable resources
	for _, rc := range c.Resources {
		if rc.ID == "" {
			return configErrorf("resource", "", "missing id")
		}
		if resources[rc.ID] {
			return configErrorf("resource", rc.ID, "duplicate id")
		}
		resources[rc.ID] = true
		if rc.Capacity < 1 {
			return configErrorf("resource", rc.ID, "capacity must be >= 1, got %d", rc.Capacity)
		}
		if len(rc.Processes) == 0 {
			return configErrorf("resource", rc.ID, "no processes assigned")
		}
		for _, pid := range rc.Processes {
			if _, ok := procs[pid]; !ok {
				return configErrorf("resource", rc.ID, "unknown process %q", pid)
			}
			capable[pid]++
		}
		if rc.InputQueue == "" || !queues[rc.InputQueue] {
			return configErrorf("resource", rc.ID, "unknown input queue %q", rc.InputQueue)
		}
		if rc.OutputQueue == "" || !queues[rc.OutputQueue] {
			return configErrorf("resource", rc.ID, "unknown output queue %q", rc.OutputQueue)
		}
		for _, sid := range rc.States {
			if _, ok := states[sid]; !ok {
				return configErrorf("resource", rc.ID, "unknown state %q", sid)
			}
		}
		if !IsValidDispatchPolicy(rc.DispatchPolicy) {
			return configErrorf("resource", rc.ID, "unknown dispatch policy %q", rc.DispatchPolicy)
		}
	}

	routes := map[string]bool{}
	for _, rt := range c.Routes {
		if rt.MaterialType == "" {
			return configErrorf("route", "", "missing material type")
		}
		if routes[rt.MaterialType] {
			return configErrorf("route", rt.MaterialType, "duplicate material type")
		}
		routes[rt.MaterialType] = true
		if len(rt.Processes) == 0 {
			return configErrorf("route", rt.MaterialType, "empty process route")
		}
		for _, pid := range rt.Processes {
			kind, ok := procs[pid]
			if !ok {
				return configErrorf("route", rt.MaterialType, "unknown process %q", pid)
			}
			// Capability processes mark what a resource can do; they carry no
			// executable work and cannot be a route step.
			if kind == string(ProcessCapability) {
				return configErrorf("route", rt.MaterialType, "process %q is a capability, not an executable route step", pid)
			}
			if capable[pid] == 0 {
				return configErrorf("route", rt.MaterialType, "no resource can execute process %q", pid)
			}
		}
	}

	sinkTypes := map[string]bool{}
	for _, sc := range c.Sinks {
		if sc.ID == "" {
			return configErrorf("sink", "", "missing id")
		}
		if sc.InputQueue == "" || !queues[sc.InputQueue] {
			return configErrorf("sink", sc.ID, "unknown input queue %q", sc.InputQueue)
		}
		if sc.MaterialType == "" {
			return configErrorf("sink", sc.ID, "missing material type")
		}
		sinkTypes[sc.MaterialType] = true
	}

	for _, sc := range c.Sources {
		if sc.ID == "" {
			return configErrorf("source", "", "missing id")
		}
		if sc.TimeModel == "" || !tms[sc.TimeModel] {
			return configErrorf("source", sc.ID, "unknown time model %q", sc.TimeModel)
		}
		if sc.OutputQueue == "" || !queues[sc.OutputQueue] {
			return configErrorf("source", sc.ID, "unknown output queue %q", sc.OutputQueue)
		}
		if sc.MaterialType == "" {
			return configErrorf("source", sc.ID, "missing material type")
		}
		if !routes[sc.MaterialType] {
			return configErrorf("source", sc.ID, "no route for material type %q", sc.MaterialType)
		}
		if !sinkTypes[sc.MaterialType] {
			return configErrorf("source", sc.ID, "no sink consumes material type %q", sc.MaterialType)
		}
	}

	if !IsValidResourcePolicy(c.ResourcePolicy) {
		return configErrorf("resource_policy", c.ResourcePolicy, "unknown resource policy")
	}
	return nil
}

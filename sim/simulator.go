// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/factory-sim/factory-sim/sim/trace"
)

// Simulator executes one run of a validated configuration from time zero to
// the horizon. All entities are built and wired by id at construction time;
// independent simulators share no state, so Run may be invoked concurrently
// across configurations.
type Simulator struct {
	kernel *Kernel
	rng    *PartitionedRNG
	router *Router

	processes map[string]*Process
	queues    map[string]*Queue
	resources []*Resource
	sources   []*Source
	sinks     []*Sink

	dueOffsets map[string]float64

	log     *trace.Log
	metrics *Metrics
}

// NewSimulator validates the configuration and builds the entity arena.
// Any configuration problem surfaces here, before scheduling starts.
func NewSimulator(cfg Config, seed int64, horizon float64) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if horizon <= 0 {
		return nil, configErrorf("run", "", "horizon must be positive, got %v", horizon)
	}

	s := &Simulator{
		kernel:     NewKernel(horizon),
		rng:        NewPartitionedRNG(NewRunKey(seed)),
		processes:  make(map[string]*Process),
		queues:     make(map[string]*Queue),
		dueOffsets: make(map[string]float64),
		log:        &trace.Log{},
		metrics:    NewMetrics(),
	}

	timeModels := make(map[string]TimeModel)
	for _, tc := range cfg.TimeModels {
		tm, err := s.buildTimeModel(tc)
		if err != nil {
			return nil, configErrorf("time_model", tc.ID, "%v", err)
		}
		timeModels[tc.ID] = tm
	}

	for _, pc := range cfg.Processes {
		s.processes[pc.ID] = &Process{
			ID:   pc.ID,
			Kind: ProcessKind(pc.Kind),
			TM:   timeModels[pc.TimeModel],
		}
	}

	for _, qc := range cfg.Queues {
		s.queues[qc.ID] = NewQueue(s.kernel, qc.ID, qc.Capacity)
	}

	stateConfigs := make(map[string]StateConfig)
	for _, sc := range cfg.States {
		stateConfigs[sc.ID] = sc
	}

	byProcess := make(map[string][]*Resource)
	for _, rc := range cfg.Resources {
		r := newResource(s.kernel, rc.ID, rc.Capacity, Location(rc.Location))
		r.Input = s.queues[rc.InputQueue]
		r.Output = s.queues[rc.OutputQueue]
		for _, pid := range rc.Processes {
			proc := s.processes[pid]
			r.Processes = append(r.Processes, proc)
			byProcess[pid] = append(byProcess[pid], r)
			if proc.Kind == ProcessCapability {
				continue
			}
			kind := StateProduction
			if proc.Kind == ProcessTransport {
				kind = StateTransport
			}
			// Capacity-many instances so concurrent work up to capacity
			// always finds an idle state.
			for i := 0; i < rc.Capacity; i++ {
				r.prodStates[pid] = append(r.prodStates[pid], &State{
					ID:        fmt.Sprintf("%s:%s:%d", rc.ID, pid, i),
					Kind:      kind,
					ProcessID: pid,
					TM:        proc.TM,
				})
			}
		}
		for _, sid := range rc.States {
			sc := stateConfigs[sid]
			st := &State{
				ID:   sid,
				Kind: StateKind(sc.Kind),
				TM:   timeModels[sc.TimeModel],
			}
			if sc.Kind == string(StateBreakDown) {
				st.RepairTM = timeModels[sc.RepairTimeModel]
				r.Breakdowns = append(r.Breakdowns, st)
			} else {
				r.Setup = st
			}
		}
		policy, err := NewDispatchPolicy(rc.DispatchPolicy)
		if err != nil {
			return nil, configErrorf("resource", rc.ID, "%v", err)
		}
		newController(s, r, policy)
		s.resources = append(s.resources, r)
	}

	routes := make(map[string][]string)
	for _, rt := range cfg.Routes {
		routes[rt.MaterialType] = append([]string(nil), rt.Processes...)
		if rt.DueOffset > 0 {
			s.dueOffsets[rt.MaterialType] = rt.DueOffset
		}
	}
	selection, err := NewResourcePolicy(cfg.ResourcePolicy, s.rng.ForSubsystem(SubsystemRouter))
	if err != nil {
		return nil, configErrorf("resource_policy", cfg.ResourcePolicy, "%v", err)
	}
	sinksByType := make(map[string][]*Sink)
	for _, sc := range cfg.Sinks {
		sink := &Sink{
			ID:       sc.ID,
			Type:     sc.MaterialType,
			Location: Location(sc.Location),
			Input:    s.queues[sc.InputQueue],
		}
		s.sinks = append(s.sinks, sink)
		sinksByType[sc.MaterialType] = append(sinksByType[sc.MaterialType], sink)
	}
	s.router = &Router{
		routes:      routes,
		byProcess:   byProcess,
		sinksByType: sinksByType,
		policy:      selection,
	}

	for _, sc := range cfg.Sources {
		s.sources = append(s.sources, &Source{
			ID:       sc.ID,
			Type:     sc.MaterialType,
			Location: Location(sc.Location),
			TM:       timeModels[sc.TimeModel],
			Output:   s.queues[sc.OutputQueue],
		})
	}

	s.spawnAll()
	return s, nil
}

func (s *Simulator) buildTimeModel(tc TimeModelConfig) (TimeModel, error) {
	switch tc.Kind {
	case "functional":
		return NewFunctionalTimeModel(tc.Distribution, tc.Params, s.rng.SourceFor(SubsystemTimeModel(tc.ID)))
	case "historical":
		return NewHistoricalTimeModel(tc.Samples, s.rng.ForSubsystem(SubsystemTimeModel(tc.ID)))
	case "distance-based":
		return NewDistanceBasedTimeModel(tc.Speed, tc.ReactionTime)
	default:
		return nil, fmt.Errorf("unknown kind %q", tc.Kind)
	}
}

// spawnAll registers every long-lived process in deterministic
// (configuration) order: controllers, breakdown cycles, sinks, sources.
func (s *Simulator) spawnAll() {
	for _, r := range s.resources {
		c := r.Controller
		s.kernel.Spawn("controller/"+r.ID, c.loop)
	}
	for _, r := range s.resources {
		for _, bst := range r.Breakdowns {
			res, st := r, bst
			s.kernel.Spawn("breakdown/"+st.ID, func(p *Proc) { res.breakdownLoop(p, st) })
		}
	}
	for _, sink := range s.sinks {
		sk := sink
		s.kernel.Spawn("sink/"+sk.ID, func(p *Proc) { s.sinkLoop(p, sk) })
	}
	for _, src := range s.sources {
		sc := src
		s.kernel.Spawn("source/"+sc.ID, func(p *Proc) { s.sourceLoop(p, sc) })
	}
}

// Run executes the simulation to the horizon and returns the event log and
// aggregate counters.
func (s *Simulator) Run() (*trace.Log, *Metrics) {
	logrus.Infof("starting run: %d resources, %d sources, %d sinks, horizon=%v",
		len(s.resources), len(s.sources), len(s.sinks), s.kernel.Horizon())
	s.kernel.Run()

	s.metrics.EndTime = s.kernel.EndTime()
	for _, r := range s.resources {
		s.metrics.PartsMade[r.ID] = r.PartsMade
	}
	for _, src := range s.sources {
		s.metrics.MaterialsCreated[src.ID] = src.Created
	}
	for _, sink := range s.sinks {
		s.metrics.MaterialsFinished[sink.ID] = sink.Finished
	}
	return s.log, s.metrics
}

// Run is the collaborator entry point: build and execute one run of a
// configuration under a seed and horizon, returning the ordered event log
// and aggregate counters. Safe to invoke concurrently across independent
// configurations; no global state is shared between invocations.
func Run(cfg Config, seed int64, horizon float64) (*trace.Log, *Metrics, error) {
	s, err := NewSimulator(cfg, seed, horizon)
	if err != nil {
		return nil, nil, err
	}
	log, metrics := s.Run()
	return log, metrics, nil
}

// Kernel exposes the scheduling substrate, mainly for tests.
func (s *Simulator) Kernel() *Kernel { return s.kernel }

// Router exposes the routing layer, mainly for tests.
func (s *Simulator) Router() *Router { return s.router }

func (s *Simulator) record(t float64, resourceID, processID string, activity trace.Activity, materialID string) {
	s.log.Append(trace.Record{
		Time:       t,
		ResourceID: resourceID,
		ProcessID:  processID,
		Activity:   activity,
		MaterialID: materialID,
	})
}

// sourceLoop emits materials at time-model-governed intervals and starts
// each material's independent travel process.
func (s *Simulator) sourceLoop(p *Proc, src *Source) {
	for {
		if err := p.Hold(src.TM.Sample()); err != nil {
			return
		}
		src.Created++
		route, _ := s.router.RouteFor(src.Type)
		m := NewMaterial(fmt.Sprintf("%s-%d", src.ID, src.Created), src.Type, route, p.Now(), src.Location)
		if off, ok := s.dueOffsets[m.Type]; ok {
			m.DueAt = m.CreatedAt + off
		}
		s.record(p.Now(), src.ID, "", trace.ActivityCreated, m.ID)
		mm := m
		p.k.Spawn("material/"+m.ID, func(tp *Proc) { s.travel(tp, mm, src) })
		// Blocks while the staging queue is full, throttling the source.
		src.Output.Put(p, m)
	}
}

// sinkLoop consumes matching materials, emits finished events, and discards
// them.
func (s *Simulator) sinkLoop(p *Proc, sink *Sink) {
	for {
		m := sink.Input.Get(p, func(m *Material) bool { return m.Type == sink.Type })
		sink.Finished++
		s.record(p.Now(), sink.ID, "", trace.ActivityFinished, m.ID)
	}
}

// travel is a material's independent journey: per hop, enter the chosen
// resource's input queue, request dispatch, wait for the controller to
// finish the work, leave through the output queue, and repeat until the
// route is exhausted, then deliver to a matching sink.
func (s *Simulator) travel(p *Proc, m *Material, src *Source) {
	src.Output.Get(p, func(x *Material) bool { return x == m })

	for len(m.Remaining) > 0 {
		processID := m.Remaining[0]
		res := m.next
		m.next = nil
		if res == nil {
			res = s.router.NextResource(processID, m)
		}
		if res == nil {
			// Routing deadlock: no feasible resource. The material stalls;
			// the run continues for everything else.
			s.record(p.Now(), "", processID, trace.ActivityStalled, m.ID)
			s.metrics.StalledMaterials++
			logrus.Warnf("material %s stalled: no resource for process %s", m.ID, processID)
			return
		}
		proc := s.processes[processID]

		from := m.Location
		to := res.Location
		if proc.Kind == ProcessTransport {
			to = s.destinationAfter(m, res)
		}

		res.Input.Put(p, m)
		done := s.kernel.NewSignal()
		res.Controller.Submit(&Request{
			Material: m,
			Process:  proc,
			From:     from,
			To:       to,
			Done:     done,
		})
		if err := done.Wait(p); err != nil {
			return
		}
		m.Advance(processID)
		res.Output.Get(p, func(x *Material) bool { return x == m })
		if proc.Kind == ProcessTransport {
			m.Location = to
		} else {
			m.Location = res.Location
		}
	}

	sink := s.router.SinkFor(m.Type)
	if sink == nil {
		s.record(p.Now(), "", "", trace.ActivityStalled, m.ID)
		s.metrics.StalledMaterials++
		return
	}
	sink.Input.Put(p, m)
}

// destinationAfter resolves where a transport hop delivers the material: the
// resource chosen for the following route step (committed now so the
// transport target and the later dispatch agree), or the sink when the
// transport is the final step.
func (s *Simulator) destinationAfter(m *Material, transporter *Resource) Location {
	if len(m.Remaining) > 1 {
		if next := s.router.NextResource(m.Remaining[1], m); next != nil {
			m.next = next
			return next.Location
		}
	}
	if sink := s.router.SinkFor(m.Type); sink != nil {
		return sink.Location
	}
	return transporter.Location
}

package trace

// Summary tallies a log by resource and activity, the raw material for
// throughput and utilization reporting.
type Summary struct {
	Created    map[string]int // source id -> materials created
	Completed  map[string]int // resource id -> natural completions
	Finished   map[string]int // sink id -> materials consumed
	Interrupts int
	Stalled    int
}

// Summarize derives per-entity tallies from a log.
func Summarize(l *Log) Summary {
	s := Summary{
		Created:   make(map[string]int),
		Completed: make(map[string]int),
		Finished:  make(map[string]int),
	}
	for _, r := range l.Records() {
		switch r.Activity {
		case ActivityCreated:
			s.Created[r.ResourceID]++
		case ActivityEnd:
			s.Completed[r.ResourceID]++
		case ActivityFinished:
			s.Finished[r.ResourceID]++
		case ActivityInterrupt:
			s.Interrupts++
		case ActivityStalled:
			s.Stalled++
		}
	}
	return s
}

// MaterialActivities returns, per material, the ordered process ids of its
// start records: the execution trace used to check route conservation.
func MaterialActivities(l *Log) map[string][]string {
	out := make(map[string][]string)
	for _, r := range l.Records() {
		if r.Activity == ActivityStart && r.MaterialID != "" {
			out[r.MaterialID] = append(out[r.MaterialID], r.ProcessID)
		}
	}
	return out
}

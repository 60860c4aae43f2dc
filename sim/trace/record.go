// Package trace provides event-log recording for simulation runs.
// This package has no dependencies on sim/ and stores pure data types.
package trace

// Activity identifies what happened in an event record.
type Activity string

const (
	ActivityCreated   Activity = "created"   // a source emitted a material
	ActivityStart     Activity = "start"     // a state began executing
	ActivityEnd       Activity = "end"       // a state completed naturally
	ActivityInterrupt Activity = "interrupt" // a breakdown preempted a state
	ActivityFinished  Activity = "finished"  // a sink consumed a material
	ActivityStalled   Activity = "stalled"   // a material found no feasible resource
)

// Record is one timestamped entry in a run's event log.
type Record struct {
	Time       float64  `json:"time"`
	ResourceID string   `json:"resource_id"`
	ProcessID  string   `json:"process_id,omitempty"`
	Activity   Activity `json:"activity"`
	MaterialID string   `json:"material_id,omitempty"`
}

// Log is an ordered event log. Records appear in emission order, which for
// equal timestamps is scheduling order; this is what makes two runs with the
// same seed byte-identical.
type Log struct {
	records []Record
}

// Append adds a record to the log.
func (l *Log) Append(r Record) {
	l.records = append(l.records, r)
}

// Records returns the log contents in order. Callers must not modify the
// returned slice.
func (l *Log) Records() []Record {
	return l.records
}

// Len returns the number of records.
func (l *Log) Len() int {
	return len(l.records)
}

package sim

// ProcessKind distinguishes what executing a process means for a resource.
type ProcessKind string

const (
	ProcessProduction ProcessKind = "production"
	ProcessTransport  ProcessKind = "transport"
	ProcessCapability ProcessKind = "capability"
)

// Process is a unit of required work with an associated duration model.
type Process struct {
	ID   string
	Kind ProcessKind
	TM   TimeModel
}

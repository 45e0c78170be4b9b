package jobregistry

// State represents the lifecycle state of a job.
type State string

const (
	StateConstructed State = "constructed"
	StateInitialized State = "initialized"
	StateRunning     State = "running"
	StatePaused      State = "paused"
	StateClosed      State = "closed"
)

// ParseState maps a lower-case state name to a State.
func ParseState(s string) (State, bool) {
	switch st := State(s); st {
	case StateConstructed, StateInitialized, StateRunning, StatePaused, StateClosed:
		return st, true
	}
	return "", false
}

// Health of a job as last reported.
type Health string

const (
	HealthHealthy   Health = "healthy"
	HealthUnhealthy Health = "unhealthy"
)

// Job is the unit of work tracked by the registry. Implementations must be
// safe for concurrent reads.
type Job interface {
	ID() string
	Name() string
	CurrentState() State
	// NextState is the state the job is transitioning to; it equals
	// CurrentState when no transition is in progress.
	NextState() State
	Health() Health
	LastError() string
}

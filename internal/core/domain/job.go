package domain

// JobState is the lifecycle state of an import job.
type JobState int

const (
	// JobPending means the job is registered but waiting for its predecessor to settle.
	JobPending JobState = iota
	// JobRunning means the job is building.
	JobRunning
	// JobSucceeded means the graph was built, persisted and installed.
	JobSucceeded
	// JobFailed means the job stopped on an error or cancellation.
	JobFailed
)

// Progress checkpoints reported by an import job.
const (
	ProgressValidated = 10
	ProgressBuilt     = 80
	ProgressPersisted = 90
	ProgressInstalled = 100
)

// String returns the name of the job state.
func (s JobState) String() string {
	switch s {
	case JobPending:
		return "pending"
	case JobRunning:
		return "running"
	case JobSucceeded:
		return "succeeded"
	case JobFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s JobState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Settled reports whether the job has finished, successfully or not.
func (s JobState) Settled() bool {
	return s == JobSucceeded || s == JobFailed
}

// ImportJob is a snapshot of an import job's observable state.
type ImportJob struct {
	Name           string   `json:"name"`
	State          JobState `json:"state"`
	Progress       int      `json:"progress"`
	FailureMessage string   `json:"failureMessage,omitempty"`
}

package engine

// Outcome is the tri-state result of a run. There is no partial success:
// a failed run is rolled back as a whole.
type Outcome int

const (
	// OutcomeUnknown is the zero value, reported only on early aborts.
	OutcomeUnknown Outcome = iota

	// AppliedDryRun means no mutation happened, only would-be actions
	// were reported.
	AppliedDryRun

	// AppliedAndCommitted means all selected operations succeeded.
	AppliedAndCommitted

	// RolledBack means a failure occurred and the engine restored the
	// original state.
	RolledBack
)

func (o Outcome) String() string {
	switch o {
	case AppliedDryRun:
		return "applied-dry-run"
	case AppliedAndCommitted:
		return "applied-and-committed"
	case RolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// Success reports whether the process should exit zero for this outcome.
func (o Outcome) Success() bool {
	return o == AppliedDryRun || o == AppliedAndCommitted
}

package domain

// State is a controller state of a pipeline run.
type State string

const (
	StateInit                State = "init"
	StateDependenciesChecked State = "dependencies_checked"
	StateInProjectRoot       State = "in_project_root"
	StateCleaned             State = "cleaned"
	StateFeaturized          State = "featurized"
	StateConfigReady         State = "config_ready"
	StateServiceReady        State = "service_ready"
	StateTrained             State = "trained"
	StateDone                State = "done"
	StateFailed              State = "failed" // Absorbing
)

// sequence is the only legal path through the controller.
var sequence = []State{
	StateInit,
	StateDependenciesChecked,
	StateInProjectRoot,
	StateCleaned,
	StateFeaturized,
	StateConfigReady,
	StateServiceReady,
	StateTrained,
	StateDone,
}

// States returns the forward sequence, Init first and Done last.
func States() []State {
	out := make([]State, len(sequence))
	copy(out, sequence)
	return out
}

// Next returns the single forward successor of s.
// Terminal states (Done, Failed) and unknown states have none.
func (s State) Next() (State, bool) {
	for i, st := range sequence {
		if st == s && i+1 < len(sequence) {
			return sequence[i+1], true
		}
	}
	return "", false
}

// IsTerminal reports whether no transition may leave s.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// CanTransition reports whether from -> to is a legal move.
// Only the forward successor and Failed are reachable from a non-terminal state.
func CanTransition(from, to State) bool {
	if from.IsTerminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	next, ok := from.Next()
	return ok && next == to
}

func (s State) String() string {
	return string(s)
}

package domain

import "time"

// Transition records one move of the controller.
type Transition struct {
	From State     `json:"from"`
	To   State     `json:"to"`
	At   time.Time `json:"at"`
	// Err is set when To is StateFailed.
	Err error `json:"-"`
}

// Report summarizes a pipeline run.
type Report struct {
	Final       State
	Transitions []Transition
	Err         error
}

// Visited returns the states entered during the run, in order, starting at Init.
func (r Report) Visited() []State {
	out := []State{StateInit}
	for _, t := range r.Transitions {
		out = append(out, t.To)
	}
	return out
}

// Succeeded reports whether the run reached Done.
func (r Report) Succeeded() bool {
	return r.Final == StateDone
}

// FailedAt returns the last state reached before the run failed.
func (r Report) FailedAt() (State, bool) {
	n := len(r.Transitions)
	if n == 0 || r.Transitions[n-1].To != StateFailed {
		return "", false
	}
	return r.Transitions[n-1].From, true
}

package domain

import "fmt"

type State int

const (
	Idle State = iota
	Authenticating
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Authenticating:
		return "authenticating"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// A finished attempt may start a new one; nothing else skips a step.
var transitions = map[State][]State{
	Idle:           {Authenticating},
	Authenticating: {Submitting, Failed},
	Submitting:     {Succeeded, Failed},
	Succeeded:      {Authenticating},
	Failed:         {Authenticating},
}

func (s State) CanTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Busy reports whether a submission is in flight.
func (s State) Busy() bool {
	return s == Authenticating || s == Submitting
}

func (s State) Terminal() bool {
	return s == Succeeded || s == Failed
}

type TransitionError struct {
	From, To State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid order state transition %s -> %s", e.From, e.To)
}

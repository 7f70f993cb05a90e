package queue

import "fmt"

// allowedTransitions is the queue entry state machine. Booked visits walk
// pending -> confirmed -> in_progress -> completed; walk-ins enter directly
// at confirmed. completed, cancelled and no_show are terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusNoShow:     {},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves the given status.
func Terminal(s Status) bool {
	return len(allowedTransitions[s]) == 0
}

// checkTransition returns ErrInvalidTransition with detail for illegal edges.
func checkTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

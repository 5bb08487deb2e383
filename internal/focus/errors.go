package focus

import (
	"fmt"

	"focusflow-backend/internal/models"
)

// InvalidTransitionError is returned for any state-machine move that is not
// in the transition table, including any transition out of a terminal state.
// Rejected transitions never mutate the session snapshot.
type InvalidTransitionError struct {
	From       models.SessionStatus
	Transition string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a session in state %q", e.Transition, e.From)
}

// InvalidArgumentError is returned for out-of-range inputs: planned duration
// outside 1-480 minutes, distraction duration outside 0-3600 seconds, or an
// unknown enum value.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

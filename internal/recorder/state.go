package recorder

import (
	"fmt"

	"github.com/screenrec/screenrec/internal/syncx"
)

// State is one stage of the recording session lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateConfiguring State = "configuring"
	StateCapturing   State = "capturing"
	StateStopping    State = "stopping"
	StateFinalizing  State = "finalizing"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
)

// isValidTransition enforces the allowed session state machine edges.
// Configuring may complete directly when the countdown is cancelled before
// any capture resource is acquired, and may fail on configuration or
// capture-start errors. Everything after Capturing routes through
// Stopping and Finalizing so partial output is never silently discarded.
func isValidTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateConfiguring
	case StateConfiguring:
		return to == StateCapturing || to == StateCompleted || to == StateFailed
	case StateCapturing:
		return to == StateStopping
	case StateStopping:
		return to == StateFinalizing
	case StateFinalizing:
		return to == StateCompleted || to == StateFailed
	default:
		// Completed and Failed are terminal.
		return false
	}
}

// machine guards the session state and rejects out-of-order transitions.
// Every accepted transition is recorded in the event trail.
type machine struct {
	state *syncx.RWGuard[State]
	trail *Trail
}

func newMachine(trail *Trail) *machine {
	return &machine{state: syncx.NewGuard(StateIdle), trail: trail}
}

func (m *machine) transition(to State) error {
	result := m.state.Update(func(s *State) any {
		if !isValidTransition(*s, to) {
			return fmt.Errorf("invalid transition: %s -> %s", *s, to)
		}
		*s = to
		if m.trail != nil {
			m.trail.Record("state: " + string(*s))
		}
		return nil
	})
	if err, ok := result.(error); ok {
		return err
	}
	return nil
}

func (m *machine) current() State {
	return m.state.Get()
}

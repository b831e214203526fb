package workflow

import "github.com/garyjia/default-desk/internal/domain/entity"

// State is a position in the application review lifecycle
type State string

const (
	StatePending  State = "PENDING"
	StateApproved State = "APPROVED"
	StateRejected State = "REJECTED"
)

// IsTerminal reports whether the backend accepts no further decision in this state
func (s State) IsTerminal() bool {
	return s == StateApproved || s == StateRejected
}

// IsValid returns true for the three lifecycle states
func (s State) IsValid() bool {
	return s == StatePending || s.IsTerminal()
}

// FromStatus maps an application status reported by the backend to a workflow state.
// Unknown statuses are treated as pending.
func FromStatus(status entity.ApplicationStatus) State {
	switch status {
	case entity.StatusApproved:
		return StateApproved
	case entity.StatusRejected:
		return StateRejected
	default:
		return StatePending
	}
}

// ToStatus maps a workflow state back to the view status
func (s State) ToStatus() entity.ApplicationStatus {
	switch s {
	case StateApproved:
		return entity.StatusApproved
	case StateRejected:
		return entity.StatusRejected
	default:
		return entity.StatusPending
	}
}

package workflow

import (
	"github.com/garyjia/default-desk/internal/domain/entity"
)

// ApplicationLifecycle is owned by the backend; the desk mirrors it to decide
// which applications to offer for review.
//
//	PENDING --APPROVE--> APPROVED
//	PENDING --REJECT---> REJECTED
var ApplicationLifecycle = Transitions{
	StatePending: {
		TriggerApprove: StateApproved,
		TriggerReject:  StateRejected,
	},
}

// NewApplicationMachine returns a lifecycle machine positioned at the given server status
func NewApplicationMachine(status entity.ApplicationStatus) *Machine {
	// FromStatus always yields a valid state
	m, _ := NewMachine(ApplicationLifecycle, FromStatus(status))
	return m
}

// Auditable reports whether an application in this status should be offered for review
func Auditable(status entity.ApplicationStatus) bool {
	m := NewApplicationMachine(status)
	return m.CanFire(TriggerApprove) && m.CanFire(TriggerReject)
}

// Outcome returns the status a decision would lead to from the given status,
// or ErrInvalidTransition when the lifecycle does not allow it.
func Outcome(status entity.ApplicationStatus, decision entity.AuditDecision) (entity.ApplicationStatus, error) {
	trigger, ok := TriggerFor(decision)
	if !ok {
		return status, ErrInvalidTrigger
	}

	m := NewApplicationMachine(status)
	if err := m.Fire(trigger); err != nil {
		return status, err
	}
	return m.State().ToStatus(), nil
}

package workflow

import "github.com/garyjia/default-desk/internal/domain/entity"

// Trigger is a reviewer action that moves an application out of pending
type Trigger string

const (
	TriggerApprove Trigger = "APPROVE"
	TriggerReject  Trigger = "REJECT"
)

// TriggerFor returns the trigger a reviewer decision fires
func TriggerFor(decision entity.AuditDecision) (Trigger, bool) {
	switch decision {
	case entity.DecisionApproved:
		return TriggerApprove, true
	case entity.DecisionRejected:
		return TriggerReject, true
	}
	return "", false
}

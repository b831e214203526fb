package entity

// ApplicationStatus is the server-owned lifecycle status of an application
type ApplicationStatus string

// Status constants for default and recovery applications
const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

// IsValid returns true for the three known statuses
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Severity is the qualitative risk tier of a default
type Severity string

// Severity constants
const (
	SeverityHigh   Severity = "high"   // 高
	SeverityMedium Severity = "medium" // 中
	SeverityLow    Severity = "low"    // 低
)

// IsValid returns true for high, medium and low
func (s Severity) IsValid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// AuditDecision is the reviewer's terminal choice on a pending application
type AuditDecision string

// Audit decision constants
const (
	DecisionApproved AuditDecision = "approved"
	DecisionRejected AuditDecision = "rejected"
)

// IsValid returns true for approved and rejected only
func (d AuditDecision) IsValid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// ReasonKind selects between the two reason catalogues
type ReasonKind string

// Reason kinds
const (
	ReasonKindDefault  ReasonKind = "default"
	ReasonKindRecovery ReasonKind = "recovery"
)

// IsValid returns true for default and recovery
func (k ReasonKind) IsValid() bool {
	return k == ReasonKindDefault || k == ReasonKindRecovery
}

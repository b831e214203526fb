package entity

// Audit is the review outcome embedded in an application.
// AuditStatus keeps the backend's localized value (待审核/同意/拒绝).
type Audit struct {
	AuditorID    string `json:"auditorId"`
	AuditStatus  string `json:"auditStatus"`
	AuditRemarks string `json:"auditRemarks"`
	ReviewTime   string `json:"reviewTime"`
}

// DefaultApplication is a request to mark a customer as defaulted
type DefaultApplication struct {
	ID             string            `json:"id"`
	CustomerID     string            `json:"customerId"`
	CustomerName   string            `json:"customerName"`
	ReasonID       string            `json:"reasonId"`
	Severity       Severity          `json:"severity"`
	ApplicantID    string            `json:"applicantId"`
	Remarks        string            `json:"remarks"`
	AttachmentURLs []string          `json:"attachmentUrls"`
	Status         ApplicationStatus `json:"status"`
	ApplyTime      string            `json:"applyTime"`
	Audit          Audit             `json:"audit"`
}

// RecoveryApplication (rebirth) is a request to lift a customer's default status
type RecoveryApplication struct {
	ID                           string            `json:"id"`
	CustomerID                   string            `json:"customerId"`
	CustomerName                 string            `json:"customerName"`
	OriginalDefaultApplicationID string            `json:"originalDefaultApplicationId"`
	RecoveryReasonID             string            `json:"recoveryReasonId"`
	ApplicantID                  string            `json:"applicantId"`
	Status                       ApplicationStatus `json:"status"`
	ApplyTime                    string            `json:"applyTime"`
	Audit                        Audit             `json:"audit"`
}

// DefaultApplicationInput is the form payload for a new default application
type DefaultApplicationInput struct {
	CustomerID     string   `json:"customerId"`
	ReasonID       string   `json:"reasonId"`
	Severity       Severity `json:"severity"`
	ApplicantID    string   `json:"applicantId"`
	Remarks        string   `json:"remarks"`
	AttachmentURLs []string `json:"attachmentUrls"`
}

// RecoveryApplicationInput is the form payload for a new recovery application.
// OriginalDefaultApplicationID may be empty; the backend then uses the customer's latest default application.
type RecoveryApplicationInput struct {
	CustomerID                   string `json:"customerId"`
	OriginalDefaultApplicationID string `json:"originalDefaultApplicationId"`
	RecoveryReasonID             string `json:"recoveryReasonId"`
	ApplicantID                  string `json:"applicantId"`
}

// AuditInput is the reviewer's decision on an application
type AuditInput struct {
	AuditorID string        `json:"auditorId"`
	Decision  AuditDecision `json:"decision"`
	Remarks   string        `json:"remarks"`
}

// ApplicationFilter narrows list queries. Empty fields are not sent.
type ApplicationFilter struct {
	CustomerID   string            `form:"customerId" json:"customerId"`
	CustomerName string            `form:"customerName" json:"customerName"`
	Status       ApplicationStatus `form:"status" json:"status"`
	StartDate    string            `form:"startDate" json:"startDate"`
	EndDate      string            `form:"endDate" json:"endDate"`
	Reviewer     string            `form:"reviewer" json:"reviewer"`
}

// Ack is the backend acknowledgment of a mutation
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

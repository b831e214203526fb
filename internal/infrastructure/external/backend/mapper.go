package backend

import (
	"encoding/json"
	"strings"

	"github.com/garyjia/default-desk/internal/domain/entity"
)

// Localized audit values the backend stores in audit_status
const (
	AuditStatusPending  = "待审核"
	AuditStatusApproved = "同意"
	AuditStatusRejected = "拒绝"
)

var statusFromWire = map[string]entity.ApplicationStatus{
	AuditStatusPending:  entity.StatusPending,
	AuditStatusApproved: entity.StatusApproved,
	AuditStatusRejected: entity.StatusRejected,
	"pending":           entity.StatusPending,
	"approved":          entity.StatusApproved,
	"rejected":          entity.StatusRejected,
}

var statusToWire = map[entity.ApplicationStatus]string{
	entity.StatusPending:  AuditStatusPending,
	entity.StatusApproved: AuditStatusApproved,
	entity.StatusRejected: AuditStatusRejected,
}

var severityFromWire = map[string]entity.Severity{
	"高":      entity.SeverityHigh,
	"中":      entity.SeverityMedium,
	"低":      entity.SeverityLow,
	"high":   entity.SeverityHigh,
	"medium": entity.SeverityMedium,
	"low":    entity.SeverityLow,
}

// DecodeStatus maps an audit_status value to the lifecycle status. Unknown values read as pending.
func DecodeStatus(raw string) entity.ApplicationStatus {
	if s, ok := statusFromWire[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return entity.StatusPending
}

// EncodeStatus maps a lifecycle status to the audit_status value the backend filters on
func EncodeStatus(status entity.ApplicationStatus) (string, bool) {
	v, ok := statusToWire[status]
	return v, ok
}

// EncodeDecision maps an audit decision to the two values the audit endpoint accepts
func EncodeDecision(decision entity.AuditDecision) (string, bool) {
	switch decision {
	case entity.DecisionApproved:
		return AuditStatusApproved, true
	case entity.DecisionRejected:
		return AuditStatusRejected, true
	}
	return "", false
}

// DecodeSeverity accepts both the localized and the English form
func DecodeSeverity(raw string) entity.Severity {
	v := strings.ToLower(strings.TrimSpace(raw))
	if s, ok := severityFromWire[v]; ok {
		return s
	}
	return entity.Severity(v)
}

// SplitAttachments turns the comma-joined attachment_url column into a list
func SplitAttachments(raw string) []string {
	urls := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}

// JoinAttachments is the inverse of SplitAttachments
func JoinAttachments(urls []string) string {
	kept := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			kept = append(kept, u)
		}
	}
	return strings.Join(kept, ",")
}

// DecodeCustomer maps a customer row to its view model
func DecodeCustomer(r CustomerRecord) entity.Customer {
	return entity.Customer{
		ID:            string(r.CustomerID),
		Name:          r.CustomerName,
		ExternalLevel: r.CurrentExternalRating,
		IsDefaulted:   bool(r.IsDefault),
		Industry:      r.IndustryType,
		Region:        r.Region,
	}
}

// EncodeCustomer is the inverse of DecodeCustomer
func EncodeCustomer(c entity.Customer) CustomerRecord {
	return CustomerRecord{
		CustomerID:            FlexString(c.ID),
		CustomerName:          c.Name,
		CurrentExternalRating: c.ExternalLevel,
		IndustryType:          c.Industry,
		Region:                c.Region,
		IsDefault:             Flag(c.IsDefaulted),
	}
}

// DecodeCustomers maps a list, keeping server order
func DecodeCustomers(records []CustomerRecord) []entity.Customer {
	out := make([]entity.Customer, 0, len(records))
	for _, r := range records {
		out = append(out, DecodeCustomer(r))
	}
	return out
}

// DecodeReason maps one reason row. order is its 1-based position in the server list.
func DecodeReason(r ReasonRecord, order int) entity.Reason {
	id, content := r.ReasonID, r.ReasonContent
	if id == "" {
		id = r.RecoveryID
	}
	if content == "" {
		content = r.RecoveryContent
	}

	return entity.Reason{
		ID:         string(id),
		Content:    content,
		IsEnabled:  bool(r.IsEnabled),
		Order:      order,
		CreateTime: string(r.CreateTime),
		UpdateTime: string(r.UpdateTime),
	}
}

// DecodeReasons maps a list and assigns display order
func DecodeReasons(records []ReasonRecord) []entity.Reason {
	out := make([]entity.Reason, 0, len(records))
	for i, r := range records {
		out = append(out, DecodeReason(r, i+1))
	}
	return out
}

// EncodeReason writes the record shape of the given catalogue. Order is not sent; it is positional.
func EncodeReason(kind entity.ReasonKind, r entity.Reason) ReasonRecord {
	rec := ReasonRecord{
		IsEnabled:  Flag(r.IsEnabled),
		CreateTime: FlexString(r.CreateTime),
		UpdateTime: FlexString(r.UpdateTime),
	}
	if kind == entity.ReasonKindRecovery {
		rec.RecoveryID = FlexString(r.ID)
		rec.RecoveryContent = r.Content
	} else {
		rec.ReasonID = FlexString(r.ID)
		rec.ReasonContent = r.Content
	}
	return rec
}

// EncodeReasons encodes a list in display order
func EncodeReasons(kind entity.ReasonKind, reasons []entity.Reason) []ReasonRecord {
	out := make([]ReasonRecord, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, EncodeReason(kind, r))
	}
	return out
}

func decodeAudit(auditorID FlexString, status string, remarks string, auditTime FlexString) entity.Audit {
	return entity.Audit{
		AuditorID:    string(auditorID),
		AuditStatus:  status,
		AuditRemarks: remarks,
		ReviewTime:   string(auditTime),
	}
}

func encodeAuditStatus(status entity.ApplicationStatus, audit entity.Audit) string {
	if audit.AuditStatus != "" {
		return audit.AuditStatus
	}
	v, _ := EncodeStatus(status)
	return v
}

// DecodeDefaultApplication maps a default_application row to its view model
func DecodeDefaultApplication(r DefaultApplicationRecord) entity.DefaultApplication {
	return entity.DefaultApplication{
		ID:             string(r.AppID),
		CustomerID:     string(r.CustomerID),
		CustomerName:   r.CustomerName,
		ReasonID:       string(r.DefaultReasonID),
		Severity:       DecodeSeverity(r.SeverityLevel),
		ApplicantID:    string(r.ApplicantID),
		Remarks:        r.Remarks,
		AttachmentURLs: SplitAttachments(r.AttachmentURL),
		Status:         DecodeStatus(r.AuditStatus),
		ApplyTime:      string(r.ApplyTime),
		Audit:          decodeAudit(r.AuditorID, r.AuditStatus, r.AuditRemarks, r.AuditTime),
	}
}

// EncodeDefaultApplication is the inverse of DecodeDefaultApplication
func EncodeDefaultApplication(a entity.DefaultApplication) DefaultApplicationRecord {
	return DefaultApplicationRecord{
		AppID:           FlexString(a.ID),
		CustomerID:      FlexString(a.CustomerID),
		CustomerName:    a.CustomerName,
		DefaultReasonID: FlexString(a.ReasonID),
		SeverityLevel:   string(a.Severity),
		Remarks:         a.Remarks,
		AttachmentURL:   JoinAttachments(a.AttachmentURLs),
		ApplicantID:     FlexString(a.ApplicantID),
		ApplyTime:       FlexString(a.ApplyTime),
		AuditStatus:     encodeAuditStatus(a.Status, a.Audit),
		AuditorID:       FlexString(a.Audit.AuditorID),
		AuditTime:       FlexString(a.Audit.ReviewTime),
		AuditRemarks:    a.Audit.AuditRemarks,
	}
}

// DecodeDefaultApplications maps a list, keeping server order
func DecodeDefaultApplications(records []DefaultApplicationRecord) []entity.DefaultApplication {
	out := make([]entity.DefaultApplication, 0, len(records))
	for _, r := range records {
		out = append(out, DecodeDefaultApplication(r))
	}
	return out
}

// DecodeRecoveryApplication maps a recovery_application row to its view model
func DecodeRecoveryApplication(r RecoveryApplicationRecord) entity.RecoveryApplication {
	return entity.RecoveryApplication{
		ID:                           string(r.RecoveryAppID),
		CustomerID:                   string(r.CustomerID),
		CustomerName:                 r.CustomerName,
		OriginalDefaultApplicationID: string(r.OriginalDefaultAppID),
		RecoveryReasonID:             string(r.RecoveryReasonID),
		ApplicantID:                  string(r.ApplicantID),
		Status:                       DecodeStatus(r.AuditStatus),
		ApplyTime:                    string(r.ApplyTime),
		Audit:                        decodeAudit(r.AuditorID, r.AuditStatus, r.AuditRemarks, r.AuditTime),
	}
}

// EncodeRecoveryApplication is the inverse of DecodeRecoveryApplication
func EncodeRecoveryApplication(a entity.RecoveryApplication) RecoveryApplicationRecord {
	return RecoveryApplicationRecord{
		RecoveryAppID:        FlexString(a.ID),
		CustomerID:           FlexString(a.CustomerID),
		CustomerName:         a.CustomerName,
		OriginalDefaultAppID: FlexString(a.OriginalDefaultApplicationID),
		RecoveryReasonID:     FlexString(a.RecoveryReasonID),
		ApplicantID:          FlexString(a.ApplicantID),
		ApplyTime:            FlexString(a.ApplyTime),
		AuditStatus:          encodeAuditStatus(a.Status, a.Audit),
		AuditorID:            FlexString(a.Audit.AuditorID),
		AuditTime:            FlexString(a.Audit.ReviewTime),
		AuditRemarks:         a.Audit.AuditRemarks,
	}
}

// DecodeRecoveryApplications maps a list, keeping server order
func DecodeRecoveryApplications(records []RecoveryApplicationRecord) []entity.RecoveryApplication {
	out := make([]entity.RecoveryApplication, 0, len(records))
	for _, r := range records {
		out = append(out, DecodeRecoveryApplication(r))
	}
	return out
}

// DecodeUser maps the login profile
func DecodeUser(r UserRecord) entity.UserProfile {
	return entity.UserProfile{
		UserID:     string(r.UserID),
		UserName:   r.UserName,
		RealName:   r.RealName,
		Department: r.Department,
		Role:       r.Role,
		Email:      r.Email,
		Phone:      r.Phone,
	}
}

// DecodeStatistics maps the aggregate payload; missing series become empty lists
func DecodeStatistics(r StatisticsRecord) entity.Statistics {
	stats := entity.Statistics{
		Industry: decodeShares(r.Industry),
		Region:   decodeShares(r.Region),
		Trend:    make([]entity.TrendPoint, 0, len(r.Trend)),
	}
	for _, t := range r.Trend {
		stats.Trend = append(stats.Trend, entity.TrendPoint{
			Date:  string(t.Date),
			Count: numberInt(t.Count),
		})
	}
	return stats
}

func decodeShares(records []ShareRecord) []entity.Share {
	out := make([]entity.Share, 0, len(records))
	for _, r := range records {
		out = append(out, entity.Share{
			Name:       r.Name,
			Count:      numberInt(r.Count),
			Percentage: numberFloat(r.Percentage),
		})
	}
	return out
}

func numberInt(n json.Number) int {
	if v, err := n.Int64(); err == nil {
		return int(v)
	}
	return int(numberFloat(n))
}

func numberFloat(n json.Number) float64 {
	v, err := n.Float64()
	if err != nil {
		return 0
	}
	return v
}

func encodeDefaultApplicationRequest(in entity.DefaultApplicationInput) defaultApplicationRequest {
	return defaultApplicationRequest{
		CustomerID:      in.CustomerID,
		DefaultReasonID: in.ReasonID,
		SeverityLevel:   string(in.Severity),
		Remarks:         in.Remarks,
		AttachmentURL:   JoinAttachments(in.AttachmentURLs),
		ApplicantID:     in.ApplicantID,
	}
}

func encodeRecoveryApplicationRequest(in entity.RecoveryApplicationInput) recoveryApplicationRequest {
	return recoveryApplicationRequest{
		CustomerID:           in.CustomerID,
		OriginalDefaultAppID: in.OriginalDefaultApplicationID,
		RecoveryReasonID:     in.RecoveryReasonID,
		ApplicantID:          in.ApplicantID,
	}
}

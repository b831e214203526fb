package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Flag is a boolean that tolerates the encodings the backend is known to emit:
// 0/1, true/false, "0"/"1", "true"/"false" and null (false).
type Flag bool

// UnmarshalJSON implements json.Unmarshaler
func (f *Flag) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*f = false
		return nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		v, err := parseFlag(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		*f = Flag(v)
		return nil
	}

	v, err := parseFlag(string(raw))
	if err != nil {
		return err
	}
	*f = Flag(v)
	return nil
}

// MarshalJSON writes the integer form the backend stores
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "0", "false", "null":
		return false, nil
	case "1", "true":
		return true, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false, fmt.Errorf("invalid flag value %q", s)
	}
	return n != 0, nil
}

// FlexString decodes JSON strings and numbers alike. Identifiers and timestamps use it.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (s *FlexString) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*s = ""
		return nil
	}

	if raw[0] == '"' {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("invalid string value %s", raw)
	}
	*s = FlexString(n.String())
	return nil
}

// CustomerRecord is the /customers row
type CustomerRecord struct {
	CustomerID            FlexString `json:"customer_id"`
	CustomerName          string     `json:"customer_name"`
	CurrentExternalRating string     `json:"current_external_rating"`
	IndustryType          string     `json:"industry_type"`
	Region                string     `json:"region"`
	IsDefault             Flag       `json:"is_default"`
}

// ReasonRecord covers both catalogues. Default reasons use reason_id/reason_content,
// recovery reasons use recovery_id/recovery_content.
type ReasonRecord struct {
	ReasonID        FlexString `json:"reason_id,omitempty"`
	ReasonContent   string     `json:"reason_content,omitempty"`
	RecoveryID      FlexString `json:"recovery_id,omitempty"`
	RecoveryContent string     `json:"recovery_content,omitempty"`
	IsEnabled       Flag       `json:"is_enabled"`
	CreateTime      FlexString `json:"create_time"`
	UpdateTime      FlexString `json:"update_time"`
}

// DefaultApplicationRecord is a default_application row
type DefaultApplicationRecord struct {
	AppID           FlexString `json:"app_id"`
	CustomerID      FlexString `json:"customer_id"`
	CustomerName    string     `json:"customer_name,omitempty"`
	DefaultReasonID FlexString `json:"default_reason_id"`
	SeverityLevel   string     `json:"severity_level"`
	Remarks         string     `json:"remarks"`
	AttachmentURL   string     `json:"attachment_url"`
	ApplicantID     FlexString `json:"applicant_id"`
	ApplyTime       FlexString `json:"apply_time"`
	AuditStatus     string     `json:"audit_status"`
	AuditorID       FlexString `json:"auditor_id"`
	AuditTime       FlexString `json:"audit_time"`
	AuditRemarks    string     `json:"audit_remarks"`
}

// RecoveryApplicationRecord is a recovery_application row
type RecoveryApplicationRecord struct {
	RecoveryAppID        FlexString `json:"recovery_app_id"`
	CustomerID           FlexString `json:"customer_id"`
	CustomerName         string     `json:"customer_name,omitempty"`
	OriginalDefaultAppID FlexString `json:"original_default_app_id"`
	RecoveryReasonID     FlexString `json:"recovery_reason_id"`
	ApplicantID          FlexString `json:"applicant_id"`
	ApplyTime            FlexString `json:"apply_time"`
	AuditStatus          string     `json:"audit_status"`
	AuditorID            FlexString `json:"auditor_id"`
	AuditTime            FlexString `json:"audit_time"`
	AuditRemarks         string     `json:"audit_remarks"`
}

// UserRecord is the /login profile
type UserRecord struct {
	UserID     FlexString `json:"user_id"`
	UserName   string     `json:"user_name"`
	RealName   string     `json:"real_name"`
	Department string     `json:"department"`
	Role       string     `json:"role"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
}

// ShareRecord is one row of an industry or region distribution
type ShareRecord struct {
	Name       string      `json:"name"`
	Count      json.Number `json:"count"`
	Percentage json.Number `json:"percentage"`
}

// TrendRecord is one day of the default trend
type TrendRecord struct {
	Date  FlexString  `json:"date"`
	Count json.Number `json:"count"`
}

// StatisticsRecord is the /statistics payload
type StatisticsRecord struct {
	Industry []ShareRecord `json:"industry"`
	Region   []ShareRecord `json:"region"`
	Trend    []TrendRecord `json:"trend"`
}

type defaultApplicationRequest struct {
	CustomerID      string `json:"customer_id"`
	DefaultReasonID string `json:"default_reason_id"`
	SeverityLevel   string `json:"severity_level"`
	Remarks         string `json:"remarks"`
	AttachmentURL   string `json:"attachment_url"`
	ApplicantID     string `json:"applicant_id"`
}

type recoveryApplicationRequest struct {
	CustomerID           string `json:"customer_id"`
	OriginalDefaultAppID string `json:"original_default_app_id,omitempty"`
	RecoveryReasonID     string `json:"recovery_reason_id"`
	ApplicantID          string `json:"applicant_id"`
}

type auditRequest struct {
	AuditorID    string `json:"auditor_id"`
	AuditStatus  string `json:"audit_status"`
	AuditRemarks string `json:"audit_remarks"`
}

type enableRequest struct {
	IsEnabled Flag `json:"is_enabled"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RealName   string `json:"real_name"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/garyjia/default-desk/internal/domain/apperr"
	"github.com/garyjia/default-desk/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturedRequest struct {
	Method    string
	Path      string
	Query     map[string][]string
	Body      map[string]interface{}
	RequestID string
}

func newTestClient(t *testing.T, status int, body string) (*Client, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.Query = r.URL.Query()
		captured.RequestID = r.Header.Get("X-Request-Id")

		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &captured.Body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{BaseURL: server.URL}, zap.NewNop())
	return client, captured
}

func TestClient_ListCustomers(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"success":true,"data":[
		{"customer_id":"C001","customer_name":"华东制造","current_external_rating":"BBB","industry_type":"制造业","region":"华东","is_default":0}
	]}`)

	customers, err := client.ListCustomers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/api/customers", captured.Path)
	assert.NotEmpty(t, captured.RequestID)
	assert.Equal(t, []entity.Customer{{
		ID: "C001", Name: "华东制造", ExternalLevel: "BBB", Industry: "制造业", Region: "华东",
	}}, customers)
}

func TestClient_ListDefaultedCustomers(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"success":true,"data":[]}`)

	customers, err := client.ListDefaultedCustomers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/api/customers/defaulted", captured.Path)
	assert.Empty(t, customers)
}

func TestClient_ListReasons(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"success":true,"data":[
		{"recovery_id":"RR1","recovery_content":"已还款","is_enabled":1},
		{"recovery_id":"RR2","recovery_content":"担保代偿","is_enabled":0}
	]}`)

	reasons, err := client.ListReasons(context.Background(), entity.ReasonKindRecovery)

	require.NoError(t, err)
	assert.Equal(t, "/api/recovery-reasons", captured.Path)
	require.Len(t, reasons, 2)
	assert.Equal(t, 2, reasons[1].Order)
}

func TestClient_ListReasons_UnknownKind(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{"success":true}`)

	_, err := client.ListReasons(context.Background(), "other")

	assert.True(t, apperr.IsValidation(err))
}

func TestClient_GetReason(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"success":true,"data":{"reason_id":"R1","reason_content":"破产","is_enabled":"true"}}`)

	reason, err := client.GetReason(context.Background(), entity.ReasonKindDefault, "R1")

	require.NoError(t, err)
	assert.Equal(t, "/api/default-reasons/R1", captured.Path)
	assert.Equal(t, &entity.Reason{ID: "R1", Content: "破产", IsEnabled: true, Order: 1}, reason)
}

func TestClient_SetReasonEnabled(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"success":true,"message":"状态更新成功"}`)

	ack, err := client.SetReasonEnabled(context.Background(), entity.ReasonKindDefault, "R1", false)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, captured.Method)
	assert.Equal(t, "/api/default-reasons/R1/enable", captured.Path)
	assert.Equal(t, float64(0), captured.Body["is_enabled"])
	assert.Equal(t, "状态更新成功", ack.Message)
}

func TestClient_CreateDefaultApplication(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"success":true,"message":"违约认定申请提交成功"}`)

	ack, err := client.CreateDefaultApplication(context.Background(), entity.DefaultApplicationInput{
		CustomerID:     "C001",
		ReasonID:       "R1",
		Severity:       entity.SeverityHigh,
		ApplicantID:    "U1",
		Remarks:        "连续逾期",
		AttachmentURLs: []string{"a.pdf", "b.pdf"},
	})

	require.NoError(t, err)
	assert.True(t, ack.Success)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/api/default-applications", captured.Path)
	assert.Equal(t, map[string]interface{}{
		"customer_id":       "C001",
		"default_reason_id": "R1",
		"severity_level":    "high",
		"remarks":           "连续逾期",
		"attachment_url":    "a.pdf,b.pdf",
		"applicant_id":      "U1",
	}, captured.Body)
}

func TestClient_CreateDefaultApplication_Rejected(t *testing.T) {
	client, _ := newTestClient(t, http.StatusInternalServerError, `{"success":false,"message":"该客户已经是违约状态"}`)

	_, err := client.CreateDefaultApplication(context.Background(), entity.DefaultApplicationInput{CustomerID: "C001"})

	var rf *apperr.RequestFailedError
	require.True(t, errors.As(err, &rf))
	assert.Equal(t, "该客户已经是违约状态", rf.Message)
	assert.Equal(t, http.StatusInternalServerError, rf.StatusCode)
}

func TestClient_ListDefaultApplications_Filters(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"success":true,"data":[
		{"app_id":"DA2","customer_id":"C2","audit_status":"同意"},
		{"app_id":"DA1","customer_id":"C1","audit_status":"待审核"}
	]}`)

	apps, err := client.ListDefaultApplications(context.Background(), entity.ApplicationFilter{
		CustomerID: "C1",
		Status:     entity.StatusApproved,
		StartDate:  "2024-01-01",
	})

	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"customer_id": {"C1"},
		"status":      {"同意"},
		"start_date":  {"2024-01-01"},
	}, captured.Query)
	require.Len(t, apps, 2)
	assert.Equal(t, "DA2", apps[0].ID)
	assert.Equal(t, entity.StatusApproved, apps[0].Status)
	assert.Equal(t, entity.StatusPending, apps[1].Status)
}

func TestClient_AuditDefaultApplication(t *testing.T) {
	tests := []struct {
		decision entity.AuditDecision
		wire     string
	}{
		{entity.DecisionApproved, "同意"},
		{entity.DecisionRejected, "拒绝"},
	}

	for _, tt := range tests {
		t.Run(string(tt.decision), func(t *testing.T) {
			client, captured := newTestClient(t, http.StatusOK, `{"success":true,"message":"审核完成"}`)

			_, err := client.AuditDefaultApplication(context.Background(), "DA1", entity.AuditInput{
				AuditorID: "U9",
				Decision:  tt.decision,
				Remarks:   "ok",
			})

			require.NoError(t, err)
			assert.Equal(t, "/api/default-applications/DA1/audit", captured.Path)
			assert.Equal(t, map[string]interface{}{
				"auditor_id":    "U9",
				"audit_status":  tt.wire,
				"audit_remarks": "ok",
			}, captured.Body)
		})
	}
}

func TestClient_AuditRejectsUnknownDecision(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"success":true}`)

	_, err := client.AuditRecoveryApplication(context.Background(), "RA1", entity.AuditInput{Decision: "maybe"})

	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, captured.Method)
}

func TestClient_RecoveryApplications(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"success":true,"message":"重生申请提交成功"}`)

	_, err := client.CreateRecoveryApplication(context.Background(), entity.RecoveryApplicationInput{
		CustomerID:       "C1",
		RecoveryReasonID: "RR1",
		ApplicantID:      "U1",
	})

	require.NoError(t, err)
	assert.Equal(t, "/api/recovery-applications", captured.Path)
	assert.NotContains(t, captured.Body, "original_default_app_id")
	assert.Equal(t, "RR1", captured.Body["recovery_reason_id"])
}

func TestClient_Login(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `{"success":true,"data":{"user_id":"U123","user_name":"alice","role":"审核员"}}`)

	profile, err := client.Login(context.Background(), entity.Credentials{Username: "alice", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "/api/login", captured.Path)
	assert.Equal(t, "U123", profile.UserID)
	assert.Equal(t, "审核员", profile.Role)
}

func TestClient_Login_WrongPassword(t *testing.T) {
	client, _ := newTestClient(t, http.StatusUnauthorized, `{"success":false,"message":"用户名或密码错误"}`)

	_, err := client.Login(context.Background(), entity.Credentials{Username: "alice", Password: "bad"})

	assert.True(t, apperr.IsRequestFailed(err))
	assert.Equal(t, "用户名或密码错误", apperr.UserMessage(err))
}

func TestClient_Statistics(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{"success":true,"data":{
		"industry":[{"name":"制造业","count":2,"percentage":50}],
		"region":[{"name":"华东","count":4,"percentage":100}],
		"trend":[]
	}}`)

	stats, err := client.Statistics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Industry[0].Count)
	assert.Equal(t, float64(100), stats.Region[0].Percentage)
	assert.Empty(t, stats.Trend)
}

func TestClient_Health_UsesNoPrefix(t *testing.T) {
	client, captured := newTestClient(t, http.StatusOK, `ok`)

	require.NoError(t, client.Health(context.Background()))
	assert.Equal(t, "/test", captured.Path)
}

func TestClient_TransportErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"gateway html", http.StatusBadGateway, `<html>bad gateway</html>`},
		{"failure envelope without message", http.StatusInternalServerError, `{"success":false}`},
		{"ok but not an envelope", http.StatusOK, `{"code":200,"data":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.status, tt.body)

			_, err := client.ListCustomers(context.Background())

			var te *apperr.TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, http.MethodGet, te.Method)
			assert.Equal(t, "/api/customers", te.Path)
			assert.Equal(t, tt.status, te.StatusCode)
		})
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewClient(Config{BaseURL: server.URL}, zap.NewNop())

	_, err := client.ListCustomers(context.Background())

	assert.True(t, apperr.IsTransport(err))
	assert.Equal(t, apperr.TransportFailureMessage, apperr.UserMessage(err))
}

func TestClient_CustomPrefix(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL + "/", APIPrefix: "v2/"}, zap.NewNop())

	_, err := client.ListCustomers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/v2/customers", path)
}

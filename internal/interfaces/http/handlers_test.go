package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/garyjia/default-desk/internal/config"
	"github.com/garyjia/default-desk/internal/container"
	"github.com/garyjia/default-desk/internal/session"
	"github.com/garyjia/default-desk/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cannedResponse struct {
	status int
	body   string
}

// fakeBackend answers "METHOD /path" with canned envelopes and records every request.
// A "METHOD /path?status=value" entry takes precedence when the status query matches.
type fakeBackend struct {
	mu        sync.Mutex
	responses map[string]cannedResponse
	requests  []string
	bodies    map[string]map[string]interface{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		responses: make(map[string]cannedResponse),
		bodies:    make(map[string]map[string]interface{}),
	}
}

func (f *fakeBackend) on(route string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[route] = cannedResponse{status: status, body: body}
}

func (f *fakeBackend) called(route string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r == route {
			return true
		}
	}
	return false
}

func (f *fakeBackend) body(route string) map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[route]
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.requests = append(f.requests, route)
	raw, _ := io.ReadAll(r.Body)
	if len(raw) > 0 {
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)
		f.bodies[route] = body
	}
	resp, found := f.responses[route]
	if status := r.URL.Query().Get("status"); status != "" {
		if byStatus, ok := f.responses[route+"?status="+status]; ok {
			resp, found = byStatus, true
		}
	}
	f.mu.Unlock()

	if !found {
		resp = cannedResponse{status: http.StatusNotFound, body: `{"success":false,"message":"not found"}`}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}

type testGateway struct {
	backend *fakeBackend
	server  *Server
	session *session.Store
}

func newTestGateway(t *testing.T) *testGateway {
	t.Helper()

	fake := newFakeBackend()
	backendSrv := httptest.NewServer(fake)
	t.Cleanup(backendSrv.Close)

	logger := zap.NewNop()
	app, err := container.NewContainer(&config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Backend: config.BackendConfig{BaseURL: backendSrv.URL, APIPrefix: "/api"},
		Session: config.SessionConfig{Driver: config.SessionDriverMemory, Key: "currentUser"},
	}, logger)
	require.NoError(t, err)
	require.NoError(t, app.Start(context.Background()))
	t.Cleanup(func() { _ = app.Close() })

	return &testGateway{
		backend: fake,
		server:  NewServer(DefaultServerConfig(), app, utils.NewServiceLogger(logger)),
		session: app.Session(),
	}
}

func (g *testGateway) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	g.server.Router().ServeHTTP(rec, req)

	var resp Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func (g *testGateway) signIn(t *testing.T) {
	t.Helper()
	g.backend.on("POST /api/login", http.StatusOK,
		`{"success":true,"data":{"user_id":"U123","user_name":"zhang","role":"auditor"}}`)
	rec, _ := g.do(t, http.MethodPost, "/desk/login", `{"username":"zhang","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	g := newTestGateway(t)
	g.backend.on("GET /test", http.StatusOK, `ok`)

	rec, resp := g.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	components := data["components"].(map[string]interface{})
	assert.Contains(t, components, "backend")
	assert.Equal(t, "memory", components["session"].(map[string]interface{})["message"])
}

func TestHealthCheck_BackendDown(t *testing.T) {
	g := newTestGateway(t)
	g.backend.on("GET /test", http.StatusServiceUnavailable, ``)

	rec, resp := g.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "网络异常，请稍后重试", resp.Message)
	assert.True(t, resp.Retryable)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "unhealthy", data["status"])
	components := data["components"].(map[string]interface{})
	assert.Equal(t, false, components["backend"].(map[string]interface{})["healthy"])
	assert.Equal(t, true, components["session"].(map[string]interface{})["healthy"])
}

func TestLoginStoresSession(t *testing.T) {
	g := newTestGateway(t)

	rec, resp := g.do(t, http.MethodGet, "/desk/session", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, resp.Data)

	g.signIn(t)
	assert.Equal(t, "U123", g.session.CurrentUserID(context.Background()))

	_, resp = g.do(t, http.MethodGet, "/desk/session", "")
	profile, isMap := resp.Data.(map[string]interface{})
	require.True(t, isMap)
	assert.Equal(t, "U123", profile["user_id"])

	rec, _ = g.do(t, http.MethodPost, "/desk/logout", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, g.session.CurrentUser(context.Background()))
}

func TestLogin_ValidationError(t *testing.T) {
	g := newTestGateway(t)

	rec, resp := g.do(t, http.MethodPost, "/desk/login", `{"username":"zhang"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password", resp.Field)
	assert.Equal(t, "请输入密码", resp.Message)
	assert.False(t, g.backend.called("POST /api/login"))
}

func TestMalformedBody(t *testing.T) {
	g := newTestGateway(t)

	rec, resp := g.do(t, http.MethodPost, "/desk/default-applications", `{"customerId":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, malformedRequestMessage, resp.Message)
}

func TestCreateDefaultApplication_RejectionIsVerbatim(t *testing.T) {
	g := newTestGateway(t)
	g.signIn(t)
	g.backend.on("POST /api/default-applications", http.StatusInternalServerError,
		`{"success":false,"message":"该客户已经是违约状态"}`)

	rec, resp := g.do(t, http.MethodPost, "/desk/default-applications",
		`{"customerId":"C001","reasonId":"1","severity":"high","remarks":"逾期"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "该客户已经是违约状态", resp.Message)
	assert.False(t, g.backend.called("GET /api/default-applications"))
}

func TestCreateDefaultApplication_Success(t *testing.T) {
	g := newTestGateway(t)
	g.signIn(t)
	g.backend.on("POST /api/default-applications", http.StatusOK,
		`{"success":true,"message":"违约认定申请提交成功"}`)
	g.backend.on("GET /api/default-applications", http.StatusOK,
		`{"success":true,"data":[{"app_id":"DA1","customer_id":"C001","audit_status":"待审核","attachment_url":""}]}`)

	rec, resp := g.do(t, http.MethodPost, "/desk/default-applications",
		`{"customerId":"C001","reasonId":"1","severity":"high","attachmentUrls":["https://f/a.pdf","https://f/b.pdf"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "违约认定申请提交成功", resp.Message)

	sent := g.backend.body("POST /api/default-applications")
	assert.Equal(t, "U123", sent["applicant_id"])
	assert.Equal(t, "https://f/a.pdf,https://f/b.pdf", sent["attachment_url"])
	assert.True(t, g.backend.called("GET /api/default-applications"))
}

func TestCreateDefaultApplication_MissingReason(t *testing.T) {
	g := newTestGateway(t)
	g.signIn(t)

	rec, resp := g.do(t, http.MethodPost, "/desk/default-applications", `{"customerId":"C001","severity":"high"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "reasonId", resp.Field)
	assert.Equal(t, "请选择违约原因", resp.Message)
}

func TestPendingDefaultApplications(t *testing.T) {
	g := newTestGateway(t)
	g.backend.on("GET /api/default-applications", http.StatusOK, `{"success":true,"data":[
		{"app_id":"DA1","audit_status":"待审核"},
		{"app_id":"DA2","audit_status":"同意"},
		{"app_id":"DA3","audit_status":"pending"}
	]}`)

	rec, resp := g.do(t, http.MethodGet, "/desk/default-applications/pending", "")

	require.Equal(t, http.StatusOK, rec.Code)
	items, isList := resp.Data.([]interface{})
	require.True(t, isList)
	require.Len(t, items, 2)
	assert.Equal(t, "DA1", items[0].(map[string]interface{})["id"])
	assert.Equal(t, "DA3", items[1].(map[string]interface{})["id"])
}

func TestPendingDefaultApplications_AfterBrowsingApproved(t *testing.T) {
	g := newTestGateway(t)
	g.backend.on("GET /api/default-applications?status=同意", http.StatusOK, `{"success":true,"data":[
		{"app_id":"DA2","audit_status":"同意"}
	]}`)
	g.backend.on("GET /api/default-applications?status=待审核", http.StatusOK, `{"success":true,"data":[
		{"app_id":"DA1","audit_status":"待审核"}
	]}`)

	rec, resp := g.do(t, http.MethodGet, "/desk/default-applications?status=approved", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Data, 1)

	rec, resp = g.do(t, http.MethodGet, "/desk/default-applications/pending", "")

	require.Equal(t, http.StatusOK, rec.Code)
	items, isList := resp.Data.([]interface{})
	require.True(t, isList)
	require.Len(t, items, 1)
	assert.Equal(t, "DA1", items[0].(map[string]interface{})["id"])
}

func TestAuditRecoveryApplication(t *testing.T) {
	g := newTestGateway(t)
	g.signIn(t)
	g.backend.on("POST /api/recovery-applications/RA7/audit", http.StatusOK, `{"success":true,"message":"审核完成"}`)
	g.backend.on("GET /api/recovery-applications", http.StatusOK, `{"success":true,"data":[]}`)

	rec, resp := g.do(t, http.MethodPost, "/desk/recovery-applications/RA7/audit", `{"decision":"approved","remarks":"已结清"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "审核完成", resp.Message)

	sent := g.backend.body("POST /api/recovery-applications/RA7/audit")
	assert.Equal(t, "U123", sent["auditor_id"])
	assert.Equal(t, "同意", sent["audit_status"])
}

func TestToggleReason_RollsBackOnRejection(t *testing.T) {
	g := newTestGateway(t)
	g.backend.on("GET /api/default-reasons", http.StatusOK, `{"success":true,"data":[
		{"reason_id":1,"reason_content":"逾期90天","is_enabled":1},
		{"reason_id":2,"reason_content":"破产","is_enabled":0}
	]}`)
	g.backend.on("PUT /api/default-reasons/1/enable", http.StatusOK, `{"success":false,"message":"原因正在使用中"}`)

	rec, resp := g.do(t, http.MethodPut, "/desk/reasons/default/1/enable", `{"enabled":false}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "原因正在使用中", resp.Message)

	_, list := g.do(t, http.MethodGet, "/desk/reasons/default", "")
	items := list.Data.([]interface{})
	assert.Equal(t, true, items[0].(map[string]interface{})["isEnabled"])
}

func TestToggleReason_Success(t *testing.T) {
	g := newTestGateway(t)
	g.backend.on("GET /api/recovery-reasons", http.StatusOK, `{"success":true,"data":[
		{"recovery_id":"R1","recovery_content":"债务重组完成","is_enabled":0}
	]}`)
	g.backend.on("PUT /api/recovery-reasons/R1/enable", http.StatusOK, `{"success":true,"message":"更新成功"}`)

	rec, resp := g.do(t, http.MethodPut, "/desk/reasons/recovery/R1/enable", `{"enabled":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	items := resp.Data.([]interface{})
	assert.Equal(t, true, items[0].(map[string]interface{})["isEnabled"])
	assert.EqualValues(t, 1, g.backend.body("PUT /api/recovery-reasons/R1/enable")["is_enabled"])
}

func TestToggleReason_RequiresEnabled(t *testing.T) {
	g := newTestGateway(t)

	rec, _ := g.do(t, http.MethodPut, "/desk/reasons/default/1/enable", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListReasons_UnknownKind(t *testing.T) {
	g := newTestGateway(t)

	rec, resp := g.do(t, http.MethodGet, "/desk/reasons/other", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "kind", resp.Field)
}

func TestDefaultForm(t *testing.T) {
	g := newTestGateway(t)
	g.backend.on("GET /api/customers", http.StatusOK, `{"success":true,"data":[
		{"customer_id":"C1","customer_name":"甲","is_default":0},
		{"customer_id":"C2","customer_name":"乙","is_default":1}
	]}`)
	g.backend.on("GET /api/default-reasons", http.StatusOK, `{"success":true,"data":[
		{"reason_id":1,"reason_content":"逾期","is_enabled":true},
		{"reason_id":2,"reason_content":"停用","is_enabled":false}
	]}`)

	rec, resp := g.do(t, http.MethodGet, "/desk/forms/default", "")

	require.Equal(t, http.StatusOK, rec.Code)
	form := resp.Data.(map[string]interface{})
	assert.Len(t, form["customers"], 1)
	assert.Len(t, form["reasons"], 1)
	assert.Len(t, form["severities"], 3)
}

func TestExportStatistics(t *testing.T) {
	g := newTestGateway(t)
	g.backend.on("GET /api/statistics", http.StatusOK, `{"success":true,"data":{
		"industry":[{"name":"制造业","count":3,"percentage":60}],
		"region":[],
		"trend":[{"date":"2024-01","count":2}]
	}}`)

	rec, _ := g.do(t, http.MethodGet, "/desk/statistics/export", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "statistics.xlsx")
	assert.Equal(t, "PK", rec.Body.String()[:2])
}

func TestListDefaultApplications_TransportFailure(t *testing.T) {
	g := newTestGateway(t)
	g.backend.on("GET /api/default-applications", http.StatusOK, `<html>proxy error</html>`)

	rec, resp := g.do(t, http.MethodGet, "/desk/default-applications?status=pending", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.True(t, resp.Retryable)
}

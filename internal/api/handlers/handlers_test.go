package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Marga-Ghale/ora-admin-console/internal/api/middleware"
	"github.com/Marga-Ghale/ora-admin-console/internal/repository"
	"github.com/Marga-Ghale/ora-admin-console/internal/service"
	"github.com/Marga-Ghale/ora-admin-console/internal/session"
	"github.com/Marga-Ghale/ora-admin-console/internal/upstream"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const annRecord = `{"name":"Ann","role":"employee","company":"ACME","companyCode":"AC"}`

type fakeStore struct{ cleared []string }

func (s *fakeStore) Clear(_ context.Context, sid string) error {
	s.cleared = append(s.cleared, sid)
	return nil
}

type env struct {
	router  *gin.Engine
	tier    *session.MemoryTier
	store   *fakeStore
	writes  atomic.Int32
	status  atomic.Int32
	message atomic.Value
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e := &env{tier: session.NewMemoryTier("local"), store: &fakeStore{}}
	e.tier.Set(session.KeyUser, annRecord)
	e.message.Store("")

	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[
				{"id":"d1","name":"Finance","company":"ACME"},
				{"id":"d2","name":"Payroll","company":"ACME","isActive":false},
				{"id":"d3","name":"Ops","company":"OTHERCO"}
			]`))
			return
		}
		e.writes.Add(1)
		if code := int(e.status.Load()); code != 0 {
			w.WriteHeader(code)
			w.Write([]byte(`{"message":"` + e.message.Load().(string) + `"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(upstreamSrv.Close)

	services := service.NewServices(&service.ServiceDeps{
		Repos:    repository.NewInMemoryRepositories(),
		Resolver: session.NewResolver(nil, e.tier),
		API:      upstream.NewClient(upstreamSrv.URL, "", time.Second, nil),
	})

	r := gin.New()
	r.Use(middleware.SessionContext("sid", false))
	NewHandlers(services, e.store, nil).Register(r.Group("/api/admin"))
	e.router = r
	return e
}

func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.AddCookie(&http.Cookie{Name: "sid", Value: "sid-1"})
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSessionHandler_Get(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/api/admin/session", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Ann", body["identity"].(map[string]any)["name"])
	assert.Equal(t, "company", body["scope"].(map[string]any)["filter"])

	e.tier.Set(session.KeyUser, `{not json`)
	w = e.do(http.MethodGet, "/api/admin/session", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, true, decode(t, w)["relogin"])

	e.tier.Delete(session.KeyUser)
	w = e.do(http.MethodGet, "/api/admin/session", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "session_absent", decode(t, w)["error"])
}

func TestResourceHandler_List(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/api/admin/departments", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 2, body["count"])

	items := body["items"].([]any)
	first := items[0].(map[string]any)
	assert.Equal(t, "Finance", first["record"].(map[string]any)["name"])
	assert.Equal(t, true, first["canRemove"])
	assert.Equal(t, false, items[1].(map[string]any)["canRemove"])

	w = e.do(http.MethodGet, "/api/admin/departments?q=PAY", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	w = e.do(http.MethodGet, "/api/admin/departments?showAll=maybe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodGet, "/api/admin/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.00", decode(t, w)["summary"].(map[string]any)["totalEstimatedHours"])
}

func TestResourceHandler_Mutations(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		upstream   int
		message    string
		wantStatus int
		wantWrites int32
	}{
		{"create", http.MethodPost, "/api/admin/departments", `{"name":"Legal"}`, 0, "", http.StatusCreated, 1},
		{"blank name never reaches upstream", http.MethodPost, "/api/admin/departments", `{"name":"  "}`, 0, "", http.StatusBadRequest, 0},
		{"malformed body", http.MethodPost, "/api/admin/departments", `{"name":`, 0, "", http.StatusBadRequest, 0},
		{"invalid task status", http.MethodPost, "/api/admin/tasks", `{"title":"Ship","status":"blocked"}`, 0, "", http.StatusBadRequest, 0},
		{"update", http.MethodPut, "/api/admin/departments/d1", `{"name":"Finance & Tax"}`, 0, "", http.StatusOK, 1},
		{"upstream conflict surfaces message", http.MethodPost, "/api/admin/departments", `{"name":"Finance"}`, http.StatusConflict, "Department already exists", http.StatusConflict, 1},
		{"upstream 500 keeps status", http.MethodDelete, "/api/admin/departments/d1?confirm=true", "", http.StatusInternalServerError, "", http.StatusInternalServerError, 1},
		{"delete needs confirmation", http.MethodDelete, "/api/admin/departments/d1", "", 0, "", http.StatusPreconditionRequired, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.status.Store(int32(tt.upstream))
			e.message.Store(tt.message)

			w := e.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantWrites, e.writes.Load())
			if tt.message != "" {
				assert.Equal(t, tt.message, decode(t, w)["message"])
			}
		})
	}
}

func TestResourceHandler_InactiveCannotBeRemoved(t *testing.T) {
	e := newEnv(t)

	require.Equal(t, http.StatusOK, e.do(http.MethodGet, "/api/admin/departments", "").Code)

	w := e.do(http.MethodDelete, "/api/admin/departments/d2?confirm=true", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "inactive", decode(t, w)["error"])
	assert.Zero(t, e.writes.Load())
}

func TestResourceHandler_SetScope(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPut, "/api/admin/departments/scope", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPut, "/api/admin/departments/scope", `{"showAll":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["showAll"])
	// not a super-admin: still confined to own company
	assert.EqualValues(t, 2, body["count"])
}

func TestAuditAndClear(t *testing.T) {
	e := newEnv(t)

	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/api/admin/departments", `{"name":"Legal"}`).Code)

	w := e.do(http.MethodGet, "/api/admin/audit", "")
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode(t, w)["entries"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "success", entries[0].(map[string]any)["outcome"])

	w = e.do(http.MethodDelete, "/api/admin/session", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"sid-1"}, e.store.cleared)
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"careboard/internal/config"
	"careboard/internal/database"
	"careboard/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type suite struct {
	t   *testing.T
	app *app
	srv http.Handler
}

func setupSuite(t *testing.T) *suite {
	t.Helper()
	mr := miniredis.RunT(t)

	v := viper.New()
	v.Set("app.env", "test")
	v.Set("server.port", 8080)
	v.Set("server.mode", "test")
	v.Set("database.dsn", fmt.Sprintf("file:app_%s?mode=memory&cache=shared", t.Name()))
	v.Set("auth.jwt_secret", "test-secret")
	v.Set("auth.jwt_ttl", "1h")
	v.Set("eligibility.reference_date", "")
	v.Set("eligibility.window_months", 13)
	v.Set("eligibility.recency_days", 60)
	v.Set("eligibility.top_customers", 20)
	v.Set("notification.mode", "log")
	v.Set("notification.form_base_url", "http://care.test/form")
	v.Set("redis.addr", mr.Addr())
	v.Set("redis.rvp_ttl", "1m")
	v.Set("redis.lock_ttl", "5s")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	a, err := newApp(cfg, log)
	require.NoError(t, err)
	t.Cleanup(a.close)
	require.NoError(t, database.Seed(a.db, time.Now()))

	return &suite{t: t, app: a, srv: a.router()}
}

func (s *suite) do(method, path, token string, body any) (int, testResponse) {
	s.t.Helper()
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.srv.ServeHTTP(w, req)

	var resp testResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp
}

func (s *suite) login(email string) string {
	s.t.Helper()
	code, resp := s.do(http.MethodPost, "/api/v1/auth/session", "", map[string]string{"email": email})
	require.Equal(s.t, http.StatusCreated, code)
	var sess struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(resp.Data, &sess))
	return sess.Token
}

func TestApp_Health(t *testing.T) {
	s := setupSuite(t)
	w := httptest.NewRecorder()
	s.srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"ok"`)
}

func TestApp_ProtectedRoutesRequireToken(t *testing.T) {
	s := setupSuite(t)
	code, resp := s.do(http.MethodGet, "/api/v1/regions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "AUTH_HEADER_MISSING", resp.Error.Code)
}

func TestApp_CareWorkflow(t *testing.T) {
	s := setupSuite(t)
	tech := s.login("tech@example.com")
	rvp := s.login("rvp.west@example.com")

	code, resp := s.do(http.MethodGet, "/api/v1/regions/West/branches", tech, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), "Vancouver")

	code, resp = s.do(http.MethodGet, "/api/v1/branches/Vancouver/units", tech, nil)
	require.Equal(t, http.StatusOK, code)
	var list struct {
		Units []struct {
			UnitID string `json:"unit_id"`
		} `json:"units"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.NotEmpty(t, list.Units)
	unitID := list.Units[0].UnitID

	form := map[string]any{
		"unit_id":             unitID,
		"region":              "West",
		"wo_type":             string(domain.WOSheaveReplacement),
		"repair_team_hours":   2.0,
		"repair_labour_hours": 5.0,
	}
	code, _ = s.do(http.MethodPost, "/api/v1/care/submissions", tech, form)
	require.Equal(t, http.StatusCreated, code)

	code, _ = s.do(http.MethodGet, "/api/v1/care/form?unit_id="+unitID+"&rvp_approval=True", tech, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, resp = s.do(http.MethodGet, "/api/v1/care/form?unit_id="+unitID+"&rvp_approval=True", rvp, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"pending"`)

	code, resp = s.do(http.MethodPost, "/api/v1/care/submissions/"+unitID+"/approve", tech, form)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "NOT_RVP", resp.Error.Code)

	form["rvp_approval_date"] = "2024-10-15"
	form["approval_by_rvp"] = "Pat West"
	code, resp = s.do(http.MethodPost, "/api/v1/care/submissions/"+unitID+"/approve", rvp, form)
	require.Equal(t, http.StatusCreated, code)
	assert.Contains(t, string(resp.Data), `"value_approved":381.4`)

	code, resp = s.do(http.MethodGet, "/api/v1/branches/Vancouver/units", tech, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(resp.Data), `"unit_id":"`+unitID+`"`)

	code, _ = s.do(http.MethodGet, "/api/v1/units/"+unitID, tech, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

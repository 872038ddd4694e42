package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-portal/internal/fallback"
	"github.com/noah-isme/sma-portal/internal/repository"
	"github.com/noah-isme/sma-portal/internal/service"
	"github.com/noah-isme/sma-portal/pkg/config"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api"}
	metrics := service.NewMetricsService()
	auth := service.NewAuthService(repository.NewMemoryUserRepository(), nil, nil, service.AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
	})
	records := service.NewRecordService(repository.NewMemoryRecordRepository(), nil, nil, metrics, nil)
	require.NoError(t, records.Seed(context.Background(), fallback.For))

	return New(Options{Config: cfg, Auth: auth, Records: records, Metrics: metrics})
}

func do(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, r *gin.Engine, email, role string) string {
	t.Helper()
	w := do(r, http.MethodPost, "/api/users", "", map[string]string{
		"email":           email,
		"phone":           "9876543210",
		"password":        "secret1",
		"confirmPassword": "secret1",
		"firstName":       "Pat",
		"lastName":        "Portal",
		"userType":        role,
		"grade":           "9",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.AccessToken)
	return body.Data.AccessToken
}

func listIDs(t *testing.T, w *httptest.ResponseRecorder, idKey string) []string {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	ids := make([]string, 0, len(body.Data))
	for _, item := range body.Data {
		ids = append(ids, item[idKey].(string))
	}
	return ids
}

func TestRecordRoutesEndToEnd(t *testing.T) {
	r := newTestEngine(t)
	admin := registerAndLogin(t, r, "admin@school.test", "admin")

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/grades", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/lunch", admin, nil).Code)

	ids := listIDs(t, do(r, http.MethodGet, "/api/grades?userType=student&grade=9", admin, nil), "gradeid")
	assert.Equal(t, []string{"1001", "1002", "1003", "1004"}, ids)

	w := do(r, http.MethodPut, "/api/grades/1001", admin, map[string]any{"gradeid": "1001", "studentname": "John Doe", "marks": 95})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"marks":95`)

	w = do(r, http.MethodPut, "/api/grades/1001", admin, map[string]any{"gradeid": "1001", "marks": 150})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/api/grades/1002", admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/api/grades/1002", admin, nil).Code)

	ids = listIDs(t, do(r, http.MethodGet, "/api/grades", admin, nil), "gradeid")
	assert.Equal(t, []string{"1001", "1003", "1004"}, ids)
}

func TestStudentsAreReadOnlyAndScoped(t *testing.T) {
	r := newTestEngine(t)
	student := registerAndLogin(t, r, "student@school.test", "student")

	assert.Empty(t, listIDs(t, do(r, http.MethodGet, "/api/grades", student, nil), "gradeid"))
	assert.Len(t, listIDs(t, do(r, http.MethodGet, "/api/exams", student, nil), "examid"), 2)
	assert.Len(t, listIDs(t, do(r, http.MethodGet, "/api/profile", student, nil), "profileid"), 1)

	w := do(r, http.MethodDelete, "/api/exams/1", student, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(r, http.MethodPut, "/api/exams/1", student, map[string]any{"subject": "Art"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	r := newTestEngine(t)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ready", "", nil).Code)

	_ = do(r, http.MethodGet, "/api/grades", "", nil)
	w := do(r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/docs/index.html", "", nil).Code)
}

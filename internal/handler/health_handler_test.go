package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serveGet(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	h(c)
	return w
}

func TestReadyReportsFailingChecks(t *testing.T) {
	ok := func(context.Context) error { return nil }
	h := NewHealthHandler(nil, map[string]Check{"database": ok})
	w := serveGet(h.Ready)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"database":"ok"}}`, w.Body.String())

	h = NewHealthHandler(nil, map[string]Check{
		"database": ok,
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})
	w = serveGet(h.Ready)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"database":"ok","redis":"connection refused"}}`, w.Body.String())
}

func TestPrometheusDisabled(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, serveGet(h.Prometheus).Code)
	assert.Equal(t, http.StatusOK, serveGet(h.Health).Code)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-portal/internal/models"
	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
)

type validatorStub map[string]*models.JWTClaims

func (v validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		claims, ok := Claims(c)
		if ok {
			c.String(http.StatusOK, string(claims.Role))
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/", handlers...)
	return r
}

func serve(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var tokens = validatorStub{
	"admin-token":   {UserID: "a", Role: models.RoleAdmin},
	"student-token": {UserID: "s", Role: models.RoleStudent},
}

func TestJWT(t *testing.T) {
	r := newRouter(JWT(tokens))

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Token admin-token").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer nope").Code)

	w := serve(r, "bearer admin-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())
}

func TestOptionalJWT(t *testing.T) {
	r := newRouter(OptionalJWT(tokens))

	assert.Equal(t, "anonymous", serve(r, "").Body.String())
	assert.Equal(t, "anonymous", serve(r, "Bearer nope").Body.String())
	assert.Equal(t, "student", serve(r, "Bearer student-token").Body.String())
}

func TestRequireRoles(t *testing.T) {
	r := newRouter(JWT(tokens), RequireRoles(models.RoleAdmin))

	assert.Equal(t, http.StatusOK, serve(r, "Bearer admin-token").Code)

	w := serve(r, "Bearer student-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "only admin may perform this action")

	bare := newRouter(RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, serve(bare, "").Code)
}

type observerStub struct {
	paths    []string
	statuses []int
}

func (o *observerStub) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	o.paths = append(o.paths, method+" "+path)
	o.statuses = append(o.statuses, status)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	obs := &observerStub{}
	r := gin.New()
	r.Use(Metrics(obs))
	r.GET("/records/:kind", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/records/grades", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, []string{"GET /records/:kind", "GET unmatched"}, obs.paths)
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNotFound}, obs.statuses)
}

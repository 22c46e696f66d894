package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redconnect/redconnect-api/internal/model"
	"github.com/redconnect/redconnect-api/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT() auth.JWTService {
	return auth.NewJWTService("test-secret", "test-refresh", time.Hour, 24*time.Hour)
}

func issueToken(t *testing.T, svc auth.JWTService, role model.Role) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(&model.User{
		Base:  model.Base{ID: uuid.New()},
		Email: "user@example.com",
		Role:  role,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func protectedRouter(mw *AuthMiddleware, roles ...model.Role) *gin.Engine {
	r := gin.New()
	grp := r.Group("/", mw.Authenticate())
	if len(roles) > 0 {
		grp.Use(mw.RequireRole(roles...))
	}
	grp.GET("/resource", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthenticateMissingHeader(t *testing.T) {
	mw := NewAuthMiddleware(newTestJWT())
	r := protectedRouter(mw)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	mw := NewAuthMiddleware(newTestJWT())
	r := protectedRouter(mw)

	for _, header := range []string{"garbage", "Basic abc123", "Bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/resource", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	mw := NewAuthMiddleware(newTestJWT())
	r := protectedRouter(mw)

	other := auth.NewJWTService("other-secret", "other-refresh", time.Hour, 24*time.Hour)
	token := issueToken(t, other, model.RoleDonor)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateValidToken(t *testing.T) {
	jwtSvc := newTestJWT()
	mw := NewAuthMiddleware(jwtSvc)
	r := protectedRouter(mw)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtSvc, model.RoleDonor))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	jwtSvc := newTestJWT()
	mw := NewAuthMiddleware(jwtSvc)
	r := protectedRouter(mw, model.RoleAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtSvc, model.RoleAdmin))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtSvc, model.RoleDonor))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleMultiple(t *testing.T) {
	jwtSvc := newTestJWT()
	mw := NewAuthMiddleware(jwtSvc)
	r := protectedRouter(mw, model.RoleHospital, model.RoleCamp)

	for role, want := range map[model.Role]int{
		model.RoleHospital: http.StatusOK,
		model.RoleCamp:     http.StatusOK,
		model.RolePatient:  http.StatusForbidden,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/resource", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, jwtSvc, role))
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, string(role))
	}
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminoadmin/comunidades-go/internal/auth"
)

func protectedRouter(svc *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/personas", RequireAuth(svc), func(c *gin.Context) {
		email, _ := GetAuthEmail(c)
		c.JSON(http.StatusOK, gin.H{"email": email})
	})
	return r
}

func TestRequireAuthMissingHeaderIncludesRedirect(t *testing.T) {
	r := protectedRouter(auth.NewJWTService("secret", "test", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/personas?page=3", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/api/personas?page=3", body["redirectTo"])
}

func TestRequireAuthRejectsMalformedHeader(t *testing.T) {
	r := protectedRouter(auth.NewJWTService("secret", "test", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/personas", nil)
	req.Header.Set("Authorization", "Basic abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	svc := auth.NewJWTService("secret", "test", time.Hour)
	r := protectedRouter(svc)

	token, err := svc.GenerateToken(uuid.New(), "admin@example.com", false)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/personas", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@example.com")
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	expired := auth.NewJWTService("secret", "test", -time.Minute)
	r := protectedRouter(auth.NewJWTService("secret", "test", time.Hour))

	token, err := expired.GenerateToken(uuid.New(), "a@b.co", false)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/personas", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := auth.NewJWTService("secret", "test", time.Hour)
	r := gin.New()
	r.GET("/admin", RequireAuth(svc), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	adminToken, _ := svc.GenerateToken(uuid.New(), "a@b.co", true)
	plainToken, _ := svc.GenerateToken(uuid.New(), "b@b.co", false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+plainToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

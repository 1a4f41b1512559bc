package auth

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/config"
)

func testRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", mw, func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	r := testRouter(NewAuthMiddleware(nil, cfg))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
	require.Equal(t, "Authorization header required", body["message"])
}

func TestAuthMiddleware_MalformedToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	r := testRouter(NewAuthMiddleware(nil, cfg))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)

	require.Equal(t, 401, w.Code)
}

func TestOptionalAuth_PassesWithoutToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	r := testRouter(OptionalAuthMiddleware(nil, cfg))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
}

func TestAdminOnly_RejectsNonAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		c.Set("user", &User{Role: RoleClient})
	}, AdminOnly(), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, 403, w.Code)
}

func TestAdminOnly_SuperAdminAllowed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		c.Set("user", &User{Role: RoleProvider, IsSuperAdmin: true})
	}, AdminOnly(), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)
}

func TestGenerateUsername(t *testing.T) {
	name := GenerateUsername("Jane.Doe+spam@example.com")
	require.True(t, len(name) > 7)
	require.Contains(t, name, "janedoe")
	require.NotContains(t, name, ".")
	require.NotContains(t, name, "+")
}

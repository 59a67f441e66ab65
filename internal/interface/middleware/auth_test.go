package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technurture/backend/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("test-secret", 15*time.Minute, time.Hour)
}

func tokenAuthEngine(jwt *helpers.JWTManager) *gin.Engine {
	r := gin.New()
	r.GET("/protected", TokenAuth(jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(CtxUserIDKey),
			"role":    c.GetString(CtxRoleKey),
		})
	})
	return r
}

func TestTokenAuthMissingToken(t *testing.T) {
	r := tokenAuthEngine(testJWT())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenAuthInvalidToken(t *testing.T) {
	r := tokenAuthEngine(testJWT())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTokenAuthRejectsRefreshToken(t *testing.T) {
	jwt := testJWT()
	r := tokenAuthEngine(jwt)

	refresh, _, err := jwt.GenerateRefreshToken("7", "eve", "user")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTokenAuthValidToken(t *testing.T) {
	jwt := testJWT()
	r := tokenAuthEngine(jwt)

	access, _, err := jwt.GenerateAccessToken("7", "eve", "user")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"7"`)
}

func TestRequireAdmin(t *testing.T) {
	jwt := testJWT()
	r := gin.New()
	r.GET("/admin", TokenAuth(jwt), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	userToken, _, err := jwt.GenerateAccessToken("7", "eve", "user")
	require.NoError(t, err)
	adminToken, _, err := jwt.GenerateAccessToken("1", "admin", "admin")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthAcceptsBearer(t *testing.T) {
	jwt := testJWT()
	r := gin.New()
	r.GET("/hybrid", RequireAuth(nil, jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString(CtxRoleKey)})
	})

	access, _, err := jwt.GenerateAccessToken("1", "admin", "admin")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/hybrid", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	r := gin.New()
	r.GET("/hybrid", RequireAuth(nil, testJWT()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// no token and no session cookie; with nil redis the session path is off
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/hybrid", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "dead-session"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

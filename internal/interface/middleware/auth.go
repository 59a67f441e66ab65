package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/technurture/backend/internal/domain/entity"
	"github.com/technurture/backend/pkg/helpers"
	"github.com/technurture/backend/pkg/response"
)

// Gin context keys set by the auth middlewares.
const (
	CtxUserIDKey   = "userID"
	CtxUsernameKey = "userName"
	CtxRoleKey     = "userRole"
)

// SessionCookie is the cookie carrying the server-side session id.
const SessionCookie = "session_id"

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// TokenAuth validates the bearer access token and injects the caller's
// identity into the Gin context. A missing token is 401, a present but
// invalid one is 403.
func TokenAuth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Fail(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.Parse(token, helpers.TokenTypeAccess)
		if err != nil {
			response.Fail(c, http.StatusForbidden, "invalid access token", err.Error())
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUsernameKey, claims.Username)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin gates a route to admin callers. It must run after TokenAuth
// or RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRoleKey)
		if role == "" {
			response.Fail(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		if role != entity.RoleAdmin {
			response.Fail(c, http.StatusForbidden, "admin access required", nil)
			return
		}
		c.Next()
	}
}

// RequireAuth accepts either a valid bearer access token or a live Redis
// session referenced by the session cookie. Token wins when both are
// present; with Redis unavailable only tokens are accepted.
func RequireAuth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := jwt.Parse(token, helpers.TokenTypeAccess); err == nil {
				c.Set(CtxUserIDKey, claims.UserID)
				c.Set(CtxUsernameKey, claims.Username)
				c.Set(CtxRoleKey, claims.Role)
				c.Next()
				return
			}
		}

		if rdb != nil {
			if sid, err := c.Cookie(SessionCookie); err == nil && sid != "" {
				data, err := helpers.GetSession(c.Request.Context(), rdb, sid)
				if err == nil && len(data) > 0 {
					c.Set(CtxUserIDKey, data["user_id"])
					c.Set(CtxUsernameKey, data["username"])
					c.Set(CtxRoleKey, data["role"])
					c.Next()
					return
				}
			}
		}

		response.Fail(c, http.StatusUnauthorized, "authentication required", nil)
	}
}

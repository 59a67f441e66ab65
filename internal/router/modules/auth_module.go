package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/technurture/backend/internal/interface/http"
	"github.com/technurture/backend/internal/interface/middleware"
	"github.com/technurture/backend/pkg/helpers"
)

// AuthModule wires the account endpoints.
// Public: POST /api/auth/login (rate limited), POST /api/auth/refresh
// Protected: GET /api/auth/me, POST /api/auth/logout
// Admin: POST /api/auth/register

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
	Limiter *middleware.LoginRateLimiter
	Auth    gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, limiter *middleware.LoginRateLimiter, auth gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Limiter: limiter, Auth: auth}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/login", middleware.LoginRateLimit(m.Limiter), m.Handler.Login)
	rg.POST("/auth/refresh", m.Handler.Refresh)

	authed := rg.Group("/")
	authed.Use(m.Auth)
	{
		authed.GET("/auth/me", m.Handler.Me)
		authed.POST("/auth/logout", m.Handler.Logout)
	}

	admin := rg.Group("/")
	admin.Use(m.Auth, middleware.RequireAdmin())
	{
		admin.POST("/auth/register", m.Handler.Register)
	}
}

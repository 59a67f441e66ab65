package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/technurture/backend/internal/application"
	"github.com/technurture/backend/internal/domain/repository"
	"github.com/technurture/backend/internal/interface/middleware"
	"github.com/technurture/backend/pkg/helpers"
	"github.com/technurture/backend/pkg/response"
	"github.com/technurture/backend/pkg/validation"
)

type AuthHandler struct {
	Svc          *application.AuthService
	Limiter      *middleware.LoginRateLimiter
	Logger       *logrus.Logger
	CookieDomain string
	CookieSecure bool
}

func NewAuthHandler(svc *application.AuthService, limiter *middleware.LoginRateLimiter, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Limiter: limiter, Logger: logger, CookieDomain: cookieDomain, CookieSecure: cookieSecure}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,strongpwd"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	ip := middleware.ClientIP(c)
	u, pair, sid, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			h.Limiter.RecordFailure(ip)
			response.Fail(c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Fail(c, http.StatusInternalServerError, "login failed", nil)
		return
	}
	h.Limiter.Reset(ip)

	if sid != "" {
		c.SetCookie(middleware.SessionCookie, sid, int(helpers.SessionTTL.Seconds()), "/", h.CookieDomain, h.CookieSecure, true)
	}
	response.OK(c, gin.H{
		"user":         u.Sanitized(),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresAt":    pair.AccessTokenExpiry,
	}, "login successful")
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	access, exp, err := h.Svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	response.OK(c, gin.H{"accessToken": access, "expiresAt": exp}, "token refreshed")
}

func (h *AuthHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.Profile(c.Request.Context(), uid)
	if err != nil {
		response.Fail(c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.OK(c, u.Sanitized(), "profile")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if sid, err := c.Cookie(middleware.SessionCookie); err == nil && sid != "" {
		if err := h.Svc.Logout(c.Request.Context(), sid); err != nil {
			h.Logger.WithError(err).Warn("session delete failed")
		}
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", h.CookieDomain, h.CookieSecure, true)
	response.OK(c, gin.H{"logged_out": true}, "logged out")
}

// Register creates a user account. Admin-gated: the public site has no
// self-service signup.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		var weak *application.WeakPasswordError
		switch {
		case errors.As(err, &weak):
			response.Fail(c, http.StatusBadRequest, "password does not meet requirements", gin.H{"password": weak.Reasons})
		case errors.Is(err, repository.ErrDuplicateUsername):
			response.Fail(c, http.StatusConflict, "username already taken", nil)
		default:
			h.Logger.WithError(err).Error("register failed")
			response.Fail(c, http.StatusInternalServerError, "could not create user", nil)
		}
		return
	}
	response.Created(c, u.Sanitized(), "user created")
}

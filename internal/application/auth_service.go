package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/technurture/backend/internal/domain/entity"
	"github.com/technurture/backend/internal/domain/repository"
	"github.com/technurture/backend/pkg/helpers"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// WeakPasswordError carries every policy rule the candidate password failed
// so the client can show all of them at once.
type WeakPasswordError struct {
	Reasons []string
}

func (e *WeakPasswordError) Error() string {
	return "password does not meet requirements: " + strings.Join(e.Reasons, "; ")
}

type AuthService struct {
	Store  repository.Storage
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewAuthService(store repository.Storage, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *AuthService {
	return &AuthService{Store: store, JWT: jwt, Redis: rdb, Logger: logger}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Authenticate validates username/password and returns the user without
// issuing tokens. Failures are uniform: a missing user and a wrong password
// are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	u, err := s.Store.GetUserByUsername(ctx, username)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and issues a token pair plus a server-side session
// used by the hybrid admin gate. Redis being down degrades to token-only
// auth rather than blocking logins.
func (s *AuthService) Login(ctx context.Context, username, password string) (*entity.User, TokenPair, string, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, TokenPair{}, "", err
	}
	pair, err := s.issueTokens(u)
	if err != nil {
		return nil, TokenPair{}, "", err
	}

	sid := helpers.GenerateSessionID()
	if s.Redis != nil {
		if err := helpers.SaveSession(ctx, s.Redis, sid, u.ID, u.Username, u.Role); err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("user_id", u.ID).Warn("session save failed")
			}
			sid = ""
		}
	} else {
		sid = ""
	}
	return u, pair, sid, nil
}

func (s *AuthService) issueTokens(u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, u.Username, u.Role)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, u.Username, u.Role)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated; it stays usable until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.JWT.Parse(refreshToken, helpers.TokenTypeRefresh)
	if err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	u, err := s.Store.GetUser(ctx, claims.UserID)
	if err != nil || u == nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	access, exp, err := s.JWT.GenerateAccessToken(u.ID, u.Username, u.Role)
	if err != nil {
		return "", time.Time{}, err
	}
	return access, exp, nil
}

// Register creates a user after enforcing the password policy. The role
// defaults to "user" in storage when empty.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if reasons := helpers.ValidatePassword(password); len(reasons) > 0 {
		return nil, &WeakPasswordError{Reasons: reasons}
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Username: username, Password: hash, Role: role}
	if err := s.Store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Profile returns the user behind an authenticated request.
func (s *AuthService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Store.GetUser(ctx, userID)
	if err != nil || u == nil {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

// Logout drops the server-side session. The JWTs stay valid until expiry;
// clients are expected to discard them.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if s.Redis == nil || sessionID == "" {
		return nil
	}
	return helpers.DeleteSession(ctx, s.Redis, sessionID)
}

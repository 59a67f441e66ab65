package application

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technurture/backend/internal/domain/repository"
	"github.com/technurture/backend/internal/infrastructure/memory"
	"github.com/technurture/backend/pkg/helpers"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()
	store, err := memory.NewStore("admin", "admin123")
	require.NoError(t, err)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	jwt := helpers.NewJWTManager("test-secret", 15*time.Minute, time.Hour)
	return NewAuthService(store, jwt, nil, logger)
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Authenticate(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)

	_, err = svc.Authenticate(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown user and bad password look identical")
}

func TestAuthenticateTrimsWhitespace(t *testing.T) {
	svc := newTestService(t)
	u, err := svc.Authenticate(context.Background(), "  admin  ", " admin123 ")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)
}

func TestLoginIssuesUsableTokens(t *testing.T) {
	svc := newTestService(t)

	u, pair, sid, err := svc.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Empty(t, sid, "no redis means no server-side session")

	claims, err := svc.JWT.Parse(pair.AccessToken, helpers.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	_, err = svc.JWT.Parse(pair.RefreshToken, helpers.TokenTypeRefresh)
	assert.NoError(t, err)
}

func TestRefresh(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, pair, _, err := svc.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	access, exp, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.JWT.Parse(access, helpers.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	// an access token is not accepted where a refresh token is expected
	_, _, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterEnforcesPasswordPolicy(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), "eve", "weak", "")
	var weak *WeakPasswordError
	require.ErrorAs(t, err, &weak)
	assert.NotEmpty(t, weak.Reasons)
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), "admin", "Str0ng!pass", "")
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
}

func TestRegisterHashesAndDefaultsRole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "eve", "Str0ng!pass", "")
	require.NoError(t, err)
	assert.Equal(t, "user", u.Role)
	assert.NotEqual(t, "Str0ng!pass", u.Password)

	got, err := svc.Authenticate(ctx, "eve", "Str0ng!pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

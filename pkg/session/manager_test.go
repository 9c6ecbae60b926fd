package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudsteer/console-core/pkg/observability"
)

func testLogger() *observability.Logger {
	return observability.NewLogger(observability.ErrorLevel, io.Discard)
}

// signToken builds a decodable HS256 token with console claims
func signToken(t *testing.T, roleType, domainID, workspaceID string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"rol": roleType,
		"did": domainID,
		"sub": "user-1",
		"exp": expiresAt.Unix(),
	}
	if workspaceID != "" {
		claims["wid"] = workspaceID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestManager_SetTokens(t *testing.T) {
	m := NewManager(testLogger())
	access := signToken(t, "WORKSPACE_OWNER", "domain-1", "ws-1", time.Now().Add(time.Hour))

	m.SetTokens(access, "refresh-1")

	assert.Equal(t, access, m.AccessToken())
	assert.Equal(t, "refresh-1", m.RefreshToken())

	claims := m.Claims()
	assert.Equal(t, "WORKSPACE_OWNER", claims.RoleType)
	assert.Equal(t, "domain-1", claims.DomainID)
	assert.Equal(t, "ws-1", claims.WorkspaceID)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestManager_SetAccessToken_KeepsRefreshToken(t *testing.T) {
	m := NewManager(testLogger())
	m.SetTokens(signToken(t, "USER", "domain-1", "", time.Now().Add(time.Hour)), "refresh-1")

	m.SetAccessToken(signToken(t, "DOMAIN_ADMIN", "domain-1", "", time.Now().Add(time.Hour)))

	assert.Equal(t, "refresh-1", m.RefreshToken())
	assert.Equal(t, "DOMAIN_ADMIN", m.Claims().RoleType)
}

func TestManager_IsTokenAlive(t *testing.T) {
	t.Run("empty manager", func(t *testing.T) {
		m := NewManager(testLogger())
		assert.False(t, m.IsTokenAlive())
	})

	t.Run("live token", func(t *testing.T) {
		m := NewManager(testLogger())
		m.SetTokens(signToken(t, "USER", "d", "", time.Now().Add(time.Hour)), "r")
		assert.True(t, m.IsTokenAlive())
	})

	t.Run("expired token", func(t *testing.T) {
		m := NewManager(testLogger())
		m.SetTokens(signToken(t, "USER", "d", "", time.Now().Add(-time.Minute)), "r")
		assert.False(t, m.IsTokenAlive())
	})

	t.Run("expiry crossed via injected clock", func(t *testing.T) {
		m := NewManager(testLogger())
		base := time.Now()
		m.SetTokens(signToken(t, "USER", "d", "", base.Add(time.Hour)), "r")

		m.SetClock(func() time.Time { return base })
		assert.True(t, m.IsTokenAlive())

		m.SetClock(func() time.Time { return base.Add(2 * time.Hour) })
		assert.False(t, m.IsTokenAlive())
	})

	t.Run("undecodable token", func(t *testing.T) {
		m := NewManager(testLogger())
		m.SetTokens("not-a-jwt", "r")
		assert.False(t, m.IsTokenAlive())
	})
}

func TestManager_Flush(t *testing.T) {
	m := NewManager(testLogger())
	m.SetTokens(signToken(t, "USER", "d", "", time.Now().Add(time.Hour)), "refresh-1")

	m.Flush()

	assert.Empty(t, m.AccessToken())
	assert.Empty(t, m.RefreshToken())
	assert.False(t, m.IsTokenAlive())
}

type fakeRefresher struct {
	token string
	err   error
	calls int
}

func (f *fakeRefresher) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	f.calls++
	return f.token, f.err
}

func TestManager_RefreshAccessToken(t *testing.T) {
	t.Run("no refresh token", func(t *testing.T) {
		m := NewManager(testLogger())
		m.SetRefresher(&fakeRefresher{})
		assert.False(t, m.RefreshAccessToken(context.Background()))
	})

	t.Run("no refresher wired", func(t *testing.T) {
		m := NewManager(testLogger())
		m.SetTokens(signToken(t, "USER", "d", "", time.Now().Add(time.Hour)), "refresh-1")
		assert.False(t, m.RefreshAccessToken(context.Background()))
	})

	t.Run("refresh failure", func(t *testing.T) {
		m := NewManager(testLogger())
		m.SetTokens(signToken(t, "USER", "d", "", time.Now().Add(-time.Minute)), "refresh-1")
		m.SetRefresher(&fakeRefresher{err: errors.New("grant rejected")})
		assert.False(t, m.RefreshAccessToken(context.Background()))
	})

	t.Run("refresh success replaces access token", func(t *testing.T) {
		m := NewManager(testLogger())
		m.SetTokens(signToken(t, "USER", "d", "", time.Now().Add(-time.Minute)), "refresh-1")

		fresh := signToken(t, "USER", "d", "", time.Now().Add(time.Hour))
		m.SetRefresher(&fakeRefresher{token: fresh})

		assert.True(t, m.RefreshAccessToken(context.Background()))
		assert.Equal(t, fresh, m.AccessToken())
		assert.Equal(t, "refresh-1", m.RefreshToken())
		assert.True(t, m.IsTokenAlive())
	})
}

func TestDecodeClaims(t *testing.T) {
	t.Run("invalid token", func(t *testing.T) {
		_, err := DecodeClaims("garbage")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("round trip", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		claims, err := DecodeClaims(signToken(t, "WORKSPACE_MEMBER", "domain-9", "ws-9", exp))
		require.NoError(t, err)
		assert.Equal(t, "WORKSPACE_MEMBER", claims.RoleType)
		assert.Equal(t, "ws-9", claims.WorkspaceID)
		assert.WithinDuration(t, exp, claims.ExpiresAt, time.Second)
	})
}

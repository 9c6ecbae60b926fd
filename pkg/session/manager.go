package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cloudsteer/console-core/pkg/observability"
)

var (
	// ErrNoRefreshToken is returned when a refresh is attempted without a refresh token
	ErrNoRefreshToken = errors.New("no refresh token")
	// ErrInvalidToken is returned when an access token cannot be decoded
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the console-relevant claims decoded from an access token
type Claims struct {
	RoleType    string
	DomainID    string
	WorkspaceID string
	UserID      string
	ExpiresAt   time.Time
}

// tokenClaims is the wire shape of the access token payload
type tokenClaims struct {
	RoleType    string `json:"rol"`
	DomainID    string `json:"did"`
	WorkspaceID string `json:"wid"`
	jwt.RegisteredClaims
}

// TokenRefresher exchanges a refresh token for a new access token.
// Wired to the identity client at bootstrap.
type TokenRefresher interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
}

// Manager is the process-wide token holder
type Manager struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	claims       Claims

	now       func() time.Time
	refresher TokenRefresher
	logger    *observability.Logger
}

// NewManager creates an empty session manager
func NewManager(logger *observability.Logger) *Manager {
	return &Manager{
		now:    time.Now,
		logger: logger,
	}
}

// SetRefresher wires the token refresher. Separate from the constructor
// because the identity client needs the manager to read tokens.
func (m *Manager) SetRefresher(r TokenRefresher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresher = r
}

// SetClock overrides the clock, for tests
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// SetTokens stores a new access token and, when non-empty, a new refresh token
func (m *Manager) SetTokens(accessToken, refreshToken string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accessToken = accessToken
	if refreshToken != "" {
		m.refreshToken = refreshToken
	}

	claims, err := DecodeClaims(accessToken)
	if err != nil {
		m.logger.WithError(err).Warn("failed to decode access token claims")
		m.claims = Claims{}
		return
	}
	m.claims = claims
}

// SetAccessToken replaces only the access token, keeping the refresh token
func (m *Manager) SetAccessToken(accessToken string) {
	m.SetTokens(accessToken, "")
}

// Flush clears all token state (sign-out)
func (m *Manager) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessToken = ""
	m.refreshToken = ""
	m.claims = Claims{}
}

// AccessToken returns the current access token, or empty
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accessToken
}

// RefreshToken returns the current refresh token, or empty
func (m *Manager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshToken
}

// Claims returns the claims decoded from the current access token
func (m *Manager) Claims() Claims {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.claims
}

// IsTokenAlive reports whether an access token is present and unexpired
func (m *Manager) IsTokenAlive() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.accessToken == "" {
		return false
	}
	if m.claims.ExpiresAt.IsZero() {
		return false
	}
	return m.now().Before(m.claims.ExpiresAt)
}

// RefreshAccessToken performs a silent token refresh. Returns false when no
// refresh token exists, no refresher is wired, or the exchange fails; the
// caller decides whether that forces a sign-out.
func (m *Manager) RefreshAccessToken(ctx context.Context) bool {
	m.mu.RLock()
	refreshToken := m.refreshToken
	refresher := m.refresher
	m.mu.RUnlock()

	if refreshToken == "" || refresher == nil {
		return false
	}

	accessToken, err := refresher.RefreshAccessToken(ctx, refreshToken)
	if err != nil {
		m.logger.WithError(err).Warn("silent token refresh failed")
		return false
	}

	m.SetAccessToken(accessToken)
	return true
}

// DecodeClaims decodes console claims from an access token without verifying
// the signature. Verification is the identity service's job; the console only
// reads the claims it minted.
func DecodeClaims(token string) (Claims, error) {
	var claims tokenClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return Claims{}, ErrInvalidToken
	}

	decoded := Claims{
		RoleType:    claims.RoleType,
		DomainID:    claims.DomainID,
		WorkspaceID: claims.WorkspaceID,
		UserID:      claims.Subject,
	}
	if claims.ExpiresAt != nil {
		decoded.ExpiresAt = claims.ExpiresAt.Time
	}
	return decoded, nil
}

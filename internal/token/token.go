package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quickbite/quickbite-api/internal/models"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
)

// refreshMarker is the type claim distinguishing refresh tokens from access
// tokens signed with the same secret.
const refreshMarker = "refresh"

// AccessClaims is the payload embedded in access tokens.
type AccessClaims struct {
	UserID string          `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload embedded in refresh tokens.
type RefreshClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Manager issues and verifies signed tokens. It is a pure function of its
// configuration and the clock; nothing is persisted here.
type Manager struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewManager builds a Manager from the process configuration.
func NewManager(secret string, accessExpiry, refreshExpiry time.Duration) *Manager {
	return &Manager{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// AccessExpiry returns the configured access-token lifetime.
func (m *Manager) AccessExpiry() time.Duration {
	return m.accessExpiry
}

// IssueAccessToken mints a short-lived token carrying identity and role.
func (m *Manager) IssueAccessToken(userID string, role models.UserRole) (string, error) {
	now := time.Now().UTC()
	claims := &AccessClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// IssueRefreshToken mints a long-lived token carrying the refresh marker.
func (m *Manager) IssueRefreshToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := &RefreshClaims{
		UserID:    userID,
		TokenType: refreshMarker,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// VerifyAccessToken validates signature and expiry and returns the claims.
func (m *Manager) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, m.keyFunc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// VerifyRefreshToken validates signature and expiry, and additionally rejects
// tokens whose type claim is not the refresh marker. An access token replayed
// on the refresh endpoint fails here even though it shares the signing secret.
func (m *Manager) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &RefreshClaims{}, m.keyFunc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid refresh token")
	}

	claims, ok := parsed.Claims.(*RefreshClaims)
	if !ok || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid refresh token claims")
	}
	if claims.TokenType != refreshMarker {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token type")
	}
	return claims, nil
}

func (m *Manager) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method != jwt.SigningMethodHS256 {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return m.secret, nil
}

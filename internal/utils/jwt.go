package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/HYG-0822/myauth/internal/domain"
)

// Token codec failure modes. Callers branch on these: an expired token means
// "call refresh", anything else means "re-authenticate".
var (
	ErrTokenExpired   = errors.New("token is expired")
	ErrTokenMalformed = errors.New("token is malformed")
)

// JWTManager creates and parses signed, time-bound tokens. The secret and
// TTLs are fixed at construction; the codec itself is stateless and safe for
// concurrent use.
type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccessToken signs a short-lived token carrying the subject email, the
// user id and the "access" type claim.
func (j *JWTManager) IssueAccessToken(email string, userID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     email,
		"user_id": userID,
		"type":    domain.TokenTypeAccess,
		"iat":     now.Unix(),
		"exp":     now.Add(j.accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, nil
}

// IssueRefreshToken signs a long-lived token carrying the subject email, the
// "refresh" type claim and a unique jti so individual tokens can be revoked.
func (j *JWTManager) IssueRefreshToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  email,
		"type": domain.TokenTypeRefresh,
		"jti":  uuid.New().String(),
		"iat":  now.Unix(),
		"exp":  now.Add(j.refreshTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return signed, nil
}

// Parse verifies the signature and expiry of a token and returns its claims.
// Expired tokens fail with ErrTokenExpired; every other failure (bad
// signature, corrupt structure, empty input, wrong algorithm) collapses to
// ErrTokenMalformed so no partial trust is granted.
func (j *JWTManager) Parse(tokenString string) (*domain.TokenClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMalformed
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	claims := &domain.TokenClaims{}

	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	} else {
		return nil, ErrTokenMalformed
	}

	if typ, ok := mapClaims["type"].(string); ok {
		claims.TokenType = typ
	}
	if id, ok := mapClaims["user_id"].(float64); ok {
		claims.UserID = int64(id)
	}
	if jti, ok := mapClaims["jti"].(string); ok {
		claims.JTI = jti
	}
	if iat, ok := mapClaims["iat"].(float64); ok {
		claims.IssuedAt = int64(iat)
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = int64(exp)
	}

	return claims, nil
}

// AccessTTLSeconds returns the access token lifetime in seconds, for
// expires_in response fields.
func (j *JWTManager) AccessTTLSeconds() int {
	return int(j.accessTTL.Seconds())
}

// RefreshExpiry returns the expiry instant a refresh token issued now would
// carry. The session store persists this next to the token string.
func (j *JWTManager) RefreshExpiry() time.Time {
	return time.Now().Add(j.refreshTTL)
}

// RefreshTTL returns the configured refresh token lifetime.
func (j *JWTManager) RefreshTTL() time.Duration {
	return j.refreshTTL
}

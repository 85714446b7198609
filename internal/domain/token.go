package domain

import "time"

// Token type claim values.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims is the verified payload of a signed token.
type TokenClaims struct {
	Subject   string `json:"sub"`     // user email
	UserID    int64  `json:"user_id"` // present on access tokens
	TokenType string `json:"type"`
	JTI       string `json:"jti"` // present on refresh tokens
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// RefreshToken is the persisted session credential backing a signed refresh
// token. The row is the administrative source of truth: a token can be
// cryptographically valid yet revoked here.
type RefreshToken struct {
	ID         int64      `json:"id" db:"id"`
	UserID     int64      `json:"user_id" db:"user_id"`
	Token      string     `json:"-" db:"token"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	Revoked    bool       `json:"revoked" db:"revoked"`
	LastUsedAt *time.Time `json:"last_used_at" db:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// IsValid reports whether the row is still usable: not revoked and not past
// its expiry.
func (t *RefreshToken) IsValid(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}

package domain

import "time"

// Role is the closed set of authorities a user can hold.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Status is the account lifecycle state. Accounts are never hard-deleted;
// they transition to StatusDeleted instead.
type Status string

const (
	StatusActive              Status = "ACTIVE"
	StatusInactive            Status = "INACTIVE"
	StatusSuspended           Status = "SUSPENDED"
	StatusDeleted             Status = "DELETED"
	StatusPendingVerification Status = "PENDING_VERIFICATION"
)

// User represents a user in the system. Email is always stored normalized
// (trimmed, lower-cased) and is unique.
type User struct {
	ID                  int64      `json:"id" db:"id"`
	Email               string     `json:"email" db:"email"`
	Name                string     `json:"name" db:"name"`
	PasswordHash        string     `json:"-" db:"password_hash"`
	Role                Role       `json:"role" db:"role"`
	Status              Status     `json:"status" db:"status"`
	IsActive            bool       `json:"is_active" db:"is_active"`
	AccountLockedUntil  *time.Time `json:"account_locked_until" db:"account_locked_until"`
	FailedLoginAttempts int        `json:"failed_login_attempts" db:"failed_login_attempts"`
	LastLoginAt         *time.Time `json:"last_login_at" db:"last_login_at"`
	LastLoginIP         *string    `json:"last_login_ip" db:"last_login_ip"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// GateReason classifies why a correctly-authenticated account may still not
// log in. GateOK means no gate applies.
type GateReason string

const (
	GateOK                  GateReason = "OK"
	GateInactive            GateReason = "INACTIVE"
	GateSuspended           GateReason = "SUSPENDED"
	GateDeleted             GateReason = "DELETED"
	GatePendingVerification GateReason = "PENDING_VERIFICATION"
	GateBlocked             GateReason = "BLOCKED"
)

// LoginGate evaluates the account-status gates in order: the active flag
// first, then the lifecycle status. It runs only after identity is confirmed,
// so returning a specific reason leaks nothing to an attacker.
func (u *User) LoginGate() GateReason {
	if !u.IsActive {
		return GateInactive
	}

	switch u.Status {
	case StatusActive:
		return GateOK
	case StatusSuspended:
		return GateSuspended
	case StatusDeleted:
		return GateDeleted
	case StatusInactive:
		return GateInactive
	case StatusPendingVerification:
		return GatePendingVerification
	default:
		return GateBlocked
	}
}

// AuthenticatedIdentity is the request-scoped result of identity resolution:
// the loaded user plus the single authority derived from its role. It is
// constructed once per request and never shared across requests.
type AuthenticatedIdentity struct {
	User      *User
	Authority Role
}

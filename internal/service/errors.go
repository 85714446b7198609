package service

import (
	"errors"
	"fmt"

	"github.com/HYG-0822/myauth/internal/domain"
)

// Common service errors
var (
	// ErrInvalidCredentials is returned for unknown email and wrong password
	// alike; the two cases must stay indistinguishable to clients
	ErrInvalidCredentials = errors.New("email or password incorrect")

	// ErrInvalidRefreshToken is returned when a refresh token is expired,
	// malformed, revoked, blacklisted or simply unknown
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrNotFound is returned when the requested resource does not exist or
	// is not visible to the caller
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned when the caller lacks permission on a resource
	ErrForbidden = errors.New("insufficient permission")

	// ErrSelfFollow is returned when a user tries to follow themselves
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrAlreadyExists is returned for duplicate likes, follows and bookmarks
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrReplyDepth is returned when replying to a reply
	ErrReplyDepth = errors.New("replies cannot be nested")

	// ErrValidation wraps input validation failures
	ErrValidation = errors.New("validation failed")
)

// AccountGateError reports that credentials were correct but the account's
// state blocks login. Raised only after password verification, so the
// specific reason leaks nothing about credential validity.
type AccountGateError struct {
	Reason domain.GateReason
}

func (e *AccountGateError) Error() string {
	return fmt.Sprintf("account gate: %s", e.Reason)
}

// Message returns the client-facing text for the gate.
func (e *AccountGateError) Message() string {
	switch e.Reason {
	case domain.GateInactive:
		return "account is deactivated, contact support"
	case domain.GateSuspended:
		return "account is suspended, contact support"
	case domain.GateDeleted:
		return "account has been deleted"
	case domain.GatePendingVerification:
		return "email verification required"
	default:
		return "account cannot log in"
	}
}

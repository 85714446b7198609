package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to create a user with an existing email
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateName is returned when trying to create a user with an existing display name
	ErrDuplicateName = errors.New("user with this name already exists")

	// ErrDuplicateToken is returned when trying to store a refresh token that already exists
	ErrDuplicateToken = errors.New("refresh token already exists")

	// ErrDuplicateLike is returned when a user likes the same target twice
	ErrDuplicateLike = errors.New("target already liked")

	// ErrDuplicateFollow is returned when a follow relation already exists
	ErrDuplicateFollow = errors.New("follow relation already exists")

	// ErrDuplicateBookmark is returned when a post is already bookmarked
	ErrDuplicateBookmark = errors.New("post already bookmarked")
)

const uniqueViolation = "23505"

package repo_errors

import "errors"

var (
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when an insert collides with a uniqueness
	// constraint, such as a second bid for the same (gig, bidder) pair.
	ErrConflict = errors.New("record already exists")

	// ErrInvalidState is returned when the stored row's lifecycle stage
	// rejects the operation, such as hiring on a gig that is no longer open.
	ErrInvalidState = errors.New("record state disallows operation")
)

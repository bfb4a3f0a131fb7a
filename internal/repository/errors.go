package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("repository: record not found")
	// ErrEmailTaken and ErrUsernameTaken report a violated unique constraint on users.
	ErrEmailTaken    = errors.New("repository: email already exists")
	ErrUsernameTaken = errors.New("repository: username already exists")
	// ErrOwnerMissing means the referenced user row does not exist (FK violation).
	ErrOwnerMissing = errors.New("repository: owner does not exist")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"

	usersEmailKey    = "users_email_key"
	usersUsernameKey = "users_username_key"
)

// classifyUserWriteError maps constraint violations on users to sentinel errors.
func classifyUserWriteError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pqUniqueViolation {
		return nil
	}
	switch pqErr.Constraint {
	case usersEmailKey:
		return ErrEmailTaken
	case usersUsernameKey:
		return ErrUsernameTaken
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}

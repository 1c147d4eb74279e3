package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// Error kinds returned by the service layer. Handlers match these with
// errors.Is and translate them into flash messages and redirects.
var (
	// ErrValidation marks malformed or missing user input. The wrapped
	// message is safe to show to the user.
	ErrValidation = errors.New("invalid input")

	// ErrConflict marks a uniqueness violation (username or email taken).
	ErrConflict = errors.New("already exists")

	// ErrNotFound covers both a genuinely absent record and one owned by
	// another account; the two are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned for any failed login, without
	// indicating which of the fields was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// isUniqueViolation reports whether err is a unique-constraint error from
// either supported driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return true
	}
	return false
}

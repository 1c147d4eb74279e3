package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cinelog/models"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// registerForm carries the validation rules for new accounts: all fields
// required, username at least 3 characters, password at least 6.
type registerForm struct {
	Username string `validate:"required,min=3,max=100"`
	Email    string `validate:"required,email,max=120"`
	Password string `validate:"required,min=6"`
}

type AuthService struct {
	db       *sqlx.DB
	validate *validator.Validate
}

func NewAuthService(db *sqlx.DB) *AuthService {
	return &AuthService{db: db, validate: validator.New()}
}

// Register creates a new account with a bcrypt password digest. It returns
// ErrValidation for malformed input and ErrConflict when the username or
// email is already taken.
func (s *AuthService) Register(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	form := registerForm{Username: username, Email: email, Password: password}
	if err := s.validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, registerMessage(err))
	}

	var count int
	err := s.db.Get(&count,
		s.db.Rebind("SELECT COUNT(*) FROM users WHERE username = ? OR email = ?"),
		username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: username or email taken", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user models.User
	err = s.db.Get(&user,
		s.db.Rebind(`INSERT INTO users (username, email, password_hash)
			VALUES (?, ?, ?)
			RETURNING id, username, email, password_hash, created_at`),
		username, email, string(hash))
	if err != nil {
		// The unique index backstops the count check under concurrency.
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username or email taken", ErrConflict)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	return &user, nil
}

// Authenticate returns the account on a password match. Unknown usernames
// and wrong passwords both come back as ErrInvalidCredentials.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	err := s.db.Get(&user,
		s.db.Rebind("SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?"),
		strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (s *AuthService) GetUserByID(userID int64) (*models.User, error) {
	var user models.User
	err := s.db.Get(&user,
		s.db.Rebind("SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?"),
		userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

// registerMessage turns the first validator error into a message suitable
// for a flash.
func registerMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "all fields are required"
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Username":
		if fe.Tag() == "min" {
			return "username must be at least 3 characters"
		}
		return "username is required"
	case "Email":
		if fe.Tag() == "email" {
			return "email address is not valid"
		}
		return "email is required"
	case "Password":
		if fe.Tag() == "min" {
			return "password must be at least 6 characters"
		}
		return "password is required"
	}
	return "all fields are required"
}

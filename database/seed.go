package database

import (
	"fmt"

	"cinelog/config"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// SeedBootstrapUser creates the configured bootstrap account if it does not
// exist yet. Seeding is skipped when no bootstrap password is configured.
func SeedBootstrapUser(db *sqlx.DB, cfg *config.Config) error {
	if cfg.Bootstrap.Password == "" {
		return nil
	}

	var count int
	err := db.Get(&count, db.Rebind("SELECT COUNT(*) FROM users WHERE username = ?"), cfg.Bootstrap.Username)
	if err != nil {
		return fmt.Errorf("failed to check for existing bootstrap user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Bootstrap.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	_, err = db.Exec(
		db.Rebind("INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)"),
		cfg.Bootstrap.Username, cfg.Bootstrap.Email, string(hash),
	)
	if err != nil {
		return fmt.Errorf("failed to seed bootstrap user: %w", err)
	}
	return nil
}

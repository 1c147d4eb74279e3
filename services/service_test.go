package services

import (
	"testing"

	"cinelog/database"
	"cinelog/models"

	"github.com/jmoiron/sqlx"
)

// newTestDB opens an in-memory SQLite store with the real migrations
// applied.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Connect("file::memory:?_fk=1")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, auth *AuthService, username string) *models.User {
	t.Helper()

	user, err := auth.Register(username, username+"@example.com", "secret1")
	if err != nil {
		t.Fatalf("failed to create test user %s: %v", username, err)
	}
	return user
}

func intPtr(n int) *int { return &n }

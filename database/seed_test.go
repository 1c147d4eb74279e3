package database

import (
	"testing"

	"cinelog/config"

	"github.com/jmoiron/sqlx"
)

func TestSeedBootstrapUser(t *testing.T) {
	newDB := func(t *testing.T) *sqlx.DB {
		t.Helper()
		db, err := Connect("file::memory:?_fk=1")
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		if err := RunMigrations(db); err != nil {
			t.Fatalf("migrations: %v", err)
		}
		return db
	}

	userCount := func(t *testing.T, db *sqlx.DB) int {
		t.Helper()
		var count int
		if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
			t.Fatalf("count users: %v", err)
		}
		return count
	}

	t.Run("skipped without a password", func(t *testing.T) {
		db := newDB(t)
		cfg := &config.Config{Bootstrap: config.BootstrapConfig{Username: "admin", Email: "admin@cinelog.local"}}

		if err := SeedBootstrapUser(db, cfg); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if n := userCount(t, db); n != 0 {
			t.Errorf("expected no users, got %d", n)
		}
	})

	t.Run("creates the account once", func(t *testing.T) {
		db := newDB(t)
		cfg := &config.Config{Bootstrap: config.BootstrapConfig{
			Username: "admin",
			Email:    "admin@cinelog.local",
			Password: "hunter22",
		}}

		if err := SeedBootstrapUser(db, cfg); err != nil {
			t.Fatalf("first seed: %v", err)
		}
		if err := SeedBootstrapUser(db, cfg); err != nil {
			t.Fatalf("second seed: %v", err)
		}
		if n := userCount(t, db); n != 1 {
			t.Errorf("expected exactly one user, got %d", n)
		}
	})
}

package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the store described by databaseURL. A postgres:// URL uses
// the pgx driver; anything else is treated as a SQLite file path, which is
// also the default. SQLite is limited to a single connection since it allows
// only one writer.
func Connect(databaseURL string) (*sqlx.DB, error) {
	driver, dsn := driverFor(databaseURL)

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	return db, nil
}

func driverFor(databaseURL string) (driver, dsn string) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return "pgx", databaseURL
	}

	dsn = strings.TrimPrefix(databaseURL, "sqlite://")
	// Foreign keys are off by default in SQLite; the schema relies on them.
	if !strings.Contains(dsn, "_fk=") {
		if strings.Contains(dsn, "?") {
			dsn += "&_fk=1"
		} else {
			dsn += "?_fk=1"
		}
	}
	return "sqlite3", dsn
}

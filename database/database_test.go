package database

import "testing"

func TestDriverFor(t *testing.T) {
	cases := []struct {
		name       string
		url        string
		wantDriver string
		wantDSN    string
	}{
		{"postgres url", "postgres://u:p@localhost/cinelog", "pgx", "postgres://u:p@localhost/cinelog"},
		{"postgresql url", "postgresql://localhost/cinelog", "pgx", "postgresql://localhost/cinelog"},
		{"bare file path", "cinelog.db", "sqlite3", "cinelog.db?_fk=1"},
		{"sqlite scheme stripped", "sqlite://cinelog.db", "sqlite3", "cinelog.db?_fk=1"},
		{"existing query params", "file::memory:?cache=shared", "sqlite3", "file::memory:?cache=shared&_fk=1"},
		{"foreign keys already set", "cinelog.db?_fk=1", "sqlite3", "cinelog.db?_fk=1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			driver, dsn := driverFor(tc.url)
			if driver != tc.wantDriver || dsn != tc.wantDSN {
				t.Errorf("driverFor(%q) = (%q, %q), want (%q, %q)",
					tc.url, driver, dsn, tc.wantDriver, tc.wantDSN)
			}
		})
	}
}

func TestMigrationsAreRepeatable(t *testing.T) {
	db, err := Connect("file::memory:?_fk=1")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := RunMigrations(db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := RunMigrations(db); err != nil {
		t.Fatalf("second run: %v", err)
	}

	for _, table := range []string{"users", "movies", "reviews"} {
		var count int
		if err := db.Get(&count, "SELECT COUNT(*) FROM "+table); err != nil {
			t.Errorf("table %s missing after migrations: %v", table, err)
		}
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db, err := Connect("file::memory:?_fk=1")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()
	if err := RunMigrations(db); err != nil {
		t.Fatalf("migrations: %v", err)
	}

	_, err = db.Exec(`INSERT INTO movies (user_id, title, year, status, added_at)
		VALUES (42, 'Orphan', '', 'watchlist', CURRENT_TIMESTAMP)`)
	if err == nil {
		t.Error("expected a foreign key violation for a movie without an owner")
	}
}

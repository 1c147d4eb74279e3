package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS movies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	tmdb_id INTEGER,
	title TEXT NOT NULL,
	year TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'watchlist'
		CHECK (status IN ('watchlist', 'watching', 'watched')),
	poster_path TEXT NOT NULL DEFAULT '',
	backdrop_path TEXT NOT NULL DEFAULT '',
	overview TEXT NOT NULL DEFAULT '',
	runtime INTEGER,
	genres TEXT NOT NULL DEFAULT '',
	vote_average REAL,
	user_rating INTEGER,
	added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	watched_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_movies_user ON movies(user_id);
CREATE INDEX IF NOT EXISTS idx_movies_user_tmdb ON movies(user_id, tmdb_id);

CREATE TABLE IF NOT EXISTS reviews (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	movie_id INTEGER NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
	content TEXT NOT NULL,
	rating INTEGER,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_reviews_movie ON reviews(movie_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username VARCHAR(100) UNIQUE NOT NULL,
	email VARCHAR(120) UNIQUE NOT NULL,
	password_hash VARCHAR(200) NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS movies (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	tmdb_id BIGINT,
	title VARCHAR(200) NOT NULL,
	year VARCHAR(10) NOT NULL DEFAULT '',
	status VARCHAR(50) NOT NULL DEFAULT 'watchlist'
		CHECK (status IN ('watchlist', 'watching', 'watched')),
	poster_path VARCHAR(300) NOT NULL DEFAULT '',
	backdrop_path VARCHAR(300) NOT NULL DEFAULT '',
	overview TEXT NOT NULL DEFAULT '',
	runtime INTEGER,
	genres VARCHAR(200) NOT NULL DEFAULT '',
	vote_average DOUBLE PRECISION,
	user_rating INTEGER,
	added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	watched_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_movies_user ON movies(user_id);
CREATE INDEX IF NOT EXISTS idx_movies_user_tmdb ON movies(user_id, tmdb_id);

CREATE TABLE IF NOT EXISTS reviews (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	movie_id BIGINT NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
	content TEXT NOT NULL,
	rating INTEGER,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_reviews_movie ON reviews(movie_id);
`

// RunMigrations creates the schema for the connected driver's dialect.
// All statements are idempotent.
func RunMigrations(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == "pgx" {
		schema = postgresSchema
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

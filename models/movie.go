package models

import "time"

// Lifecycle statuses for a library movie.
const (
	StatusWatchlist = "watchlist"
	StatusWatching  = "watching"
	StatusWatched   = "watched"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusWatchlist, StatusWatching, StatusWatched:
		return true
	}
	return false
}

// Movie is a user's personal library entry, independent of the TMDB record
// it may have been imported from.
type Movie struct {
	ID           int64      `db:"id"`
	UserID       int64      `db:"user_id"`
	TMDBID       *int64     `db:"tmdb_id"`
	Title        string     `db:"title"`
	Year         string     `db:"year"`
	Status       string     `db:"status"`
	PosterPath   string     `db:"poster_path"`
	BackdropPath string     `db:"backdrop_path"`
	Overview     string     `db:"overview"`
	Runtime      *int       `db:"runtime"` // minutes
	Genres       string     `db:"genres"`  // comma-separated genre names
	VoteAverage  *float64   `db:"vote_average"`
	UserRating   *int       `db:"user_rating"` // personal rating 1-10
	AddedAt      time.Time  `db:"added_at"`
	WatchedAt    *time.Time `db:"watched_at"`
}

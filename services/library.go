package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinelog/models"
	"cinelog/tmdb"

	"github.com/jmoiron/sqlx"
)

const movieColumns = `id, user_id, tmdb_id, title, year, status, poster_path,
	backdrop_path, overview, runtime, genres, vote_average, user_rating,
	added_at, watched_at`

// MovieCatalog is the slice of the catalog client the library needs for
// imports.
type MovieCatalog interface {
	MovieDetails(ctx context.Context, tmdbID int64) (*tmdb.Movie, error)
}

type LibraryService struct {
	db      *sqlx.DB
	catalog MovieCatalog
}

func NewLibraryService(db *sqlx.DB, catalog MovieCatalog) *LibraryService {
	return &LibraryService{db: db, catalog: catalog}
}

// LibraryStats are the dashboard counters for one account.
type LibraryStats struct {
	Total     int `db:"total"`
	Watchlist int `db:"watchlist"`
	Watching  int `db:"watching"`
	Watched   int `db:"watched"`
}

// AddManual creates a library entry from user-supplied fields. Status
// defaults to watchlist; a title that is empty after trimming is rejected.
func (s *LibraryService) AddManual(userID int64, title, year, status string) (*models.Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if status == "" {
		status = models.StatusWatchlist
	}
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	now := time.Now().UTC()
	var watchedAt *time.Time
	if status == models.StatusWatched {
		watchedAt = &now
	}

	var movie models.Movie
	err := s.db.Get(&movie,
		s.db.Rebind(`INSERT INTO movies (user_id, title, year, status, added_at, watched_at)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING `+movieColumns),
		userID, title, strings.TrimSpace(year), status, now, watchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add movie: %w", err)
	}
	return &movie, nil
}

// ImportFromTMDB copies a catalog record into the user's library. Importing
// a tmdb id that is already in the library is idempotent: the existing entry
// is returned with created=false and no duplicate is made.
func (s *LibraryService) ImportFromTMDB(ctx context.Context, userID, tmdbID int64, status string) (movie *models.Movie, created bool, err error) {
	if status == "" {
		status = models.StatusWatchlist
	}
	if !models.ValidStatus(status) {
		return nil, false, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	var existing models.Movie
	err = s.db.Get(&existing,
		s.db.Rebind("SELECT "+movieColumns+" FROM movies WHERE user_id = ? AND tmdb_id = ?"),
		userID, tmdbID)
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to check library: %w", err)
	}

	details, err := s.catalog.MovieDetails(ctx, tmdbID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: no catalog record for id %d", ErrNotFound, tmdbID)
		}
		return nil, false, err
	}

	year := details.ReleaseDate
	if len(year) > 4 {
		year = year[:4]
	}

	genreNames := make([]string, 0, len(details.Genres))
	for _, g := range details.Genres {
		genreNames = append(genreNames, g.Name)
	}

	var runtime *int
	if details.Runtime > 0 {
		runtime = &details.Runtime
	}
	var voteAverage *float64
	if details.VoteAverage > 0 {
		voteAverage = &details.VoteAverage
	}

	now := time.Now().UTC()
	var watchedAt *time.Time
	if status == models.StatusWatched {
		watchedAt = &now
	}

	var m models.Movie
	err = s.db.Get(&m,
		s.db.Rebind(`INSERT INTO movies (user_id, tmdb_id, title, year, status, poster_path,
				backdrop_path, overview, runtime, genres, vote_average, added_at, watched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING `+movieColumns),
		userID, details.ID, details.Title, year, status, details.PosterPath,
		details.BackdropPath, details.Overview, runtime,
		strings.Join(genreNames, ", "), voteAverage, now, watchedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to import movie: %w", err)
	}
	return &m, true, nil
}

// List returns the user's library, optionally restricted to one status.
// sortKey is one of "title", "year", "rating", "added" (default).
func (s *LibraryService) List(userID int64, statusFilter, sortKey string) ([]models.Movie, error) {
	query := "SELECT " + movieColumns + " FROM movies WHERE user_id = ?"
	args := []interface{}{userID}

	if models.ValidStatus(statusFilter) {
		query += " AND status = ?"
		args = append(args, statusFilter)
	}

	switch sortKey {
	case "title":
		query += " ORDER BY title ASC"
	case "year":
		query += " ORDER BY year DESC, added_at DESC"
	case "rating":
		query += " ORDER BY user_rating DESC NULLS LAST, added_at DESC"
	default:
		query += " ORDER BY added_at DESC, id DESC"
	}

	movies := []models.Movie{}
	if err := s.db.Select(&movies, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

// Get fetches one entry scoped to its owner. An entry owned by someone else
// is reported exactly like a missing one.
func (s *LibraryService) Get(userID, movieID int64) (*models.Movie, error) {
	var movie models.Movie
	err := s.db.Get(&movie,
		s.db.Rebind("SELECT "+movieColumns+" FROM movies WHERE id = ? AND user_id = ?"),
		movieID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	return &movie, nil
}

// UpdateStatus moves an entry to a new lifecycle status. watched_at is set
// on the first transition into watched and never touched again.
func (s *LibraryService) UpdateStatus(userID, movieID int64, status string) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	var res sql.Result
	var err error
	if status == models.StatusWatched {
		res, err = s.db.Exec(
			s.db.Rebind(`UPDATE movies SET status = ?, watched_at = COALESCE(watched_at, ?)
				WHERE id = ? AND user_id = ?`),
			status, time.Now().UTC(), movieID, userID)
	} else {
		res, err = s.db.Exec(
			s.db.Rebind("UPDATE movies SET status = ? WHERE id = ? AND user_id = ?"),
			status, movieID, userID)
	}
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return requireRow(res)
}

// Rate sets the personal rating. Values outside 1-10 are rejected without
// touching the stored rating.
func (s *LibraryService) Rate(userID, movieID int64, rating int) error {
	if rating < 1 || rating > 10 {
		return fmt.Errorf("%w: rating must be between 1 and 10", ErrValidation)
	}

	res, err := s.db.Exec(
		s.db.Rebind("UPDATE movies SET user_rating = ? WHERE id = ? AND user_id = ?"),
		rating, movieID, userID)
	if err != nil {
		return fmt.Errorf("failed to set rating: %w", err)
	}
	return requireRow(res)
}

// Delete removes an entry and its reviews in one transaction. The reviews
// are deleted explicitly rather than left to the FK cascade so the whole
// removal is observable as a single atomic routine.
func (s *LibraryService) Delete(userID, movieID int64) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.Get(&id,
		tx.Rebind("SELECT id FROM movies WHERE id = ? AND user_id = ?"),
		movieID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to check movie: %w", err)
	}

	if _, err := tx.Exec(tx.Rebind("DELETE FROM reviews WHERE movie_id = ?"), movieID); err != nil {
		return fmt.Errorf("failed to delete reviews: %w", err)
	}
	if _, err := tx.Exec(tx.Rebind("DELETE FROM movies WHERE id = ?"), movieID); err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	return tx.Commit()
}

// Stats returns the dashboard counters for one account.
func (s *LibraryService) Stats(userID int64) (*LibraryStats, error) {
	var stats LibraryStats
	err := s.db.Get(&stats, s.db.Rebind(`
		SELECT COUNT(*) AS total,
			COUNT(CASE WHEN status = 'watchlist' THEN 1 END) AS watchlist,
			COUNT(CASE WHEN status = 'watching' THEN 1 END) AS watching,
			COUNT(CASE WHEN status = 'watched' THEN 1 END) AS watched
		FROM movies WHERE user_id = ?`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return &stats, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

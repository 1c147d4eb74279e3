package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinelog/models"

	"github.com/jmoiron/sqlx"
)

type ReviewService struct {
	db *sqlx.DB
}

func NewReviewService(db *sqlx.DB) *ReviewService {
	return &ReviewService{db: db}
}

// Add creates a review for one of the user's own movies. A rating, when
// present, must be 1-10 and is also written through to the movie's personal
// rating.
func (s *ReviewService) Add(userID, movieID int64, content string, rating *int) (*models.Review, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: review content is required", ErrValidation)
	}
	if rating != nil && (*rating < 1 || *rating > 10) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 10", ErrValidation)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var ownedID int64
	err = tx.Get(&ownedID,
		tx.Rebind("SELECT id FROM movies WHERE id = ? AND user_id = ?"),
		movieID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to check movie: %w", err)
	}

	now := time.Now().UTC()
	var review models.Review
	err = tx.Get(&review,
		tx.Rebind(`INSERT INTO reviews (user_id, movie_id, content, rating, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id, user_id, movie_id, content, rating, created_at, updated_at`),
		userID, movieID, content, rating, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to add review: %w", err)
	}

	if rating != nil {
		_, err = tx.Exec(
			tx.Rebind("UPDATE movies SET user_rating = ? WHERE id = ?"),
			*rating, movieID)
		if err != nil {
			return nil, fmt.Errorf("failed to update movie rating: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit review: %w", err)
	}
	return &review, nil
}

// ListForMovie returns the user's reviews for one movie, newest first.
func (s *ReviewService) ListForMovie(userID, movieID int64) ([]models.Review, error) {
	reviews := []models.Review{}
	err := s.db.Select(&reviews,
		s.db.Rebind(`SELECT id, user_id, movie_id, content, rating, created_at, updated_at
			FROM reviews WHERE movie_id = ? AND user_id = ?
			ORDER BY created_at DESC, id DESC`),
		movieID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// Delete removes one of the user's reviews.
func (s *ReviewService) Delete(userID, reviewID int64) error {
	res, err := s.db.Exec(
		s.db.Rebind("DELETE FROM reviews WHERE id = ? AND user_id = ?"),
		reviewID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return requireRow(res)
}

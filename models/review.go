package models

import "time"

type Review struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	MovieID   int64     `db:"movie_id"`
	Content   string    `db:"content"`
	Rating    *int      `db:"rating"` // optional 1-10
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

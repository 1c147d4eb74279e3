package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"cinelog/middleware"
)

// Library lists the user's movies with optional ?filter= (status) and
// ?sort= (title, year, rating, added).
func (h *Handler) Library(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	filter := r.URL.Query().Get("filter")
	sort := r.URL.Query().Get("sort")

	movies, err := h.library.List(user.ID, filter, sort)
	if err != nil {
		h.flashError(w, r, err)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	h.render(w, r, "library", map[string]interface{}{
		"Movies": movies,
		"Filter": filter,
		"Sort":   sort,
	})
}

func (h *Handler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	id, err := parseID(r, "id")
	if err != nil {
		http.Redirect(w, r, "/library", http.StatusSeeOther)
		return
	}

	movie, err := h.library.Get(user.ID, id)
	if err != nil {
		h.flashError(w, r, err)
		http.Redirect(w, r, "/library", http.StatusSeeOther)
		return
	}

	reviews, err := h.reviews.ListForMovie(user.ID, id)
	if err != nil {
		slog.Error("failed to list reviews", "movie_id", id, "error", err)
	}

	h.render(w, r, "movie_details", map[string]interface{}{
		"Movie":   movie,
		"Reviews": reviews,
	})
}

func (h *Handler) AddMoviePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "add_movie", nil)
}

func (h *Handler) AddMovie(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	movie, err := h.library.AddManual(user.ID,
		r.FormValue("title"), r.FormValue("year"), r.FormValue("status"))
	if err != nil {
		h.flashError(w, r, err)
		http.Redirect(w, r, "/add_movie", http.StatusSeeOther)
		return
	}

	slog.Info("movie added", "user_id", user.ID, "movie_id", movie.ID, "title", movie.Title)
	h.sessions.Flash(w, r, "success", "Movie added.")
	http.Redirect(w, r, "/library", http.StatusSeeOther)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	id, err := parseID(r, "id")
	if err != nil {
		http.Redirect(w, r, "/library", http.StatusSeeOther)
		return
	}

	if err := h.library.UpdateStatus(user.ID, id, r.FormValue("status")); err != nil {
		h.flashError(w, r, err)
	} else {
		h.sessions.Flash(w, r, "success", "Status updated.")
	}
	http.Redirect(w, r, "/library", http.StatusSeeOther)
}

func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	id, err := parseID(r, "id")
	if err != nil {
		http.Redirect(w, r, "/library", http.StatusSeeOther)
		return
	}

	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil {
		h.sessions.Flash(w, r, "warning", "Rating must be a number between 1 and 10.")
		http.Redirect(w, r, "/library", http.StatusSeeOther)
		return
	}

	if err := h.library.Rate(user.ID, id, rating); err != nil {
		h.flashError(w, r, err)
	} else {
		h.sessions.Flash(w, r, "success", "Rating saved.")
	}
	http.Redirect(w, r, "/library", http.StatusSeeOther)
}

func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	id, err := parseID(r, "id")
	if err != nil {
		http.Redirect(w, r, "/library", http.StatusSeeOther)
		return
	}

	if err := h.library.Delete(user.ID, id); err != nil {
		h.flashError(w, r, err)
	} else {
		slog.Info("movie deleted", "user_id", user.ID, "movie_id", id)
		h.sessions.Flash(w, r, "success", "Movie removed from library.")
	}
	http.Redirect(w, r, "/library", http.StatusSeeOther)
}

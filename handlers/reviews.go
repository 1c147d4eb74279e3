package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"cinelog/middleware"
	"cinelog/services"
)

// ReviewRedirect sends GET /review/{id} to the movie page, where the review
// form lives.
func (h *Handler) ReviewRedirect(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		http.Redirect(w, r, "/library", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/movie/%d", id), http.StatusSeeOther)
}

func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	id, err := parseID(r, "id")
	if err != nil {
		http.Redirect(w, r, "/library", http.StatusSeeOther)
		return
	}
	moviePage := fmt.Sprintf("/movie/%d", id)

	var rating *int
	if v := r.FormValue("rating"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.sessions.Flash(w, r, "warning", "Rating must be a number between 1 and 10.")
			http.Redirect(w, r, moviePage, http.StatusSeeOther)
			return
		}
		rating = &n
	}

	if _, err := h.reviews.Add(user.ID, id, r.FormValue("content"), rating); err != nil {
		h.flashError(w, r, err)
		if errors.Is(err, services.ErrNotFound) {
			http.Redirect(w, r, "/library", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, moviePage, http.StatusSeeOther)
		return
	}

	h.sessions.Flash(w, r, "success", "Review added.")
	http.Redirect(w, r, moviePage, http.StatusSeeOther)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	id, err := parseID(r, "id")
	if err != nil {
		http.Redirect(w, r, "/library", http.StatusSeeOther)
		return
	}

	if err := h.reviews.Delete(user.ID, id); err != nil {
		h.flashError(w, r, err)
	} else {
		h.sessions.Flash(w, r, "success", "Review deleted.")
	}

	// The delete form carries the movie id so we can land back on its page.
	if movieID := r.FormValue("movie_id"); movieID != "" {
		http.Redirect(w, r, "/movie/"+movieID, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/library", http.StatusSeeOther)
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"cinelog/middleware"
	"cinelog/services"
	"cinelog/tmdb"
)

// Search queries the external catalog. A catalog outage or missing API key
// shows an empty result set, never an error page.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	var results tmdb.Page
	if query != "" {
		results = h.catalog.SearchMovies(r.Context(), query, page)
	}

	data := map[string]interface{}{
		"Query":   query,
		"Results": results,
		"Page":    page,
	}
	if page > 1 {
		data["PrevPage"] = page - 1
	}
	if page < results.TotalPages {
		data["NextPage"] = page + 1
	}
	h.render(w, r, "search", data)
}

// Discover shows the catalog's popular and trending movies.
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "discover", map[string]interface{}{
		"Popular":  h.catalog.Popular(r.Context(), 1),
		"Trending": h.catalog.Trending(r.Context(), 1),
	})
}

// Import copies a catalog record into the user's library. Importing an id
// already present returns the existing entry without creating a duplicate.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	tmdbID, err := parseID(r, "tmdbID")
	if err != nil {
		http.Redirect(w, r, "/search", http.StatusSeeOther)
		return
	}

	movie, created, err := h.library.ImportFromTMDB(r.Context(), user.ID, tmdbID, r.FormValue("status"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.sessions.Flash(w, r, "danger", "No catalog record for that movie.")
		} else {
			h.flashError(w, r, err)
		}
		http.Redirect(w, r, "/search", http.StatusSeeOther)
		return
	}

	if !created {
		h.sessions.Flash(w, r, "warning", "\""+movie.Title+"\" is already in your library.")
		http.Redirect(w, r, "/library", http.StatusSeeOther)
		return
	}

	slog.Info("movie imported", "user_id", user.ID, "tmdb_id", tmdbID, "title", movie.Title)
	h.sessions.Flash(w, r, "success", "Imported \""+movie.Title+"\".")
	http.Redirect(w, r, "/library", http.StatusSeeOther)
}

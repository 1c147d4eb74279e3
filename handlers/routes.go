package handlers

import (
	"net/http"

	"cinelog/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Routes assembles the full router: public pages, then everything behind
// the session guard.
func (h *Handler) Routes(auth *middleware.Auth) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logging)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	r.Get("/", h.Home)
	r.Get("/register", h.RegisterPage)
	r.Post("/register", h.Register)
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)

		r.Get("/dashboard", h.Dashboard)
		r.Get("/library", h.Library)
		r.Get("/add_movie", h.AddMoviePage)
		r.Post("/add_movie", h.AddMovie)
		r.Get("/movie/{id}", h.MovieDetails)
		r.Post("/update_status/{id}", h.UpdateStatus)
		r.Post("/rate/{id}", h.Rate)
		r.Post("/delete_movie/{id}", h.DeleteMovie)

		r.Get("/review/{id}", h.ReviewRedirect)
		r.Post("/review/{id}", h.AddReview)
		r.Post("/delete_review/{id}", h.DeleteReview)

		r.Get("/search", h.Search)
		r.Get("/discover", h.Discover)
		r.Post("/import/{tmdbID}", h.Import)
	})

	return r
}

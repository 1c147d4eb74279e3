package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"cinelog/config"
	"cinelog/middleware"
	"cinelog/services"
	"cinelog/tmdb"

	"github.com/go-chi/chi/v5"
)

// pages are the templates parsed at startup, each against the base layout.
var pages = []string{
	"home", "login", "register", "dashboard", "library",
	"add_movie", "movie_details", "search", "discover",
}

// Handler carries every dependency the route handlers need. It is built
// once in main and shared; there is no package-level state.
type Handler struct {
	cfg       *config.Config
	sessions  *services.Sessions
	auth      *services.AuthService
	library   *services.LibraryService
	reviews   *services.ReviewService
	catalog   *tmdb.Client
	templates map[string]*template.Template
}

func New(cfg *config.Config, sessions *services.Sessions, auth *services.AuthService,
	library *services.LibraryService, reviews *services.ReviewService,
	catalog *tmdb.Client, templatesDir string) (*Handler, error) {

	h := &Handler{
		cfg:       cfg,
		sessions:  sessions,
		auth:      auth,
		library:   library,
		reviews:   reviews,
		catalog:   catalog,
		templates: make(map[string]*template.Template, len(pages)),
	}

	for _, name := range pages {
		tmpl, err := template.ParseFiles(
			filepath.Join(templatesDir, "layouts", "base.html"),
			filepath.Join(templatesDir, "pages", name+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		h.templates[name] = tmpl
	}

	return h, nil
}

// render executes a page template inside the base layout, attaching flash
// messages and the signed-in account to the data.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	tmpl, ok := h.templates[name]
	if !ok {
		slog.Error("unknown template", "template", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = map[string]interface{}{}
	}
	data["Flashes"] = h.sessions.TakeFlashes(w, r)
	data["ImageBase"] = tmdb.ImageBaseURL
	data["CatalogEnabled"] = h.catalog.Enabled()
	if user := middleware.CurrentUser(r.Context()); user != nil {
		data["SignedIn"] = true
		data["Username"] = user.Username
	}

	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// flashError translates a service error into a flash message. Internal
// errors are logged and surfaced generically.
func (h *Handler) flashError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		h.sessions.Flash(w, r, "warning", validationMessage(err))
	case errors.Is(err, services.ErrConflict):
		h.sessions.Flash(w, r, "danger", "Username or email already exists.")
	case errors.Is(err, services.ErrInvalidCredentials):
		h.sessions.Flash(w, r, "danger", "Invalid username or password.")
	case errors.Is(err, services.ErrNotFound):
		h.sessions.Flash(w, r, "danger", "Not found.")
	case errors.Is(err, tmdb.ErrUnavailable):
		h.sessions.Flash(w, r, "danger", "The movie database is currently unavailable. Try again later.")
	default:
		slog.Error("request failed", "path", r.URL.Path, "error", err)
		h.sessions.Flash(w, r, "danger", "Something went wrong.")
	}
}

// validationMessage extracts the user-facing detail from a wrapped
// ErrValidation.
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	if msg == "" {
		return "Invalid input."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

// parseID reads an integer URL parameter.
func parseID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}

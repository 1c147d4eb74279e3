package handlers

import (
	"log/slog"
	"net/http"
)

// Home renders the landing page, or sends signed-in users straight to the
// dashboard.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.UserID(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.render(w, r, "home", nil)
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register", nil)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.auth.Register(username, email, password)
	if err != nil {
		slog.Warn("registration failed", "username", username, "error", err)
		h.flashError(w, r, err)
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	slog.Info("user registered", "username", user.Username, "user_id", user.ID)
	h.sessions.Flash(w, r, "success", "Registration successful. Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", nil)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.auth.Authenticate(username, password)
	if err != nil {
		slog.Warn("login failed", "username", username)
		h.flashError(w, r, err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := h.sessions.SignIn(w, r, user.ID); err != nil {
		slog.Error("failed to establish session", "username", username, "error", err)
		h.sessions.Flash(w, r, "danger", "Failed to create session.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	slog.Info("user logged in", "username", user.Username, "user_id", user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(w, r); err != nil {
		slog.Debug("failed to clear session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

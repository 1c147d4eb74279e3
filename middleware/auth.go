package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"cinelog/models"
	"cinelog/services"
)

type contextKey struct{ name string }

var userKey = &contextKey{"user"}

// Auth guards routes that need a signed-in account.
type Auth struct {
	sessions *services.Sessions
	users    *services.AuthService
}

func NewAuth(sessions *services.Sessions, users *services.AuthService) *Auth {
	return &Auth{sessions: sessions, users: users}
}

// RequireUser resolves the session account, verifies it still exists and
// stashes it in the request context; anonymous requests are redirected to
// the login page.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := a.sessions.UserID(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		user, err := a.users.GetUserByID(userID)
		if err != nil {
			slog.Debug("session user no longer exists", "user_id", userID, "path", r.URL.Path)
			a.sessions.SignOut(w, r)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// CurrentUser returns the account resolved by RequireUser, or nil.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

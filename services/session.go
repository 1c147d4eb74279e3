package services

import (
	"encoding/gob"
	"fmt"
	"net/http"

	"cinelog/config"

	"github.com/gorilla/sessions"
)

const sessionName = "cinelog-session"

// FlashMessage is a one-shot notice rendered by the base layout.
// Category is one of "success", "warning", "danger".
type FlashMessage struct {
	Category string
	Message  string
}

func init() {
	gob.Register(FlashMessage{})
}

// Sessions wraps the signed cookie store used for login sessions and flash
// messages.
type Sessions struct {
	store *sessions.CookieStore
}

func NewSessions(cfg *config.Config) *Sessions {
	store := sessions.NewCookieStore([]byte(cfg.SecretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

func (s *Sessions) get(r *http.Request) (*sessions.Session, error) {
	return s.store.Get(r, sessionName)
}

// SignIn associates the session with the given user id.
func (s *Sessions) SignIn(w http.ResponseWriter, r *http.Request, userID int64) error {
	session, err := s.get(r)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	session.Values["user_id"] = userID
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// SignOut clears the session and expires its cookie.
func (s *Sessions) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, err := s.get(r)
	if err != nil {
		return err
	}
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// UserID resolves the signed-in user id, if any.
func (s *Sessions) UserID(r *http.Request) (int64, bool) {
	session, err := s.get(r)
	if err != nil {
		return 0, false
	}
	switch v := session.Values["user_id"].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

// Flash queues a one-shot message for the next rendered page.
func (s *Sessions) Flash(w http.ResponseWriter, r *http.Request, category, message string) {
	session, err := s.get(r)
	if err != nil {
		return
	}
	session.AddFlash(FlashMessage{Category: category, Message: message})
	session.Save(r, w)
}

// TakeFlashes returns and clears any queued flash messages.
func (s *Sessions) TakeFlashes(w http.ResponseWriter, r *http.Request) []FlashMessage {
	session, err := s.get(r)
	if err != nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	session.Save(r, w)

	flashes := make([]FlashMessage, 0, len(raw))
	for _, f := range raw {
		if fm, ok := f.(FlashMessage); ok {
			flashes = append(flashes, fm)
		}
	}
	return flashes
}

package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"cinelog/config"
	"cinelog/database"
	"cinelog/middleware"
	"cinelog/models"
	"cinelog/services"
	"cinelog/tmdb"
)

type stubCatalog struct {
	movies map[int64]*tmdb.Movie
}

func (s *stubCatalog) MovieDetails(_ context.Context, tmdbID int64) (*tmdb.Movie, error) {
	m, ok := s.movies[tmdbID]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return m, nil
}

type testApp struct {
	srv     *httptest.Server
	auth    *services.AuthService
	library *services.LibraryService
}

// newTestApp wires the full router against an in-memory database and a
// canned catalog, the same way main does.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := database.Connect("file::memory:?_fk=1")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	cfg := &config.Config{
		SecretKey:   "test-secret-key",
		Environment: "development",
	}
	sessions := services.NewSessions(cfg)
	auth := services.NewAuthService(db)
	catalog := &stubCatalog{movies: map[int64]*tmdb.Movie{
		329865: {
			ID:          329865,
			Title:       "Arrival",
			ReleaseDate: "2016-11-10",
			Runtime:     116,
			VoteAverage: 7.6,
			Genres:      []tmdb.Genre{{ID: 878, Name: "Science Fiction"}},
		},
	}}
	library := services.NewLibraryService(db, catalog)
	reviews := services.NewReviewService(db)

	h, err := New(cfg, sessions, auth, library, reviews, tmdb.New(""), "../templates")
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}

	srv := httptest.NewServer(h.Routes(middleware.NewAuth(sessions, auth)))
	t.Cleanup(srv.Close)

	return &testApp{srv: srv, auth: auth, library: library}
}

// newClient returns an HTTP client that carries cookies and follows
// redirects, like a browser.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

// signIn registers an account directly and logs the client in through the
// login form.
func (a *testApp) signIn(t *testing.T, client *http.Client, username string) *models.User {
	t.Helper()

	user, err := a.auth.Register(username, username+"@example.com", "secret1")
	if err != nil {
		t.Fatalf("failed to register %s: %v", username, err)
	}

	resp, err := client.PostForm(a.srv.URL+"/login", url.Values{
		"username": {username},
		"password": {"secret1"},
	})
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login ended with status %d", resp.StatusCode)
	}
	if !strings.Contains(body, username) {
		t.Fatalf("expected dashboard to greet %s", username)
	}
	return user
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

func TestPing(t *testing.T) {
	app := newTestApp(t)

	resp, err := http.Get(app.srv.URL + "/ping")
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if body := readBody(t, resp); body != "pong" {
		t.Errorf("expected pong, got %q", body)
	}
}

func TestGuardedRoutesRedirectAnonymousUsers(t *testing.T) {
	app := newTestApp(t)
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	for _, path := range []string{"/dashboard", "/library", "/add_movie", "/search"} {
		resp, err := client.Get(app.srv.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("%s: expected 303, got %d", path, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/login" {
			t.Errorf("%s: expected redirect to /login, got %q", path, loc)
		}
	}
}

func TestRegisterThenLogin(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)

	resp, err := client.PostForm(app.srv.URL+"/register", url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"secret1"},
	})
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Registration successful") {
		t.Errorf("expected success flash after registration")
	}

	resp, err = client.PostForm(app.srv.URL+"/login", url.Values{
		"username": {"alice"},
		"password": {"secret1"},
	})
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	body = readBody(t, resp)
	if !strings.Contains(body, "alice") {
		t.Errorf("expected dashboard to greet the signed-in user")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)
	app.signIn(t, newClient(t), "alice")

	resp, err := client.PostForm(app.srv.URL+"/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Invalid username or password") {
		t.Errorf("expected a credentials flash, got page without it")
	}
}

func TestAddMovieFlow(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)
	app.signIn(t, client, "alice")

	resp, err := client.PostForm(app.srv.URL+"/add_movie", url.Values{
		"title":  {"Arrival"},
		"year":   {"2016"},
		"status": {"watchlist"},
	})
	if err != nil {
		t.Fatalf("add movie request: %v", err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Arrival") {
		t.Errorf("expected the library page to list the new movie")
	}
	if !strings.Contains(body, "Movie added") {
		t.Errorf("expected a success flash")
	}
}

func TestImportFlow(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)
	app.signIn(t, client, "alice")

	resp, err := client.PostForm(app.srv.URL+"/import/329865", url.Values{})
	if err != nil {
		t.Fatalf("import request: %v", err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Arrival") {
		t.Errorf("expected the library page to list the imported movie")
	}

	resp, err = client.PostForm(app.srv.URL+"/import/329865", url.Values{})
	if err != nil {
		t.Fatalf("repeat import request: %v", err)
	}
	body = readBody(t, resp)
	if !strings.Contains(body, "already in your library") {
		t.Errorf("expected a warning flash on repeat import")
	}
}

func TestOwnershipIsolation(t *testing.T) {
	app := newTestApp(t)
	aliceClient := newClient(t)
	bobClient := newClient(t)
	alice := app.signIn(t, aliceClient, "alice")
	app.signIn(t, bobClient, "bob")

	movie, err := app.library.AddManual(alice.ID, "Arrival", "2016", "")
	if err != nil {
		t.Fatalf("add movie: %v", err)
	}
	id := strconv.FormatInt(movie.ID, 10)

	t.Run("another account cannot view the entry", func(t *testing.T) {
		resp, err := bobClient.Get(app.srv.URL + "/movie/" + id)
		if err != nil {
			t.Fatalf("get movie: %v", err)
		}
		body := readBody(t, resp)
		if strings.Contains(body, "Arrival") {
			t.Error("another account can see the entry")
		}
		if !strings.Contains(body, "Not found") {
			t.Error("expected a not-found flash")
		}
	})

	t.Run("another account cannot delete the entry", func(t *testing.T) {
		resp, err := bobClient.PostForm(app.srv.URL+"/delete_movie/"+id, url.Values{})
		if err != nil {
			t.Fatalf("delete request: %v", err)
		}
		readBody(t, resp)

		if _, err := app.library.Get(alice.ID, movie.ID); err != nil {
			t.Errorf("entry should survive a foreign delete: %v", err)
		}
	})
}

func TestLogoutEndsSession(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)
	app.signIn(t, client, "alice")

	resp, err := client.Get(app.srv.URL + "/logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	readBody(t, resp)

	noRedirect := &http.Client{
		Jar: client.Jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err = noRedirect.Get(app.srv.URL + "/dashboard")
	if err != nil {
		t.Fatalf("dashboard after logout: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("expected redirect after logout, got %d", resp.StatusCode)
	}
}

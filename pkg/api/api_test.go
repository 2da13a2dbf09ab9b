package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"codegate/pkg/auth"
	"codegate/pkg/files"
	"codegate/pkg/health"
	"codegate/pkg/protocol"
	"codegate/pkg/storage"
)

func newTestRouter(t *testing.T, store storage.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewHandler(
		auth.NewAuthenticator("secret"),
		auth.NewRateLimiter(100, time.Minute),
		store,
		files.New(""),
		health.NewMonitor(nil),
		nil,
	)

	router := gin.New()
	handler.RegisterRoutes(router, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
	}, nil)
	return router
}

func postLogin(router *gin.Engine, form url.Values, cookie string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: cookie})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestLoginSuccess(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postLogin(router, url.Values{"password": {"secret"}}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp protocol.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success=true")
	}

	// Cookie carries the plaintext submitted password.
	cookies := w.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == auth.CookieName {
			found = true
			if c.Value != "secret" {
				t.Errorf("Expected cookie value 'secret', got '%s'", c.Value)
			}
		}
	}
	if !found {
		t.Fatal("Expected Set-Cookie with the credential")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postLogin(router, url.Values{"password": {"wrong"}}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("No cookie may be set on a failed login")
	}
}

func TestLoginMissingPassword(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postLogin(router, url.Values{}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
}

func TestLoginArrayPassword(t *testing.T) {
	router := newTestRouter(t, nil)

	// An array-valued field is treated as absent even when one of the
	// values is the real password.
	w := postLogin(router, url.Values{"password": {"secret", "secret"}}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
}

func TestLoginAlreadyAuthenticated(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postLogin(router, url.Values{}, "secret")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			t.Error("Existing session must not get a new cookie")
		}
	}
}

func TestLoginRoundTrip(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postLogin(router, url.Values{"password": {"secret"}}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("Login failed: %d", w.Code)
	}

	var cookieValue string
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			cookieValue = c.Value
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/api/applications", nil)
	r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: cookieValue})
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, r)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200 with login cookie, got %d", w2.Code)
	}
}

func TestLoginFailureAudited(t *testing.T) {
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	router := newTestRouter(t, store)

	r := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("password=wrong"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("X-Forwarded-For", "203.0.113.7")
	r.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	attempts, err := store.RecentLoginAttempts(1)
	if err != nil {
		t.Fatalf("Failed to query attempts: %v", err)
	}
	if len(attempts) != 1 {
		t.Fatalf("Expected 1 audit record, got %d", len(attempts))
	}
	if attempts[0].ForwardedFor != "203.0.113.7" {
		t.Errorf("Expected forwarded-for '203.0.113.7', got '%s'", attempts[0].ForwardedFor)
	}
	if attempts[0].UserAgent != "test-agent" {
		t.Errorf("Expected user agent 'test-agent', got '%s'", attempts[0].UserAgent)
	}
	if attempts[0].Timestamp == 0 {
		t.Error("Expected a unix timestamp")
	}
}

func TestApplicationsListing(t *testing.T) {
	router := newTestRouter(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/applications", nil)
	r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "secret"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp protocol.ApplicationsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	found := false
	for _, app := range resp.Applications {
		if app.Name == "VS Code" && app.Path == "/vscode" {
			found = true
		}
	}
	if !found {
		t.Error("Expected the fixed 'VS Code' entry")
	}
}

func TestFilesListing(t *testing.T) {
	router := newTestRouter(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "secret"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp protocol.FilesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Files == nil {
		t.Error("Files listing should be present even when empty")
	}
}

func TestResourcesRequireAuth(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/api/applications", "/api/files", "/api/health"} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		// Unrelated headers must not influence the result.
		r.Header.Set("X-Forwarded-For", "203.0.113.7")
		r.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, w.Code)
		}
	}
}

func TestResourcesRejectWrongCookie(t *testing.T) {
	router := newTestRouter(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/applications", nil)
	r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "wrong"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestLoginGetFallsThrough(t *testing.T) {
	router := newTestRouter(t, nil)

	// Non-POST on the login path is "no route" and defers to the fallback.
	r := httptest.NewRequest(http.MethodGet, "/api/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 from the fallback, got %d", w.Code)
	}
}

func TestLoginRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(
		auth.NewAuthenticator("secret"),
		auth.NewRateLimiter(2, time.Minute),
		nil,
		files.New(""),
		health.NewMonitor(nil),
		nil,
	)
	router := gin.New()
	handler.RegisterRoutes(router, func(w http.ResponseWriter, r *http.Request) {}, nil)

	for i := 0; i < 2; i++ {
		w := postLogin(router, url.Values{"password": {"wrong"}}, "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("Attempt %d: expected 401, got %d", i+1, w.Code)
		}
	}

	w := postLogin(router, url.Values{"password": {"wrong"}}, "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 after exceeding the limit, got %d", w.Code)
	}
}

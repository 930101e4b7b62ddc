package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/logpulse/logpulse/internal/duckdb"
	"github.com/logpulse/logpulse/internal/hub"
	"github.com/logpulse/logpulse/internal/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testRemoteIP is the address httptest.NewRequest assigns to requests.
const testRemoteIP = "192.0.2.1"

func newTestServer(t *testing.T, conf ...Config) (*Server, *duckdb.Store, *gin.Engine) {
	t.Helper()
	limiter := ratelimit.New(ratelimit.Config{MaxRequests: 1000, Window: time.Minute})
	t.Cleanup(limiter.Stop)
	return newTestServerWithLimiter(t, limiter, conf...)
}

func newTestServerWithLimiter(t *testing.T, limiter *ratelimit.Limiter, conf ...Config) (*Server, *duckdb.Store, *gin.Engine) {
	t.Helper()
	store, err := duckdb.NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := Config{}
	if len(conf) > 0 {
		cfg = conf[0]
	}
	srv := NewServer(cfg, store, limiter, hub.New())
	srv.startTime = time.Now()

	return srv, store, srv.routes()
}

func whitelistTestCaller(t *testing.T, store *duckdb.Store) {
	t.Helper()
	if _, err := store.CreateWhitelistEntry(testRemoteIP, "test caller"); err != nil {
		t.Fatalf("CreateWhitelistEntry: %v", err)
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestHealthEndpoint(t *testing.T) {
	_, _, r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeBody(t, w)
	if body["status"] != "ok" {
		t.Errorf("health status = %v, want ok", body["status"])
	}
}

func TestCORSHeadersOnEveryResponse(t *testing.T) {
	_, _, r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/logs", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.example" {
		t.Errorf("Allow-Origin = %q, want request origin", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, X-API-Key, Authorization" {
		t.Errorf("Allow-Headers = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, PUT, DELETE, OPTIONS" {
		t.Errorf("Allow-Methods = %q", got)
	}
}

func TestCORSAllowOriginFallsBackToWildcard(t *testing.T) {
	_, _, r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/logs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin without Origin header = %q, want *", got)
	}
}

func TestPreflightAlwaysSucceeds(t *testing.T) {
	_, _, r := newTestServer(t)

	// No auth, no rate-limit budget consumed: preflight short-circuits.
	for _, path := range []string{"/log", "/logs", "/api-keys", "/ip-whitelist"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("OPTIONS %s = %d, want %d", path, w.Code, http.StatusNoContent)
		}
	}
}

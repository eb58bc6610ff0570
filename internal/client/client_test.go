// ABOUTME: Tests for the authenticated API gateway
// ABOUTME: Uses httptest to exercise bearer attachment and the 401 repair cycle

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeCreds is an in-memory CredentialSource for tests.
type fakeCreds struct {
	mu      sync.Mutex
	access  string
	refresh string

	setAccessCalls int
	clearCalls     int
}

func (f *fakeCreds) AccessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.access
}

func (f *fakeCreds) RefreshToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refresh
}

func (f *fakeCreds) SetAccessToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access = token
	f.setAccessCalls++
	return nil
}

func (f *fakeCreds) ClearTokens() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access = ""
	f.refresh = ""
	f.clearCalls++
	return nil
}

func TestRequest_AttachesBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer A1" {
			t.Errorf("expected Authorization 'Bearer A1', got %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header to be set")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	creds := &fakeCreds{access: "A1", refresh: "R1"}
	c := New(server.URL, creds)

	raw, err := c.Request(context.Background(), http.MethodGet, "/rentals/properties/", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"ok":true}` {
		t.Errorf("unexpected body: %s", raw)
	}
}

func TestRequest_AnonymousHasNoAuthorizationHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no Authorization header, got %q", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(server.URL, &fakeCreds{})
	if _, err := c.Request(context.Background(), http.MethodGet, "/rentals/featured/", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequest_ConnectionError(t *testing.T) {
	c := New("http://127.0.0.1:1", &fakeCreds{})
	_, err := c.Request(context.Background(), http.MethodGet, "/rentals/properties/", nil)
	if err == nil {
		t.Error("expected connection error, got nil")
	}
}

func TestRequest_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(server.URL, &fakeCreds{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Request(ctx, http.MethodGet, "/rentals/properties/", nil)
	if err == nil {
		t.Error("expected error for canceled context, got nil")
	}
}

// Expired access token: the gateway exchanges the refresh token, stores the
// new access token, retries once, and the caller sees only the final success.
func TestRepairCycle_RefreshAndRetry(t *testing.T) {
	var rentalCalls, refreshCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token/refresh/":
			atomic.AddInt32(&refreshCalls, 1)
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["refresh"] != "R1" {
				t.Errorf("expected refresh token R1, got %q", body["refresh"])
			}
			json.NewEncoder(w).Encode(map[string]string{"access": "A2"})
		case "/rentals/properties/my/":
			atomic.AddInt32(&rentalCalls, 1)
			if r.Header.Get("Authorization") != "Bearer A2" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "token expired"})
				return
			}
			json.NewEncoder(w).Encode(RentalPage{Count: 1, Results: []Rental{{ID: 1, Title: "Room near campus"}}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	creds := &fakeCreds{access: "A1", refresh: "R1"}
	c := New(server.URL, creds)

	page, err := c.MyRentals(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Results) != 1 || page.Results[0].Title != "Room near campus" {
		t.Errorf("unexpected page: %+v", page)
	}
	if got := atomic.LoadInt32(&refreshCalls); got != 1 {
		t.Errorf("expected 1 refresh call, got %d", got)
	}
	if got := atomic.LoadInt32(&rentalCalls); got != 2 {
		t.Errorf("expected original request sent twice, got %d", got)
	}
	if creds.AccessToken() != "A2" {
		t.Errorf("expected stored access token A2, got %q", creds.AccessToken())
	}
	if creds.setAccessCalls != 1 {
		t.Errorf("expected access token stored once, got %d", creds.setAccessCalls)
	}
}

// Refresh exchange itself rejected: both tokens cleared, the expired hook
// fires after teardown, and the caller's error is terminal.
func TestRepairCycle_RefreshRejected(t *testing.T) {
	var refreshCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token/refresh/":
			atomic.AddInt32(&refreshCalls, 1)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "token is blacklisted"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "token expired"})
		}
	}))
	defer server.Close()

	creds := &fakeCreds{access: "A1", refresh: "R1"}
	expiredClearedFirst := false
	var hookCalls int

	c := New(server.URL, creds, OnSessionExpired(func() {
		hookCalls++
		expiredClearedFirst = creds.AccessToken() == "" && creds.RefreshToken() == ""
	}))

	_, err := c.MyRentals(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsSessionExpired(err) {
		t.Errorf("expected session-expired error, got %v", err)
	}
	if got := atomic.LoadInt32(&refreshCalls); got != 1 {
		t.Errorf("expected 1 refresh call, got %d", got)
	}
	if creds.AccessToken() != "" || creds.RefreshToken() != "" {
		t.Error("expected both tokens cleared")
	}
	if hookCalls != 1 {
		t.Errorf("expected expired hook fired once, got %d", hookCalls)
	}
	if !expiredClearedFirst {
		t.Error("expected tokens cleared before the expired hook fired")
	}
}

// 401 twice in a row: exactly one refresh exchange and exactly one retry,
// then a terminal failure. Never a second refresh attempt.
func TestRepairCycle_AtMostOneRetry(t *testing.T) {
	var rentalCalls, refreshCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token/refresh/":
			atomic.AddInt32(&refreshCalls, 1)
			json.NewEncoder(w).Encode(map[string]string{"access": "A2"})
		default:
			atomic.AddInt32(&rentalCalls, 1)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "still rejected"})
		}
	}))
	defer server.Close()

	creds := &fakeCreds{access: "A1", refresh: "R1"}
	c := New(server.URL, creds)

	_, err := c.MyRentals(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsSessionExpired(err) {
		t.Errorf("expected session-expired error, got %v", err)
	}
	if got := atomic.LoadInt32(&refreshCalls); got != 1 {
		t.Errorf("expected exactly 1 refresh call, got %d", got)
	}
	if got := atomic.LoadInt32(&rentalCalls); got != 2 {
		t.Errorf("expected exactly 1 retry (2 attempts), got %d attempts", got)
	}
	if creds.AccessToken() != "" || creds.RefreshToken() != "" {
		t.Error("expected both tokens cleared after terminal failure")
	}
}

// No refresh token stored: the repair cycle short-circuits to teardown
// without calling the refresh endpoint.
func TestRepairCycle_NoRefreshToken(t *testing.T) {
	var refreshCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/token/refresh/" {
			atomic.AddInt32(&refreshCalls, 1)
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "token expired"})
	}))
	defer server.Close()

	creds := &fakeCreds{access: "A1"}
	c := New(server.URL, creds)

	_, err := c.MyRentals(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsSessionExpired(err) {
		t.Errorf("expected session-expired error, got %v", err)
	}
	if got := atomic.LoadInt32(&refreshCalls); got != 0 {
		t.Errorf("expected no refresh calls, got %d", got)
	}
	if creds.clearCalls == 0 {
		t.Error("expected stored credentials cleared")
	}
}

// Concurrent 401s share one in-flight refresh exchange.
func TestRepairCycle_CoalescesConcurrentRefreshes(t *testing.T) {
	var refreshCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token/refresh/":
			atomic.AddInt32(&refreshCalls, 1)
			time.Sleep(50 * time.Millisecond)
			json.NewEncoder(w).Encode(map[string]string{"access": "A2"})
		default:
			if r.Header.Get("Authorization") != "Bearer A2" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "token expired"})
				return
			}
			json.NewEncoder(w).Encode(RentalPage{})
		}
	}))
	defer server.Close()

	creds := &fakeCreds{access: "A1", refresh: "R1"}
	c := New(server.URL, creds)

	const workers = 5
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.MyRentals(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("worker %d: unexpected error: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&refreshCalls); got != 1 {
		t.Errorf("expected concurrent repairs to share 1 refresh call, got %d", got)
	}
}

// Non-401 failures surface unmodified, with no repair attempt.
func TestRequest_ServerErrorNoRetry(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "database unavailable", "details": "connection refused"})
	}))
	defer server.Close()

	creds := &fakeCreds{access: "A1", refresh: "R1"}
	c := New(server.URL, creds)

	_, err := c.Request(context.Background(), http.MethodGet, "/rentals/properties/", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 attempt, got %d", got)
	}
	if !strings.Contains(err.Error(), "database unavailable: connection refused") {
		t.Errorf("expected extracted message in error, got %v", err)
	}
	if creds.AccessToken() != "A1" {
		t.Error("expected session untouched by non-auth failure")
	}
}

// The new access token must be durably stored before the retry goes out.
func TestRepairCycle_TokenStoredBeforeRetry(t *testing.T) {
	creds := &fakeCreds{access: "A1", refresh: "R1"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/token/refresh/":
			json.NewEncoder(w).Encode(map[string]string{"access": "A2"})
		default:
			if r.Header.Get("Authorization") == "Bearer A2" && creds.AccessToken() != "A2" {
				t.Error("retry observed before new token was stored")
			}
			if r.Header.Get("Authorization") != "Bearer A2" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "token expired"})
				return
			}
			json.NewEncoder(w).Encode(RentalPage{})
		}
	}))
	defer server.Close()

	c := New(server.URL, creds)
	if _, err := c.MyRentals(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ABOUTME: Tests for the session lifecycle store
// ABOUTME: Covers atomic login/register, idempotent logout, and rehydration

package session

import (
	"context"
	"errors"
	"testing"

	"github.com/campusrentalfinder/campusctl/internal/client"
)

// fakeAPI is a scripted gateway for store tests.
type fakeAPI struct {
	loginResp    *client.AuthResponse
	loginErr     error
	registerResp *client.AuthResponse
	registerErr  error
	logoutErr    error
	profileResp  *client.User
	profileErr   error

	logoutCalls  int
	logoutToken  string
	profileCalls int
}

func (f *fakeAPI) Login(ctx context.Context, input client.LoginInput) (*client.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) Register(ctx context.Context, input client.RegisterInput) (*client.AuthResponse, error) {
	return f.registerResp, f.registerErr
}

func (f *fakeAPI) Logout(ctx context.Context, refreshToken string) error {
	f.logoutCalls++
	f.logoutToken = refreshToken
	return f.logoutErr
}

func (f *fakeAPI) Profile(ctx context.Context) (*client.User, error) {
	f.profileCalls++
	return f.profileResp, f.profileErr
}

func authResponse() *client.AuthResponse {
	return &client.AuthResponse{
		User:   &client.User{ID: 1, Email: "a@x.com", UserType: "tenant"},
		Tokens: client.Tokens{Access: "A1", Refresh: "R1"},
	}
}

func TestLogin_EstablishesSession(t *testing.T) {
	storage := NewStorage(t.TempDir())
	store := NewStore(&fakeAPI{loginResp: authResponse()}, storage)

	if err := store.Login(context.Background(), "a@x.com", "p"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !store.IsAuthenticated() {
		t.Error("expected IsAuthenticated true after login")
	}
	if got := storage.AccessToken(); got != "A1" {
		t.Errorf("expected stored access_token A1, got %q", got)
	}
	if got := storage.RefreshToken(); got != "R1" {
		t.Errorf("expected stored refresh_token R1, got %q", got)
	}
	if user := store.User(); user == nil || user.ID != 1 {
		t.Errorf("unexpected user: %+v", user)
	}
	if store.IsLoading() {
		t.Error("expected loading cleared after login")
	}
}

func TestLogin_FailureLeavesPriorSessionUntouched(t *testing.T) {
	storage := NewStorage(t.TempDir())
	api := &fakeAPI{loginResp: authResponse()}
	store := NewStore(api, storage)

	if err := store.Login(context.Background(), "a@x.com", "p"); err != nil {
		t.Fatal(err)
	}

	// A failed re-login must not log the user out.
	api.loginResp = nil
	api.loginErr = errors.New("invalid email or password")
	if err := store.Login(context.Background(), "a@x.com", "wrong"); err == nil {
		t.Fatal("expected error, got nil")
	}

	if !store.IsAuthenticated() {
		t.Error("expected prior session to survive failed re-login")
	}
	if storage.AccessToken() != "A1" || storage.RefreshToken() != "R1" {
		t.Error("expected stored tokens unchanged")
	}
	if user := store.User(); user == nil || user.ID != 1 {
		t.Errorf("expected in-memory user unchanged, got %+v", user)
	}
}

func TestLogin_IncompleteTokenPairRejected(t *testing.T) {
	storage := NewStorage(t.TempDir())
	resp := authResponse()
	resp.Tokens.Refresh = ""
	store := NewStore(&fakeAPI{loginResp: resp}, storage)

	if err := store.Login(context.Background(), "a@x.com", "p"); err == nil {
		t.Fatal("expected error for incomplete token pair")
	}
	if store.IsAuthenticated() {
		t.Error("expected no session after rejected login")
	}
	if store.User() != nil {
		t.Error("expected no user after rejected login")
	}
}

func TestRegister_EstablishesSession(t *testing.T) {
	storage := NewStorage(t.TempDir())
	store := NewStore(&fakeAPI{registerResp: authResponse()}, storage)

	input := client.RegisterInput{Email: "a@x.com", Password: "p", PasswordConfirm: "p", UserType: "tenant"}
	if err := store.Register(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.IsAuthenticated() || store.User() == nil {
		t.Error("expected full session after register")
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	storage := NewStorage(t.TempDir())
	api := &fakeAPI{loginResp: authResponse()}
	store := NewStore(api, storage)

	if err := store.Login(context.Background(), "a@x.com", "p"); err != nil {
		t.Fatal(err)
	}
	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if api.logoutCalls != 1 || api.logoutToken != "R1" {
		t.Errorf("expected server notified with R1, got %d calls token %q", api.logoutCalls, api.logoutToken)
	}
	if store.IsAuthenticated() {
		t.Error("expected IsAuthenticated false after logout")
	}
	if store.User() != nil {
		t.Error("expected user cleared after logout")
	}
}

func TestLogout_ServerFailureStillClearsLocally(t *testing.T) {
	storage := NewStorage(t.TempDir())
	api := &fakeAPI{loginResp: authResponse(), logoutErr: errors.New("boom")}
	store := NewStore(api, storage)

	if err := store.Login(context.Background(), "a@x.com", "p"); err != nil {
		t.Fatal(err)
	}
	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("expected logout to succeed locally, got %v", err)
	}
	if store.IsAuthenticated() || store.User() != nil {
		t.Error("expected local teardown despite server failure")
	}
}

func TestLogout_IdempotentWhenAnonymous(t *testing.T) {
	storage := NewStorage(t.TempDir())
	api := &fakeAPI{}
	store := NewStore(api, storage)

	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("expected no-op logout to succeed, got %v", err)
	}
	if api.logoutCalls != 0 {
		t.Errorf("expected no server notification without a refresh token, got %d", api.logoutCalls)
	}
}

func TestFetchUser_Rehydrates(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorage(dir)
	if err := storage.SetSession("A1", "R1", nil); err != nil {
		t.Fatal(err)
	}

	// New store over existing storage: authenticated but no in-memory user,
	// the state after a process restart.
	store := NewStore(&fakeAPI{profileResp: &client.User{ID: 3, Email: "t@x.com"}}, storage)
	if !store.IsAuthenticated() {
		t.Fatal("expected stored token to count as authenticated")
	}
	if store.User() != nil {
		t.Fatal("expected no in-memory user before rehydration")
	}

	user, err := store.FetchUser(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 3 || store.User() == nil {
		t.Errorf("expected user populated, got %+v", user)
	}
}

func TestFetchUser_StaleTokenTearsDown(t *testing.T) {
	storage := NewStorage(t.TempDir())
	if err := storage.SetSession("A1", "R1", nil); err != nil {
		t.Fatal(err)
	}

	api := &fakeAPI{profileErr: client.ErrSessionExpired}
	store := NewStore(api, storage)

	if _, err := store.FetchUser(context.Background()); err == nil {
		t.Fatal("expected error for rejected token")
	}
	if store.IsAuthenticated() {
		t.Error("expected tokens cleared after stale-session detection")
	}
	if storage.AccessToken() != "" || storage.RefreshToken() != "" {
		t.Error("expected both tokens cleared")
	}
}

func TestFetchUser_AnonymousFails(t *testing.T) {
	store := NewStore(&fakeAPI{}, NewStorage(t.TempDir()))
	if _, err := store.FetchUser(context.Background()); err == nil {
		t.Fatal("expected error when not logged in")
	}
}

func TestFetchUser_TransportErrorKeepsSession(t *testing.T) {
	storage := NewStorage(t.TempDir())
	if err := storage.SetSession("A1", "R1", nil); err != nil {
		t.Fatal(err)
	}

	api := &fakeAPI{profileErr: errors.New("cannot connect to backend")}
	store := NewStore(api, storage)

	if _, err := store.FetchUser(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	// A network failure says nothing about token validity.
	if !store.IsAuthenticated() {
		t.Error("expected session to survive a transport failure")
	}
}

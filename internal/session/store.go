// ABOUTME: Session lifecycle store: single source of truth for who is logged in
// ABOUTME: Establishes, rehydrates, and tears down sessions atomically

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/campusrentalfinder/campusctl/internal/client"
)

// API is the slice of the gateway the store depends on. Tests substitute a
// fake.
type API interface {
	Login(ctx context.Context, input client.LoginInput) (*client.AuthResponse, error)
	Register(ctx context.Context, input client.RegisterInput) (*client.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Profile(ctx context.Context) (*client.User, error)
}

// Store owns the session lifecycle. The user record lives in memory and is
// lost on process exit; the token pair lives in durable storage and survives.
// Whether a session exists is always derived from storage, never from an
// independently settable flag.
type Store struct {
	api     API
	storage *Storage

	mu      sync.Mutex
	user    *client.User
	loading bool
}

// NewStore creates a session store over the given gateway and storage.
func NewStore(api API, storage *Storage) *Store {
	return &Store{api: api, storage: storage}
}

// User returns the in-memory user record, or nil before rehydration.
func (s *Store) User() *client.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// IsAuthenticated reports whether an access token is present in durable
// storage at this moment. A true result with a nil User is a valid state
// (token survived a restart, profile not fetched yet).
func (s *Store) IsAuthenticated() bool {
	return s.storage.AccessToken() != ""
}

// IsLoading reports whether a session-mutating operation is in flight.
// Advisory only (spinner/disable-button), not a lock.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Login establishes a session. On success both tokens and the user are set
// together; on failure no session field changes, so a failed re-login never
// logs out an existing session.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.api.Login(ctx, client.LoginInput{Email: email, Password: password})
	if err != nil {
		return err
	}
	return s.establish(resp)
}

// Register creates an account and establishes a session, same contract as
// Login.
func (s *Store) Register(ctx context.Context, input client.RegisterInput) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.api.Register(ctx, input)
	if err != nil {
		return err
	}
	return s.establish(resp)
}

// Logout tears the session down. The server notification is best-effort: a
// failure is logged and never surfaced, because local teardown must always
// succeed. Idempotent when already logged out.
func (s *Store) Logout(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if refresh := s.storage.RefreshToken(); refresh != "" {
		if err := s.api.Logout(ctx, refresh); err != nil {
			slog.Warn("logout notification failed", "error", err)
		}
	}

	defer func() {
		s.mu.Lock()
		s.user = nil
		s.mu.Unlock()
	}()
	return s.storage.ClearTokens()
}

// FetchUser rehydrates the in-memory user from the stored access token, e.g.
// after a process restart. A terminal auth failure means the stored session
// is stale or revoked: both tokens are cleared so the caller lands back in
// the anonymous state.
func (s *Store) FetchUser(ctx context.Context) (*client.User, error) {
	if !s.IsAuthenticated() {
		return nil, fmt.Errorf("not logged in")
	}

	s.setLoading(true)
	defer s.setLoading(false)

	user, err := s.api.Profile(ctx)
	if err != nil {
		if client.IsAuthError(err) || client.IsSessionExpired(err) {
			if clearErr := s.storage.ClearTokens(); clearErr != nil {
				slog.Warn("failed to clear stale credentials", "error", clearErr)
			}
			s.mu.Lock()
			s.user = nil
			s.mu.Unlock()
		}
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return user, nil
}

// establish commits a successful auth response: both tokens plus the user
// land in storage in a single write, then the in-memory user is set. The
// server returns user and tokens in one payload, so there is no partial
// outcome to guard against beyond the storage write itself.
func (s *Store) establish(resp *client.AuthResponse) error {
	if resp.Tokens.Access == "" || resp.Tokens.Refresh == "" {
		return fmt.Errorf("server returned an incomplete token pair")
	}

	if err := s.storage.SetSession(resp.Tokens.Access, resp.Tokens.Refresh, resp.User); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.mu.Lock()
	s.user = resp.User
	s.mu.Unlock()
	return nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// ABOUTME: Durable credential storage for the session store
// ABOUTME: Persists the token pair and cached user as JSON in the XDG config directory

package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/campusrentalfinder/campusctl/internal/client"
)

// sessionFileName is the credential file inside the config directory.
const sessionFileName = "session.json"

// Storage is the durable token store. It survives process restarts the way
// browser storage survives page reloads: tokens are read fresh from disk on
// every access, and the file is the single source of truth for whether a
// session exists.
//
// Only the session store and the gateway's repair cycle write to it.
type Storage struct {
	configDir string
}

// sessionData is the on-disk layout. The cached user is advisory only; it
// must be revalidated through the profile endpoint before being trusted.
type sessionData struct {
	AccessToken  string       `json:"access_token,omitempty"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	User         *client.User `json:"user,omitempty"`
}

// NewStorage creates credential storage rooted at the given config directory.
func NewStorage(configDir string) *Storage {
	return &Storage{configDir: configDir}
}

// sessionFile returns the path to the credential file.
func (s *Storage) sessionFile() string {
	return filepath.Join(s.configDir, sessionFileName)
}

// load reads the credential file. A missing or corrupt file means no session.
func (s *Storage) load() sessionData {
	data, err := os.ReadFile(s.sessionFile())
	if err != nil {
		return sessionData{}
	}

	var sd sessionData
	if err := json.Unmarshal(data, &sd); err != nil {
		// Invalid JSON, start fresh
		return sessionData{}
	}
	return sd
}

// save writes the credential file with owner-only permissions.
func (s *Storage) save(sd sessionData) error {
	if err := os.MkdirAll(s.configDir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sd, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.sessionFile(), data, 0o600)
}

// AccessToken returns the stored access token, or "" when anonymous.
func (s *Storage) AccessToken() string {
	return s.load().AccessToken
}

// RefreshToken returns the stored refresh token, or "" when absent.
func (s *Storage) RefreshToken() string {
	return s.load().RefreshToken
}

// SetAccessToken replaces only the access token, leaving the refresh token
// and cached user untouched. Used by the gateway's repair cycle.
func (s *Storage) SetAccessToken(token string) error {
	sd := s.load()
	sd.AccessToken = token
	return s.save(sd)
}

// SetSession stores both tokens and the user record in one write.
func (s *Storage) SetSession(access, refresh string, user *client.User) error {
	return s.save(sessionData{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	})
}

// CachedUser returns the advisory cached user record, if any.
func (s *Storage) CachedUser() *client.User {
	return s.load().User
}

// ClearTokens removes the credential file entirely. Removing the file (rather
// than writing an empty one) keeps "no session" and "never logged in"
// indistinguishable. Idempotent.
func (s *Storage) ClearTokens() error {
	err := os.Remove(s.sessionFile())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

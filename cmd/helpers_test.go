// ABOUTME: Shared test helpers for the cmd package
// ABOUTME: Wires httptest servers and isolated session storage into commands

package cmd

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/campusrentalfinder/campusctl/internal/client"
	"github.com/campusrentalfinder/campusctl/internal/session"
)

// setupTest points the commands at a test server and an isolated session
// directory. Cleanup restores the apiURL global.
func setupTest(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	apiURL = server.URL
	t.Cleanup(func() { apiURL = "" })

	t.Setenv("CAMPUSCTL_CONFIG_DIR", t.TempDir())

	return server
}

// seedSession writes a stored session so commands see an authenticated state
func seedSession(t *testing.T, access, refresh string) {
	t.Helper()

	storage := session.NewStorage(mustConfigDir(t))
	user := &client.User{ID: 1, Email: "student@example.edu", UserType: "tenant"}
	if err := storage.SetSession(access, refresh, user); err != nil {
		t.Fatalf("seeding session: %v", err)
	}
}

func mustConfigDir(t *testing.T) string {
	t.Helper()

	dir := os.Getenv("CAMPUSCTL_CONFIG_DIR")
	if dir == "" {
		t.Fatal("CAMPUSCTL_CONFIG_DIR not set, call setupTest first")
	}
	return dir
}

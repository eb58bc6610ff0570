// ABOUTME: Authentication endpoint methods for the API gateway
// ABOUTME: Login, registration, logout notification, profile, and password change

package client

import (
	"context"
	"net/http"
)

// Login authenticates with email and password. The auth endpoints are
// anonymous, so no repair cycle applies.
func (c *Client) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doNoRepair(ctx, http.MethodPost, "/auth/login/", input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account. The server returns the user and token pair
// in one body, same shape as login.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doNoRepair(ctx, http.MethodPost, "/auth/register/", input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout notifies the server to blacklist the refresh token. Best-effort: a
// 401 here must not trigger a refresh for a session that is being destroyed,
// so the repair cycle stays disabled.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh": refreshToken}
	return c.doNoRepair(ctx, http.MethodPost, "/auth/logout/", body, nil)
}

// Profile fetches the current user's profile.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/profile/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial update to the current user's profile and
// returns the updated record.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPatch, "/auth/profile/", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword changes the current user's password.
func (c *Client) ChangePassword(ctx context.Context, input PasswordChangeInput) error {
	return c.do(ctx, http.MethodPost, "/auth/password/change/", input, nil)
}

// UserStatistics fetches the admin user statistics.
func (c *Client) UserStatistics(ctx context.Context) (*UserStatistics, error) {
	var stats UserStatistics
	if err := c.do(ctx, http.MethodGet, "/auth/admin/statistics/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ABOUTME: Authenticated HTTP gateway for the CampusRentalFinder API
// ABOUTME: Attaches bearer tokens and transparently repairs expired access tokens once per request

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// CredentialSource is the durable token storage the gateway reads and, during
// a repair cycle, writes. Tokens are opaque strings; the gateway never parses
// them.
type CredentialSource interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(token string) error
	ClearTokens() error
}

// Client is the API gateway. Every request to the backend flows through it so
// that credential attachment and expired-token recovery live in one place.
// Callers are written as if access tokens never expire.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialSource

	// refreshGroup coalesces concurrent refresh exchanges: when several
	// in-flight requests hit 401 together, only one exchange is issued and
	// the rest wait for its result.
	refreshGroup singleflight.Group

	// onSessionExpired fires after an unrecoverable auth failure, once both
	// tokens have been cleared. The application uses it to route the user
	// back to login.
	onSessionExpired func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// OnSessionExpired registers the hook invoked after session teardown.
func OnSessionExpired(fn func()) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

// New creates an API client for the given base URL. creds may not be nil;
// anonymous usage is represented by a store with no tokens.
func New(baseURL string, creds CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request issues an arbitrary API call through the gateway and returns the
// raw response body. It is the passthrough used by feature areas that have no
// typed method; credentials and 401 repair are handled identically.
func (c *Client) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do sends an authenticated request with the one-shot repair cycle enabled.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, body, out, true)
}

// doNoRepair sends a request with the repair cycle disabled. Used for the
// anonymous auth endpoints, the refresh exchange itself, and the best-effort
// logout notification.
func (c *Client) doNoRepair(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, body, out, false)
}

// send implements the gateway contract: attach the current access token (read
// fresh from storage), send, and on a 401 run at most one repair cycle before
// either retrying once or tearing the session down.
func (c *Client) send(ctx context.Context, method, path string, body, out any, allowRepair bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	resp, err := c.attempt(ctx, method, path, payload, c.creds.AccessToken())
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	// At most one repair cycle per originating call: the retry below is
	// issued straight-line, never back through send, so a second 401 cannot
	// trigger a second refresh.
	if resp.StatusCode == http.StatusUnauthorized && allowRepair {
		access, refreshErr := c.exchangeRefreshToken(ctx)
		if refreshErr != nil {
			c.expireSession()
			return fmt.Errorf("%w: %w", ErrSessionExpired, refreshErr)
		}

		slog.Debug("access token refreshed, retrying request", "method", method, "path", path)
		retryResp, err := c.attempt(ctx, method, path, payload, access)
		if err != nil {
			return c.handleRequestError(ctx, err)
		}
		defer retryResp.Body.Close()

		if retryResp.StatusCode == http.StatusUnauthorized {
			// The freshly minted token was rejected too; no second repair.
			c.expireSession()
			return fmt.Errorf("%w: %w", ErrSessionExpired, responseError(retryResp))
		}
		return decodeResponse(retryResp, out)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return responseError(resp)
	}
	return decodeResponse(resp, out)
}

// attempt builds and sends a single HTTP request with the given bearer token.
// Requests issued with an empty token carry no Authorization header.
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, token string) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.httpClient.Do(req)
}

// exchangeRefreshToken swaps the stored refresh token for a new access token.
// Concurrent callers share a single in-flight exchange. The new token is
// durably stored before this returns, so a retry issued afterwards cannot
// race the write.
func (c *Client) exchangeRefreshToken(ctx context.Context) (string, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		refresh := c.creds.RefreshToken()
		if refresh == "" {
			return nil, fmt.Errorf("no refresh token stored")
		}

		var result struct {
			Access string `json:"access"`
		}
		body := map[string]string{"refresh": refresh}
		if err := c.doNoRepair(ctx, http.MethodPost, "/auth/token/refresh/", body, &result); err != nil {
			return nil, fmt.Errorf("refresh exchange failed: %w", err)
		}
		if result.Access == "" {
			return nil, fmt.Errorf("refresh exchange returned no access token")
		}

		if err := c.creds.SetAccessToken(result.Access); err != nil {
			return nil, fmt.Errorf("failed to store refreshed access token: %w", err)
		}
		return result.Access, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// expireSession tears the session down after an unrecoverable auth failure.
// Tokens are cleared before the hook fires so no consumer can observe an
// authenticated state that no longer exists.
func (c *Client) expireSession() {
	if err := c.creds.ClearTokens(); err != nil {
		slog.Warn("failed to clear stored credentials", "error", err)
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

// handleRequestError converts context errors to user-friendly messages.
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// responseError drains a failed response into an APIError.
func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return newAPIError(resp.StatusCode, body)
}

// decodeResponse finishes a request: non-2xx becomes an APIError, otherwise
// the body is decoded into out (if any).
func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	if out == nil {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		*raw = body
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

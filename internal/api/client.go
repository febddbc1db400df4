// Package api is a client for the Mappedin REST API, covering token
// exchange, venue listing and MVF v3 package download.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the production Mappedin API endpoint.
const DefaultBaseURL = "https://app.mappedin.com/api/v1"

const (
	// assumedTokenLifetime is a conservative local guess at how long
	// an issued token stays valid. The server's 401 response, not this
	// timer, is the source of truth; the timer only avoids sending
	// requests with a token we already expect to be stale.
	assumedTokenLifetime = 2 * time.Hour
	tokenSafetyBuffer    = 5 * time.Minute
	refreshCooldown      = 10 * time.Second
)

// Client talks to the Mappedin API on behalf of one key/secret pair.
// Safe for sequential use; create one client per credential set.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	key    string
	secret string

	mu          sync.Mutex
	token       string
	tokenIssued time.Time
	lastRefresh time.Time
}

// NewClient validates the credential format and returns a client.
// Mappedin keys start with "mik_" and secrets with "mis_".
func NewClient(baseURL, key, secret string) (*Client, error) {
	if !strings.HasPrefix(key, "mik_") {
		return nil, fmt.Errorf("API key should start with %q", "mik_")
	}
	if !strings.HasPrefix(secret, "mis_") {
		return nil, fmt.Errorf("API secret should start with %q", "mis_")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		key:     key,
		secret:  secret,
	}, nil
}

// Authenticate exchanges the key and secret for a bearer token.
func (c *Client) Authenticate(ctx context.Context) error {
	payload, _ := json.Marshal(map[string]string{
		"key":    c.key,
		"secret": c.secret,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api-key/token", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("authentication request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return fmt.Errorf("invalid API key or secret")
	case http.StatusForbidden:
		return fmt.Errorf("API access forbidden")
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limit exceeded")
	default:
		return fmt.Errorf("authentication failed: %s", apiError(resp))
	}

	var auth struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return fmt.Errorf("authentication response: %w", err)
	}
	if auth.AccessToken == "" {
		return fmt.Errorf("no access token in response")
	}

	c.mu.Lock()
	c.token = auth.AccessToken
	c.tokenIssued = time.Now()
	c.lastRefresh = time.Now()
	c.mu.Unlock()

	log.Debug().Int("expires_in", auth.ExpiresIn).Msg("Token obtained")
	return nil
}

// tokenValid reports whether the cached token is within the assumed
// lifetime, minus a safety buffer.
func (c *Client) tokenValid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" {
		return false
	}
	return time.Since(c.tokenIssued) < assumedTokenLifetime-tokenSafetyBuffer
}

// do performs an authenticated request, refreshing the token and
// retrying once when the server answers 401. The caller owns the
// response body.
func (c *Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	if !c.tokenValid() {
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := c.send(ctx, method, url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	_ = resp.Body.Close()

	// Server rejected the token. Refresh once unless we just did,
	// which would indicate a credential problem, not a stale token.
	c.mu.Lock()
	recentRefresh := time.Since(c.lastRefresh) < refreshCooldown
	c.token = ""
	c.mu.Unlock()

	if recentRefresh {
		return nil, fmt.Errorf("authentication failed after token refresh")
	}

	log.Debug().Str("url", url).Msg("Token rejected, refreshing and retrying")
	if err := c.Authenticate(ctx); err != nil {
		return nil, err
	}

	return c.send(ctx, method, url)
}

func (c *Client) send(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	req.Header.Set("Authorization", "Bearer "+c.token)
	c.mu.Unlock()

	return c.HTTP.Do(req)
}

// VenueInfo is one entry of the venue listing.
type VenueInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Venues lists venues visible to the authenticated account.
func (c *Client) Venues(ctx context.Context) ([]VenueInfo, error) {
	url := c.BaseURL + "/venue?limit=100&visibility=public&include_archived=false"

	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("venue listing failed: %s", apiError(resp))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// The listing arrives either as a bare array or wrapped in one of
	// a few envelope keys.
	var list []VenueInfo
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("venue listing response: %w", err)
	}
	for _, key := range []string{"venues", "data", "results", "items"} {
		if raw, ok := wrapped[key]; ok {
			if err := json.Unmarshal(raw, &list); err == nil {
				return list, nil
			}
		}
	}

	return nil, fmt.Errorf("no venues found in response")
}

// PackageMeta describes a downloadable MVF package.
type PackageMeta struct {
	VenueID     string
	UpdatedAt   string
	LocalePacks map[string]string
}

// DownloadURL retrieves the MVF v3 download URL for a venue.
func (c *Client) DownloadURL(ctx context.Context, venueID string) (string, *PackageMeta, error) {
	url := fmt.Sprintf("%s/venue/%s/mvf?version=3.0.0", c.BaseURL, venueID)

	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return "", nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", nil, fmt.Errorf("venue %q not found or not accessible", venueID)
	default:
		return "", nil, fmt.Errorf("download URL request failed: %s", apiError(resp))
	}

	var mvfResp struct {
		URL         string            `json:"url"`
		UpdatedAt   string            `json:"updated_at"`
		LocalePacks map[string]string `json:"locale_packs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&mvfResp); err != nil {
		return "", nil, fmt.Errorf("download URL response: %w", err)
	}
	if mvfResp.URL == "" {
		return "", nil, fmt.Errorf("no download URL in response")
	}

	return mvfResp.URL, &PackageMeta{
		VenueID:     venueID,
		UpdatedAt:   mvfResp.UpdatedAt,
		LocalePacks: mvfResp.LocalePacks,
	}, nil
}

// ProgressFunc receives download progress as a 0-100 percentage.
type ProgressFunc func(percent float64)

// Download streams the package at url to a temporary file and returns
// its path. The caller is responsible for removing the file.
func (c *Client) Download(ctx context.Context, url string, progress ProgressFunc) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusNotFound:
		return "", fmt.Errorf("download URL expired or not accessible (%d)", resp.StatusCode)
	default:
		return "", fmt.Errorf("download failed with HTTP %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "mvf-*.zip")
	if err != nil {
		return "", err
	}
	defer func() { _ = tmp.Close() }()

	total := resp.ContentLength
	var written int64
	buf := make([]byte, 8192)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := tmp.Write(buf[:n]); err != nil {
				_ = os.Remove(tmp.Name())
				return "", err
			}
			written += int64(n)
			if progress != nil && total > 0 {
				progress(float64(written) / float64(total) * 100)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = os.Remove(tmp.Name())
			return "", fmt.Errorf("download interrupted: %w", readErr)
		}
	}

	if written == 0 {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("downloaded file is empty")
	}

	return tmp.Name(), nil
}

// FetchPackage runs the full workflow: ensure a token, resolve the
// download URL and stream the package to a temp file.
func (c *Client) FetchPackage(ctx context.Context, venueID string, progress ProgressFunc) (string, *PackageMeta, error) {
	url, meta, err := c.DownloadURL(ctx, venueID)
	if err != nil {
		return "", nil, err
	}

	path, err := c.Download(ctx, url, progress)
	if err != nil {
		return "", meta, err
	}

	return path, meta, nil
}

// apiError extracts a message from an error response body, falling
// back to the HTTP status.
func apiError(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}

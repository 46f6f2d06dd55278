// Package bilibili implements the HTTP client for the Bilibili popular
// listing, the per-video enrichment fetches, and the merge of both
// statistics sources into one record.
package bilibili

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"bilitrends/shared/config"
)

// Client talks to the Bilibili web API and detail pages. It carries all
// request state explicitly (identity headers, optional session cookie,
// delays); there is no package-level session.
type Client struct {
	cfg    *config.BilibiliConfig
	cookie string

	// Listing and detail calls use separate timeouts.
	listing *http.Client
	detail  *http.Client
}

func NewClient(cfg *config.BilibiliConfig) *Client {
	c := &Client{
		cfg: cfg,
		listing: &http.Client{
			Timeout: time.Duration(cfg.ListingTimeoutSeconds) * time.Second,
		},
		detail: &http.Client{
			Timeout: time.Duration(cfg.DetailTimeoutSeconds) * time.Second,
		},
	}

	cookie, err := loadCookie(cfg.CookieFile)
	if err != nil {
		log.Printf("Warning: could not read cookie file %s: %v (continuing without session)", cfg.CookieFile, err)
	} else if cookie != "" {
		c.cookie = cookie
		log.Println("Session cookie loaded")
	}

	return c
}

// PageDelay is the fixed pause between listing pages.
func (c *Client) PageDelay() time.Duration {
	return time.Duration(c.cfg.PageDelayMs) * time.Millisecond
}

// ItemDelay is the fixed pause after each enrichment.
func (c *Client) ItemDelay() time.Duration {
	return time.Duration(c.cfg.ItemDelayMs) * time.Millisecond
}

// loadCookie reads the session token file. A missing file is not an
// error; requests simply run with reduced privileges.
func loadCookie(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// get issues a single GET with the client's fixed headers and returns
// the response body. No retries; a failed fetch is final for that call.
func (c *Client) get(ctx context.Context, hc *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Referer", c.cfg.Referer)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

package moodle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"manabify/pkg/logger"
)

const (
	sessionCookie = "MoodleSession"
	userAgent     = "manabify/1.0 (+https://github.com/manabify/manabify)"
	maxAttempts   = 3
)

// ErrNotLoggedIn is returned when Moodle redirects to its login page
var ErrNotLoggedIn = errors.New("moodle session is missing or expired, set it with 'manabify config --session'")

// Renderer returns the HTML of a page. The plain HTTP Client is enough for course
// pages; the dashboard needs a BrowserRenderer because Moodle builds it with JS.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
}

// Client handles HTTP requests to a Moodle site
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	session    string
	retryDelay time.Duration
	log        zerolog.Logger
}

// NewClient creates a client for the Moodle instance at baseURL
func NewClient(baseURL, session string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("moodle base URL is not configured, set it with 'manabify config --url'")
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid moodle base URL %q", baseURL)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:    u,
		session:    session,
		retryDelay: time.Second,
		log:        logger.Component("moodle"),
	}, nil
}

// BaseURL returns the Moodle site root
func (c *Client) BaseURL() *url.URL {
	return c.baseURL
}

// Resolve turns a site relative path into an absolute URL
func (c *Client) Resolve(ref string) (string, error) {
	u, err := c.baseURL.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", ref, err)
	}
	return u.String(), nil
}

// Get fetches the page, retrying up to 3 times on 502/503/504 and transport errors
func (c *Client) Get(ctx context.Context, pageURL string) (*http.Response, error) {
	target, err := c.Resolve(pageURL)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		if c.session != "" {
			req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.session})
		}

		resp, err := c.httpClient.Do(req)
		if err == nil {
			switch resp.StatusCode {
			case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
				resp.Body.Close()
				err = fmt.Errorf("transient status code %d", resp.StatusCode)
			case http.StatusOK:
				if isLoginPage(resp.Request.URL) {
					resp.Body.Close()
					return nil, ErrNotLoggedIn
				}
				return resp, nil
			default:
				resp.Body.Close()
				return nil, fmt.Errorf("unexpected status code %d when fetching %s", resp.StatusCode, target)
			}
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == maxAttempts-1 {
			break
		}
		c.log.Warn().Err(err).Str("url", target).Int("attempt", attempt+1).Msg("fetch failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * c.retryDelay):
		}
	}

	return nil, fmt.Errorf("failed to fetch %s after %d attempts: %w", target, maxAttempts, lastErr)
}

// Render implements Renderer over plain HTTP
func (c *Client) Render(ctx context.Context, pageURL string) (string, error) {
	resp, err := c.Get(ctx, pageURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", pageURL, err)
	}
	return string(body), nil
}

func isLoginPage(u *url.URL) bool {
	return u != nil && strings.Contains(u.Path, "/login/")
}

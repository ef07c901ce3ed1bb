package peersdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "peertutor_session"

// Client drives a peertutor instance over HTTP. It is not safe for
// concurrent use because the cookie jar models a single browser.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with an empty cookie jar.
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}, nil
}

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// SessionCookie returns the session cookie currently held by the jar, or nil.
// The jar only exposes name and value, so persistence has to be checked on
// the raw Set-Cookie header (see Page.SetCookies).
func (c *Client) SessionCookie() *http.Cookie {
	u, err := url.Parse(c.BaseURL)
	if err != nil || c.HTTPClient.Jar == nil {
		return nil
	}
	for _, ck := range c.HTTPClient.Jar.Cookies(u) {
		if ck.Name == SessionCookieName {
			return ck
		}
	}
	return nil
}

// Get fetches path and follows redirects.
func (c *Client) Get(ctx context.Context, path string) (*Page, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// PostForm submits form to path and follows the redirect that answers it.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (*Page, error) {
	return c.do(ctx, http.MethodPost, path, form)
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values) (*Page, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	var setCookies []string
	client := *c.HTTPClient
	client.CheckRedirect = func(next *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return fmt.Errorf("stopped after %d redirects", len(via))
		}
		if next.Response != nil {
			setCookies = append(setCookies, next.Response.Header.Values("Set-Cookie")...)
		}
		return nil
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	page, err := readPage(resp)
	if err != nil {
		return nil, err
	}
	page.SetCookies = append(setCookies, resp.Header.Values("Set-Cookie")...)
	return page, nil
}

package community

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
)

const (
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	requestTimeout = 30 * time.Second
)

// SessionCookies is the authenticated cookie pair an account's web session
// rides on. Producing them is the login agent's job.
type SessionCookies struct {
	SessionID   string
	LoginSecure string
}

// HTTPFetcher retrieves community and store pages with an account's session
// cookies attached. One fetcher per account; the jar is not shared.
type HTTPFetcher struct {
	client    *http.Client
	sessionID string
}

// NewHTTPFetcher seeds a cookie jar with the account's session cookies for
// each of the given base URLs and returns a fetcher bound to that jar.
func NewHTTPFetcher(cookies SessionCookies, baseURLs ...string) (*HTTPFetcher, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	for _, raw := range baseURLs {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid base url %q: %w", raw, err)
		}
		jar.SetCookies(u, []*http.Cookie{
			{Name: "sessionid", Value: cookies.SessionID},
			{Name: "steamLoginSecure", Value: cookies.LoginSecure},
		})
	}

	return &HTTPFetcher{
		client:    &http.Client{Jar: jar, Timeout: requestTimeout},
		sessionID: cookies.SessionID,
	}, nil
}

// SessionID exposes the CSRF token form endpoints expect alongside the cookie
func (f *HTTPFetcher) SessionID() string {
	return f.sessionID
}

// FetchPage performs an authenticated GET and returns the document
func (f *HTTPFetcher) FetchPage(ctx context.Context, pageURL string) (*ports.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	return f.do(req)
}

// PostForm performs an authenticated form POST and returns the response
// document. Store ajax endpoints (key activation) use this.
func (f *HTTPFetcher) PostForm(ctx context.Context, postURL string, form url.Values) (*ports.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, postURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return f.do(req)
}

func (f *HTTPFetcher) do(req *http.Request) (*ports.Page, error) {
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &ports.Page{StatusCode: resp.StatusCode, Body: string(body)}, nil
}

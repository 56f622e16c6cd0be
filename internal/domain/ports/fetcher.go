package ports

import (
	"context"
	"time"
)

// Page is one fetched community document
type Page struct {
	StatusCode int
	Body       string
}

// OK reports whether the fetch came back with a success status
func (p *Page) OK() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}

// PageFetcher retrieves community pages using an account's authenticated
// web session. Implementations own cookies and transport details.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (*Page, error)
}

// Signer computes the time-based signatures the confirmation service
// expects: a token over (secret, timestamp, tag), where tag is "conf" for
// listing and "allow"/"cancel" for responding.
type Signer interface {
	Sign(secret string, t time.Time, tag string) (string, error)
}

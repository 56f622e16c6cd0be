package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
)

// MockFetcher is a test double for ports.PageFetcher. Responses are matched
// by exact URL; unmatched URLs return the fallback or an error.
type MockFetcher struct {
	mu sync.Mutex

	pages    map[string][]*ports.Page // consumed in order per URL
	errs     map[string]error
	fallback *ports.Page

	// Requests records every fetched URL in order
	Requests []string
}

// NewMockFetcher creates an empty fetcher double
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		pages: make(map[string][]*ports.Page),
		errs:  make(map[string]error),
	}
}

// AddPage queues a successful response for a URL. Multiple pages for the
// same URL are served in the order they were added, the last one repeating.
func (m *MockFetcher) AddPage(url, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[url] = append(m.pages[url], &ports.Page{StatusCode: 200, Body: body})
}

// AddStatus queues a response with an explicit status code
func (m *MockFetcher) AddStatus(url string, status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[url] = append(m.pages[url], &ports.Page{StatusCode: status, Body: body})
}

// FailURL makes fetches of the URL return the given error
func (m *MockFetcher) FailURL(url string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[url] = err
}

// SetFallback serves the page for any URL without a queued response
func (m *MockFetcher) SetFallback(body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &ports.Page{StatusCode: 200, Body: body}
}

func (m *MockFetcher) FetchPage(ctx context.Context, url string) (*ports.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, url)

	if err, ok := m.errs[url]; ok {
		return nil, err
	}
	if queue, ok := m.pages[url]; ok && len(queue) > 0 {
		page := queue[0]
		if len(queue) > 1 {
			m.pages[url] = queue[1:]
		}
		return page, nil
	}
	if m.fallback != nil {
		return m.fallback, nil
	}
	return nil, fmt.Errorf("no response configured for %s", url)
}

// FetchCount returns how many times the URL was requested
func (m *MockFetcher) FetchCount(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, r := range m.Requests {
		if r == url {
			count++
		}
	}
	return count
}

var _ ports.PageFetcher = (*MockFetcher)(nil)

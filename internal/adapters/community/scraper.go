package community

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/cardfarm-go/internal/application/common"
	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
	"github.com/andrescamacho/cardfarm-go/internal/domain/shared"
)

const (
	// DefaultBaseURL is the community endpoint badge pages are served from
	DefaultBaseURL = "https://steamcommunity.com"
)

// Scraper traverses an account's paginated badge listing and produces the
// ordered inventory of drop-eligible titles. Fetch failures are retried per
// page through the backoff policy; a lost session aborts immediately.
type Scraper struct {
	fetcher ports.PageFetcher
	backoff *shared.BackoffPolicy
	clock   shared.Clock
	limiter *rate.Limiter
	baseURL string
}

// NewScraper creates a scraper over the given page fetcher.
// Rate limit: 1 request per second with burst of 2.
func NewScraper(fetcher ports.PageFetcher, backoff *shared.BackoffPolicy, clock shared.Clock, baseURL string) *Scraper {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Scraper{
		fetcher: fetcher,
		backoff: backoff,
		clock:   clock,
		limiter: rate.NewLimiter(rate.Limit(1), 2),
		baseURL: baseURL,
	}
}

// Scrape walks the badge listing starting at page 1 and returns the full
// inventory in first-seen order. The caller replaces the account's
// inventory wholesale with the result; partial results are never returned.
func (s *Scraper) Scrape(ctx context.Context, account *farm.Account) (*farm.Inventory, error) {
	if !account.SessionActive {
		return nil, shared.NewNotLoggedInError(account.ID)
	}

	logger := common.LoggerFromContext(ctx)
	inv := farm.NewInventory()

	for page := 1; ; page++ {
		body, err := s.fetchListingPage(ctx, page)
		if err != nil {
			return nil, err
		}

		parsed := parseBadgePage(body)
		if parsed.LoginRequired {
			return nil, shared.NewSessionExpiredError(account.ID)
		}

		logger.Debug("parsed badge page",
			zap.Int("page", page),
			zap.Int("titles", len(parsed.Titles)),
			zap.Bool("has_next", parsed.HasNext))

		for _, t := range parsed.Titles {
			inv.Add(t)
		}

		if !parsed.HasNext {
			return inv, nil
		}
	}
}

// fetchListingPage fetches one badge page, retrying transport errors and
// non-success statuses up to the shared attempt budget with jittered delay.
func (s *Scraper) fetchListingPage(ctx context.Context, page int) (string, error) {
	url := fmt.Sprintf("%s/my/badges/?p=%d", s.baseURL, page)
	logger := common.LoggerFromContext(ctx)

	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		doc, err := s.fetcher.FetchPage(ctx, url)
		if err == nil && doc.OK() {
			return doc.Body, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("unexpected status %d", doc.StatusCode)
		}
		logger.Warn("badge page fetch failed",
			zap.Int("page", page),
			zap.Int("attempt", attempt),
			zap.Error(lastErr))

		next := attempt + 1
		if !s.backoff.ShouldRetry(next) {
			return "", shared.NewFetchFailedError(page, next, lastErr)
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		}
		s.clock.Sleep(s.backoff.NextDelay(next))
	}
}

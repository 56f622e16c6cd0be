package community

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
	"github.com/andrescamacho/cardfarm-go/internal/domain/shared"
)

// WebSession is the HTTP-backed session for one account. It covers the
// operations the web surface actually supports: auth probing, server time
// sync and key activation. Idle and visibility changes ride the persistent
// game-network connection, which lives in a separate agent; this adapter
// forwards them to that agent's webhook when one is configured.
type WebSession struct {
	accountID string
	fetcher   *HTTPFetcher
	clock     shared.Clock
	logger    *zap.Logger

	communityURL string
	storeURL     string
	apiURL       string
	presenceURL  string
	webhook      *http.Client

	mu         sync.Mutex
	active     bool
	currentApp int
	offset     time.Duration
}

// NewWebSession creates a session adapter for one account. presenceURL may
// be empty; idle and visibility changes are then tracked locally only.
func NewWebSession(accountID string, fetcher *HTTPFetcher, clock shared.Clock, communityURL, storeURL, apiURL, presenceURL string, logger *zap.Logger) *WebSession {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSession{
		accountID:    accountID,
		fetcher:      fetcher,
		clock:        clock,
		logger:       logger,
		communityURL: communityURL,
		storeURL:     storeURL,
		apiURL:       apiURL,
		presenceURL:  presenceURL,
		webhook:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Probe checks whether the cookies still authenticate by fetching the first
// badge page, and refreshes the server time offset while it is at it.
func (s *WebSession) Probe(ctx context.Context) error {
	page, err := s.fetcher.FetchPage(ctx, fmt.Sprintf("%s/my/badges/?p=1", s.communityURL))
	if err != nil {
		return fmt.Errorf("session probe failed: %w", err)
	}

	alive := page.OK() && !loginFormRe.MatchString(page.Body)

	s.mu.Lock()
	s.active = alive
	s.mu.Unlock()

	if alive {
		if err := s.syncTime(ctx); err != nil {
			s.logger.Debug("server time sync failed", zap.Error(err))
		}
	}
	return nil
}

func (s *WebSession) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// IdlingApp reports the title last sent to the game-network agent
func (s *WebSession) IdlingApp() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentApp
}

// SetIdleGame records the title being idled and notifies the game-network
// agent. A zero title clears the idle.
func (s *WebSession) SetIdleGame(ctx context.Context, titleID int) error {
	s.mu.Lock()
	s.currentApp = titleID
	s.mu.Unlock()

	return s.publishPresence(ctx, presenceUpdate{
		AccountID: s.accountID,
		Event:     "idle",
		AppID:     titleID,
	})
}

// SetVisibility switches the persona between online and invisible
func (s *WebSession) SetVisibility(ctx context.Context, online bool) error {
	return s.publishPresence(ctx, presenceUpdate{
		AccountID: s.accountID,
		Event:     "visibility",
		Online:    &online,
	})
}

// ServerTime returns the current time adjusted by the last synced offset.
// Before the first sync it falls back to the local clock.
func (s *WebSession) ServerTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Now().Add(s.offset)
}

// RedeemKey activates a product key through the store
func (s *WebSession) RedeemKey(ctx context.Context, key string) (ports.RedeemResult, error) {
	form := url.Values{
		"product_key": {key},
		"sessionid":   {s.fetcher.SessionID()},
	}
	page, err := s.fetcher.PostForm(ctx, fmt.Sprintf("%s/account/ajaxregisterkey/", s.storeURL), form)
	if err != nil {
		return 0, fmt.Errorf("key activation request failed: %w", err)
	}
	if !page.OK() {
		return 0, fmt.Errorf("key activation returned status %d", page.StatusCode)
	}

	var result struct {
		Success int `json:"success"`
		Details int `json:"purchase_result_details"`
	}
	if err := json.Unmarshal([]byte(page.Body), &result); err != nil {
		return 0, fmt.Errorf("failed to parse activation response: %w", err)
	}

	if result.Success == 1 {
		return ports.RedeemOK, nil
	}

	switch result.Details {
	case 9:
		return ports.RedeemAlreadyOwned, nil
	case 13:
		return ports.RedeemRegionLocked, nil
	case 14:
		return ports.RedeemInvalidKey, nil
	case 15:
		return ports.RedeemDuplicatedKey, nil
	case 24:
		return ports.RedeemBaseGameRequired, nil
	case 53:
		return ports.RedeemOnCooldown, nil
	default:
		return 0, fmt.Errorf("key activation failed with code %d", result.Details)
	}
}

type presenceUpdate struct {
	AccountID string `json:"account_id"`
	Event     string `json:"event"`
	AppID     int    `json:"app_id,omitempty"`
	Online    *bool  `json:"online,omitempty"`
}

func (s *WebSession) publishPresence(ctx context.Context, update presenceUpdate) error {
	if s.presenceURL == "" {
		return nil
	}

	body, err := json.Marshal(update)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.presenceURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.webhook.Do(req)
	if err != nil {
		return fmt.Errorf("presence publish failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("presence webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// syncTime fetches the server clock and stores the offset to the local one
func (s *WebSession) syncTime(ctx context.Context) error {
	page, err := s.fetcher.PostForm(ctx, fmt.Sprintf("%s/ITwoFactorService/QueryTime/v1/", s.apiURL), url.Values{})
	if err != nil {
		return err
	}
	if !page.OK() {
		return fmt.Errorf("time query returned status %d", page.StatusCode)
	}

	var payload struct {
		Response struct {
			ServerTime string `json:"server_time"`
		} `json:"response"`
	}
	if err := json.Unmarshal([]byte(page.Body), &payload); err != nil {
		return err
	}
	unix, err := strconv.ParseInt(payload.Response.ServerTime, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed server time %q: %w", payload.Response.ServerTime, err)
	}

	s.mu.Lock()
	s.offset = time.Unix(unix, 0).Sub(s.clock.Now())
	s.mu.Unlock()
	return nil
}

var _ ports.Session = (*WebSession)(nil)

package community_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cardfarm-go/internal/adapters/community"
	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
	"github.com/andrescamacho/cardfarm-go/internal/domain/shared"
)

// webFixture fakes the community, store and api hosts on one test server
type webFixture struct {
	server *httptest.Server
	clock  *shared.MockClock

	mu         sync.Mutex
	badgeBody  string
	redeemBody string
	serverTime string
	timeCalls  int
	redeemForm map[string][]string
	cookies    []*http.Cookie
}

func newWebFixture(t *testing.T) *webFixture {
	t.Helper()

	f := &webFixture{
		clock:      shared.NewMockClock(time.Unix(1700000000, 0)),
		badgeBody:  `<div class="badge_row is_link"></div>`,
		serverTime: "1700000000",
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/my/badges/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cookies = r.Cookies()
		io.WriteString(w, f.badgeBody)
	})
	mux.HandleFunc("/ITwoFactorService/QueryTime/v1/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.timeCalls++
		json.NewEncoder(w).Encode(map[string]any{
			"response": map[string]string{"server_time": f.serverTime},
		})
	})
	mux.HandleFunc("/account/ajaxregisterkey/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		f.mu.Lock()
		defer f.mu.Unlock()
		f.redeemForm = r.PostForm
		io.WriteString(w, f.redeemBody)
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *webFixture) newSession(t *testing.T, presenceURL string) *community.WebSession {
	t.Helper()
	fetcher, err := community.NewHTTPFetcher(
		community.SessionCookies{SessionID: "csrf-token", LoginSecure: "steam-login"},
		f.server.URL)
	require.NoError(t, err)
	base := f.server.URL
	return community.NewWebSession("main", fetcher, f.clock, base, base, base, presenceURL, nil)
}

func TestWebSession_ProbeDetectsLiveSession(t *testing.T) {
	// Arrange
	f := newWebFixture(t)
	f.serverTime = "1700000060"
	s := f.newSession(t, "")

	// Act
	err := s.Probe(context.Background())

	// Assert - authenticated, and the clock offset was synced
	require.NoError(t, err)
	assert.True(t, s.Active())
	assert.Equal(t, time.Unix(1700000060, 0).UTC(), s.ServerTime().UTC())

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, 1, f.timeCalls)
	names := make(map[string]string)
	for _, c := range f.cookies {
		names[c.Name] = c.Value
	}
	assert.Equal(t, "csrf-token", names["sessionid"])
	assert.Equal(t, "steam-login", names["steamLoginSecure"])
}

func TestWebSession_ProbeDetectsExpiredCookies(t *testing.T) {
	// Arrange - badge URL serves the login redirect instead
	f := newWebFixture(t)
	f.badgeBody = `<form id="loginForm" action="https://community.test/login/home/"></form>`
	s := f.newSession(t, "")

	// Act
	err := s.Probe(context.Background())

	// Assert
	require.NoError(t, err)
	assert.False(t, s.Active())
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Zero(t, f.timeCalls, "no time sync against a dead session")
}

func TestWebSession_RedeemKeyResultMapping(t *testing.T) {
	f := newWebFixture(t)
	s := f.newSession(t, "")

	cases := []struct {
		name string
		body string
		want ports.RedeemResult
	}{
		{"success", `{"success":1,"purchase_result_details":0}`, ports.RedeemOK},
		{"already owned", `{"success":2,"purchase_result_details":9}`, ports.RedeemAlreadyOwned},
		{"region locked", `{"success":2,"purchase_result_details":13}`, ports.RedeemRegionLocked},
		{"invalid key", `{"success":2,"purchase_result_details":14}`, ports.RedeemInvalidKey},
		{"duplicated key", `{"success":2,"purchase_result_details":15}`, ports.RedeemDuplicatedKey},
		{"base game required", `{"success":2,"purchase_result_details":24}`, ports.RedeemBaseGameRequired},
		{"on cooldown", `{"success":2,"purchase_result_details":53}`, ports.RedeemOnCooldown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f.mu.Lock()
			f.redeemBody = tc.body
			f.mu.Unlock()

			result, err := s.RedeemKey(context.Background(), "AAAAA-BBBBB-CCCCC")

			require.NoError(t, err)
			assert.Equal(t, tc.want, result)
		})
	}
}

func TestWebSession_RedeemKeySendsFormAndCSRF(t *testing.T) {
	// Arrange
	f := newWebFixture(t)
	f.redeemBody = `{"success":1}`
	s := f.newSession(t, "")

	// Act
	_, err := s.RedeemKey(context.Background(), "AAAAA-BBBBB-CCCCC")

	// Assert
	require.NoError(t, err)
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, []string{"AAAAA-BBBBB-CCCCC"}, f.redeemForm["product_key"])
	assert.Equal(t, []string{"csrf-token"}, f.redeemForm["sessionid"])
}

func TestWebSession_RedeemKeyUnknownCode(t *testing.T) {
	f := newWebFixture(t)
	f.redeemBody = `{"success":2,"purchase_result_details":77}`
	s := f.newSession(t, "")

	_, err := s.RedeemKey(context.Background(), "KEY")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "code 77")
}

func TestWebSession_PresencePublishing(t *testing.T) {
	// Arrange - a fake game-network agent webhook
	f := newWebFixture(t)
	var (
		mu      sync.Mutex
		updates []map[string]any
	)
	agent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var update map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
		mu.Lock()
		updates = append(updates, update)
		mu.Unlock()
	}))
	t.Cleanup(agent.Close)
	s := f.newSession(t, agent.URL)

	// Act
	require.NoError(t, s.SetIdleGame(context.Background(), 730))
	assert.Equal(t, 730, s.IdlingApp())
	require.NoError(t, s.SetVisibility(context.Background(), true))
	require.NoError(t, s.SetIdleGame(context.Background(), 0))
	assert.Equal(t, 0, s.IdlingApp())

	// Assert
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, updates, 3)
	assert.Equal(t, "idle", updates[0]["event"])
	assert.Equal(t, float64(730), updates[0]["app_id"])
	assert.Equal(t, "main", updates[0]["account_id"])
	assert.Equal(t, "visibility", updates[1]["event"])
	assert.Equal(t, true, updates[1]["online"])
	assert.Equal(t, "idle", updates[2]["event"])
	assert.NotContains(t, updates[2], "app_id", "zero title is omitted")
}

func TestWebSession_PresenceOptional(t *testing.T) {
	// Arrange - no webhook configured
	f := newWebFixture(t)
	s := f.newSession(t, "")

	// Act / Assert - intents are tracked locally without any network call
	require.NoError(t, s.SetIdleGame(context.Background(), 440))
	assert.Equal(t, 440, s.IdlingApp())
	require.NoError(t, s.SetVisibility(context.Background(), false))
}

func TestWebSession_PresenceWebhookFailure(t *testing.T) {
	// Arrange
	f := newWebFixture(t)
	agent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(agent.Close)
	s := f.newSession(t, agent.URL)

	// Act
	err := s.SetIdleGame(context.Background(), 730)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

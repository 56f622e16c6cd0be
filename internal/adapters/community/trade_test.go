package community_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cardfarm-go/internal/adapters/community"
	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
)

func TestWebTradeClient_Accept(t *testing.T) {
	// Arrange
	var (
		mu   sync.Mutex
		path string
		form map[string][]string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		mu.Lock()
		path = r.URL.Path
		form = r.PostForm
		mu.Unlock()
	}))
	t.Cleanup(server.Close)

	fetcher, err := community.NewHTTPFetcher(
		community.SessionCookies{SessionID: "csrf-token", LoginSecure: "secure"},
		server.URL)
	require.NoError(t, err)
	client := community.NewWebTradeClient(fetcher, server.URL)

	// Act
	err = client.Accept(context.Background(), ports.TradeOffer{ID: "4242", PartnerID: "76561198000000001"})

	// Assert
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/tradeoffer/4242/accept", path)
	assert.Equal(t, []string{"4242"}, form["tradeofferid"])
	assert.Equal(t, []string{"76561198000000001"}, form["partner"])
	assert.Equal(t, []string{"csrf-token"}, form["sessionid"])
	assert.Equal(t, []string{"1"}, form["serverid"])
}

func TestWebTradeClient_Decline(t *testing.T) {
	// Arrange
	var (
		mu   sync.Mutex
		path string
		form map[string][]string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		mu.Lock()
		path = r.URL.Path
		form = r.PostForm
		mu.Unlock()
	}))
	t.Cleanup(server.Close)

	fetcher, err := community.NewHTTPFetcher(community.SessionCookies{SessionID: "csrf-token"}, server.URL)
	require.NoError(t, err)
	client := community.NewWebTradeClient(fetcher, server.URL)

	// Act
	err = client.Decline(context.Background(), ports.TradeOffer{ID: "9000", PartnerID: "stranger"})

	// Assert
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/tradeoffer/9000/decline", path)
	assert.Equal(t, []string{"9000"}, form["tradeofferid"])
	assert.NotContains(t, form, "partner")
}

func TestWebTradeClient_NonOKStatus(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	fetcher, err := community.NewHTTPFetcher(community.SessionCookies{}, server.URL)
	require.NoError(t, err)
	client := community.NewWebTradeClient(fetcher, server.URL)

	// Act
	err = client.Accept(context.Background(), ports.TradeOffer{ID: "1"})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

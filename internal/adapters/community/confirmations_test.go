package community_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cardfarm-go/internal/adapters/community"
	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
	"github.com/andrescamacho/cardfarm-go/internal/domain/shared"
	"github.com/andrescamacho/cardfarm-go/test/helpers"
)

// confFetcher routes mobileconf requests by endpoint so tests do not have to
// reproduce signed query strings.
type confFetcher struct {
	mu sync.Mutex

	listBody string
	listErr  error

	// failOps maps confirmation ids whose accept the server rejects
	failOps map[string]bool

	ListCalls int
	OpQueries []url.Values
}

func (f *confFetcher) FetchPage(ctx context.Context, raw string) (*ports.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(u.Path, "/mobileconf/conf"):
		f.ListCalls++
		if f.listErr != nil {
			return nil, f.listErr
		}
		return &ports.Page{StatusCode: 200, Body: f.listBody}, nil

	case strings.HasSuffix(u.Path, "/mobileconf/ajaxop"):
		q := u.Query()
		f.OpQueries = append(f.OpQueries, q)
		if f.failOps[q.Get("cid")] {
			return &ports.Page{StatusCode: 200, Body: `{"success":false}`}, nil
		}
		return &ports.Page{StatusCode: 200, Body: `{"success":true}`}, nil

	default:
		return nil, fmt.Errorf("unexpected url %s", raw)
	}
}

// stubSigner records the tags it signed
type stubSigner struct {
	mu   sync.Mutex
	Tags []string
}

func (s *stubSigner) Sign(secret string, t time.Time, tag string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Tags = append(s.Tags, tag)
	return "sig-" + tag, nil
}

func confListing(ids ...string) string {
	var b strings.Builder
	for i, id := range ids {
		fmt.Fprintf(&b, `<div class="mobileconf_list_entry" data-confid="%s" data-key="%d00"></div>`, id, i+1)
	}
	return b.String()
}

func newConfirmAccount() *farm.Account {
	account := farm.NewAccount("76561198000000001", "bot", farm.Credentials{IdentitySecret: "aWRlbnRpdHk="})
	account.ConfirmTrades = true
	return account
}

func newEngine(fetcher ports.PageFetcher, signer ports.Signer, clock shared.Clock) *community.ConfirmationEngine {
	return community.NewConfirmationEngine(fetcher, signer, shared.NewRetryPolicy(1), clock, "https://community.test")
}

func TestConfirmations_DisabledWithoutSecret(t *testing.T) {
	// Arrange
	fetcher := &confFetcher{}
	account := farm.NewAccount("1", "bot", farm.Credentials{})
	account.ConfirmTrades = true
	engine := newEngine(fetcher, &stubSigner{}, shared.NewMockClock(time.Time{}))

	// Act
	_, err := engine.ResolvePending(context.Background(), account, helpers.NewMockSession())

	// Assert
	var disabled *shared.ConfirmationsDisabledError
	require.ErrorAs(t, err, &disabled)
	assert.Zero(t, fetcher.ListCalls)
}

func TestConfirmations_ResolvesPendingAndCountsFailures(t *testing.T) {
	// Arrange - three pending, the server rejects the second
	fetcher := &confFetcher{
		listBody: confListing("111", "222", "333"),
		failOps:  map[string]bool{"222": true},
	}
	signer := &stubSigner{}
	engine := newEngine(fetcher, signer, shared.NewMockClock(time.Time{}))

	// Act
	outcome, err := engine.ResolvePending(context.Background(), newConfirmAccount(), helpers.NewMockSession())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, farm.ConfirmationOutcome{Resolved: 2, Failed: 1}, outcome)

	require.Len(t, fetcher.OpQueries, 3)
	for i, q := range fetcher.OpQueries {
		assert.Equal(t, "allow", q.Get("op"))
		assert.Equal(t, "allow", q.Get("tag"))
		assert.Equal(t, "sig-allow", q.Get("k"), "response signed over the allow tag")
		assert.NotEmpty(t, q.Get("cid"))
		assert.Equal(t, fmt.Sprintf("%d00", i+1), q.Get("ck"))
	}

	// One signature for the listing, one fresh signature per accept
	assert.Equal(t, []string{"conf", "allow", "allow", "allow"}, signer.Tags)
}

func TestConfirmations_EmptyListing(t *testing.T) {
	// Arrange
	fetcher := &confFetcher{listBody: "<div>Nothing to confirm</div>"}
	engine := newEngine(fetcher, &stubSigner{}, shared.NewMockClock(time.Time{}))

	// Act
	outcome, err := engine.ResolvePending(context.Background(), newConfirmAccount(), helpers.NewMockSession())

	// Assert
	require.NoError(t, err)
	assert.Zero(t, outcome.Resolved)
	assert.Zero(t, outcome.Failed)
	assert.Empty(t, fetcher.OpQueries)
}

func TestConfirmations_ListRetriesExhaustBudget(t *testing.T) {
	// Arrange
	fetcher := &confFetcher{listErr: errors.New("timeout")}
	clock := shared.NewMockClock(time.Unix(1600000000, 0))
	engine := newEngine(fetcher, &stubSigner{}, clock)

	// Act
	_, err := engine.ResolvePending(context.Background(), newConfirmAccount(), helpers.NewMockSession())

	// Assert
	var listFailed *shared.ListFailedError
	require.ErrorAs(t, err, &listFailed)
	assert.Equal(t, 5, listFailed.Attempts)
	assert.Equal(t, 5, fetcher.ListCalls)
	assert.Len(t, clock.Slept, 4)
}

func TestConfirmations_SignatureUsesServerTime(t *testing.T) {
	// Arrange
	fetcher := &confFetcher{listBody: confListing("111")}
	session := helpers.NewMockSession()
	session.SetServerTime(time.Unix(1700000000, 0))
	engine := newEngine(fetcher, &stubSigner{}, shared.NewMockClock(time.Time{}))

	// Act
	_, err := engine.ResolvePending(context.Background(), newConfirmAccount(), session)

	// Assert
	require.NoError(t, err)
	require.Len(t, fetcher.OpQueries, 1)
	assert.Equal(t, "1700000000", fetcher.OpQueries[0].Get("t"))
}

package community

import (
	"context"
	"fmt"
	"net/url"

	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
)

// WebTradeClient responds to trade offers through the community's offer
// endpoints using the account's web session.
type WebTradeClient struct {
	fetcher *HTTPFetcher
	baseURL string
}

// NewWebTradeClient creates a trade client bound to one account's fetcher
func NewWebTradeClient(fetcher *HTTPFetcher, baseURL string) *WebTradeClient {
	return &WebTradeClient{fetcher: fetcher, baseURL: baseURL}
}

// Accept accepts the offer
func (c *WebTradeClient) Accept(ctx context.Context, offer ports.TradeOffer) error {
	form := url.Values{
		"sessionid":    {c.fetcher.SessionID()},
		"tradeofferid": {offer.ID},
		"partner":      {offer.PartnerID},
		"serverid":     {"1"},
	}
	return c.respond(ctx, offer.ID, "accept", form)
}

// Decline declines the offer
func (c *WebTradeClient) Decline(ctx context.Context, offer ports.TradeOffer) error {
	form := url.Values{
		"sessionid":    {c.fetcher.SessionID()},
		"tradeofferid": {offer.ID},
	}
	return c.respond(ctx, offer.ID, "decline", form)
}

func (c *WebTradeClient) respond(ctx context.Context, offerID, action string, form url.Values) error {
	page, err := c.fetcher.PostForm(ctx, fmt.Sprintf("%s/tradeoffer/%s/%s", c.baseURL, offerID, action), form)
	if err != nil {
		return fmt.Errorf("offer %s %s failed: %w", offerID, action, err)
	}
	if !page.OK() {
		return fmt.Errorf("offer %s %s returned status %d", offerID, action, page.StatusCode)
	}
	return nil
}

var _ ports.TradeClient = (*WebTradeClient)(nil)

package ports

import "context"

// TradeOffer is an inbound offer as presented by the trade collaborator
type TradeOffer struct {
	ID        string
	PartnerID string
}

// TradeClient accepts or declines inbound trade offers for one account.
// Both operations are terminal for the offer instance; the counterpart may
// re-send after a failure.
type TradeClient interface {
	Accept(ctx context.Context, offer TradeOffer) error
	Decline(ctx context.Context, offer TradeOffer) error
}

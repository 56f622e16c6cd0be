// Package trade routes inbound trade offers: offers from trusted admins
// are accepted (and mobile-confirmed when required), everything else is
// declined.
package trade

import (
	"context"

	"go.uber.org/zap"

	appfarm "github.com/andrescamacho/cardfarm-go/internal/application/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
)

// Decision records how an offer was routed
type Decision int

const (
	// DecisionDeclined means the counterparty was untrusted and the offer
	// was declined
	DecisionDeclined Decision = iota
	// DecisionAccepted means the offer was accepted
	DecisionAccepted
	// DecisionFailed means the accept or decline call itself failed;
	// terminal for this offer instance, the counterpart may re-send
	DecisionFailed
)

func (d Decision) String() string {
	switch d {
	case DecisionDeclined:
		return "DECLINED"
	case DecisionAccepted:
		return "ACCEPTED"
	case DecisionFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Router classifies inbound offers against the trusted-admin set
type Router struct {
	admins    map[string]struct{}
	confirmer appfarm.Confirmer
	logger    *zap.Logger
}

// NewRouter creates a router trusting the given admin ids
func NewRouter(adminIDs []string, confirmer appfarm.Confirmer, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Router{admins: admins, confirmer: confirmer, logger: logger}
}

// Trusted reports whether the counterparty is a bot admin
func (r *Router) Trusted(partnerID string) bool {
	_, ok := r.admins[partnerID]
	return ok
}

// Route accepts or declines one inbound offer. After a successful accept,
// pending confirmations are resolved when the account allows it. Accept and
// decline failures are logged, never retried.
func (r *Router) Route(ctx context.Context, account *farm.Account, session ports.Session, client ports.TradeClient, offer ports.TradeOffer) Decision {
	logger := r.logger.Named(account.Name)

	if !r.Trusted(offer.PartnerID) {
		logger.Info("declining offer from untrusted counterparty",
			zap.String("offer_id", offer.ID),
			zap.String("partner_id", offer.PartnerID))
		if err := client.Decline(ctx, offer); err != nil {
			logger.Warn("unable to decline offer",
				zap.String("offer_id", offer.ID),
				zap.Error(err))
			return DecisionFailed
		}
		return DecisionDeclined
	}

	logger.Info("accepting offer from bot admin",
		zap.String("offer_id", offer.ID),
		zap.String("partner_id", offer.PartnerID))
	if err := client.Accept(ctx, offer); err != nil {
		logger.Warn("unable to accept offer",
			zap.String("offer_id", offer.ID),
			zap.Error(err))
		return DecisionFailed
	}

	if account.CanConfirm() {
		outcome, err := r.confirmer.ResolvePending(ctx, account, session)
		if err != nil {
			logger.Warn("confirmation pass failed after accept",
				zap.String("offer_id", offer.ID),
				zap.Error(err))
		} else {
			logger.Debug("confirmations resolved after accept",
				zap.Int("resolved", outcome.Resolved),
				zap.Int("failed", outcome.Failed))
		}
	}

	return DecisionAccepted
}

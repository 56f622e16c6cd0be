package trade

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cardfarm-go/internal/application/common"
	appfarm "github.com/andrescamacho/cardfarm-go/internal/application/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
)

// RouteOfferCommand routes one inbound trade offer announced by the
// game-network agent
type RouteOfferCommand struct {
	AccountID string
	OfferID   string
	PartnerID string
}

// RouteOfferResponse reports the routing decision
type RouteOfferResponse struct {
	Decision string
}

// RouteOfferHandler handles RouteOfferCommand
type RouteOfferHandler struct {
	fleet  *appfarm.Fleet
	router *Router
}

func NewRouteOfferHandler(fleet *appfarm.Fleet, router *Router) *RouteOfferHandler {
	return &RouteOfferHandler{fleet: fleet, router: router}
}

func (h *RouteOfferHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(RouteOfferCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: %T", request)
	}

	m, found := h.fleet.Get(cmd.AccountID)
	if !found {
		return nil, fmt.Errorf("unknown account: %s", cmd.AccountID)
	}
	if m.Trade == nil {
		return nil, fmt.Errorf("account %s has no trade client", cmd.AccountID)
	}

	decision := h.router.Route(ctx, m.Account, m.Session, m.Trade, ports.TradeOffer{
		ID:        cmd.OfferID,
		PartnerID: cmd.PartnerID,
	})

	return RouteOfferResponse{Decision: decision.String()}, nil
}

// RegisterHandlers wires the trade command handlers into the mediator
func RegisterHandlers(m common.Mediator, fleet *appfarm.Fleet, router *Router) error {
	return common.RegisterHandler[RouteOfferCommand](m, NewRouteOfferHandler(fleet, router))
}

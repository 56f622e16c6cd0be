package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cardfarm-go/internal/application/common"
	appfarm "github.com/andrescamacho/cardfarm-go/internal/application/farm"
)

// ResolveConfirmationsCommand requests a confirmation pass for one account.
// Runs off the worker mailbox: confirmation state is disjoint from the
// inventory, so a pass may overlap the account's own scrape.
type ResolveConfirmationsCommand struct {
	AccountID string
}

// ResolveConfirmationsResponse reports the pass outcome
type ResolveConfirmationsResponse struct {
	Resolved int
	Failed   int
}

// ResolveConfirmationsHandler handles ResolveConfirmationsCommand
type ResolveConfirmationsHandler struct {
	fleet     *appfarm.Fleet
	confirmer appfarm.Confirmer
}

func NewResolveConfirmationsHandler(fleet *appfarm.Fleet, confirmer appfarm.Confirmer) *ResolveConfirmationsHandler {
	return &ResolveConfirmationsHandler{fleet: fleet, confirmer: confirmer}
}

func (h *ResolveConfirmationsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(ResolveConfirmationsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: %T", request)
	}

	m, found := h.fleet.Get(cmd.AccountID)
	if !found {
		return nil, fmt.Errorf("unknown account: %s", cmd.AccountID)
	}

	outcome, err := h.confirmer.ResolvePending(ctx, m.Account, m.Session)
	if err != nil {
		return nil, err
	}
	return ResolveConfirmationsResponse{Resolved: outcome.Resolved, Failed: outcome.Failed}, nil
}

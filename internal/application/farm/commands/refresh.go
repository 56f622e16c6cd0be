package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cardfarm-go/internal/application/common"
	appfarm "github.com/andrescamacho/cardfarm-go/internal/application/farm"
)

// RefreshAccountCommand requests a badge scrape and idle reconciliation for
// one account, waiting for the outcome.
type RefreshAccountCommand struct {
	AccountID string
}

// RefreshAccountResponse reports the account's state after the refresh
type RefreshAccountResponse struct {
	Status StatusEntry
}

// RefreshAccountHandler handles RefreshAccountCommand
type RefreshAccountHandler struct {
	fleet *appfarm.Fleet
}

func NewRefreshAccountHandler(fleet *appfarm.Fleet) *RefreshAccountHandler {
	return &RefreshAccountHandler{fleet: fleet}
}

func (h *RefreshAccountHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(RefreshAccountCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: %T", request)
	}

	m, found := h.fleet.Get(cmd.AccountID)
	if !found {
		return nil, fmt.Errorf("unknown account: %s", cmd.AccountID)
	}

	if err := m.Worker.Send(ctx, appfarm.NewEvent(appfarm.EventRefresh)); err != nil {
		return nil, err
	}

	status, err := m.Worker.Status(ctx)
	if err != nil {
		return nil, err
	}
	return RefreshAccountResponse{Status: toStatusEntry(status)}, nil
}

// RefreshFleetCommand triggers a staggered refresh across every account.
// Asynchronous: the response reports how many kickoffs were scheduled, not
// their outcomes.
type RefreshFleetCommand struct{}

// RefreshFleetResponse reports how many accounts were scheduled
type RefreshFleetResponse struct {
	Scheduled int
}

// RefreshFleetHandler handles RefreshFleetCommand
type RefreshFleetHandler struct {
	dispatcher *appfarm.Dispatcher
}

func NewRefreshFleetHandler(dispatcher *appfarm.Dispatcher) *RefreshFleetHandler {
	return &RefreshFleetHandler{dispatcher: dispatcher}
}

func (h *RefreshFleetHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(RefreshFleetCommand); !ok {
		return nil, fmt.Errorf("invalid request type: %T", request)
	}
	return RefreshFleetResponse{Scheduled: h.dispatcher.DispatchRefresh(ctx)}, nil
}

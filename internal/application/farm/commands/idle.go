package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cardfarm-go/internal/application/common"
	appfarm "github.com/andrescamacho/cardfarm-go/internal/application/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/shared"
)

// IdleAccountCommand requests idling an explicit title on one account
type IdleAccountCommand struct {
	AccountID string
	TitleID   int
}

// IdleAccountHandler handles IdleAccountCommand
type IdleAccountHandler struct {
	fleet *appfarm.Fleet
}

func NewIdleAccountHandler(fleet *appfarm.Fleet) *IdleAccountHandler {
	return &IdleAccountHandler{fleet: fleet}
}

func (h *IdleAccountHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(IdleAccountCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: %T", request)
	}
	if cmd.TitleID == farm.NoTitle {
		return nil, shared.NewInvalidTargetError(cmd.TitleID)
	}

	m, found := h.fleet.Get(cmd.AccountID)
	if !found {
		return nil, fmt.Errorf("unknown account: %s", cmd.AccountID)
	}

	ev := appfarm.NewEvent(appfarm.EventIdle)
	ev.TitleID = cmd.TitleID
	if err := m.Worker.Send(ctx, ev); err != nil {
		return nil, err
	}
	return nil, nil
}

// IdleFleetCommand requests idling an explicit title on every account whose
// inventory holds it (the farm-wide idle command).
type IdleFleetCommand struct {
	TitleID int
}

// IdleFleetResponse reports how many workers the command reached
type IdleFleetResponse struct {
	Dispatched int
}

// IdleFleetHandler handles IdleFleetCommand
type IdleFleetHandler struct {
	dispatcher *appfarm.Dispatcher
}

func NewIdleFleetHandler(dispatcher *appfarm.Dispatcher) *IdleFleetHandler {
	return &IdleFleetHandler{dispatcher: dispatcher}
}

func (h *IdleFleetHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(IdleFleetCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: %T", request)
	}
	if cmd.TitleID == farm.NoTitle {
		return nil, shared.NewInvalidTargetError(cmd.TitleID)
	}
	return IdleFleetResponse{Dispatched: h.dispatcher.DispatchIdle(ctx, cmd.TitleID)}, nil
}

// StopAccountCommand requests clearing one account's idle target
type StopAccountCommand struct {
	AccountID string
}

// StopAccountHandler handles StopAccountCommand
type StopAccountHandler struct {
	fleet *appfarm.Fleet
}

func NewStopAccountHandler(fleet *appfarm.Fleet) *StopAccountHandler {
	return &StopAccountHandler{fleet: fleet}
}

func (h *StopAccountHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(StopAccountCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: %T", request)
	}

	m, found := h.fleet.Get(cmd.AccountID)
	if !found {
		return nil, fmt.Errorf("unknown account: %s", cmd.AccountID)
	}

	if err := m.Worker.Send(ctx, appfarm.NewEvent(appfarm.EventStop)); err != nil {
		return nil, err
	}
	return nil, nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cardfarm-go/internal/application/common"
	appfarm "github.com/andrescamacho/cardfarm-go/internal/application/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
)

// FleetStatusQuery requests per-account summaries plus fleet totals
type FleetStatusQuery struct{}

// StatusEntry is one account's summary as reported through the command
// boundary
type StatusEntry struct {
	ID             string
	Name           string
	SessionActive  bool
	DropsRemaining int
	TitleCount     int
	CurrentTarget  int
}

// FleetStatusResponse aggregates the fleet's summaries
type FleetStatusResponse struct {
	Accounts    []StatusEntry
	TotalDrops  int
	TotalTitles int
}

// FleetStatusHandler handles FleetStatusQuery
type FleetStatusHandler struct {
	fleet *appfarm.Fleet
}

func NewFleetStatusHandler(fleet *appfarm.Fleet) *FleetStatusHandler {
	return &FleetStatusHandler{fleet: fleet}
}

func (h *FleetStatusHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(FleetStatusQuery); !ok {
		return nil, fmt.Errorf("invalid request type: %T", request)
	}

	statuses, err := h.fleet.Statuses(ctx)
	if err != nil {
		return nil, err
	}

	response := FleetStatusResponse{Accounts: make([]StatusEntry, 0, len(statuses))}
	for _, s := range statuses {
		response.Accounts = append(response.Accounts, toStatusEntry(s))
		response.TotalDrops += s.DropsRemaining
		response.TotalTitles += s.TitleCount
	}
	return response, nil
}

func toStatusEntry(s farm.Status) StatusEntry {
	return StatusEntry{
		ID:             s.ID,
		Name:           s.Name,
		SessionActive:  s.SessionActive,
		DropsRemaining: s.DropsRemaining,
		TitleCount:     s.TitleCount,
		CurrentTarget:  s.CurrentTarget,
	}
}

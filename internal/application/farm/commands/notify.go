package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cardfarm-go/internal/application/common"
	appfarm "github.com/andrescamacho/cardfarm-go/internal/application/farm"
)

// SessionEventCommand forwards a session transition announced by the
// game-network agent. Active true means logged on, false means the session
// was lost.
type SessionEventCommand struct {
	AccountID string
	Active    bool
}

// NewItemsCommand forwards a new-inventory-items notification
type NewItemsCommand struct {
	AccountID string
}

// NotifyResponse reports whether the event reached the worker's mailbox
type NotifyResponse struct {
	Posted bool
}

// NotifyHandler posts agent notifications onto the owning worker's mailbox.
// Delivery is fire-and-forget; a full mailbox drops the trigger.
type NotifyHandler struct {
	fleet *appfarm.Fleet
}

func NewNotifyHandler(fleet *appfarm.Fleet) *NotifyHandler {
	return &NotifyHandler{fleet: fleet}
}

func (h *NotifyHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	var accountID string
	var kind appfarm.EventKind

	switch cmd := request.(type) {
	case SessionEventCommand:
		accountID = cmd.AccountID
		kind = appfarm.EventSessionDown
		if cmd.Active {
			kind = appfarm.EventSessionUp
		}
	case NewItemsCommand:
		accountID = cmd.AccountID
		kind = appfarm.EventNewItems
	default:
		return nil, fmt.Errorf("invalid request type: %T", request)
	}

	m, found := h.fleet.Get(accountID)
	if !found {
		return nil, fmt.Errorf("unknown account: %s", accountID)
	}

	return NotifyResponse{Posted: m.Worker.Post(appfarm.NewEvent(kind))}, nil
}

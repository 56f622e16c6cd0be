package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/cardfarm-go/internal/application/common"
	appfarm "github.com/andrescamacho/cardfarm-go/internal/application/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
)

// RedeemKeyCommand activates a product key somewhere on the fleet
type RedeemKeyCommand struct {
	Key string
}

// RedeemKeyResponse reports where the key landed (or why it could not)
type RedeemKeyResponse struct {
	AccountID string
	Result    ports.RedeemResult
	Exhausted bool
}

// RedeemKeyHandler handles RedeemKeyCommand
type RedeemKeyHandler struct {
	redeemer *appfarm.Redeemer
}

func NewRedeemKeyHandler(redeemer *appfarm.Redeemer) *RedeemKeyHandler {
	return &RedeemKeyHandler{redeemer: redeemer}
}

func (h *RedeemKeyHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(RedeemKeyCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: %T", request)
	}
	if cmd.Key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	report, err := h.redeemer.Redeem(ctx, cmd.Key)
	if err != nil {
		return nil, err
	}
	return RedeemKeyResponse{
		AccountID: report.AccountID,
		Result:    report.Result,
		Exhausted: report.Exhausted,
	}, nil
}

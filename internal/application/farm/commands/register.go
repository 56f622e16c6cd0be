package commands

import (
	"github.com/andrescamacho/cardfarm-go/internal/application/common"
	appfarm "github.com/andrescamacho/cardfarm-go/internal/application/farm"
)

// RegisterAll wires every farm command handler into the mediator
func RegisterAll(
	m common.Mediator,
	fleet *appfarm.Fleet,
	dispatcher *appfarm.Dispatcher,
	confirmer appfarm.Confirmer,
	redeemer *appfarm.Redeemer,
) error {
	if err := common.RegisterHandler[RefreshAccountCommand](m, NewRefreshAccountHandler(fleet)); err != nil {
		return err
	}
	if err := common.RegisterHandler[RefreshFleetCommand](m, NewRefreshFleetHandler(dispatcher)); err != nil {
		return err
	}
	if err := common.RegisterHandler[IdleAccountCommand](m, NewIdleAccountHandler(fleet)); err != nil {
		return err
	}
	if err := common.RegisterHandler[IdleFleetCommand](m, NewIdleFleetHandler(dispatcher)); err != nil {
		return err
	}
	if err := common.RegisterHandler[StopAccountCommand](m, NewStopAccountHandler(fleet)); err != nil {
		return err
	}
	if err := common.RegisterHandler[FleetStatusQuery](m, NewFleetStatusHandler(fleet)); err != nil {
		return err
	}
	if err := common.RegisterHandler[ResolveConfirmationsCommand](m, NewResolveConfirmationsHandler(fleet, confirmer)); err != nil {
		return err
	}
	if err := common.RegisterHandler[RedeemKeyCommand](m, NewRedeemKeyHandler(redeemer)); err != nil {
		return err
	}
	notify := NewNotifyHandler(fleet)
	if err := common.RegisterHandler[SessionEventCommand](m, notify); err != nil {
		return err
	}
	if err := common.RegisterHandler[NewItemsCommand](m, notify); err != nil {
		return err
	}
	return nil
}

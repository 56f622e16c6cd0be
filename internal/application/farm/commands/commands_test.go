package commands_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cardfarm-go/internal/application/common"
	appfarm "github.com/andrescamacho/cardfarm-go/internal/application/farm"
	"github.com/andrescamacho/cardfarm-go/internal/application/farm/commands"
	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
	"github.com/andrescamacho/cardfarm-go/internal/domain/shared"
	"github.com/andrescamacho/cardfarm-go/test/helpers"
)

var idSeq atomic.Int64

type fixture struct {
	mediator  common.Mediator
	fleet     *appfarm.Fleet
	sessions  []*helpers.MockSession
	scrapers  []*helpers.MockScraper
	confirmer *helpers.MockConfirmer
	ids       []string
}

// newFixture builds a mediator over a fleet of running workers, one per
// inventory, wired exactly as the daemon wires them.
func newFixture(t *testing.T, inventories ...[]int) *fixture {
	t.Helper()

	f := &fixture{
		mediator:  common.NewMediator(),
		fleet:     appfarm.NewFleet(),
		confirmer: helpers.NewMockConfirmer(),
	}
	clock := shared.NewMockClock(time.Unix(1600000000, 0))

	ctx, cancel := context.WithCancel(context.Background())

	for _, ids := range inventories {
		id := fmt.Sprintf("acc-%d", idSeq.Add(1))
		account := farm.NewAccount(id, "", farm.Credentials{})
		account.IdleEnabled = true

		inv := farm.NewInventory()
		for _, titleID := range ids {
			inv.Add(&farm.Title{ID: titleID, Name: "game", DropsRemaining: 1})
		}
		session := helpers.NewMockSession()
		scraper := helpers.NewMockScraper(inv)

		worker := appfarm.NewWorker(account, session, scraper, nil, nil, clock, nil, 0)
		go worker.Run(ctx)
		t.Cleanup(func() { <-worker.Done() })

		require.NoError(t, f.fleet.Add(&appfarm.Managed{
			Account: account,
			Session: session,
			Worker:  worker,
		}))
		f.sessions = append(f.sessions, session)
		f.scrapers = append(f.scrapers, scraper)
		f.ids = append(f.ids, id)
	}

	dispatcher := appfarm.NewDispatcher(f.fleet, shared.NewRetryPolicy(1), clock, nil)
	redeemer := appfarm.NewRedeemer(f.fleet, shared.NewResyncPolicy(1), clock, nil)
	require.NoError(t, commands.RegisterAll(f.mediator, f.fleet, dispatcher, f.confirmer, redeemer))
	return f
}

func (f *fixture) send(t *testing.T, request common.Request) (common.Response, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return f.mediator.Send(ctx, request)
}

func TestRefreshAccountCommand(t *testing.T) {
	// Arrange
	f := newFixture(t, []int{10, 20})

	// Act
	resp, err := f.send(t, commands.RefreshAccountCommand{AccountID: f.ids[0]})

	// Assert
	require.NoError(t, err)
	status := resp.(commands.RefreshAccountResponse).Status
	assert.Equal(t, 10, status.CurrentTarget)
	assert.Equal(t, 2, status.TitleCount)
	assert.Equal(t, []int{10}, f.sessions[0].IdleCalls)
}

func TestRefreshAccountCommand_UnknownAccount(t *testing.T) {
	f := newFixture(t, []int{10})

	_, err := f.send(t, commands.RefreshAccountCommand{AccountID: "nope"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account")
}

func TestIdleAccountCommand(t *testing.T) {
	// Arrange
	f := newFixture(t, []int{10, 20})
	_, err := f.send(t, commands.RefreshAccountCommand{AccountID: f.ids[0]})
	require.NoError(t, err)

	// Act
	_, err = f.send(t, commands.IdleAccountCommand{AccountID: f.ids[0], TitleID: 20})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, f.sessions[0].IdleCalls)
}

func TestIdleAccountCommand_RejectsNoTitleSentinel(t *testing.T) {
	// Arrange
	f := newFixture(t, []int{10})

	// Act
	_, err := f.send(t, commands.IdleAccountCommand{AccountID: f.ids[0], TitleID: farm.NoTitle})

	// Assert
	var invalid *shared.InvalidTargetError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, f.sessions[0].IdleCalls)
}

func TestIdleFleetCommand(t *testing.T) {
	// Arrange
	f := newFixture(t, []int{10}, []int{20})
	for _, id := range f.ids {
		_, err := f.send(t, commands.RefreshAccountCommand{AccountID: id})
		require.NoError(t, err)
	}

	// Act
	resp, err := f.send(t, commands.IdleFleetCommand{TitleID: 20})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, resp.(commands.IdleFleetResponse).Dispatched)
	require.Eventually(t, func() bool {
		id, ok := f.sessions[1].LastIdleCall()
		return ok && id == 20
	}, 5*time.Second, 10*time.Millisecond)

	_, err = f.send(t, commands.IdleFleetCommand{TitleID: farm.NoTitle})
	var invalid *shared.InvalidTargetError
	assert.ErrorAs(t, err, &invalid)
}

func TestStopAccountCommand(t *testing.T) {
	// Arrange - idling after a refresh
	f := newFixture(t, []int{10})
	_, err := f.send(t, commands.RefreshAccountCommand{AccountID: f.ids[0]})
	require.NoError(t, err)

	// Act
	_, err = f.send(t, commands.StopAccountCommand{AccountID: f.ids[0]})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []int{10, farm.NoTitle}, f.sessions[0].IdleCalls)
}

func TestFleetStatusQuery_AggregatesTotals(t *testing.T) {
	// Arrange
	f := newFixture(t, []int{10, 20}, []int{30})
	for _, id := range f.ids {
		_, err := f.send(t, commands.RefreshAccountCommand{AccountID: id})
		require.NoError(t, err)
	}

	// Act
	resp, err := f.send(t, commands.FleetStatusQuery{})

	// Assert
	require.NoError(t, err)
	status := resp.(commands.FleetStatusResponse)
	require.Len(t, status.Accounts, 2)
	assert.Equal(t, 3, status.TotalDrops)
	assert.Equal(t, 3, status.TotalTitles)
	assert.Equal(t, f.ids[0], status.Accounts[0].ID)
	assert.Equal(t, 10, status.Accounts[0].CurrentTarget)
}

func TestResolveConfirmationsCommand(t *testing.T) {
	// Arrange
	f := newFixture(t, []int{10})
	f.confirmer.Outcome = farm.ConfirmationOutcome{Resolved: 2, Failed: 1}

	// Act
	resp, err := f.send(t, commands.ResolveConfirmationsCommand{AccountID: f.ids[0]})

	// Assert
	require.NoError(t, err)
	outcome := resp.(commands.ResolveConfirmationsResponse)
	assert.Equal(t, 2, outcome.Resolved)
	assert.Equal(t, 1, outcome.Failed)
	assert.Equal(t, 1, f.confirmer.CallCount())
}

func TestRedeemKeyCommand(t *testing.T) {
	// Arrange
	f := newFixture(t, []int{10}, []int{20})
	f.sessions[0].RedeemResults = []ports.RedeemResult{ports.RedeemAlreadyOwned}

	// Act
	resp, err := f.send(t, commands.RedeemKeyCommand{Key: "AAAAA-BBBBB-CCCCC"})

	// Assert - cascaded past the owner onto the second account
	require.NoError(t, err)
	report := resp.(commands.RedeemKeyResponse)
	assert.Equal(t, f.ids[1], report.AccountID)
	assert.Equal(t, ports.RedeemOK, report.Result)
	assert.False(t, report.Exhausted)
}

func TestRedeemKeyCommand_EmptyKey(t *testing.T) {
	f := newFixture(t, []int{10})

	_, err := f.send(t, commands.RedeemKeyCommand{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "key cannot be empty")
}

func TestSessionEventCommand_TogglesWorkerState(t *testing.T) {
	// Arrange
	f := newFixture(t, []int{10})

	// Act - the agent reports the session went away
	resp, err := f.send(t, commands.SessionEventCommand{AccountID: f.ids[0], Active: false})

	// Assert
	require.NoError(t, err)
	assert.True(t, resp.(commands.NotifyResponse).Posted)

	m, _ := f.fleet.Get(f.ids[0])
	require.Eventually(t, func() bool {
		status, statusErr := m.Worker.Status(context.Background())
		return statusErr == nil && !status.SessionActive
	}, 5*time.Second, 10*time.Millisecond)
}

func TestNewItemsCommand_TriggersScrape(t *testing.T) {
	// Arrange
	f := newFixture(t, []int{10})
	m, _ := f.fleet.Get(f.ids[0])
	m.Account.CheckOnNewItems = true

	// Act
	resp, err := f.send(t, commands.NewItemsCommand{AccountID: f.ids[0]})

	// Assert
	require.NoError(t, err)
	assert.True(t, resp.(commands.NotifyResponse).Posted)
	require.Eventually(t, func() bool {
		return f.scrapers[0].CallCount() == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestNotify_UnknownAccount(t *testing.T) {
	f := newFixture(t, []int{10})

	_, err := f.send(t, commands.SessionEventCommand{AccountID: "ghost", Active: true})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown account")
}

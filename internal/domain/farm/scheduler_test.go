package farm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
)

func newIdlingAccount() *farm.Account {
	account := farm.NewAccount("1", "bot", farm.Credentials{})
	account.IdleEnabled = true
	account.SessionActive = true
	return account
}

func inventoryOf(ids ...int) *farm.Inventory {
	inv := farm.NewInventory()
	for _, id := range ids {
		inv.Add(&farm.Title{ID: id, Name: "game", DropsRemaining: 1})
	}
	return inv
}

func TestReconcile_IdlingDisabled(t *testing.T) {
	// Arrange
	account := newIdlingAccount()
	account.IdleEnabled = false
	scheduler := farm.NewScheduler()

	// Act
	action := scheduler.Reconcile(account, inventoryOf(10, 20))

	// Assert
	assert.Equal(t, farm.ActionNoOp, action.Kind)
}

func TestReconcile_EmptyInventoryStopsIdling(t *testing.T) {
	// Arrange
	account := newIdlingAccount()
	account.CurrentTarget = 10
	scheduler := farm.NewScheduler()

	// Act
	action := scheduler.Reconcile(account, farm.NewInventory())

	// Assert
	assert.Equal(t, farm.ActionStopIdling, action.Kind)
}

func TestReconcile_EmptyInventoryNothingIdling(t *testing.T) {
	// Arrange
	account := newIdlingAccount()
	scheduler := farm.NewScheduler()

	// Act
	action := scheduler.Reconcile(account, farm.NewInventory())

	// Assert
	assert.Equal(t, farm.ActionNoOp, action.Kind)
}

func TestReconcile_PicksFirstByListingOrder(t *testing.T) {
	// Arrange - listing order deliberately not sorted by id
	account := newIdlingAccount()
	scheduler := farm.NewScheduler()
	inv := inventoryOf(730, 440, 570)

	// Act
	action := scheduler.Reconcile(account, inv)

	// Assert
	require.Equal(t, farm.ActionSwitchTo, action.Kind)
	assert.Equal(t, 730, action.TitleID)
}

func TestReconcile_FinishedTargetSwitchesToFirst(t *testing.T) {
	// Arrange - the previous target no longer appears in the scrape
	account := newIdlingAccount()
	account.CurrentTarget = 570
	scheduler := farm.NewScheduler()

	// Act
	action := scheduler.Reconcile(account, inventoryOf(440, 730))

	// Assert
	require.Equal(t, farm.ActionSwitchTo, action.Kind)
	assert.Equal(t, 440, action.TitleID)
}

func TestReconcile_CurrentTargetStillValid(t *testing.T) {
	// Arrange
	account := newIdlingAccount()
	account.CurrentTarget = 440
	scheduler := farm.NewScheduler()

	// Act
	action := scheduler.Reconcile(account, inventoryOf(730, 440))

	// Assert
	assert.Equal(t, farm.ActionKeepIdling, action.Kind)
}

func TestReconcile_Idempotent(t *testing.T) {
	// Arrange - applying the decision and reconciling again must not flap
	account := newIdlingAccount()
	scheduler := farm.NewScheduler()
	inv := inventoryOf(10, 20)

	// Act
	first := scheduler.Reconcile(account, inv)
	require.Equal(t, farm.ActionSwitchTo, first.Kind)
	account.CurrentTarget = first.TitleID
	second := scheduler.Reconcile(account, inv)

	// Assert
	assert.Equal(t, farm.ActionKeepIdling, second.Kind)
}

func TestTarget_RejectsSentinel(t *testing.T) {
	// Arrange
	account := newIdlingAccount()
	account.ReplaceInventory(inventoryOf(10))
	scheduler := farm.NewScheduler()

	// Act
	action := scheduler.Target(account, farm.NoTitle)

	// Assert
	assert.Equal(t, farm.ActionNoOp, action.Kind)
}

func TestTarget_UnknownTitle(t *testing.T) {
	// Arrange
	account := newIdlingAccount()
	account.ReplaceInventory(inventoryOf(10))
	scheduler := farm.NewScheduler()

	// Act
	action := scheduler.Target(account, 999)

	// Assert
	assert.Equal(t, farm.ActionNoOp, action.Kind)
}

func TestTarget_SameTitleKeepsIdling(t *testing.T) {
	// Arrange
	account := newIdlingAccount()
	account.ReplaceInventory(inventoryOf(10, 20))
	account.CurrentTarget = 20

	// Act
	action := farm.NewScheduler().Target(account, 20)

	// Assert
	assert.Equal(t, farm.ActionKeepIdling, action.Kind)
}

func TestTarget_SwitchesToRequestedTitle(t *testing.T) {
	// Arrange
	account := newIdlingAccount()
	account.ReplaceInventory(inventoryOf(10, 20))
	account.CurrentTarget = 10

	// Act
	action := farm.NewScheduler().Target(account, 20)

	// Assert
	require.Equal(t, farm.ActionSwitchTo, action.Kind)
	assert.Equal(t, 20, action.TitleID)
}

func TestInventory_OrderAndTotals(t *testing.T) {
	// Arrange
	inv := farm.NewInventory()
	inv.Add(&farm.Title{ID: 3, DropsRemaining: 2})
	inv.Add(&farm.Title{ID: 1, DropsRemaining: 5})
	inv.Add(&farm.Title{ID: 2, DropsRemaining: 1})

	// Assert
	assert.Equal(t, []int{3, 1, 2}, inv.IDs())
	assert.Equal(t, 3, inv.FirstID())
	assert.Equal(t, 8, inv.TotalDrops())
	assert.True(t, inv.Has(1))
	assert.False(t, inv.Has(4))
}

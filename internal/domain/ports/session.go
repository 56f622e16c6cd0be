package ports

import (
	"context"
	"time"
)

// Session is the game-network session collaborator for one account. The
// login protocol, two-factor prompts, and cookie plumbing all live behind
// this interface; the farming core only observes and mutates the session
// through it.
type Session interface {
	// Active reports whether the web session is currently authenticated
	Active() bool

	// SetIdleGame sets the "now playing" title. farm.NoTitle clears it.
	SetIdleGame(ctx context.Context, titleID int) error

	// SetVisibility switches the account's persona between online and
	// invisible
	SetVisibility(ctx context.Context, online bool) error

	// ServerTime returns the network-synchronized current time, the base
	// for every confirmation signature
	ServerTime() time.Time

	// RedeemKey activates a product key on this account
	RedeemKey(ctx context.Context, key string) (RedeemResult, error)
}

// RedeemResult is the outcome of a key activation attempt
type RedeemResult int

const (
	RedeemOK RedeemResult = iota
	RedeemInvalidKey
	RedeemDuplicatedKey
	RedeemRegionLocked
	RedeemAlreadyOwned
	RedeemBaseGameRequired
	RedeemOnCooldown
)

func (r RedeemResult) String() string {
	switch r {
	case RedeemOK:
		return "OK"
	case RedeemInvalidKey:
		return "INVALID_KEY"
	case RedeemDuplicatedKey:
		return "DUPLICATED_KEY"
	case RedeemRegionLocked:
		return "REGION_LOCKED"
	case RedeemAlreadyOwned:
		return "ALREADY_OWNED"
	case RedeemBaseGameRequired:
		return "BASE_GAME_REQUIRED"
	case RedeemOnCooldown:
		return "ON_COOLDOWN"
	default:
		return "UNKNOWN"
	}
}

// Retryable reports whether the key may still succeed on another account.
// Already-owned, base-game-required and cooldown results cascade to the
// next account; key-level failures do not.
func (r RedeemResult) Retryable() bool {
	switch r {
	case RedeemAlreadyOwned, RedeemBaseGameRequired, RedeemOnCooldown:
		return true
	default:
		return false
	}
}

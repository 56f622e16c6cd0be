package config

import "time"

// FarmConfig holds farming behavior settings
type FarmConfig struct {
	// CommunityURL is the base URL badge and confirmation pages are
	// fetched from; overridden in tests
	CommunityURL string `mapstructure:"community_url" validate:"omitempty,url"`

	// StoreURL is the base URL for key activation
	StoreURL string `mapstructure:"store_url" validate:"omitempty,url"`

	// APIURL is the base URL for the web API (server time sync)
	APIURL string `mapstructure:"api_url" validate:"omitempty,url"`

	// PresenceURL, when set, is the webhook the session adapter publishes
	// idle and visibility changes to. The game-network agent that owns the
	// wire session subscribes here.
	PresenceURL string `mapstructure:"presence_url" validate:"omitempty,url"`

	// RefreshInterval is the periodic badge re-check per account;
	// 0 disables the timer
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`

	// BackoffSeed seeds the jittered delay source; 0 means seed from the
	// current time. Fixed seeds are for reproducing scheduling behavior.
	BackoffSeed int64 `mapstructure:"backoff_seed"`
}

// AccountConfig declares one managed account in the roster
type AccountConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	ID      string `mapstructure:"id" validate:"required"`
	Name    string `mapstructure:"name"`

	// Login material; required only for enabled accounts
	Username string `mapstructure:"username" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password" validate:"required_if=Enabled true"`

	SharedSecret   string `mapstructure:"shared_secret"`
	IdentitySecret string `mapstructure:"identity_secret"`

	// Authenticated web cookies for the community and store domains.
	// The login flow that produces them lives in the game-network agent.
	WebSessionID   string `mapstructure:"web_session_id"`
	WebLoginSecure string `mapstructure:"web_login_secure"`

	Idle            bool `mapstructure:"idle"`
	Trades          bool `mapstructure:"trades"`
	CheckOnNewItems bool `mapstructure:"check_on_new_items"`
	VisibleOnline   bool `mapstructure:"visible_online"`
	Debug           bool `mapstructure:"debug"`
}

// EnabledAccounts filters the roster down to the accounts to actually run
func (c *Config) EnabledAccounts() []AccountConfig {
	accounts := make([]AccountConfig, 0, len(c.Accounts))
	for _, a := range c.Accounts {
		if a.Enabled {
			accounts = append(accounts, a)
		}
	}
	return accounts
}

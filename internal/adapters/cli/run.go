package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrescamacho/cardfarm-go/internal/adapters/community"
	"github.com/andrescamacho/cardfarm-go/internal/adapters/guard"
	"github.com/andrescamacho/cardfarm-go/internal/adapters/httpapi"
	"github.com/andrescamacho/cardfarm-go/internal/adapters/persistence"
	"github.com/andrescamacho/cardfarm-go/internal/application/common"
	appfarm "github.com/andrescamacho/cardfarm-go/internal/application/farm"
	"github.com/andrescamacho/cardfarm-go/internal/application/farm/commands"
	"github.com/andrescamacho/cardfarm-go/internal/application/trade"
	"github.com/andrescamacho/cardfarm-go/internal/domain/farm"
	"github.com/andrescamacho/cardfarm-go/internal/domain/ports"
	"github.com/andrescamacho/cardfarm-go/internal/domain/shared"
	"github.com/andrescamacho/cardfarm-go/internal/infrastructure/config"
	"github.com/andrescamacho/cardfarm-go/internal/infrastructure/database"
	"github.com/andrescamacho/cardfarm-go/internal/infrastructure/logging"
	"github.com/andrescamacho/cardfarm-go/internal/infrastructure/pidfile"
)

// NewRunCommand creates the run command, the daemon's main entry point
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the card farm daemon",
		Long: `Run the card farm daemon.

Loads the account roster, starts one worker per enabled account, serves the
admin API and farms card drops until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			pf := pidfile.New(cfg.Daemon.PIDFile)
			if err := pf.Acquire(); err != nil {
				if !forceStart {
					return fmt.Errorf("%w\nuse --force to replace the running instance", err)
				}
				if err := pf.KillExisting(); err != nil {
					return fmt.Errorf("failed to stop existing instance: %w", err)
				}
				if err := pf.Acquire(); err != nil {
					return fmt.Errorf("failed to acquire PID file after takeover: %w", err)
				}
			}
			defer func() {
				if err := pf.Release(); err != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to release PID file: %v\n", err)
				}
			}()

			return runDaemon(cfg)
		},
	}

	cmd.Flags().BoolVar(&forceStart, "force", false,
		"Stop any running instance and take over its PID file")

	return cmd
}

func runDaemon(cfg *config.Config) error {
	logger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db) //nolint:errcheck
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database connected", zap.String("type", cfg.Database.Type))

	activityLog := persistence.NewGormActivityLogRepository(db)
	snapshots := persistence.NewGormBadgeSnapshotRepository(db)

	clock := shared.NewRealClock()
	retry := shared.NewRetryPolicy(cfg.Farm.BackoffSeed)
	resync := shared.NewResyncPolicy(cfg.Farm.BackoffSeed)
	signer := guard.NewSigner()

	fleet := appfarm.NewFleet()
	confirmers := map[string]*community.ConfirmationEngine{}

	for _, ac := range cfg.EnabledAccounts() {
		account := farm.NewAccount(ac.ID, ac.Name, farm.Credentials{
			Username:       ac.Username,
			Password:       ac.Password,
			SharedSecret:   ac.SharedSecret,
			IdentitySecret: ac.IdentitySecret,
		})
		account.IdleEnabled = ac.Idle
		account.ConfirmTrades = ac.Trades
		account.CheckOnNewItems = ac.CheckOnNewItems
		account.VisibleOnline = ac.VisibleOnline
		account.Debug = ac.Debug

		fetcher, err := community.NewHTTPFetcher(community.SessionCookies{
			SessionID:   ac.WebSessionID,
			LoginSecure: ac.WebLoginSecure,
		}, cfg.Farm.CommunityURL, cfg.Farm.StoreURL)
		if err != nil {
			return fmt.Errorf("failed to build fetcher for %s: %w", ac.ID, err)
		}

		session := community.NewWebSession(ac.ID, fetcher, clock,
			cfg.Farm.CommunityURL, cfg.Farm.StoreURL, cfg.Farm.APIURL, cfg.Farm.PresenceURL, logger)

		scraper := community.NewScraper(fetcher, retry, clock, cfg.Farm.CommunityURL)
		confirmers[ac.ID] = community.NewConfirmationEngine(fetcher, signer, retry, clock, cfg.Farm.CommunityURL)

		worker := appfarm.NewWorker(account, session, scraper, activityLog, snapshots,
			clock, logger, cfg.Farm.RefreshInterval)

		if err := fleet.Add(&appfarm.Managed{
			Account: account,
			Session: session,
			Worker:  worker,
			Trade:   community.NewWebTradeClient(fetcher, cfg.Farm.CommunityURL),
		}); err != nil {
			return err
		}

		go worker.Run(ctx)

		// Cookie check before the first scrape; agents without live cookies
		// report their session over the ingress later.
		go func(s *community.WebSession, w *appfarm.Worker, name string) {
			if err := s.Probe(ctx); err != nil {
				logger.Warn("session probe failed", zap.String("account", name), zap.Error(err))
				return
			}
			if s.Active() {
				w.Post(appfarm.NewEvent(appfarm.EventSessionUp))
			}
		}(session, worker, ac.Name)
	}

	if fleet.Size() == 0 {
		return errors.New("no enabled accounts in the roster")
	}
	logger.Info("fleet assembled", zap.Int("accounts", fleet.Size()))

	dispatcher := appfarm.NewDispatcher(fleet, retry, clock, logger)
	redeemer := appfarm.NewRedeemer(fleet, resync, clock, logger)
	confirmer := fleetConfirmer{engines: confirmers}
	router := trade.NewRouter(cfg.Admins, confirmer, logger)

	med := common.NewMediator()
	if err := commands.RegisterAll(med, fleet, dispatcher, confirmer, redeemer); err != nil {
		return fmt.Errorf("failed to register command handlers: %w", err)
	}
	if err := trade.RegisterHandlers(med, fleet, router); err != nil {
		return fmt.Errorf("failed to register trade handlers: %w", err)
	}

	api := httpapi.NewServer(med, activityLog, logger)
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("admin API listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		stop()
		logger.Error("admin API failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("admin API shutdown failed", zap.Error(err))
	}

	for _, m := range fleet.Members() {
		<-m.Worker.Done()
	}
	logger.Info("all workers stopped")
	return nil
}

// fleetConfirmer picks the account's confirmation engine. Engines are
// per-account because each one rides that account's cookie jar.
type fleetConfirmer struct {
	engines map[string]*community.ConfirmationEngine
}

func (c fleetConfirmer) ResolvePending(ctx context.Context, account *farm.Account, session ports.Session) (farm.ConfirmationOutcome, error) {
	engine, ok := c.engines[account.ID]
	if !ok {
		return farm.ConfirmationOutcome{}, fmt.Errorf("no confirmation engine for account %s", account.ID)
	}
	return engine.ResolvePending(ctx, account, session)
}

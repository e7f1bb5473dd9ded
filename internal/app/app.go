// Package app wires configuration, storage, clients, and services into a
// single application core shared by the server entry point and tests.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/folio/internal/clients/tushare"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/services/account"
	"github.com/bobmcallan/folio/internal/services/position"
	"github.com/bobmcallan/folio/internal/services/quote"
	"github.com/bobmcallan/folio/internal/services/trade"
	"github.com/bobmcallan/folio/internal/storage/ledgerdb"
	"github.com/bobmcallan/folio/internal/storage/marketdb"
)

// App holds all initialized services, clients, and stores.
type App struct {
	Config *common.Config
	Logger *common.Logger

	Ledger       interfaces.LedgerStore
	Market       interfaces.MarketStore
	MarketClient interfaces.MarketDataClient

	AccountService  interfaces.AccountService
	TradeService    interfaces.TradeService
	PositionService interfaces.PositionService
	QuoteService    interfaces.QuoteService

	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services from configuration.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Config resolution: explicit path, FOLIO_CONFIG, binary dir, dev fallback.
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	ledgerStore, err := ledgerdb.NewStore(logger, config.Storage.Ledger.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger store: %w", err)
	}

	marketStore, err := marketdb.NewStore(logger, config.Storage.Market.Path)
	if err != nil {
		ledgerStore.Close()
		return nil, fmt.Errorf("failed to open market store: %w", err)
	}

	// Without a token the quote service runs cache-only and positions come
	// back flagged as degraded.
	var marketClient interfaces.MarketDataClient
	if config.Clients.Tushare.Token != "" {
		marketClient = tushare.NewClient(config.Clients.Tushare.Token,
			tushare.WithLogger(logger),
			tushare.WithBaseURL(config.Clients.Tushare.BaseURL),
			tushare.WithRateLimit(config.Clients.Tushare.RateLimit),
			tushare.WithTimeout(config.Clients.Tushare.GetTimeout()),
		)
	} else {
		logger.Warn().Msg("Tushare token not configured - live quotes will be unavailable")
	}

	quoteService := quote.NewService(marketStore, marketClient, logger)
	accountService := account.NewService(ledgerStore, logger)
	tradeService := trade.NewService(ledgerStore, logger,
		trade.WithAffordabilityCheck(config.Trading.EnforceAffordability),
	)
	positionService := position.NewService(ledgerStore, quoteService, logger)

	app := &App{
		Config:          config,
		Logger:          logger,
		Ledger:          ledgerStore,
		Market:          marketStore,
		MarketClient:    marketClient,
		AccountService:  accountService,
		TradeService:    tradeService,
		PositionService: positionService,
		QuoteService:    quoteService,
		StartupTime:     time.Now(),
	}

	logger.Info().
		Str("version", common.GetFullVersion()).
		Str("environment", config.Environment).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return app, nil
}

// Close releases storage resources.
func (a *App) Close() error {
	var firstErr error
	if a.Market != nil {
		if err := a.Market.Close(); err != nil {
			firstErr = err
		}
	}
	if a.Ledger != nil {
		if err := a.Ledger.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

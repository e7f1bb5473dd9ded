// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/models"
)

// LedgerStore owns the two mutable resources in the system: accounts (cash)
// and the append-only transaction ledger. Implementations must apply a
// transaction append and its paired cash adjustment as one atomic unit, and
// serialize concurrent trades against the same account.
type LedgerStore interface {
	// Accounts
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]*models.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error

	// AdjustCash applies a signed delta to the account's cash balance.
	// Used for explicit top-up/withdrawal; trade cash effects go through
	// AppendTransaction instead.
	AdjustCash(ctx context.Context, accountID string, delta decimal.Decimal) error

	// AppendTransaction assigns the insert sequence, appends tx to the
	// ledger, and applies cashDelta to the owning account atomically.
	AppendTransaction(ctx context.Context, tx *models.Transaction, cashDelta decimal.Decimal) error

	// GetTransactions returns the account's ledger ordered by trade date
	// ascending, insert sequence breaking ties. An empty symbol returns
	// all symbols.
	GetTransactions(ctx context.Context, accountID, symbol string) ([]*models.Transaction, error)

	Close() error
}

// MarketStore caches quote and display-name data synced from the market-data
// provider. A miss is a degraded-data condition, never fatal to valuation.
type MarketStore interface {
	SaveStockInfo(ctx context.Context, info *models.StockInfo) error
	GetStockInfo(ctx context.Context, symbol string) (*models.StockInfo, error)

	SaveDailyQuote(ctx context.Context, quote *models.DailyQuote) error
	GetLatestQuote(ctx context.Context, symbol string) (*models.DailyQuote, error)

	Close() error
}

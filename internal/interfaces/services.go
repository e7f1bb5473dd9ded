package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/models"
)

// AccountService manages trading accounts.
type AccountService interface {
	CreateAccount(ctx context.Context, name string, accountType models.AccountType, initialCapital decimal.Decimal) (*models.Account, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]*models.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error

	// AdjustCash applies an explicit deposit (positive) or withdrawal
	// (negative) and returns the updated account. Trade cash effects do not
	// go through here.
	AdjustCash(ctx context.Context, accountID string, delta decimal.Decimal) (*models.Account, error)
}

// TradeService records transactions and applies their cash ledger effect.
type TradeService interface {
	// BuyStock and SellStock build a transaction (amount = price * shares,
	// trade date defaulting to today when zero) and record it.
	BuyStock(ctx context.Context, accountID, symbol string, shares int64, price, fee decimal.Decimal, tradeDate time.Time) (*models.Transaction, error)
	SellStock(ctx context.Context, accountID, symbol string, shares int64, price, fee decimal.Decimal, tradeDate time.Time) (*models.Transaction, error)

	// RecordTransaction validates and appends a fully-specified transaction,
	// applying its cash effect atomically with the append.
	RecordTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)

	GetTransactions(ctx context.Context, accountID, symbol string) ([]*models.Transaction, error)
}

// PositionService derives holdings, positions, and account summaries from the
// transaction ledger. All reads are full recomputations; no derived state is
// cached between calls.
type PositionService interface {
	GetPositions(ctx context.Context, accountID string) ([]models.Position, error)
	GetAccountSummary(ctx context.Context, accountID string) (*models.AccountSummary, error)
}

// QuoteService resolves the latest price and display name for a symbol.
// Lookups never fail: an unknown symbol yields a zero price and the symbol
// itself as name, logged as degraded data.
type QuoteService interface {
	GetLatestPrice(ctx context.Context, symbol string) decimal.Decimal
	GetDisplayName(ctx context.Context, symbol string) string
}

// Package trade records ledger transactions and applies their cash effect.
package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Service implements TradeService. Every recorded transaction is appended to
// the ledger together with its cash effect in one atomic store operation;
// nothing else about the account is mutated.
type Service struct {
	ledger interfaces.LedgerStore
	logger *common.Logger

	// enforceAffordability is an explicit opt-in policy. The cash ledger
	// effect itself never rejects an overdraft.
	enforceAffordability bool
}

// Option configures the trade service.
type Option func(*Service)

// WithAffordabilityCheck enables the pre-trade affordability policy: buys
// whose amount+fee exceeds the account's cash are rejected.
func WithAffordabilityCheck(enabled bool) Option {
	return func(s *Service) {
		s.enforceAffordability = enabled
	}
}

// NewService creates a new trade service.
func NewService(ledger interfaces.LedgerStore, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		ledger: ledger,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuyStock records a buy of shares at price. tradeDate may be zero to mean
// today. The account's cash decreases by amount+fee.
func (s *Service) BuyStock(ctx context.Context, accountID, symbol string, shares int64, price, fee decimal.Decimal, tradeDate time.Time) (*models.Transaction, error) {
	return s.RecordTransaction(ctx, buildTransaction(accountID, symbol, models.TradeSideBuy, shares, price, fee, tradeDate))
}

// SellStock records a sell of shares at price. tradeDate may be zero to mean
// today. The account's cash increases by amount-fee.
func (s *Service) SellStock(ctx context.Context, accountID, symbol string, shares int64, price, fee decimal.Decimal, tradeDate time.Time) (*models.Transaction, error) {
	return s.RecordTransaction(ctx, buildTransaction(accountID, symbol, models.TradeSideSell, shares, price, fee, tradeDate))
}

// RecordTransaction validates tx, fills in identity and timestamps, and
// appends it to the ledger with its cash effect applied atomically.
func (s *Service) RecordTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}

	account, err := s.ledger.GetAccount(ctx, tx.AccountID)
	if err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}

	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.TradeDate.IsZero() {
		tx.TradeDate = truncateToDate(time.Now().UTC())
	} else {
		tx.TradeDate = truncateToDate(tx.TradeDate)
	}
	tx.CreatedAt = time.Now().UTC()

	cashDelta := tx.CashEffect()

	if s.enforceAffordability && tx.Side == models.TradeSideBuy {
		if account.CurrentCash.Add(cashDelta).IsNegative() {
			return nil, fmt.Errorf("insufficient cash in account '%s': have %s, need %s",
				tx.AccountID, account.CurrentCash, cashDelta.Neg())
		}
	}

	if err := s.ledger.AppendTransaction(ctx, tx, cashDelta); err != nil {
		return nil, fmt.Errorf("failed to append transaction: %w", err)
	}

	s.logger.Info().
		Str("account_id", tx.AccountID).
		Str("symbol", tx.Symbol).
		Str("side", string(tx.Side)).
		Int64("shares", tx.Shares).
		Str("price", tx.Price.String()).
		Str("cash_delta", cashDelta.String()).
		Msg("Transaction recorded")

	return tx, nil
}

// GetTransactions returns the account's ordered ledger, optionally filtered
// by symbol.
func (s *Service) GetTransactions(ctx context.Context, accountID, symbol string) ([]*models.Transaction, error) {
	if _, err := s.ledger.GetAccount(ctx, accountID); err != nil {
		return nil, fmt.Errorf("get transactions: %w", err)
	}
	return s.ledger.GetTransactions(ctx, accountID, symbol)
}

// buildTransaction assembles a transaction with amount derived from
// price * shares.
func buildTransaction(accountID, symbol string, side models.TradeSide, shares int64, price, fee decimal.Decimal, tradeDate time.Time) *models.Transaction {
	return &models.Transaction{
		AccountID: accountID,
		Symbol:    symbol,
		Side:      side,
		Shares:    shares,
		Price:     price,
		Amount:    price.Mul(decimal.NewFromInt(shares)),
		Fee:       fee,
		TradeDate: tradeDate,
	}
}

// truncateToDate drops the time-of-day component. Trade dates carry no
// intraday ordering.
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Ensure Service implements TradeService
var _ interfaces.TradeService = (*Service)(nil)

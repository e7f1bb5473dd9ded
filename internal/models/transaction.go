package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide is the direction of a transaction
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// ParseTradeSide validates a trade side string.
func ParseTradeSide(s string) (TradeSide, error) {
	switch TradeSide(s) {
	case TradeSideBuy, TradeSideSell:
		return TradeSide(s), nil
	default:
		return "", fmt.Errorf("invalid trade side '%s'", s)
	}
}

// Transaction is one immutable entry in an account's trade ledger. Transactions
// are append-only: they are never updated or deleted, and the full set for an
// (account, symbol) pair is the sole source of truth for the holding.
type Transaction struct {
	ID        string          `json:"id" badgerhold:"key"`
	AccountID string          `json:"account_id" badgerhold:"index"`
	Symbol    string          `json:"symbol"`
	Side      TradeSide       `json:"side"`
	Shares    int64           `json:"shares"`
	Price     decimal.Decimal `json:"price"`
	Amount    decimal.Decimal `json:"amount"` // gross amount = price * shares, stored independently
	Fee       decimal.Decimal `json:"fee"`
	TradeDate time.Time       `json:"trade_date"` // calendar date, no intraday ordering
	Note      string          `json:"note,omitempty"`

	// Seq is the ledger insert sequence, assigned by the store on append.
	// It breaks ties between transactions sharing a trade date so replay
	// order never depends on storage iteration order.
	Seq       uint64    `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the invariants every ledger entry must satisfy before append.
func (t *Transaction) Validate() error {
	if t.AccountID == "" {
		return fmt.Errorf("transaction requires an account id")
	}
	if t.Symbol == "" {
		return fmt.Errorf("transaction requires a symbol")
	}
	if t.Side != TradeSideBuy && t.Side != TradeSideSell {
		return fmt.Errorf("invalid trade side '%s'", t.Side)
	}
	if t.Shares <= 0 {
		return fmt.Errorf("shares must be positive, got %d", t.Shares)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("price must be positive, got %s", t.Price)
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("amount must not be negative, got %s", t.Amount)
	}
	if t.Fee.IsNegative() {
		return fmt.Errorf("fee must not be negative, got %s", t.Fee)
	}
	return nil
}

// CashEffect returns the signed cash delta this transaction applies to its
// account: a buy debits amount+fee, a sell credits amount-fee. The fee reduces
// the investor's net cash on both sides.
func (t *Transaction) CashEffect() decimal.Decimal {
	if t.Side == TradeSideBuy {
		return t.Amount.Add(t.Fee).Neg()
	}
	return t.Amount.Sub(t.Fee)
}

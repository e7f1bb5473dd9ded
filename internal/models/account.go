// Package models defines data structures for Folio
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrAccountNotFound is returned when an account id does not resolve in the ledger store.
var ErrAccountNotFound = errors.New("account not found")

// AccountType indicates whether an account tracks real or simulated trades
type AccountType string

const (
	AccountTypeBrokerage  AccountType = "brokerage"
	AccountTypeSimulation AccountType = "simulation"
)

// ParseAccountType validates and normalizes an account type string.
// An empty string defaults to brokerage.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountTypeBrokerage, AccountTypeSimulation:
		return AccountType(s), nil
	case "":
		return AccountTypeBrokerage, nil
	default:
		return "", fmt.Errorf("invalid account type '%s'", s)
	}
}

// Account represents a trading account. Cash is the only mutable balance it
// carries; holdings are never stored, they are replayed from the transaction
// ledger on every read.
type Account struct {
	ID             string          `json:"id" badgerhold:"key"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	InitialCapital decimal.Decimal `json:"initial_capital"`
	CurrentCash    decimal.Decimal `json:"current_cash"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

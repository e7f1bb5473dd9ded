package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockInfo is the display metadata for a listed symbol.
type StockInfo struct {
	Symbol   string    `json:"symbol" badgerhold:"key"`
	Name     string    `json:"name"`
	Market   string    `json:"market"`
	Industry string    `json:"industry,omitempty"`
	ListDate time.Time `json:"list_date,omitempty"`
	SyncedAt time.Time `json:"synced_at"`
}

// DailyQuote is one end-of-day bar for a symbol. The valuation engine only
// needs the latest close; the full bar is kept for the dashboard collaborators.
type DailyQuote struct {
	Symbol    string          `json:"symbol" badgerhold:"index"`
	TradeDate time.Time       `json:"trade_date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
	SyncedAt  time.Time       `json:"synced_at"`
}

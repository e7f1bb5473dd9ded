package models

import (
	"github.com/shopspring/decimal"
)

// Holding is the replayed state of one (account, symbol) pair: shares held and
// the cost basis attributed to them. Holdings are derived, never persisted:
// recomputing from the same ledger always yields the same Holding.
type Holding struct {
	AccountID string          `json:"account_id"`
	Symbol    string          `json:"symbol"`
	Shares    int64           `json:"shares"`
	CostBasis decimal.Decimal `json:"cost_basis"`

	// RealizedPnL accumulates (proceeds - fee) - (avg cost * shares sold)
	// across all sells in the replayed history. Not persisted; exposed for
	// realized-P&L reporting.
	RealizedPnL decimal.Decimal `json:"realized_pnl"`

	// Oversold is set when a sell in the history reduced shares below zero.
	// The holding is kept and flagged rather than clamped or rejected so
	// forensic recomputation stays possible.
	Oversold bool `json:"oversold,omitempty"`
}

// AvgCost returns cost basis per share, or zero when no shares are held.
func (h Holding) AvgCost() decimal.Decimal {
	if h.Shares <= 0 {
		return decimal.Zero
	}
	return h.CostBasis.Div(decimal.NewFromInt(h.Shares))
}

// Position is a Holding enriched with a live quote for presentation.
type Position struct {
	Symbol           string          `json:"symbol"`
	Name             string          `json:"name"`
	Shares           int64           `json:"shares"`
	AvgCost          decimal.Decimal `json:"avg_cost"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	MarketValue      decimal.Decimal `json:"market_value"`
	CostBasis        decimal.Decimal `json:"cost_basis"`
	UnrealizedPnL    decimal.Decimal `json:"unrealized_pnl"`
	UnrealizedPnLPct decimal.Decimal `json:"unrealized_pnl_pct"`
	Oversold         bool            `json:"oversold,omitempty"`
}

// AccountSummary aggregates an account's cash and valuated positions.
type AccountSummary struct {
	AccountID      string          `json:"account_id"`
	TotalAssets    decimal.Decimal `json:"total_assets"`
	Cash           decimal.Decimal `json:"cash"`
	PositionsValue decimal.Decimal `json:"positions_value"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	TotalPnL       decimal.Decimal `json:"total_pnl"`
	TotalPnLPct    decimal.Decimal `json:"total_pnl_pct"`
	PositionCount  int             `json:"position_count"`
}

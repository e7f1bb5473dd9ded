package position

import (
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/models"
)

// Valuate combines a holding with its latest price and display name to
// produce a Position. A zero price (unknown quote) values the position at
// zero rather than failing; a zero cost basis reports 0% rather than
// dividing by zero.
func Valuate(h models.Holding, price decimal.Decimal, name string) models.Position {
	if name == "" {
		name = h.Symbol
	}

	marketValue := price.Mul(decimal.NewFromInt(h.Shares))
	pnl := marketValue.Sub(h.CostBasis)
	pnlPct := decimal.Zero
	if h.CostBasis.IsPositive() {
		pnlPct = pnl.Div(h.CostBasis).Mul(hundred)
	}

	return models.Position{
		Symbol:           h.Symbol,
		Name:             name,
		Shares:           h.Shares,
		AvgCost:          h.AvgCost(),
		CurrentPrice:     price,
		MarketValue:      marketValue,
		CostBasis:        h.CostBasis,
		UnrealizedPnL:    pnl,
		UnrealizedPnLPct: pnlPct,
		Oversold:         h.Oversold,
	}
}

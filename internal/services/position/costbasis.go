// Package position derives holdings, positions, and account summaries from
// the transaction ledger using weighted-average-cost accounting.
package position

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/models"
)

var hundred = decimal.NewFromInt(100)

// sortLedger orders transactions by trade date ascending, breaking ties by
// insert sequence. Storage iteration order never leaks into replay order, so
// folding the same ledger always yields the same result.
func sortLedger(txs []*models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		di, dj := txs[i].TradeDate, txs[j].TradeDate
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return txs[i].Seq < txs[j].Seq
	})
}

// FoldHolding replays one symbol's transaction history into a Holding.
//
// Buys add shares and capitalize amount+fee into cost basis. Sells remove the
// proportional cost of the shares sold at the running average cost, not the
// sale proceeds, and accumulate the realized gain (proceeds - fee - removed
// cost). A sell that drives shares negative marks the holding oversold; the
// fold keeps going so historical recomputation stays possible.
//
// The fold is pure: it copies the input before sorting and touches no state
// outside its return value.
func FoldHolding(accountID, symbol string, txs []*models.Transaction) models.Holding {
	ledger := make([]*models.Transaction, len(txs))
	copy(ledger, txs)
	sortLedger(ledger)

	var shares int64
	cost := decimal.Zero
	realized := decimal.Zero
	oversold := false

	for _, t := range ledger {
		switch t.Side {
		case models.TradeSideBuy:
			shares += t.Shares
			cost = cost.Add(t.Amount.Add(t.Fee))
		case models.TradeSideSell:
			avgCost := decimal.Zero
			if shares > 0 {
				avgCost = cost.Div(decimal.NewFromInt(shares))
			}
			removed := avgCost.Mul(decimal.NewFromInt(t.Shares))
			realized = realized.Add(t.Amount.Sub(t.Fee).Sub(removed))
			cost = cost.Sub(removed)
			shares -= t.Shares
			if shares < 0 {
				oversold = true
			}
		}
	}

	return models.Holding{
		AccountID:   accountID,
		Symbol:      symbol,
		Shares:      shares,
		CostBasis:   cost,
		RealizedPnL: realized,
		Oversold:    oversold,
	}
}

// FoldHoldings groups an account's ledger by symbol and folds each group.
// Closed positions (zero shares, no oversell) are dropped; oversold holdings
// are kept and flagged. Results are ordered by symbol for determinism.
func FoldHoldings(accountID string, txs []*models.Transaction) []models.Holding {
	bySymbol := make(map[string][]*models.Transaction)
	for _, t := range txs {
		bySymbol[t.Symbol] = append(bySymbol[t.Symbol], t)
	}

	symbols := make([]string, 0, len(bySymbol))
	for sym := range bySymbol {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	holdings := make([]models.Holding, 0, len(symbols))
	for _, sym := range symbols {
		h := FoldHolding(accountID, sym, bySymbol[sym])
		if h.Shares == 0 && !h.Oversold {
			continue
		}
		holdings = append(holdings, h)
	}
	return holdings
}

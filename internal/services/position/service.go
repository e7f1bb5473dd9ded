package position

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Service implements PositionService by replaying the full transaction ledger
// on every read. There is no cached derived state: a backdated trade landing
// in the ledger is reflected by the very next read.
type Service struct {
	ledger interfaces.LedgerStore
	quotes interfaces.QuoteService
	logger *common.Logger
}

// NewService creates a new position service.
func NewService(ledger interfaces.LedgerStore, quotes interfaces.QuoteService, logger *common.Logger) *Service {
	return &Service{
		ledger: ledger,
		quotes: quotes,
		logger: logger,
	}
}

// GetPositions replays the account's ledger into valuated positions.
// The account must exist; quote misses degrade to zero-priced positions.
func (s *Service) GetPositions(ctx context.Context, accountID string) ([]models.Position, error) {
	if _, err := s.ledger.GetAccount(ctx, accountID); err != nil {
		return nil, fmt.Errorf("get positions for account '%s': %w", accountID, err)
	}

	txs, err := s.ledger.GetTransactions(ctx, accountID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger for account '%s': %w", accountID, err)
	}

	holdings := FoldHoldings(accountID, txs)

	positions := make([]models.Position, 0, len(holdings))
	for _, h := range holdings {
		if h.Oversold {
			s.logger.Warn().
				Str("account_id", accountID).
				Str("symbol", h.Symbol).
				Int64("shares", h.Shares).
				Msg("Oversold holding in ledger, flagging instead of dropping")
		}

		price := s.quotes.GetLatestPrice(ctx, h.Symbol)
		name := s.quotes.GetDisplayName(ctx, h.Symbol)
		positions = append(positions, Valuate(h, price, name))
	}

	return positions, nil
}

// GetAccountSummary sums the account's cash and valuated positions into one
// portfolio-level snapshot.
func (s *Service) GetAccountSummary(ctx context.Context, accountID string) (*models.AccountSummary, error) {
	account, err := s.ledger.GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get summary for account '%s': %w", accountID, err)
	}

	positions, err := s.GetPositions(ctx, accountID)
	if err != nil {
		return nil, err
	}

	positionsValue := decimal.Zero
	totalCost := decimal.Zero
	totalPnL := decimal.Zero
	for _, p := range positions {
		positionsValue = positionsValue.Add(p.MarketValue)
		totalCost = totalCost.Add(p.CostBasis)
		totalPnL = totalPnL.Add(p.UnrealizedPnL)
	}

	totalPnLPct := decimal.Zero
	if totalCost.IsPositive() {
		totalPnLPct = totalPnL.Div(totalCost).Mul(hundred)
	}

	return &models.AccountSummary{
		AccountID:      accountID,
		TotalAssets:    account.CurrentCash.Add(positionsValue),
		Cash:           account.CurrentCash,
		PositionsValue: positionsValue,
		TotalCost:      totalCost,
		TotalPnL:       totalPnL,
		TotalPnLPct:    totalPnLPct,
		PositionCount:  len(positions),
	}, nil
}

// Ensure Service implements PositionService
var _ interfaces.PositionService = (*Service)(nil)

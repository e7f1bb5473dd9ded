// Package quote resolves latest prices and display names with cache-first
// lookup and degraded-data defaults.
package quote

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
)

// Service implements QuoteService. Lookups go to the market store first and
// fall back to the provider client; on a complete miss the caller gets a zero
// price or the symbol as its own name. A miss is degraded data, never an
// error; valuation must always produce a best-effort snapshot.
type Service struct {
	store  interfaces.MarketStore
	client interfaces.MarketDataClient
	logger *common.Logger
}

// NewService creates a new quote service.
// client may be nil when no provider is configured, lookups then serve from
// the store only.
func NewService(store interfaces.MarketStore, client interfaces.MarketDataClient, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		client: client,
		logger: logger,
	}
}

// GetLatestPrice returns the latest known close for symbol, or zero when the
// symbol is untracked or newly listed.
func (s *Service) GetLatestPrice(ctx context.Context, symbol string) decimal.Decimal {
	if q, err := s.store.GetLatestQuote(ctx, symbol); err == nil && q != nil {
		return q.Close
	}

	if s.client != nil {
		q, err := s.client.GetLatestQuote(ctx, symbol)
		if err == nil && q != nil {
			if saveErr := s.store.SaveDailyQuote(ctx, q); saveErr != nil {
				s.logger.Warn().Err(saveErr).Str("symbol", symbol).Msg("Failed to cache quote")
			}
			return q.Close
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Quote provider miss")
		}
	}

	s.logger.Warn().Str("symbol", symbol).Msg("No quote available, valuing at zero")
	return decimal.Zero
}

// GetDisplayName returns the listed name for symbol, falling back to the
// symbol itself when no listing is known.
func (s *Service) GetDisplayName(ctx context.Context, symbol string) string {
	if info, err := s.store.GetStockInfo(ctx, symbol); err == nil && info != nil && info.Name != "" {
		return info.Name
	}

	if s.client != nil {
		info, err := s.client.GetStockInfo(ctx, symbol)
		if err == nil && info != nil && info.Name != "" {
			if saveErr := s.store.SaveStockInfo(ctx, info); saveErr != nil {
				s.logger.Warn().Err(saveErr).Str("symbol", symbol).Msg("Failed to cache stock info")
			}
			return info.Name
		}
	}

	return symbol
}

// Ensure Service implements QuoteService
var _ interfaces.QuoteService = (*Service)(nil)

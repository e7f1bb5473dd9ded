// Package marketdb implements MarketStore using BadgerHold.
// It caches daily quotes and stock listing info synced from the provider.
package marketdb

import (
	"context"
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Store implements interfaces.MarketStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new MarketStore backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create marketdb path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open marketdb at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("MarketDB opened")
	return &Store{db: db, logger: logger}, nil
}

// keySep is the composite key separator for quote keys.
const keySep = "\x00"

// quoteKey builds the storage key: symbol + \x00 + trade date.
func quoteKey(q *models.DailyQuote) string {
	return q.Symbol + keySep + q.TradeDate.Format("2006-01-02")
}

func (s *Store) SaveStockInfo(_ context.Context, info *models.StockInfo) error {
	if err := s.db.Upsert(info.Symbol, info); err != nil {
		return fmt.Errorf("failed to save stock info '%s': %w", info.Symbol, err)
	}
	return nil
}

func (s *Store) GetStockInfo(_ context.Context, symbol string) (*models.StockInfo, error) {
	var info models.StockInfo
	if err := s.db.Get(symbol, &info); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("stock info '%s' not found", symbol)
		}
		return nil, fmt.Errorf("failed to get stock info '%s': %w", symbol, err)
	}
	return &info, nil
}

func (s *Store) SaveDailyQuote(_ context.Context, quote *models.DailyQuote) error {
	if err := s.db.Upsert(quoteKey(quote), quote); err != nil {
		return fmt.Errorf("failed to save quote '%s': %w", quote.Symbol, err)
	}
	return nil
}

// GetLatestQuote returns the newest stored bar for symbol.
func (s *Store) GetLatestQuote(_ context.Context, symbol string) (*models.DailyQuote, error) {
	var quotes []models.DailyQuote
	query := badgerhold.Where("Symbol").Eq(symbol).Index("Symbol")
	if err := s.db.Find(&quotes, query); err != nil {
		return nil, fmt.Errorf("failed to query quotes for '%s': %w", symbol, err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("no quotes stored for '%s'", symbol)
	}

	latest := quotes[0]
	for _, q := range quotes[1:] {
		if q.TradeDate.After(latest.TradeDate) {
			latest = q
		}
	}
	return &latest, nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure Store implements MarketStore
var _ interfaces.MarketStore = (*Store)(nil)

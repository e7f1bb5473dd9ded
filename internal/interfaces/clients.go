package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// MarketDataClient fetches quotes and listing metadata from the upstream
// market-data provider. Implementations return an error on a provider miss;
// the quote service translates that into degraded-data defaults.
type MarketDataClient interface {
	GetLatestQuote(ctx context.Context, symbol string) (*models.DailyQuote, error)
	GetStockInfo(ctx context.Context, symbol string) (*models.StockInfo, error)
}

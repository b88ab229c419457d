package dataflows

import (
	"context"

	"alphadesk/config"
	"alphadesk/internal/models"
)

// Config is an alias for the main application config
type Config = config.Config

// MarketDataProvider is the boundary toward the external market data feed.
// The feed is best-effort: callers must tolerate a failed Fetch for one
// symbol without aborting the batch.
type MarketDataProvider interface {
	// Fetch returns a fresh snapshot for one symbol.
	Fetch(ctx context.Context, symbol string) (*models.StockQuote, error)

	// History returns daily close bars for a trailing window of calendar
	// days, oldest first.
	History(ctx context.Context, symbol string, days int) ([]*models.PriceBar, error)
}

// FetchAll fetches every symbol in order, skipping failures. The returned
// slice preserves input order for the symbols that succeeded.
func FetchAll(ctx context.Context, p MarketDataProvider, symbols []string) []*models.StockQuote {
	quotes := make([]*models.StockQuote, 0, len(symbols))
	for _, symbol := range symbols {
		q, err := p.Fetch(ctx, symbol)
		if err != nil {
			logFetchSkip(symbol, err)
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes
}

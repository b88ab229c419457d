package dataflows

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"

	"alphadesk/internal/models"
)

// YahooClient fetches quote snapshots and price history from Yahoo Finance.
type YahooClient struct {
	cache *CacheManager
}

// NewYahooClient creates a new Yahoo Finance client
func NewYahooClient(config *Config) *YahooClient {
	cacheDir := filepath.Join(config.DataCacheDir, "yahoo_finance")
	cache := NewCacheManager(cacheDir, 24*time.Hour, config.CacheEnabled)

	return &YahooClient{
		cache: cache,
	}
}

// GetQuote gets a current snapshot for a symbol. Fields the feed does not
// carry (beta, revenue growth, leverage ratios) are left zero for the
// fundamentals client to fill in.
func (yc *YahooClient) GetQuote(symbol string) (*models.StockQuote, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	symbol = NormalizeSymbol(symbol)

	// Check cache first
	var cached models.StockQuote
	if yc.cache.Get("yahoo", "quote", symbol, &cached) {
		return &cached, nil
	}

	var result *models.StockQuote
	err := WithRetry(DefaultRetryConfig(), func() error {
		eq, err := equity.Get(symbol)
		if err != nil {
			return fmt.Errorf("failed to get quote for %s: %w", symbol, err)
		}

		price := eq.RegularMarketPrice

		// Yahoo has no trailing P/E field on this endpoint; derive it from
		// trailing EPS, falling back to the forward ratio.
		pe := 0.0
		if eq.EpsTrailingTwelveMonths > 0 && price > 0 {
			pe = price / eq.EpsTrailingTwelveMonths
		} else if eq.ForwardPE > 0 {
			pe = eq.ForwardPE
		}

		result = &models.StockQuote{
			Symbol:           symbol,
			Price:            price,
			PERatio:          pe,
			DividendYieldPct: NormalizeDividendYield(eq.TrailingAnnualDividendYield),
			MarketCap:        float64(eq.MarketCap),
			PBRatio:          eq.PriceToBook,
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	yc.cache.Set("yahoo", "quote", symbol, result)

	return result, nil
}

// GetHistory gets daily close bars for a trailing window, oldest first.
func (yc *YahooClient) GetHistory(symbol string, days int) ([]*models.PriceBar, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	symbol = NormalizeSymbol(symbol)
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	cacheKey := map[string]interface{}{
		"symbol": symbol,
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
	}

	var cached []*models.PriceBar
	if yc.cache.Get("yahoo", "history", cacheKey, &cached) {
		return cached, nil
	}

	var result []*models.PriceBar
	err := WithRetry(DefaultRetryConfig(), func() error {
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&start),
			End:      datetime.New(&end),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)

		result = make([]*models.PriceBar, 0)
		for iter.Next() {
			bar := iter.Bar()
			result = append(result, &models.PriceBar{
				Date:  time.Unix(int64(bar.Timestamp), 0),
				Close: bar.Close,
			})
		}

		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to get history for %s: %w", symbol, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	yc.cache.Set("yahoo", "history", cacheKey, result)

	return result, nil
}

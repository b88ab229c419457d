package dataflows

import (
	"context"
	"fmt"
	"sync"
	"time"

	"alphadesk/internal/models"
)

// Gateway is the production MarketDataProvider. Yahoo supplies the price
// snapshot and history; Finnhub, when configured, fills in fundamentals.
// A sector lookup callback covers symbols Finnhub cannot label.
type Gateway struct {
	yahoo        *YahooClient
	finnhub      *FinnhubClient
	sectorLookup func(symbol string) string
	fetchTimeout time.Duration
}

// NewGateway creates the production gateway. sectorLookup may be nil.
func NewGateway(config *Config, sectorLookup func(string) string) *Gateway {
	return &Gateway{
		yahoo:        NewYahooClient(config),
		finnhub:      NewFinnhubClient(config),
		sectorLookup: sectorLookup,
		fetchTimeout: time.Duration(config.FetchTimeoutSec) * time.Second,
	}
}

// Fetch assembles one StockQuote. A Finnhub failure degrades the snapshot
// (zero fundamentals) instead of failing the fetch; a Yahoo failure fails it.
func (g *Gateway) Fetch(ctx context.Context, symbol string) (*models.StockQuote, error) {
	quote, err := runWithTimeout(ctx, g.fetchTimeout, func() (*models.StockQuote, error) {
		return g.yahoo.GetQuote(symbol)
	})
	if err != nil {
		return nil, err
	}

	if g.finnhub.Enabled() {
		if fund, err := g.finnhub.GetFundamentals(symbol); err == nil {
			quote.Beta = fund.Beta
			quote.RevenueGrowthPct = fund.RevenueGrowthPct
			quote.ROEPct = fund.ROEPct
			quote.DebtToEquity = fund.DebtToEquity
			quote.CurrentRatio = fund.CurrentRatio
			if quote.PERatio == 0 && fund.PERatio > 0 {
				quote.PERatio = fund.PERatio
			}
			if quote.PBRatio == 0 && fund.PBRatio > 0 {
				quote.PBRatio = fund.PBRatio
			}
			if quote.DividendYieldPct == 0 && fund.DividendYieldPct > 0 {
				quote.DividendYieldPct = NormalizeDividendYield(fund.DividendYieldPct)
			}
		}
		if profile, err := g.finnhub.GetCompanyProfile(symbol); err == nil && profile.Industry != "" {
			quote.Sector = profile.Industry
		}
	}

	if quote.Sector == "" && g.sectorLookup != nil {
		quote.Sector = g.sectorLookup(symbol)
	}

	return quote, nil
}

// History returns daily close bars for a trailing window, oldest first.
func (g *Gateway) History(ctx context.Context, symbol string, days int) ([]*models.PriceBar, error) {
	return runWithTimeout(ctx, g.fetchTimeout, func() ([]*models.PriceBar, error) {
		return g.yahoo.GetHistory(symbol, days)
	})
}

// runWithTimeout bounds a blocking fetch. The underlying client has no
// context support, so a timed-out call is abandoned rather than cancelled;
// the caller treats the timeout like any other fetch failure.
func runWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}

	if timeout <= 0 {
		return fn()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan outcome, 1)
	go func() {
		v, err := fn()
		ch <- outcome{value: v, err: err}
	}()

	select {
	case out := <-ch:
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("fetch timed out: %w", ctx.Err())
	}
}

// MemoProvider wraps a provider with a request-scoped memo so repeated
// symbols within one query are fetched once. Build a fresh MemoProvider per
// request; it is never shared across queries.
type MemoProvider struct {
	inner MarketDataProvider

	mu      sync.Mutex
	quotes  map[string]*models.StockQuote
	history map[string][]*models.PriceBar
	errs    map[string]error
}

// Memoized wraps a provider in a per-request memo layer.
func Memoized(inner MarketDataProvider) *MemoProvider {
	return &MemoProvider{
		inner:   inner,
		quotes:  make(map[string]*models.StockQuote),
		history: make(map[string][]*models.PriceBar),
		errs:    make(map[string]error),
	}
}

func (m *MemoProvider) Fetch(ctx context.Context, symbol string) (*models.StockQuote, error) {
	key := NormalizeSymbol(symbol)

	m.mu.Lock()
	defer m.mu.Unlock()

	if q, ok := m.quotes[key]; ok {
		return q, nil
	}
	if err, ok := m.errs[key]; ok {
		return nil, err
	}

	q, err := m.inner.Fetch(ctx, symbol)
	if err != nil {
		m.errs[key] = err
		return nil, err
	}

	m.quotes[key] = q
	return q, nil
}

func (m *MemoProvider) History(ctx context.Context, symbol string, days int) ([]*models.PriceBar, error) {
	key := fmt.Sprintf("%s-%d", NormalizeSymbol(symbol), days)

	m.mu.Lock()
	defer m.mu.Unlock()

	if bars, ok := m.history[key]; ok {
		return bars, nil
	}

	bars, err := m.inner.History(ctx, symbol, days)
	if err != nil {
		return nil, err
	}

	m.history[key] = bars
	return bars, nil
}

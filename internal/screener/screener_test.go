package screener

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"alphadesk/internal/models"
	"alphadesk/internal/universe"
)

// stubProvider serves canned quotes and fails for unknown symbols.
type stubProvider struct {
	quotes map[string]*models.StockQuote
}

func (p *stubProvider) Fetch(_ context.Context, symbol string) (*models.StockQuote, error) {
	q, ok := p.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("no data for %s", symbol)
	}
	return q, nil
}

func (p *stubProvider) History(_ context.Context, _ string, _ int) ([]*models.PriceBar, error) {
	return nil, nil
}

func quoteMap(quotes ...*models.StockQuote) map[string]*models.StockQuote {
	m := make(map[string]*models.StockQuote)
	for _, q := range quotes {
		m[q.Symbol] = q
	}
	return m
}

func TestScreenDividendYieldFilterAndSort(t *testing.T) {
	provider := &stubProvider{quotes: quoteMap(
		&models.StockQuote{Symbol: "T", Price: 18, DividendYieldPct: 6.5, Sector: "Communication Services"},
		&models.StockQuote{Symbol: "KO", Price: 60, DividendYieldPct: 4.2, Sector: "Consumer Defensive"},
		&models.StockQuote{Symbol: "AAPL", Price: 190, DividendYieldPct: 1.0, Sector: "Technology"},
	)}
	s := New(universe.Load())

	result := s.Screen(context.Background(), provider, "dividend stocks with yield over 3%")

	if result.MatchedCount != 2 {
		t.Fatalf("matched %d, want 2", result.MatchedCount)
	}
	if result.Stocks[0].Symbol != "T" || result.Stocks[1].Symbol != "KO" {
		t.Errorf("yield sort wrong: %s, %s", result.Stocks[0].Symbol, result.Stocks[1].Symbol)
	}
}

func TestScreenPriceBounds(t *testing.T) {
	provider := &stubProvider{quotes: quoteMap(
		&models.StockQuote{Symbol: "INTC", Price: 35, Sector: "Technology", MarketCap: 1e11},
		&models.StockQuote{Symbol: "MSFT", Price: 420, Sector: "Technology", MarketCap: 3e12},
		&models.StockQuote{Symbol: "AMD", Price: 100, Sector: "Technology", MarketCap: 2e11},
	)}
	s := New(universe.Load())

	result := s.Screen(context.Background(), provider, "tech stocks under $100")

	for _, q := range result.Stocks {
		if q.Price > 100 {
			t.Errorf("%s at $%v exceeds the price cap", q.Symbol, q.Price)
		}
	}
	// Closed interval: a price exactly at the bound stays in.
	found := false
	for _, q := range result.Stocks {
		if q.Symbol == "AMD" {
			found = true
		}
	}
	if !found {
		t.Error("price equal to the bound must pass")
	}
}

func TestScreenMissingPEPassesMaxPE(t *testing.T) {
	provider := &stubProvider{quotes: quoteMap(
		&models.StockQuote{Symbol: "F", Price: 12, PERatio: 0, MarketCap: 5e10},
		&models.StockQuote{Symbol: "NVDA", Price: 120, PERatio: 60, MarketCap: 3e12},
		&models.StockQuote{Symbol: "GM", Price: 45, PERatio: 6, MarketCap: 5e10},
	)}
	s := New(universe.Load())

	result := s.Screen(context.Background(), provider, "stocks with pe under 20")

	symbols := make(map[string]bool)
	for _, q := range result.Stocks {
		symbols[q.Symbol] = true
	}
	if !symbols["F"] {
		t.Error("missing PE cannot violate a maximum")
	}
	if !symbols["GM"] {
		t.Error("low PE must pass")
	}
	if symbols["NVDA"] {
		t.Error("high PE must be excluded")
	}
}

func TestScreenSectorFlag(t *testing.T) {
	provider := &stubProvider{quotes: quoteMap(
		&models.StockQuote{Symbol: "JNJ", Price: 160, Sector: "Healthcare", MarketCap: 4e11},
		&models.StockQuote{Symbol: "JPM", Price: 200, Sector: "Financial Services", MarketCap: 6e11},
	)}
	s := New(universe.Load())

	result := s.Screen(context.Background(), provider, "healthcare companies")

	if result.MatchedCount != 1 || result.Stocks[0].Symbol != "JNJ" {
		t.Fatalf("healthcare flag must keep only JNJ, got %v matches", result.MatchedCount)
	}
}

func TestScreenValueSortsAscendingPE(t *testing.T) {
	provider := &stubProvider{quotes: quoteMap(
		&models.StockQuote{Symbol: "WFC", Price: 55, PERatio: 11, MarketCap: 2e11},
		&models.StockQuote{Symbol: "BAC", Price: 40, PERatio: 0, MarketCap: 3e11},
		&models.StockQuote{Symbol: "GS", Price: 450, PERatio: 14, MarketCap: 1.5e11},
	)}
	s := New(universe.Load())

	result := s.Screen(context.Background(), provider, "value stocks")

	if len(result.Stocks) != 3 {
		t.Fatalf("expected 3 stocks, got %d", len(result.Stocks))
	}
	if result.Stocks[0].Symbol != "WFC" || result.Stocks[1].Symbol != "GS" {
		t.Errorf("PE sort wrong: %s, %s", result.Stocks[0].Symbol, result.Stocks[1].Symbol)
	}
	if result.Stocks[2].Symbol != "BAC" {
		t.Error("missing PE must sort last")
	}
}

func TestRequestedCount(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"top 3 dividend stocks", 3},
		{"show 12 companies", 12},
		{"5 stocks please", 5},
		{"dividend stocks", 8},
	}

	for _, tc := range cases {
		if got := requestedCount(tc.query); got != tc.want {
			t.Errorf("requestedCount(%q) = %d, want %d", tc.query, got, tc.want)
		}
	}
}

func TestScreenZeroMatchesIsNotAnError(t *testing.T) {
	provider := &stubProvider{quotes: quoteMap(
		&models.StockQuote{Symbol: "MSFT", Price: 420, Sector: "Technology"},
	)}
	s := New(universe.Load())

	result := s.Screen(context.Background(), provider, "tech stocks under $1")
	if result.MatchedCount != 0 {
		t.Fatalf("matched %d, want 0", result.MatchedCount)
	}

	report := FormatReport(result)
	if !strings.Contains(report, "No stocks found") {
		t.Errorf("empty report missing suggestion text: %q", report)
	}
}

func TestScreenTruncatesToRequestedCount(t *testing.T) {
	quotes := make(map[string]*models.StockQuote)
	static := universe.Load()
	for i, sym := range static.TechUniverse {
		quotes[sym] = &models.StockQuote{Symbol: sym, Price: 50, Sector: "Technology", MarketCap: 1e12 - float64(i)}
	}
	s := New(static)

	result := s.Screen(context.Background(), &stubProvider{quotes: quotes}, "top 4 tech stocks")

	if len(result.Stocks) != 4 {
		t.Errorf("shown %d stocks, want 4", len(result.Stocks))
	}
	if result.MatchedCount != len(static.TechUniverse) {
		t.Errorf("matched %d, want %d", result.MatchedCount, len(static.TechUniverse))
	}
}

package dataflows

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"alphadesk/internal/models"
)

type countingProvider struct {
	fetches   map[string]int
	histories map[string]int
	failures  map[string]bool
}

func newCountingProvider() *countingProvider {
	return &countingProvider{
		fetches:   make(map[string]int),
		histories: make(map[string]int),
		failures:  make(map[string]bool),
	}
}

func (p *countingProvider) Fetch(_ context.Context, symbol string) (*models.StockQuote, error) {
	p.fetches[symbol]++
	if p.failures[symbol] {
		return nil, fmt.Errorf("no data for %s", symbol)
	}
	return &models.StockQuote{Symbol: symbol, Price: 100}, nil
}

func (p *countingProvider) History(_ context.Context, symbol string, days int) ([]*models.PriceBar, error) {
	p.histories[symbol]++
	return []*models.PriceBar{
		{Date: time.Now().AddDate(0, 0, -days), Close: decimal.NewFromInt(90)},
		{Date: time.Now(), Close: decimal.NewFromInt(100)},
	}, nil
}

func TestMemoProviderFetchesOnce(t *testing.T) {
	inner := newCountingProvider()
	memo := Memoized(inner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := memo.Fetch(ctx, "AAPL"); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}

	if inner.fetches["AAPL"] != 1 {
		t.Errorf("expected 1 underlying fetch, got %d", inner.fetches["AAPL"])
	}
}

func TestMemoProviderCachesFailures(t *testing.T) {
	inner := newCountingProvider()
	inner.failures["BADCO"] = true
	memo := Memoized(inner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := memo.Fetch(ctx, "BADCO"); err == nil {
			t.Fatal("expected error for failing symbol")
		}
	}

	if inner.fetches["BADCO"] != 1 {
		t.Errorf("expected 1 underlying fetch for failing symbol, got %d", inner.fetches["BADCO"])
	}
}

func TestMemoProviderNormalizesSymbolKeys(t *testing.T) {
	inner := newCountingProvider()
	memo := Memoized(inner)
	ctx := context.Background()

	memo.Fetch(ctx, "msft")
	memo.Fetch(ctx, "MSFT")
	memo.Fetch(ctx, " msft ")

	total := 0
	for _, n := range inner.fetches {
		total += n
	}
	if total != 1 {
		t.Errorf("expected 1 underlying fetch across casings, got %d", total)
	}
}

func TestMemoProviderHistoryKeyedByWindow(t *testing.T) {
	inner := newCountingProvider()
	memo := Memoized(inner)
	ctx := context.Background()

	memo.History(ctx, "NVDA", 90)
	memo.History(ctx, "NVDA", 90)
	memo.History(ctx, "NVDA", 365)

	if inner.histories["NVDA"] != 2 {
		t.Errorf("expected 2 underlying history calls, got %d", inner.histories["NVDA"])
	}
}

func TestFetchAllSkipsFailures(t *testing.T) {
	inner := newCountingProvider()
	inner.failures["BADCO"] = true

	quotes := FetchAll(context.Background(), inner, []string{"AAPL", "BADCO", "MSFT"})

	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if quotes[0].Symbol != "AAPL" || quotes[1].Symbol != "MSFT" {
		t.Errorf("quote order not preserved: %v %v", quotes[0].Symbol, quotes[1].Symbol)
	}
}

func TestNormalizeDividendYield(t *testing.T) {
	cases := []struct {
		raw  float64
		want float64
	}{
		{0, 0},
		{-0.5, 0},
		{0.042, 4.2},
		{4.2, 4.2},
		{1.0, 1.0},
		{0.999, 99.9},
	}

	for _, tc := range cases {
		got := NormalizeDividendYield(tc.raw)
		if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("NormalizeDividendYield(%v) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestCacheManagerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cm := NewCacheManager(dir, time.Hour, true)

	in := &models.StockQuote{Symbol: "AAPL", Price: 187.5}
	if err := cm.Set("yahoo", "quote", "AAPL", in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out models.StockQuote
	if !cm.Get("yahoo", "quote", "AAPL", &out) {
		t.Fatal("expected cache hit")
	}
	if out.Price != in.Price {
		t.Errorf("cached price %v, want %v", out.Price, in.Price)
	}
}

func TestCacheManagerDisabled(t *testing.T) {
	dir := t.TempDir()
	cm := NewCacheManager(dir, time.Hour, false)

	cm.Set("yahoo", "quote", "AAPL", &models.StockQuote{Symbol: "AAPL"})

	var out models.StockQuote
	if cm.Get("yahoo", "quote", "AAPL", &out) {
		t.Fatal("disabled cache must never hit")
	}
}

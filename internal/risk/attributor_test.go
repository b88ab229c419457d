package risk

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"alphadesk/internal/models"
	"alphadesk/internal/universe"
)

type stubProvider struct {
	quotes  map[string]*models.StockQuote
	history map[string][]*models.PriceBar
}

func (p *stubProvider) Fetch(_ context.Context, symbol string) (*models.StockQuote, error) {
	q, ok := p.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("no data for %s", symbol)
	}
	return q, nil
}

func (p *stubProvider) History(_ context.Context, symbol string, _ int) ([]*models.PriceBar, error) {
	bars, ok := p.history[symbol]
	if !ok {
		return nil, fmt.Errorf("no history for %s", symbol)
	}
	return bars, nil
}

func TestExtractTickers(t *testing.T) {
	cases := []struct {
		query string
		want  []string
	}{
		{"analyze MSFT risk", []string{"MSFT"}},
		{"compare AAPL and BRK-B", []string{"AAPL", "BRK-B"}},
		{"what is the PE of the AI ETF in the USA", nil},
		{"risk of NVDA given GDP trends", []string{"NVDA"}},
		{"lowercase msft is not a ticker", nil},
	}

	for _, tc := range cases {
		got := ExtractTickers(tc.query)
		if len(got) != len(tc.want) {
			t.Errorf("ExtractTickers(%q) = %v, want %v", tc.query, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("ExtractTickers(%q) = %v, want %v", tc.query, got, tc.want)
				break
			}
		}
	}
}

func TestOverallRiskScoreLowProfile(t *testing.T) {
	score := OverallRiskScore(0.9, 0.18, 0.3, 28)
	if score >= 0.3 {
		t.Errorf("score = %v, want < 0.3", score)
	}
	if RiskLevel(score) != "Low" {
		t.Errorf("level = %s, want Low", RiskLevel(score))
	}
}

func TestOverallRiskScoreCapsAndMissingPE(t *testing.T) {
	// Every component at its cap.
	score := OverallRiskScore(3.5, 0.9, 5, 80)
	if score < 0.999 || score > 1.001 {
		t.Errorf("capped score = %v, want 1.0", score)
	}

	// Missing PE contributes a neutral 0.5 valuation component.
	withPE := OverallRiskScore(1.0, 0.0, 0.0, 10)
	withoutPE := OverallRiskScore(1.0, 0.0, 0.0, 0)
	if withoutPE <= withPE {
		t.Errorf("missing PE (%v) must score above a cheap PE of 10 (%v)", withoutPE, withPE)
	}
}

func TestRiskLevelBands(t *testing.T) {
	if RiskLevel(0.75) != "High" {
		t.Error("0.75 must band High")
	}
	if RiskLevel(0.5) != "Medium" {
		t.Error("0.5 must band Medium")
	}
	if RiskLevel(0.29) != "Low" {
		t.Error("0.29 must band Low")
	}
}

func TestFactorScoresHardMembership(t *testing.T) {
	a := New(universe.Load())

	// NVDA is a hard Growth member; live metrics must not matter.
	q := &models.StockQuote{Symbol: "NVDA", RevenueGrowthPct: -50, PERatio: 200}
	scores := a.FactorScores(q)
	if scores["Growth"] != 0.9 {
		t.Errorf("Growth exposure = %v, want 0.9", scores["Growth"])
	}
	if scores["Momentum"] != 0.9 {
		t.Errorf("Momentum exposure = %v, want 0.9 for member", scores["Momentum"])
	}
}

func TestFactorScoresSoftPaths(t *testing.T) {
	a := New(universe.Load())

	q := &models.StockQuote{Symbol: "ZZZZ", RevenueGrowthPct: 30, PERatio: 25, ROEPct: 10}
	scores := a.FactorScores(q)

	approx := func(name string, got, want float64) {
		t.Helper()
		if diff := got - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	approx("Growth", scores["Growth"], 0.8)
	approx("Value", scores["Value"], 0.5)
	approx("Quality", scores["Quality"], 0.5)
	approx("Momentum", scores["Momentum"], 0.5)

	// Missing PE is treated as deeply expensive, zeroing value exposure.
	q = &models.StockQuote{Symbol: "ZZZZ", PERatio: 0}
	if v := a.FactorScores(q)["Value"]; v != 0 {
		t.Errorf("Value with missing PE = %v, want 0", v)
	}
}

func TestAnnualizedVolatility(t *testing.T) {
	flat := []*models.PriceBar{
		{Date: time.Now().AddDate(0, 0, -3), Close: decimal.NewFromInt(100)},
		{Date: time.Now().AddDate(0, 0, -2), Close: decimal.NewFromInt(100)},
		{Date: time.Now().AddDate(0, 0, -1), Close: decimal.NewFromInt(100)},
	}
	if v := annualizedVolatility(flat); v != 0 {
		t.Errorf("flat series volatility = %v, want 0", v)
	}

	choppy := []*models.PriceBar{
		{Close: decimal.NewFromInt(100)},
		{Close: decimal.NewFromInt(110)},
		{Close: decimal.NewFromInt(99)},
		{Close: decimal.NewFromInt(112)},
	}
	if v := annualizedVolatility(choppy); v <= 0.5 {
		t.Errorf("choppy series volatility = %v, want large", v)
	}

	if v := annualizedVolatility(nil); v != 0 {
		t.Error("no history must give zero volatility")
	}
}

func TestPortfolioMetrics(t *testing.T) {
	a := New(universe.Load())

	p := models.Portfolio{"NVDA": 0.5, "JPM": 0.3, "ZZZZ": 0.2}
	stats := a.PortfolioMetrics(p)

	if stats.NumHoldings != 3 {
		t.Errorf("holdings = %d, want 3", stats.NumHoldings)
	}
	if stats.LargestPosition != 0.5 {
		t.Errorf("largest = %v, want 0.5", stats.LargestPosition)
	}
	wantH := 0.25 + 0.09 + 0.04
	if diff := stats.Concentration - wantH; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Herfindahl = %v, want %v", stats.Concentration, wantH)
	}
	if stats.FactorExposures["Growth"] != 0.5 {
		t.Errorf("Growth exposure = %v, want 0.5", stats.FactorExposures["Growth"])
	}
	if stats.FactorExposures["Value"] != 0.3 {
		t.Errorf("Value exposure = %v, want 0.3", stats.FactorExposures["Value"])
	}
}

func TestScenarioImpact(t *testing.T) {
	a := New(universe.Load())
	static := universe.Load()

	stats := a.PortfolioMetrics(models.Portfolio{"NVDA": 0.6, "JPM": 0.4})
	crisis := static.HistoricalScenarios[0]

	// Growth 0.6 x -0.45 + Value 0.4 x -0.35 + Momentum 0.6 x -0.55.
	want := 0.6*-0.45 + 0.4*-0.35 + 0.6*-0.55
	got := a.ScenarioImpact(stats, crisis)
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("impact = %v, want %v", got, want)
	}
}

func TestAdHocImpactTechScaling(t *testing.T) {
	a := New(universe.Load())
	static := universe.Load()

	portfolio := models.Portfolio{"NVDA": 0.5, "JPM": 0.5}

	for _, sc := range static.AdHocScenarios {
		impact := a.AdHocImpact(sc, portfolio)
		if sc.TechScaled {
			want := sc.BaseImpact * 1.5
			if diff := impact - want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("%s impact = %v, want %v", sc.Name, impact, want)
			}
		} else if impact != sc.BaseImpact {
			t.Errorf("%s impact = %v, want %v", sc.Name, impact, sc.BaseImpact)
		}
	}
}

func TestAnalyzeSingleStockReport(t *testing.T) {
	a := New(universe.Load())
	p := &stubProvider{
		quotes: map[string]*models.StockQuote{
			"MSFT": {Symbol: "MSFT", Price: 420, PERatio: 28, Beta: 0.9, DebtToEquity: 0.3, Sector: "Technology", ROEPct: 35, CurrentRatio: 1.8, PBRatio: 11},
		},
		history: map[string][]*models.PriceBar{
			"MSFT": {
				{Close: decimal.NewFromInt(400)},
				{Close: decimal.NewFromInt(402)},
				{Close: decimal.NewFromInt(401)},
				{Close: decimal.NewFromInt(405)},
			},
		},
	}

	report := a.Analyze(context.Background(), p, "MSFT")

	if !strings.Contains(report, "Individual Stock Risk Analysis: MSFT") {
		t.Fatal("single-ticker query must produce an individual analysis")
	}
	if !strings.Contains(report, "Overall Risk Assessment: **Low**") {
		t.Errorf("MSFT profile must assess Low risk:\n%s", report)
	}
}

func TestAnalyzeCustomPortfolioDegradesOnMissingData(t *testing.T) {
	a := New(universe.Load())
	p := &stubProvider{
		quotes: map[string]*models.StockQuote{
			"AAPL": {Symbol: "AAPL", Beta: 1.2, Sector: "Technology"},
		},
		history: map[string][]*models.PriceBar{},
	}

	report := a.Analyze(context.Background(), p, "portfolio risk for AAPL and ZZZZ")

	if !strings.Contains(report, "Custom Portfolio Risk Analysis") {
		t.Fatal("multi-ticker query must build a custom portfolio")
	}
	if !strings.Contains(report, "**ZZZZ:** Data unavailable") {
		t.Error("unavailable ticker must degrade, not abort")
	}
	if !strings.Contains(report, "**Equal-weighted:** 50.0% each") {
		t.Error("custom portfolio must be equal-weighted")
	}
}

func TestAnalyzeStressMode(t *testing.T) {
	a := New(universe.Load())
	p := &stubProvider{quotes: map[string]*models.StockQuote{}, history: map[string][]*models.PriceBar{}}

	report := a.Analyze(context.Background(), p, "run a stress scenario on the portfolios")

	if !strings.Contains(report, "Portfolio Stress Test Analysis") {
		t.Fatal("stress keyword must route to stress testing")
	}
	for _, want := range []string{"Financial Crisis (2008)", "COVID-19 Pandemic (2020)", "High Inflation Environment"} {
		if !strings.Contains(report, want) {
			t.Errorf("missing scenario %q", want)
		}
	}
}

func TestAnalyzeComprehensiveDefault(t *testing.T) {
	a := New(universe.Load())
	p := &stubProvider{quotes: map[string]*models.StockQuote{}, history: map[string][]*models.PriceBar{}}

	report := a.Analyze(context.Background(), p, "portfolio risk attribution")

	if !strings.Contains(report, "Comprehensive Portfolio Risk Analysis") {
		t.Fatal("default must be the comprehensive report")
	}
	if !strings.Contains(report, "Factor Attribution") || !strings.Contains(report, "Stress Test") {
		t.Error("comprehensive report must include attribution and stress sections")
	}
}

// Package risk performs factor attribution, stress testing, and risk
// scoring for individual stocks and portfolios.
package risk

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"alphadesk/internal/dataflows"
	"alphadesk/internal/models"
	"alphadesk/internal/universe"
)

// volatilityWindowDays covers roughly one year of history.
const volatilityWindowDays = 365

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

var reTicker = regexp.MustCompile(`\b[A-Z]{2,5}(?:[-.][A-Z])?\b`)

// tickerStopwords are uppercase finance terms that look like tickers.
var tickerStopwords = map[string]bool{
	"PE": true, "AI": true, "EV": true, "CEO": true,
	"IPO": true, "ETF": true, "USA": true, "GDP": true,
}

type Attributor struct {
	static *universe.Static
}

func New(static *universe.Static) *Attributor {
	return &Attributor{static: static}
}

// ExtractTickers pulls ticker-shaped tokens from the raw query, dropping
// common uppercase finance words.
func ExtractTickers(query string) []string {
	var out []string
	for _, tok := range reTicker.FindAllString(query, -1) {
		if !tickerStopwords[tok] {
			out = append(out, tok)
		}
	}
	return out
}

// Analyze routes a risk query: explicit tickers get single-stock or custom
// portfolio treatment, otherwise the predefined portfolios are analyzed in
// stress, comparison, or comprehensive mode.
func (a *Attributor) Analyze(ctx context.Context, provider dataflows.MarketDataProvider, query string) string {
	lower := strings.ToLower(query)
	tickers := ExtractTickers(query)

	switch {
	case len(tickers) == 1:
		return a.analyzeSingleStock(ctx, provider, tickers[0])
	case len(tickers) > 1:
		return a.analyzeCustomPortfolio(ctx, provider, tickers)
	case strings.Contains(lower, "stress") || strings.Contains(lower, "scenario"):
		return a.stressTestReport()
	case strings.Contains(lower, "compare") || strings.Contains(lower, "versus"):
		return a.comparisonReport()
	default:
		return a.comprehensiveReport()
	}
}

// annualizedVolatility computes the population standard deviation of daily
// returns scaled to a yearly horizon.
func annualizedVolatility(barsIn []*models.PriceBar) float64 {
	if len(barsIn) < 3 {
		return 0
	}

	closes := make([]float64, len(barsIn))
	for i, bar := range barsIn {
		closes[i], _ = bar.Close.Float64()
	}

	var returns []float64
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}

// OverallRiskScore blends four normalized risk components. Each input is
// capped before weighting; a missing PE contributes a neutral 0.5.
func OverallRiskScore(beta, volatility, debtEquity, peRatio float64) float64 {
	betaRisk := math.Min(math.Abs(beta-1), 2) / 2
	volRisk := math.Min(volatility, 0.5) / 0.5
	debtRisk := math.Min(debtEquity, 3) / 3
	valuationRisk := 0.5
	if peRatio > 0 {
		valuationRisk = math.Min(peRatio, 50) / 50
	}

	return betaRisk*0.25 + volRisk*0.35 + debtRisk*0.25 + valuationRisk*0.15
}

// RiskLevel bands a risk score into Low, Medium, or High.
func RiskLevel(score float64) string {
	switch {
	case score > 0.7:
		return "High"
	case score < 0.3:
		return "Low"
	default:
		return "Medium"
	}
}

// FactorScores computes per-factor exposures for one ticker. Hard factor
// membership short-circuits to 0.9; otherwise live metrics decide.
func (a *Attributor) FactorScores(q *models.StockQuote) map[string]float64 {
	scores := make(map[string]float64, len(a.static.Factors))

	for _, f := range a.static.Factors {
		if f.Members[q.Symbol] {
			scores[f.Name] = 0.9
			continue
		}
		switch f.Name {
		case "Growth":
			scores[f.Name] = math.Min(0.5+q.RevenueGrowthPct/100, 1.0)
		case "Value":
			pe := q.PERatio
			if pe <= 0 {
				pe = 100
			}
			scores[f.Name] = math.Max(0, 1-pe/50)
		case "Quality":
			scores[f.Name] = math.Min(q.ROEPct/100*5, 1.0)
		case "Momentum":
			scores[f.Name] = 0.5
		}
	}

	return scores
}

func (a *Attributor) analyzeSingleStock(ctx context.Context, provider dataflows.MarketDataProvider, ticker string) string {
	q, err := provider.Fetch(ctx, ticker)
	if err != nil {
		return fmt.Sprintf("Error analyzing %s: %v", ticker, err)
	}

	volatility := 0.0
	if bars, histErr := provider.History(ctx, ticker, volatilityWindowDays); histErr == nil {
		volatility = annualizedVolatility(bars)
	}

	beta := q.Beta
	if beta <= 0 {
		beta = 1.0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Individual Stock Risk Analysis: %s\n\n", ticker)

	b.WriteString("## Market Risk Metrics\n")
	fmt.Fprintf(&b, "- **Beta:** %.2f - %s\n", beta, describeBeta(beta))
	fmt.Fprintf(&b, "- **Volatility:** %.1f%% annualized - %s\n", volatility*100, describeVolatility(volatility))
	fmt.Fprintf(&b, "- **Sector:** %s\n\n", sectorOrUnknown(q.Sector))

	b.WriteString("## Financial Health Risk\n")
	fmt.Fprintf(&b, "- **Debt/Equity:** %.2f - %s\n", q.DebtToEquity, describeLeverage(q.DebtToEquity))
	fmt.Fprintf(&b, "- **Current Ratio:** %.2f - %s\n", q.CurrentRatio, describeLiquidity(q.CurrentRatio))
	fmt.Fprintf(&b, "- **Return on Equity:** %.1f%% - %s\n\n", q.ROEPct, describeProfitability(q.ROEPct))

	b.WriteString("## Valuation Risk\n")
	fmt.Fprintf(&b, "- **P/E Ratio:** %.1f - %s\n", q.PERatio, describePE(q.PERatio))
	fmt.Fprintf(&b, "- **P/B Ratio:** %.1f - %s\n\n", q.PBRatio, describePB(q.PBRatio))

	b.WriteString("## Factor Exposures\n")
	scores := a.FactorScores(q)
	for _, f := range a.static.Factors {
		fmt.Fprintf(&b, "- **%s:** %.1f%% exposure\n", f.Name, scores[f.Name]*100)
	}

	score := OverallRiskScore(beta, volatility, q.DebtToEquity, q.PERatio)
	level := RiskLevel(score)
	fmt.Fprintf(&b, "\n## Overall Risk Assessment: **%s**\n", level)
	b.WriteString(riskRationale(ticker, level, beta, volatility, q.DebtToEquity))

	return b.String()
}

func describeBeta(beta float64) string {
	switch {
	case beta > 1.2:
		return "High market sensitivity"
	case beta < 0.8:
		return "Low market sensitivity"
	default:
		return "Average market sensitivity"
	}
}

func describeVolatility(v float64) string {
	switch {
	case v > 0.35:
		return "High volatility"
	case v < 0.20:
		return "Low volatility"
	default:
		return "Moderate volatility"
	}
}

func describeLeverage(de float64) string {
	switch {
	case de > 1.5:
		return "High leverage risk"
	case de < 0.5:
		return "Low leverage risk"
	default:
		return "Moderate leverage"
	}
}

func describeLiquidity(cr float64) string {
	switch {
	case cr > 2:
		return "Strong liquidity"
	case cr < 1:
		return "Weak liquidity"
	default:
		return "Adequate liquidity"
	}
}

func describeProfitability(roePct float64) string {
	switch {
	case roePct > 20:
		return "Strong profitability"
	case roePct < 10:
		return "Weak profitability"
	default:
		return "Average profitability"
	}
}

func describePE(pe float64) string {
	switch {
	case pe > 30:
		return "Expensive valuation"
	case pe < 15:
		return "Cheap valuation"
	default:
		return "Fair valuation"
	}
}

func describePB(pb float64) string {
	switch {
	case pb > 3:
		return "Premium to book value"
	case pb < 1:
		return "Discount to book value"
	default:
		return "Fair to book value"
	}
}

func sectorOrUnknown(sector string) string {
	if sector == "" {
		return "Unknown"
	}
	return sector
}

func riskRationale(ticker, level string, beta, volatility, debtEquity float64) string {
	var reasons []string

	if beta > 1.3 {
		reasons = append(reasons, "high market sensitivity")
	} else if beta < 0.7 {
		reasons = append(reasons, "low market correlation")
	}
	if volatility > 0.35 {
		reasons = append(reasons, "high price volatility")
	} else if volatility < 0.20 {
		reasons = append(reasons, "stable price movement")
	}
	if debtEquity > 1.5 {
		reasons = append(reasons, "elevated leverage")
	} else if debtEquity < 0.5 {
		reasons = append(reasons, "conservative capital structure")
	}

	detail := "balanced metrics"
	if len(reasons) > 0 {
		if len(reasons) > 2 {
			reasons = reasons[:2]
		}
		detail = strings.Join(reasons, ", ")
	}
	return fmt.Sprintf("%s shows %s risk due to %s.", ticker, strings.ToLower(level), detail)
}

func (a *Attributor) analyzeCustomPortfolio(ctx context.Context, provider dataflows.MarketDataProvider, tickers []string) string {
	weight := 1.0 / float64(len(tickers))
	portfolio := make(models.Portfolio, len(tickers))
	for _, t := range tickers {
		portfolio[t] = weight
	}

	var b strings.Builder
	b.WriteString("# Custom Portfolio Risk Analysis\n\n")
	b.WriteString("## Portfolio Composition\n")
	fmt.Fprintf(&b, "**Stocks:** %s\n", strings.Join(tickers, ", "))
	fmt.Fprintf(&b, "**Equal-weighted:** %.1f%% each\n\n", weight*100)

	metrics := a.PortfolioMetrics(portfolio)

	b.WriteString("## Factor Exposures\n")
	for _, f := range a.static.Factors {
		fmt.Fprintf(&b, "- **%s:** %.1f%%\n", f.Name, metrics.FactorExposures[f.Name]*100)
	}

	b.WriteString("\n## Risk Metrics\n")
	fmt.Fprintf(&b, "- **Concentration Risk:** %.3f\n", metrics.Concentration)
	fmt.Fprintf(&b, "- **Number of Holdings:** %d\n", metrics.NumHoldings)

	b.WriteString("\n## Individual Stock Risk Contributions\n")
	shown := tickers
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, t := range shown {
		q, err := provider.Fetch(ctx, t)
		if err != nil {
			fmt.Fprintf(&b, "- **%s:** Data unavailable\n", t)
			continue
		}
		beta := q.Beta
		if beta <= 0 {
			beta = 1.0
		}
		fmt.Fprintf(&b, "- **%s:** Beta %.2f, Sector: %s\n", t, beta, sectorOrUnknown(q.Sector))
	}

	b.WriteString("\n## Stress Test Scenarios\n")
	for _, sc := range a.static.AdHocScenarios {
		impact := a.AdHocImpact(sc, portfolio)
		fmt.Fprintf(&b, "- **%s:** %.1f%%\n", sc.Name, impact*100)
	}

	return b.String()
}

// AdHocImpact applies a flat shock, scaling the tech correction by the
// portfolio's weight in the large-cap tech names.
func (a *Attributor) AdHocImpact(sc universe.AdHocScenario, portfolio models.Portfolio) float64 {
	if !sc.TechScaled {
		return sc.BaseImpact
	}
	techWeight := 0.0
	for _, t := range a.static.TechShockTickers {
		techWeight += portfolio[t]
	}
	return sc.BaseImpact * (1 + techWeight)
}

// PortfolioStats summarizes one portfolio for attribution reporting.
type PortfolioStats struct {
	NumHoldings     int
	LargestPosition float64
	Concentration   float64
	FactorExposures map[string]float64
}

// PortfolioMetrics computes factor exposures and concentration for a
// weighted portfolio. Concentration is the Herfindahl index of weights.
func (a *Attributor) PortfolioMetrics(holdings models.Portfolio) PortfolioStats {
	exposures := make(map[string]float64, len(a.static.Factors))
	for _, f := range a.static.Factors {
		exposure := 0.0
		for sym, w := range holdings {
			if f.Members[sym] {
				exposure += w
			}
		}
		exposures[f.Name] = exposure
	}

	largest, herfindahl := 0.0, 0.0
	for _, w := range holdings {
		if w > largest {
			largest = w
		}
		herfindahl += w * w
	}

	return PortfolioStats{
		NumHoldings:     len(holdings),
		LargestPosition: largest,
		Concentration:   herfindahl,
		FactorExposures: exposures,
	}
}

// ScenarioImpact is the exposure-weighted sum of factor impacts.
func (a *Attributor) ScenarioImpact(stats PortfolioStats, scenario models.StressScenario) float64 {
	impact := 0.0
	for factor, exposure := range stats.FactorExposures {
		impact += exposure * scenario.FactorImpacts[factor]
	}
	return impact
}

func samplePortfolioNames(portfolios map[string]models.Portfolio) []string {
	names := make([]string, 0, len(portfolios))
	for name := range portfolios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func titleCase(name string) string {
	words := strings.Split(strings.ReplaceAll(name, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func (a *Attributor) attributionReport() string {
	var b strings.Builder
	b.WriteString("**Portfolio Factor Attribution Analysis**\n\n")

	for _, name := range samplePortfolioNames(a.static.SamplePortfolios) {
		stats := a.PortfolioMetrics(a.static.SamplePortfolios[name])

		fmt.Fprintf(&b, "## %s\n", titleCase(name))
		fmt.Fprintf(&b, "**Holdings:** %d positions\n", stats.NumHoldings)
		fmt.Fprintf(&b, "**Concentration Risk:** %.3f\n", stats.Concentration)
		fmt.Fprintf(&b, "**Largest Position:** %.1f%%\n\n", stats.LargestPosition*100)

		b.WriteString("**Factor Exposures:**\n")
		for _, f := range a.static.Factors {
			fmt.Fprintf(&b, "- %s: %.1f%%\n", f.Name, stats.FactorExposures[f.Name]*100)
		}

		fmt.Fprintf(&b, "- **Risk Level:** %s\n\n", concentrationLevel(stats.Concentration))
	}

	return b.String()
}

func concentrationLevel(herfindahl float64) string {
	switch {
	case herfindahl > 0.15:
		return "High"
	case herfindahl > 0.10:
		return "Medium"
	default:
		return "Low"
	}
}

func (a *Attributor) stressTestReport() string {
	var b strings.Builder
	b.WriteString("**Portfolio Stress Test Analysis**\n\n")

	for _, name := range samplePortfolioNames(a.static.SamplePortfolios) {
		stats := a.PortfolioMetrics(a.static.SamplePortfolios[name])

		fmt.Fprintf(&b, "## %s\n", titleCase(name))
		for _, sc := range a.static.HistoricalScenarios {
			impact := a.ScenarioImpact(stats, sc)
			fmt.Fprintf(&b, "- **%s:** %+.1f%%\n", sc.Description, impact*100)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (a *Attributor) comparisonReport() string {
	var b strings.Builder
	b.WriteString("**Portfolio Comparison Analysis**\n\n")

	b.WriteString("| Portfolio | Holdings | Concentration | Growth | Value | Quality |\n")
	b.WriteString("|-----------|----------|---------------|---------|-------|----------|\n")

	for _, name := range samplePortfolioNames(a.static.SamplePortfolios) {
		stats := a.PortfolioMetrics(a.static.SamplePortfolios[name])
		fmt.Fprintf(&b, "| %s | %d | %.3f | %.1f%% | %.1f%% | %.1f%% |\n",
			titleCase(name), stats.NumHoldings, stats.Concentration,
			stats.FactorExposures["Growth"]*100,
			stats.FactorExposures["Value"]*100,
			stats.FactorExposures["Quality"]*100)
	}

	b.WriteString("\n**Key Insights:**\n")
	b.WriteString("- Growth Portfolio: High tech concentration, momentum bias\n")
	b.WriteString("- Value Portfolio: Lower risk, defensive characteristics\n")
	b.WriteString("- Balanced Portfolio: Diversified factor exposures\n")

	return b.String()
}

func (a *Attributor) comprehensiveReport() string {
	return fmt.Sprintf(`# Comprehensive Portfolio Risk Analysis

%s

---

%s

## Risk Management Summary
This analysis provides factor attribution, stress testing, and comparative metrics for institutional portfolio management.`,
		a.attributionReport(), a.stressTestReport())
}

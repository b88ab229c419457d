// Package styleclass classifies stocks into Growth, Value, Momentum, and
// Blend styles and analyzes thematic baskets.
package styleclass

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"alphadesk/internal/dataflows"
	"alphadesk/internal/models"
	"alphadesk/internal/universe"
)

// blendThreshold is the minimum winning score for a decisive style call.
const blendThreshold = 40

// momentumWindowDays covers roughly three months of trading.
const momentumWindowDays = 90

type Classifier struct {
	static *universe.Static
}

func New(static *universe.Static) *Classifier {
	return &Classifier{static: static}
}

// scorecard is one analyzed ticker with its computed style scores.
type scorecard struct {
	Quote      *models.StockQuote
	Momentum3M float64
	Scores     models.StyleScores
	Style      string
}

// scopeTrigger routes a query to a sector, theme, or broader analysis.
// Triggers are checked in declared order and the first hit wins.
type scopeTrigger struct {
	keywords []string
	run      func(c *Classifier, ctx context.Context, p dataflows.MarketDataProvider, query string) string
}

var triggers = []scopeTrigger{
	{[]string{"healthcare", "health"}, sectorRunner("Healthcare")},
	{[]string{"tech", "technology"}, sectorRunner("Technology")},
	{[]string{"financ", "bank"}, sectorRunner("Financials")},
	{[]string{"energy"}, sectorRunner("Energy")},
	{[]string{"consumer", "retail"}, sectorRunner("Consumer")},
	{[]string{"industrial"}, sectorRunner("Industrials")},
	{[]string{"material"}, sectorRunner("Materials")},
	{[]string{"communication", "media"}, sectorRunner("Communication Services")},
	{[]string{"utilit"}, sectorRunner("Utilities")},
	{[]string{"real estate", "reit"}, sectorRunner("Real Estate")},
	{[]string{"all sector", "cross sector"}, func(c *Classifier, ctx context.Context, p dataflows.MarketDataProvider, _ string) string {
		return c.analyzeAllSectors(ctx, p)
	}},
	{[]string{"ai", "artificial intelligence"}, themeRunner("AI")},
	{[]string{"ev", "electric vehicle", "clean energy"}, themeRunner("EV_CleanEnergy")},
	{[]string{"fintech"}, themeRunner("Fintech")},
	{[]string{"cyber"}, themeRunner("Cybersecurity")},
	{[]string{"cloud"}, themeRunner("Cloud")},
}

func sectorRunner(sector string) func(*Classifier, context.Context, dataflows.MarketDataProvider, string) string {
	return func(c *Classifier, ctx context.Context, p dataflows.MarketDataProvider, query string) string {
		return c.analyzeSector(ctx, p, sector)
	}
}

func themeRunner(theme string) func(*Classifier, context.Context, dataflows.MarketDataProvider, string) string {
	return func(c *Classifier, ctx context.Context, p dataflows.MarketDataProvider, query string) string {
		return c.analyzeTheme(ctx, p, theme)
	}
}

// Analyze routes the query to the first matching scope and renders its
// report. With no matching scope it runs the market-wide classification.
func (c *Classifier) Analyze(ctx context.Context, provider dataflows.MarketDataProvider, query string) string {
	lower := strings.ToLower(query)
	for _, trig := range triggers {
		for _, kw := range trig.keywords {
			if strings.Contains(lower, kw) {
				return trig.run(c, ctx, provider, query)
			}
		}
	}
	return c.analyzeMarketWide(ctx, provider)
}

// Score computes the three style scores from live metrics.
func Score(q *models.StockQuote, momentum3M float64) models.StyleScores {
	var s models.StyleScores

	switch {
	case q.RevenueGrowthPct > 25:
		s.Growth += 40
	case q.RevenueGrowthPct > 15:
		s.Growth += 30
	case q.RevenueGrowthPct > 10:
		s.Growth += 20
	}
	switch {
	case q.PERatio > 35:
		s.Growth += 30
	case q.PERatio > 25:
		s.Growth += 20
	}
	switch {
	case q.ROEPct > 20:
		s.Growth += 30
	case q.ROEPct > 15:
		s.Growth += 20
	}

	switch {
	case q.PERatio > 0 && q.PERatio < 12:
		s.Value += 40
	case q.PERatio < 18:
		s.Value += 25
	}
	switch {
	case q.DividendYieldPct > 3.5:
		s.Value += 40
	case q.DividendYieldPct > 2:
		s.Value += 25
	}
	switch {
	case q.PBRatio > 0 && q.PBRatio < 2:
		s.Value += 20
	case q.PBRatio < 3:
		s.Value += 10
	}

	switch {
	case momentum3M > 20:
		s.Momentum += 50
	case momentum3M > 10:
		s.Momentum += 35
	case momentum3M > 5:
		s.Momentum += 20
	}
	if q.PERatio > 40 {
		s.Momentum += 30
	}

	return s
}

// Bucket names the winning style. Ties break in declared priority order
// and a weak winner lands in Blend.
func Bucket(s models.StyleScores) string {
	max := s.Max()
	switch {
	case max < blendThreshold:
		return "Blend"
	case s.Growth == max:
		return "Growth"
	case s.Value == max:
		return "Value"
	default:
		return "Momentum"
	}
}

// momentum3M derives the 3-month price change percentage from the earliest
// close in the history window. No usable history means zero momentum.
func momentum3M(ctx context.Context, p dataflows.MarketDataProvider, symbol string, currentPrice float64) float64 {
	bars, err := p.History(ctx, symbol, momentumWindowDays)
	if err != nil || len(bars) == 0 {
		return 0
	}
	first, _ := bars[0].Close.Float64()
	if first <= 0 {
		return 0
	}
	return (currentPrice - first) / first * 100
}

func (c *Classifier) analyze(ctx context.Context, p dataflows.MarketDataProvider, symbols []string) []*scorecard {
	var cards []*scorecard
	for _, sym := range symbols {
		q, err := p.Fetch(ctx, sym)
		if err != nil {
			continue
		}
		mom := momentum3M(ctx, p, sym, q.Price)
		scores := Score(q, mom)
		cards = append(cards, &scorecard{
			Quote:      q,
			Momentum3M: mom,
			Scores:     scores,
			Style:      Bucket(scores),
		})
	}
	return cards
}

func groupByStyle(cards []*scorecard) map[string][]*scorecard {
	groups := map[string][]*scorecard{}
	for _, card := range cards {
		groups[card.Style] = append(groups[card.Style], card)
	}

	sort.SliceStable(groups["Growth"], func(i, j int) bool {
		return groups["Growth"][i].Quote.RevenueGrowthPct > groups["Growth"][j].Quote.RevenueGrowthPct
	})
	sort.SliceStable(groups["Value"], func(i, j int) bool {
		return sortablePE(groups["Value"][i].Quote) < sortablePE(groups["Value"][j].Quote)
	})
	sort.SliceStable(groups["Momentum"], func(i, j int) bool {
		return groups["Momentum"][i].Momentum3M > groups["Momentum"][j].Momentum3M
	})

	return groups
}

func sortablePE(q *models.StockQuote) float64 {
	if q.PERatio <= 0 {
		return 999
	}
	return q.PERatio
}

func (c *Classifier) analyzeSector(ctx context.Context, p dataflows.MarketDataProvider, sector string) string {
	roster := c.static.SectorStocks[sector]
	if len(roster) == 0 {
		return fmt.Sprintf("No stocks found for sector: %s", sector)
	}

	cards := c.analyze(ctx, p, roster)
	groups := groupByStyle(cards)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s Sector - Investment Style Classification\n\n", sector)
	fmt.Fprintf(&b, "**Analyzing %d Major %s Stocks**\n", len(roster), sector)
	b.WriteString("**Live Market Data Analysis**\n\n")

	for _, style := range []string{"Growth", "Value", "Momentum", "Blend"} {
		stocks := groups[style]
		if len(stocks) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s %s Stocks (%d stocks)\n\n", style, sector, len(stocks))

		shown := stocks
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, card := range shown {
			writeCard(&b, card, style)
		}
	}

	fmt.Fprintf(&b, "## %s Sector Summary\n\n", sector)
	fmt.Fprintf(&b, "- **Total Stocks Analyzed:** %d/%d\n", len(cards), len(roster))
	fmt.Fprintf(&b, "- **Growth Stocks:** %d\n", len(groups["Growth"]))
	fmt.Fprintf(&b, "- **Value Stocks:** %d\n", len(groups["Value"]))
	fmt.Fprintf(&b, "- **Momentum Stocks:** %d\n", len(groups["Momentum"]))
	fmt.Fprintf(&b, "- **Blend Stocks:** %d\n\n", len(groups["Blend"]))
	b.WriteString(sectorInsight(sector, cards, groups))

	return b.String()
}

func writeCard(b *strings.Builder, card *scorecard, style string) {
	q := card.Quote
	fmt.Fprintf(b, "### %s\n", q.Symbol)
	fmt.Fprintf(b, "- **Price:** $%.2f", q.Price)
	if q.MarketCap > 0 {
		fmt.Fprintf(b, " | **Market Cap:** $%.1fB", q.MarketCap/1e9)
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "- **P/E Ratio:** %.1f | **P/B Ratio:** %.1f\n", q.PERatio, q.PBRatio)
	fmt.Fprintf(b, "- **Revenue Growth:** %.1f%% | **ROE:** %.1f%%\n", q.RevenueGrowthPct, q.ROEPct)
	if q.DividendYieldPct > 0 {
		fmt.Fprintf(b, "- **Dividend Yield:** %.2f%%\n", q.DividendYieldPct)
	}
	fmt.Fprintf(b, "- **3-Month Momentum:** %.1f%%\n", card.Momentum3M)
	fmt.Fprintf(b, "- **Style Scores:** Growth(%d), Value(%d), Momentum(%d)\n", card.Scores.Growth, card.Scores.Value, card.Scores.Momentum)
	fmt.Fprintf(b, "- **Rationale:** %s\n\n", rationale(card, style))
}

// rationale names up to two concrete metric drivers behind a style call.
func rationale(card *scorecard, style string) string {
	q := card.Quote
	var reasons []string

	switch style {
	case "Growth":
		if q.RevenueGrowthPct > 20 {
			reasons = append(reasons, fmt.Sprintf("exceptional revenue growth of %.1f%%", q.RevenueGrowthPct))
		}
		if q.ROEPct > 20 {
			reasons = append(reasons, fmt.Sprintf("high ROE of %.1f%%", q.ROEPct))
		}
		if q.PERatio > 30 {
			reasons = append(reasons, "premium valuation reflects growth expectations")
		}
	case "Value":
		if q.PERatio > 0 && q.PERatio < 15 {
			reasons = append(reasons, fmt.Sprintf("attractive P/E of %.1f", q.PERatio))
		}
		if q.DividendYieldPct > 2 {
			reasons = append(reasons, fmt.Sprintf("solid dividend yield of %.1f%%", q.DividendYieldPct))
		}
		if q.PBRatio > 0 && q.PBRatio < 2 {
			reasons = append(reasons, "trading below book value")
		}
	case "Momentum":
		if card.Momentum3M > 15 {
			reasons = append(reasons, fmt.Sprintf("strong 3-month momentum of %.1f%%", card.Momentum3M))
		}
		if q.PERatio > 40 {
			reasons = append(reasons, "high valuation driven by momentum")
		}
	}

	if len(reasons) == 0 {
		return fmt.Sprintf("%s characteristics based on multiple factors", style)
	}
	if len(reasons) > 2 {
		reasons = reasons[:2]
	}
	return strings.Join(reasons, "; ")
}

var sectorNarratives = map[string]string{
	"Technology":             "Tech sector shows strong growth bias due to innovation and scalability. Value plays often represent turnaround opportunities.",
	"Healthcare":             "Healthcare splits between high-growth biotech and value-oriented established pharma. Patent cliffs create opportunities.",
	"Financials":             "Financial sector offers value in traditional banks, growth in fintech and payment processors.",
	"Energy":                 "Energy sector cyclicality creates deep value opportunities. Renewable energy transition drives growth stocks.",
	"Consumer":               "Consumer sector reflects economic trends - discretionary for growth, staples for value.",
	"Industrials":            "Industrials benefit from infrastructure spending. Automation drives growth stories.",
	"Materials":              "Materials track commodity cycles. ESG transition creating new growth opportunities.",
	"Communication Services": "Split between high-growth platforms (META, GOOGL) and value telecom (VZ, T).",
	"Utilities":              "Traditionally defensive value plays. Clean energy utilities showing growth characteristics.",
	"Real Estate":            "REITs offer value through yield. Growth in data centers and logistics properties.",
}

func sectorInsight(sector string, cards []*scorecard, groups map[string][]*scorecard) string {
	insight, ok := sectorNarratives[sector]
	if !ok {
		insight = fmt.Sprintf("%s sector shows diverse investment styles.", sector)
	}

	if len(cards) > 0 {
		growthPct := float64(len(groups["Growth"])) / float64(len(cards)) * 100
		valuePct := float64(len(groups["Value"])) / float64(len(cards)) * 100
		if growthPct > 50 {
			insight += fmt.Sprintf("\n\nCurrently growth-dominated (%.0f%% of analyzed stocks).", growthPct)
		} else if valuePct > 50 {
			insight += fmt.Sprintf("\n\nValue opportunities abundant (%.0f%% of analyzed stocks).", valuePct)
		}
	}
	return insight
}

func (c *Classifier) analyzeTheme(ctx context.Context, p dataflows.MarketDataProvider, name string) string {
	theme := c.static.ThemeByName(name)
	if theme == nil {
		return fmt.Sprintf("Unknown theme: %s", name)
	}

	all := append(append([]string{}, theme.Core...), theme.Related...)
	if len(all) > 10 {
		all = all[:10]
	}

	core := make(map[string]bool, len(theme.Core))
	for _, sym := range theme.Core {
		core[sym] = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s Theme Analysis\n\n", theme.Description)
	fmt.Fprintf(&b, "**Analyzing %d %s Theme Stocks**\n\n", len(all), theme.Name)

	quotes := dataflows.FetchAll(ctx, p, all)

	b.WriteString("## Core Holdings\n\n")
	for _, q := range quotes {
		if !core[q.Symbol] {
			continue
		}
		fmt.Fprintf(&b, "### %s\n", q.Symbol)
		fmt.Fprintf(&b, "- **Price:** $%.2f | **Market Cap:** $%.1fB\n", q.Price, q.MarketCap/1e9)
		fmt.Fprintf(&b, "- **P/E:** %.1f | **Revenue Growth:** %.1f%%\n\n", q.PERatio, q.RevenueGrowthPct)
	}

	b.WriteString("## Related Holdings\n\n")
	related := 0
	for _, q := range quotes {
		if core[q.Symbol] || related >= 3 {
			continue
		}
		related++
		fmt.Fprintf(&b, "### %s\n", q.Symbol)
		fmt.Fprintf(&b, "- **Price:** $%.2f\n", q.Price)
		fmt.Fprintf(&b, "- **P/E:** %.1f | **Revenue Growth:** %.1f%%\n\n", q.PERatio, q.RevenueGrowthPct)
	}

	return b.String()
}

// analyzeAllSectors gives a quick growth/value count from the top three
// names in every sector roster.
func (c *Classifier) analyzeAllSectors(ctx context.Context, p dataflows.MarketDataProvider) string {
	var b strings.Builder
	b.WriteString("# Cross-Sector Style Analysis\n\n")
	b.WriteString("**Analyzing top stocks from each major sector**\n\n")
	b.WriteString("| Sector | Growth Stocks | Value Stocks |\n")
	b.WriteString("|--------|---------------|---------------|\n")

	for _, sector := range c.static.SectorOrder {
		roster := c.static.SectorStocks[sector]
		if len(roster) > 3 {
			roster = roster[:3]
		}

		growthCount, valueCount := 0, 0
		for _, sym := range roster {
			q, err := p.Fetch(ctx, sym)
			if err != nil {
				continue
			}
			if q.RevenueGrowthPct > 20 || q.PERatio > 30 {
				growthCount++
			} else if q.PERatio > 0 && q.PERatio < 15 {
				valueCount++
			}
		}

		fmt.Fprintf(&b, "| %s | %d | %d |\n", sector, growthCount, valueCount)
	}

	b.WriteString("\n## Key Insights\n")
	b.WriteString("- Technology and Healthcare tend toward growth characteristics\n")
	b.WriteString("- Energy and Financials offer more value opportunities\n")
	b.WriteString("- Consumer and Industrials show mixed styles\n")

	return b.String()
}

// analyzeMarketWide classifies a mixed sample of two names per sector.
func (c *Classifier) analyzeMarketWide(ctx context.Context, p dataflows.MarketDataProvider) string {
	var mixed []string
	for _, sector := range c.static.SectorOrder {
		roster := c.static.SectorStocks[sector]
		if len(roster) > 2 {
			roster = roster[:2]
		}
		mixed = append(mixed, roster...)
	}
	if len(mixed) > 20 {
		mixed = mixed[:20]
	}

	cards := c.analyze(ctx, p, mixed)
	groups := groupByStyle(cards)

	var b strings.Builder
	b.WriteString("# Market-Wide Style Classification\n\n")
	fmt.Fprintf(&b, "**Analyzing %d stocks sampled across all sectors**\n\n", len(mixed))

	for _, style := range []string{"Growth", "Value", "Momentum", "Blend"} {
		stocks := groups[style]
		if len(stocks) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s Stocks (%d stocks)\n\n", style, len(stocks))

		shown := stocks
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, card := range shown {
			writeCard(&b, card, style)
		}
	}

	fmt.Fprintf(&b, "## Market Summary\n\n")
	fmt.Fprintf(&b, "- **Total Stocks Analyzed:** %d/%d\n", len(cards), len(mixed))
	fmt.Fprintf(&b, "- **Growth:** %d | **Value:** %d | **Momentum:** %d | **Blend:** %d\n",
		len(groups["Growth"]), len(groups["Value"]), len(groups["Momentum"]), len(groups["Blend"]))

	return b.String()
}

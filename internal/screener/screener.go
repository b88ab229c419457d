// Package screener filters a ticker universe against structured criteria
// parsed from a free-text query.
package screener

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"alphadesk/internal/dataflows"
	"alphadesk/internal/models"
	"alphadesk/internal/parser"
	"alphadesk/internal/universe"
)

// peSortSentinel pushes quotes without a usable PE to the end of
// ascending-PE sorts.
const peSortSentinel = 999

const defaultResultCount = 8

var reRequestedCount = regexp.MustCompile(`top (\d+)|show (\d+)|(\d+) stocks`)

// Sector allow-lists for the parsed category flags. Matching is substring
// against the quote's sector string.
var (
	techSectors       = []string{"Technology", "Communication Services", "Consumer Cyclical"}
	healthcareSectors = []string{"Healthcare", "Biotechnology"}
	financialSectors  = []string{"Financial Services", "Financials"}
	energySectors     = []string{"Energy"}
)

type Screener struct {
	static *universe.Static
}

func New(static *universe.Static) *Screener {
	return &Screener{static: static}
}

// Screen parses the query, fetches the selected universe, and applies all
// present constraints as an AND. Zero matches is a valid outcome, not an
// error.
func (s *Screener) Screen(ctx context.Context, provider dataflows.MarketDataProvider, query string) *models.ScreeningResult {
	criteria := parser.ParseQuery(query)
	symbols := s.selectUniverse(query)

	quotes := dataflows.FetchAll(ctx, provider, symbols)

	var matched []*models.StockQuote
	for _, q := range quotes {
		if meetsCriteria(q, criteria) {
			matched = append(matched, q)
		}
	}

	sortMatches(matched, query)

	limit := requestedCount(query)
	shown := matched
	if len(shown) > limit {
		shown = shown[:limit]
	}

	return &models.ScreeningResult{
		Query:          query,
		ParsedCriteria: *criteria,
		TotalScreened:  len(quotes),
		MatchedCount:   len(matched),
		Stocks:         shown,
		Summary:        fmt.Sprintf("Found %d stocks matching criteria: %s", len(matched), query),
	}
}

// Analyze runs a screen and renders the full report.
func (s *Screener) Analyze(ctx context.Context, provider dataflows.MarketDataProvider, query string) string {
	result := s.Screen(ctx, provider, query)
	return FormatReport(result)
}

// selectUniverse picks the ticker universe on coarse keywords, independent
// of the structured criteria.
func (s *Screener) selectUniverse(query string) []string {
	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "dividend") || strings.Contains(lower, "yield"):
		return s.static.DividendUniverse
	case strings.Contains(lower, "tech") || strings.Contains(lower, "technology"):
		return s.static.TechUniverse
	default:
		return s.static.BroadUniverse
	}
}

func requestedCount(query string) int {
	groups := reRequestedCount.FindStringSubmatch(strings.ToLower(query))
	if groups == nil {
		return defaultResultCount
	}
	for _, g := range groups[1:] {
		if g != "" {
			if n, err := strconv.Atoi(g); err == nil && n > 0 {
				return n
			}
		}
	}
	return defaultResultCount
}

// meetsCriteria applies every present constraint. Bounds are closed
// intervals. A missing or zero PE passes the max-PE filter since an
// unknown PE cannot violate a maximum.
func meetsCriteria(q *models.StockQuote, c *models.FilterCriteria) bool {
	if c.MaxPrice != nil && q.Price > 0 && q.Price > *c.MaxPrice {
		return false
	}
	if c.MinPrice != nil && q.Price > 0 && q.Price < *c.MinPrice {
		return false
	}
	if c.MaxPE != nil && q.PERatio > 0 && q.PERatio > *c.MaxPE {
		return false
	}
	if c.MinDividendYield != nil && q.DividendYieldPct < *c.MinDividendYield {
		return false
	}

	if c.Tech && !sectorMatches(q.Sector, techSectors) {
		return false
	}
	if c.Healthcare && !sectorMatches(q.Sector, healthcareSectors) {
		return false
	}
	if c.Financial && !sectorMatches(q.Sector, financialSectors) {
		return false
	}
	if c.Energy && !sectorMatches(q.Sector, energySectors) {
		return false
	}

	if c.Dividend && q.DividendYieldPct <= 0 {
		return false
	}

	return true
}

func sectorMatches(sector string, allowed []string) bool {
	for _, a := range allowed {
		if strings.Contains(sector, a) {
			return true
		}
	}
	return false
}

func sortMatches(stocks []*models.StockQuote, query string) {
	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "dividend") || strings.Contains(lower, "yield"):
		sort.SliceStable(stocks, func(i, j int) bool {
			return stocks[i].DividendYieldPct > stocks[j].DividendYieldPct
		})
	case strings.Contains(lower, "lowest pe") || strings.Contains(lower, "value"):
		sort.SliceStable(stocks, func(i, j int) bool {
			return sortablePE(stocks[i]) < sortablePE(stocks[j])
		})
	default:
		sort.SliceStable(stocks, func(i, j int) bool {
			return stocks[i].MarketCap > stocks[j].MarketCap
		})
	}
}

func sortablePE(q *models.StockQuote) float64 {
	if q.PERatio <= 0 {
		return peSortSentinel
	}
	return q.PERatio
}

// FormatReport renders a screening result as a markdown report.
func FormatReport(r *models.ScreeningResult) string {
	if r.MatchedCount == 0 {
		return fmt.Sprintf("**No stocks found matching:** %s\n\n**Suggestion:** Try adjusting your criteria.", r.Query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Stock Screening Results for:** %s\n\n", r.Query)
	fmt.Fprintf(&b, "**Found %d stocks** (showing top %d):\n\n", r.MatchedCount, len(r.Stocks))

	for i, q := range r.Stocks {
		peStr := "P/E: N/A"
		if q.PERatio > 0 {
			peStr = fmt.Sprintf("P/E: %.2f", q.PERatio)
		}
		divStr := "Div: 0%"
		if q.DividendYieldPct > 0 {
			divStr = fmt.Sprintf("Div: %.2f%%", q.DividendYieldPct)
		}
		priceStr := "Price: N/A"
		if q.Price > 0 {
			priceStr = fmt.Sprintf("$%.2f", q.Price)
		}
		fmt.Fprintf(&b, "**%d. %s**: %s | %s | %s | %s\n", i+1, q.Symbol, priceStr, peStr, divStr, q.Sector)
	}

	fmt.Fprintf(&b, "\n**Analysis:** %s\n", r.Summary)
	b.WriteString("**Data Source:** Live market data\n")
	return b.String()
}

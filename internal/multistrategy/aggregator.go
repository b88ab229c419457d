// Package multistrategy provides platform-level oversight across the
// institutional manager portfolios: overlap, correlation, concentration,
// performance, and sector allocation.
package multistrategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"alphadesk/internal/models"
	"alphadesk/internal/universe"
)

type Aggregator struct {
	static *universe.Static
}

func New(static *universe.Static) *Aggregator {
	return &Aggregator{static: static}
}

// shortNames label the correlation matrix columns, aligned with the
// declared manager order.
var shortNames = []string{"Tech Growth", "Innovation", "Value", "Balanced", "Momentum"}

// Analyze dispatches on query keywords in declared order, defaulting to the
// combined comprehensive report.
func (a *Aggregator) Analyze(query string) string {
	lower := strings.ToLower(query)

	switch {
	case strings.Contains(lower, "overlap") || strings.Contains(lower, "redundant"):
		return a.OverlapReport()
	case strings.Contains(lower, "correlation") || strings.Contains(lower, "correlated"):
		return a.CorrelationReport()
	case strings.Contains(lower, "concentration") || strings.Contains(lower, "risk"):
		return a.ConcentrationReport()
	case strings.Contains(lower, "performance") || strings.Contains(lower, "compare"):
		return a.PerformanceReport()
	case strings.Contains(lower, "sector") || strings.Contains(lower, "allocation"):
		return a.SectorAllocationReport()
	default:
		return a.ComprehensiveReport()
	}
}

// holdingStake is one manager's position in an overlapping stock.
type holdingStake struct {
	Manager     string
	Strategy    string
	Weight      float64
	DollarValue decimal.Decimal
}

// overlapEntry aggregates every manager stake in one stock.
type overlapEntry struct {
	Symbol     string
	Stakes     []holdingStake
	TotalValue decimal.Decimal
}

// Overlaps returns the stocks held by more than one manager, ranked by
// manager count times total dollar value, most severe first.
func (a *Aggregator) Overlaps() []overlapEntry {
	bySymbol := map[string]*overlapEntry{}

	for _, m := range a.static.Managers {
		aum := decimal.NewFromFloat(m.AUM)
		for sym, weight := range m.Holdings {
			entry, ok := bySymbol[sym]
			if !ok {
				entry = &overlapEntry{Symbol: sym}
				bySymbol[sym] = entry
			}
			value := aum.Mul(decimal.NewFromFloat(weight))
			entry.Stakes = append(entry.Stakes, holdingStake{
				Manager:     m.Name,
				Strategy:    m.Strategy,
				Weight:      weight,
				DollarValue: value,
			})
			entry.TotalValue = entry.TotalValue.Add(value)
		}
	}

	var overlapping []overlapEntry
	for _, entry := range bySymbol {
		if len(entry.Stakes) > 1 {
			overlapping = append(overlapping, *entry)
		}
	}

	sort.SliceStable(overlapping, func(i, j int) bool {
		si := overlapping[i].TotalValue.Mul(decimal.NewFromInt(int64(len(overlapping[i].Stakes))))
		sj := overlapping[j].TotalValue.Mul(decimal.NewFromInt(int64(len(overlapping[j].Stakes))))
		if !si.Equal(sj) {
			return si.GreaterThan(sj)
		}
		return overlapping[i].Symbol < overlapping[j].Symbol
	})

	return overlapping
}

func (a *Aggregator) OverlapReport() string {
	overlaps := a.Overlaps()

	uniqueHoldings := map[string]bool{}
	for _, m := range a.static.Managers {
		for sym := range m.Holdings {
			uniqueHoldings[sym] = true
		}
	}

	var b strings.Builder
	b.WriteString("# Manager Overlap Analysis\n\n")
	b.WriteString("**Identifying redundant holdings across investment managers**\n\n")
	b.WriteString("## High Overlap Holdings\n\n")

	shown := overlaps
	if len(shown) > 8 {
		shown = shown[:8]
	}
	for _, entry := range shown {
		billions, _ := entry.TotalValue.Div(decimal.NewFromInt(1e9)).Float64()
		fmt.Fprintf(&b, "### %s\n", entry.Symbol)
		fmt.Fprintf(&b, "**Held by %d managers** | **Total Value: $%.2fB**\n\n", len(entry.Stakes), billions)

		for _, stake := range entry.Stakes {
			millions, _ := stake.DollarValue.Div(decimal.NewFromInt(1e6)).Float64()
			fmt.Fprintf(&b, "- **%s**: %.1f%% ($%.0fM)\n", stake.Manager, stake.Weight*100, millions)
		}
		fmt.Fprintf(&b, "- **Overlap Risk:** High concentration across %d strategies\n\n", len(entry.Stakes))
	}

	highOverlap := 0
	for _, entry := range overlaps {
		if len(entry.Stakes) >= 3 {
			highOverlap++
		}
	}

	b.WriteString("## Overlap Summary\n\n")
	fmt.Fprintf(&b, "- **Total Overlapping Holdings:** %d stocks\n", len(overlaps))
	fmt.Fprintf(&b, "- **High Overlap (3+ managers):** %d stocks\n", highOverlap)
	fmt.Fprintf(&b, "- **Platform Total Holdings:** %d unique stocks\n", len(uniqueHoldings))

	return b.String()
}

// Correlation measures structural similarity between two portfolios as the
// overlapping minimum weight normalized by the smaller total weight. Fewer
// than two common holdings gives zero.
func Correlation(p1, p2 models.Portfolio) float64 {
	common := 0
	overlapWeight := 0.0
	for sym, w1 := range p1 {
		if w2, ok := p2[sym]; ok {
			common++
			if w1 < w2 {
				overlapWeight += w1
			} else {
				overlapWeight += w2
			}
		}
	}
	if common < 2 {
		return 0.0
	}

	total1, total2 := 0.0, 0.0
	for _, w := range p1 {
		total1 += w
	}
	for _, w := range p2 {
		total2 += w
	}

	smaller := total1
	if total2 < smaller {
		smaller = total2
	}
	if smaller <= 0 {
		return 0.0
	}

	corr := overlapWeight / smaller
	if corr > 1.0 {
		return 1.0
	}
	return corr
}

func (a *Aggregator) CorrelationReport() string {
	managers := a.static.Managers
	n := len(managers)

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			if i == j {
				matrix[i][j] = 1.0
			} else {
				matrix[i][j] = Correlation(managers[i].Holdings, managers[j].Holdings)
			}
		}
	}

	var b strings.Builder
	b.WriteString("# Portfolio Correlation Analysis\n\n")
	b.WriteString("**Measuring how similarly different managers' portfolios are structured**\n\n")
	b.WriteString("## Correlation Matrix\n\n")

	b.WriteString("| Manager |")
	for _, name := range shortNames {
		fmt.Fprintf(&b, " %s |", name)
	}
	b.WriteString("\n|---------|")
	for range shortNames {
		b.WriteString("------|")
	}
	b.WriteString("\n")

	for i := range managers {
		fmt.Fprintf(&b, "| %s |", shortNames[i])
		for j := range managers {
			fmt.Fprintf(&b, " %.2f |", matrix[i][j])
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("## Key Correlation Insights\n\n")

	maxCorr := 0.0
	maxI, maxJ := -1, -1
	sum, count := 0.0, 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			sum += matrix[i][j]
			count++
			if matrix[i][j] > maxCorr {
				maxCorr = matrix[i][j]
				maxI, maxJ = i, j
			}
		}
	}

	if maxI >= 0 {
		fmt.Fprintf(&b, "- **Highest Correlation:** %s and %s (%.2f)\n", managers[maxI].Name, managers[maxJ].Name, maxCorr)
	}

	avg := 0.0
	if count > 0 {
		avg = sum / float64(count)
	}
	fmt.Fprintf(&b, "- **Average Cross-Manager Correlation:** %.2f\n", avg)

	switch {
	case avg < 0.3:
		b.WriteString("- **Assessment:** Excellent diversification across managers\n")
	case avg < 0.5:
		b.WriteString("- **Assessment:** Good diversification with some overlap\n")
	default:
		b.WriteString("- **Assessment:** Consider reducing manager overlap\n")
	}

	return b.String()
}

// aggregateConcentration maps each ticker to its platform-wide dollar
// exposure across all managers.
func (a *Aggregator) aggregateConcentration() (map[string]decimal.Decimal, decimal.Decimal) {
	aggregate := map[string]decimal.Decimal{}
	totalAUM := decimal.Zero

	for _, m := range a.static.Managers {
		aum := decimal.NewFromFloat(m.AUM)
		totalAUM = totalAUM.Add(aum)
		for sym, weight := range m.Holdings {
			value := aum.Mul(decimal.NewFromFloat(weight))
			aggregate[sym] = aggregate[sym].Add(value)
		}
	}

	return aggregate, totalAUM
}

func (a *Aggregator) ConcentrationReport() string {
	aggregate, totalAUM := a.aggregateConcentration()

	type position struct {
		Symbol string
		Value  decimal.Decimal
		Pct    float64
	}
	positions := make([]position, 0, len(aggregate))
	for sym, value := range aggregate {
		pct, _ := value.Div(totalAUM).Float64()
		positions = append(positions, position{Symbol: sym, Value: value, Pct: pct})
	}
	sort.SliceStable(positions, func(i, j int) bool {
		if positions[i].Pct != positions[j].Pct {
			return positions[i].Pct > positions[j].Pct
		}
		return positions[i].Symbol < positions[j].Symbol
	})

	var b strings.Builder
	b.WriteString("# Multi-Manager Concentration Risk Analysis\n\n")

	totalB, _ := totalAUM.Div(decimal.NewFromInt(1e9)).Float64()
	fmt.Fprintf(&b, "**Total Platform AUM:** $%.1fB across %d managers\n\n", totalB, len(a.static.Managers))

	b.WriteString("## Top Platform Concentrations\n\n")
	top := positions
	if len(top) > 10 {
		top = top[:10]
	}
	for i, p := range top {
		billions, _ := p.Value.Div(decimal.NewFromInt(1e9)).Float64()
		fmt.Fprintf(&b, "%d. **%s**: %.2f%% ($%.2fB)\n", i+1, p.Symbol, p.Pct*100, billions)
	}

	top5, top10 := 0.0, 0.0
	for i, p := range positions {
		if i < 5 {
			top5 += p.Pct
		}
		if i < 10 {
			top10 += p.Pct
		}
	}
	largest := 0.0
	if len(positions) > 0 {
		largest = positions[0].Pct
	}

	b.WriteString("\n## Concentration Risk Assessment\n\n")
	fmt.Fprintf(&b, "- **Top 5 Holdings:** %.1f%% of total AUM\n", top5*100)
	fmt.Fprintf(&b, "- **Top 10 Holdings:** %.1f%% of total AUM\n", top10*100)
	fmt.Fprintf(&b, "- **Largest Single Position:** %.2f%%\n\n", largest*100)

	switch {
	case largest > 0.08:
		b.WriteString("**HIGH RISK:** Single stock concentration exceeds 8%\n")
	case largest > 0.05:
		b.WriteString("**MEDIUM RISK:** Single stock concentration 5-8%\n")
	default:
		b.WriteString("**LOW RISK:** Well-diversified single stock positions\n")
	}

	return b.String()
}

func (a *Aggregator) PerformanceReport() string {
	var b strings.Builder
	b.WriteString("# Manager Performance Comparison\n\n")
	b.WriteString("## Manager Overview\n\n")
	b.WriteString("| Manager | Strategy | AUM | Holdings | Concentration |\n")
	b.WriteString("|---------|----------|-----|----------|---------------|\n")

	for _, m := range a.static.Managers {
		herfindahl := 0.0
		for _, w := range m.Holdings {
			herfindahl += w * w
		}
		fmt.Fprintf(&b, "| %s | %s | $%.1fB | %d | %.3f |\n",
			m.Name, m.Strategy, m.AUM/1e9, len(m.Holdings), herfindahl)
	}

	b.WriteString("\n## Strategy Risk Profiles\n\n")
	for _, m := range a.static.Managers {
		herfindahl, largest := 0.0, 0.0
		for _, w := range m.Holdings {
			herfindahl += w * w
			if w > largest {
				largest = w
			}
		}

		profile := "Low"
		if herfindahl > 0.15 {
			profile = "High"
		} else if herfindahl > 0.10 {
			profile = "Medium"
		}

		fmt.Fprintf(&b, "### %s\n", m.Name)
		fmt.Fprintf(&b, "- **Strategy:** %s\n", m.Strategy)
		fmt.Fprintf(&b, "- **Largest Position:** %.1f%%\n", largest*100)
		fmt.Fprintf(&b, "- **Risk Profile:** %s\n\n", profile)
	}

	return b.String()
}

func (a *Aggregator) SectorAllocationReport() string {
	_, totalAUM := a.aggregateConcentration()

	exposure := map[string]decimal.Decimal{}
	for _, m := range a.static.Managers {
		aum := decimal.NewFromFloat(m.AUM)
		for sym, weight := range m.Holdings {
			sector := a.static.SectorFor(sym)
			value := aum.Mul(decimal.NewFromFloat(weight))
			exposure[sector] = exposure[sector].Add(value)
		}
	}

	type sectorShare struct {
		Sector string
		Pct    float64
	}
	shares := make([]sectorShare, 0, len(exposure))
	for sector, value := range exposure {
		pct, _ := value.Div(totalAUM).Float64()
		shares = append(shares, sectorShare{Sector: sector, Pct: pct})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		if shares[i].Pct != shares[j].Pct {
			return shares[i].Pct > shares[j].Pct
		}
		return shares[i].Sector < shares[j].Sector
	})

	var b strings.Builder
	b.WriteString("# Cross-Manager Sector Analysis\n\n")
	b.WriteString("## Platform-Wide Sector Exposure\n\n")

	for _, s := range shares {
		if s.Pct > 0.01 {
			fmt.Fprintf(&b, "- **%s:** %.1f%%\n", s.Sector, s.Pct*100)
		}
	}

	maxExposure := 0.0
	if len(shares) > 0 {
		maxExposure = shares[0].Pct
	}

	b.WriteString("\n## Sector Risk Assessment\n\n")
	switch {
	case maxExposure > 0.40:
		fmt.Fprintf(&b, "**HIGH RISK:** Maximum sector exposure (%.1f%%) exceeds 40%%\n", maxExposure*100)
	case maxExposure > 0.30:
		fmt.Fprintf(&b, "**MEDIUM RISK:** Maximum sector exposure (%.1f%%) is 30-40%%\n", maxExposure*100)
	default:
		b.WriteString("**LOW RISK:** Well-diversified sector allocation\n")
	}

	return b.String()
}

func (a *Aggregator) ComprehensiveReport() string {
	totalAUM := 0.0
	for _, m := range a.static.Managers {
		totalAUM += m.AUM
	}

	return fmt.Sprintf(`%s

---

%s

---

%s

## Multi-Manager Platform Summary
This analysis provides institutional oversight across %d investment managers managing $%.1fB in total assets, identifying optimization opportunities for the platform.`,
		a.OverlapReport(), a.CorrelationReport(), a.ConcentrationReport(),
		len(a.static.Managers), totalAUM/1e9)
}

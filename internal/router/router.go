// Package router classifies free-text investment queries and fans them out
// to the analysis capabilities, merging the results into one report.
package router

import (
	"context"
	"fmt"
	"strings"

	"alphadesk/consts"
	"alphadesk/internal/dataflows"
	"alphadesk/internal/multistrategy"
	"alphadesk/internal/risk"
	"alphadesk/internal/screener"
	"alphadesk/internal/styleclass"
	"alphadesk/internal/universe"
)

// RoutingPolicy decides what happens when no keyword set matches.
type RoutingPolicy int

const (
	// PolicyComprehensive invokes every capability on an unclassifiable
	// query.
	PolicyComprehensive RoutingPolicy = iota

	// PolicyScreeningOnly falls back to stock screening alone.
	PolicyScreeningOnly
)

// DefaultRoutingPolicy is the platform-wide fallback for queries that match
// no keyword set.
const DefaultRoutingPolicy = PolicyComprehensive

// Keyword sets per capability. Membership is substring containment on the
// lower-cased query and is not mutually exclusive.
var (
	styleKeywords = []string{
		"classify", "style", "growth", "value", "momentum", "theme",
		"ai", "ev", "fintech", "healthcare", "sector", "analysis",
		"by investment style", "by style", "investment style",
	}
	riskKeywords = []string{
		"risk", "portfolio", "stress", "factor", "concentration",
		"attribution", "analyze risk",
	}
	strategyKeywords = []string{
		"manager", "overlap", "correlation", "multi", "strategy",
	}
	screeningKeywords = []string{
		"find", "show", "search", "screen", "dividend", "pe", "price",
		"nasdaq", "tech", "companies", "filter", "lowest", "highest",
		"stocks", "under", "over", "yield",
	}
)

// Classify returns the capabilities a query activates, in precedence order
// (style, risk, multi-strategy, screening). Ticker-shaped tokens force the
// risk capability regardless of keyword match. A query matching nothing
// falls back per the policy.
func Classify(query string, policy RoutingPolicy) []string {
	lower := strings.ToLower(query)

	var caps []string
	if matchesAny(lower, styleKeywords) {
		caps = append(caps, consts.StyleTheme)
	}
	if matchesAny(lower, riskKeywords) || len(risk.ExtractTickers(query)) > 0 {
		caps = append(caps, consts.PortfolioRisk)
	}
	if matchesAny(lower, strategyKeywords) {
		caps = append(caps, consts.MultiStrategy)
	}
	if matchesAny(lower, screeningKeywords) {
		caps = append(caps, consts.StockScreening)
	}

	if len(caps) > 0 {
		return caps
	}

	if policy == PolicyScreeningOnly {
		return []string{consts.StockScreening}
	}
	return []string{consts.StockScreening, consts.StyleTheme, consts.PortfolioRisk, consts.MultiStrategy}
}

func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// CapabilityResult tags one capability's outcome. Exactly one of Report or
// Err carries the result.
type CapabilityResult struct {
	Capability string
	Report     string
	Err        error
}

// Router fans queries out to the capability engines. Each request gets a
// fresh memoized view of the shared provider so capabilities never fetch
// the same symbol twice within one query.
type Router struct {
	policy     RoutingPolicy
	provider   dataflows.MarketDataProvider
	screener   *screener.Screener
	classifier *styleclass.Classifier
	attributor *risk.Attributor
	aggregator *multistrategy.Aggregator
}

func New(static *universe.Static, provider dataflows.MarketDataProvider) *Router {
	return &Router{
		policy:     DefaultRoutingPolicy,
		provider:   provider,
		screener:   screener.New(static),
		classifier: styleclass.New(static),
		attributor: risk.New(static),
		aggregator: multistrategy.New(static),
	}
}

// Run classifies the query, executes every selected capability, and merges
// the results. It never returns an error: the worst case is a degraded
// report or the platform error message.
func (r *Router) Run(ctx context.Context, query string) (report string) {
	defer func() {
		if rec := recover(); rec != nil {
			report = errorMessage(fmt.Errorf("%v", rec))
		}
	}()

	caps := Classify(query, r.policy)
	provider := dataflows.Memoized(r.provider)

	results := make([]CapabilityResult, 0, len(caps))
	for _, capability := range caps {
		results = append(results, r.runCapability(ctx, provider, capability, query))
	}

	if len(results) == 1 && results[0].Err == nil {
		return results[0].Report
	}
	return mergeResults(results, query)
}

func (r *Router) runCapability(ctx context.Context, provider dataflows.MarketDataProvider, capability, query string) (result CapabilityResult) {
	result.Capability = capability
	defer func() {
		if rec := recover(); rec != nil {
			result.Report = ""
			result.Err = fmt.Errorf("%s capability failed: %v", capability, rec)
		}
	}()

	switch capability {
	case consts.StockScreening:
		result.Report = r.screener.Analyze(ctx, provider, query)
	case consts.StyleTheme:
		result.Report = r.classifier.Analyze(ctx, provider, query)
	case consts.PortfolioRisk:
		result.Report = r.attributor.Analyze(ctx, provider, query)
	case consts.MultiStrategy:
		result.Report = r.aggregator.Analyze(query)
	default:
		result.Err = fmt.Errorf("unknown capability: %s", capability)
	}
	return result
}

// sectionOrder fixes the merged report layout regardless of classification
// precedence.
var sectionOrder = []string{
	consts.StockScreening,
	consts.StyleTheme,
	consts.PortfolioRisk,
	consts.MultiStrategy,
}

func mergeResults(results []CapabilityResult, query string) string {
	byCapability := make(map[string]CapabilityResult, len(results))
	for _, res := range results {
		byCapability[res.Capability] = res
	}

	var b strings.Builder
	b.WriteString("# Multi-Capability Investment Analysis\n")
	fmt.Fprintf(&b, "**Query:** %s\n\n", query)

	for _, capability := range sectionOrder {
		res, ok := byCapability[capability]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "## %s\n", consts.CapabilityTitles[capability])
		if res.Err != nil {
			fmt.Fprintf(&b, "_Analysis unavailable: %v_\n\n---\n\n", res.Err)
			continue
		}
		fmt.Fprintf(&b, "%s\n\n---\n\n", res.Report)
	}

	b.WriteString("## Integrated Insights\n")
	b.WriteString(integratedInsights(byCapability, query))
	return b.String()
}

// integratedInsights emits one bullet per capability pairing plus
// query-specific notes.
func integratedInsights(results map[string]CapabilityResult, query string) string {
	has := func(capability string) bool {
		res, ok := results[capability]
		return ok && res.Err == nil
	}

	var insights []string

	if has(consts.StockScreening) && has(consts.StyleTheme) {
		insights = append(insights, "- **Investment Style Alignment**: Screening results classified by growth/value characteristics")
	}
	if has(consts.StockScreening) && has(consts.PortfolioRisk) {
		insights = append(insights, "- **Risk-Adjusted Selection**: Stock picks evaluated for portfolio risk impact")
	}
	if has(consts.StyleTheme) && has(consts.PortfolioRisk) {
		insights = append(insights, "- **Factor Risk Assessment**: Style exposures analyzed for portfolio construction")
	}
	if has(consts.StockScreening) && has(consts.StyleTheme) && has(consts.PortfolioRisk) {
		insights = append(insights, "- **Complete Investment Process**: Full pipeline from screening to risk management")
	}

	lower := strings.ToLower(query)
	if strings.Contains(lower, "tech") {
		insights = append(insights, "- **Sector Focus**: Technology sector analysis with growth bias consideration")
	}
	if strings.Contains(lower, "dividend") {
		insights = append(insights, "- **Income Strategy**: Dividend-focused screening with value style characteristics")
	}

	if len(insights) == 0 {
		return "- **Multi-Capability Analysis**: Comprehensive investment intelligence delivered"
	}
	return strings.Join(insights, "\n")
}

func errorMessage(err error) string {
	return fmt.Sprintf(`**AlphaDesk could not process this query** (%v)

Try one of these:
- Find tech stocks under $200
- Classify healthcare stocks by investment style
- Portfolio risk analysis for MSFT
- Show manager overlap across strategies`, err)
}

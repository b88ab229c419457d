package router

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"alphadesk/consts"
	"alphadesk/internal/models"
	"alphadesk/internal/universe"
)

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
	return nil, fmt.Errorf("no history")
}

func hasCapability(caps []string, want string) bool {
	for _, c := range caps {
		if c == want {
			return true
		}
	}
	return false
}

func TestClassifyPrecedenceOrder(t *testing.T) {
	caps := Classify("classify stocks and check portfolio risk", DefaultRoutingPolicy)

	if len(caps) < 3 {
		t.Fatalf("expected at least 3 capabilities, got %v", caps)
	}
	if caps[0] != consts.StyleTheme {
		t.Errorf("style must come first, got %v", caps)
	}
	if caps[1] != consts.PortfolioRisk {
		t.Errorf("risk must come second, got %v", caps)
	}
}

func TestClassifySingleCapability(t *testing.T) {
	caps := Classify("correlation across managers", DefaultRoutingPolicy)
	if len(caps) != 1 || caps[0] != consts.MultiStrategy {
		t.Errorf("Classify = %v, want multi-strategy only", caps)
	}
}

func TestClassifyOverlapAlsoMatchesScreening(t *testing.T) {
	// "overlap" contains the screening keyword "over"; substring matching
	// keeps this deliberate and deterministic.
	caps := Classify("overlap between managers", DefaultRoutingPolicy)
	if !hasCapability(caps, consts.MultiStrategy) || !hasCapability(caps, consts.StockScreening) {
		t.Errorf("Classify = %v, want multi-strategy and screening", caps)
	}
}

func TestClassifyTickerForcesRisk(t *testing.T) {
	caps := Classify("tell me about MSFT", DefaultRoutingPolicy)
	if !hasCapability(caps, consts.PortfolioRisk) {
		t.Errorf("ticker token must force risk inclusion, got %v", caps)
	}
}

func TestClassifyNoMatchComprehensive(t *testing.T) {
	caps := Classify("hello there", PolicyComprehensive)
	if len(caps) != 4 {
		t.Errorf("comprehensive fallback must select all capabilities, got %v", caps)
	}
}

func TestClassifyNoMatchScreeningOnly(t *testing.T) {
	caps := Classify("hello there", PolicyScreeningOnly)
	if len(caps) != 1 || caps[0] != consts.StockScreening {
		t.Errorf("screening-only fallback wrong: %v", caps)
	}
}

func TestRunSingleCapabilityReturnsRawReport(t *testing.T) {
	static := universe.Load()
	r := New(static, &stubProvider{quotes: map[string]*models.StockQuote{}})

	report := r.Run(context.Background(), "correlation across managers")

	if strings.Contains(report, "Multi-Capability Investment Analysis") {
		t.Error("single capability must not get the merged wrapper")
	}
	if !strings.Contains(report, "Portfolio Correlation Analysis") {
		t.Error("correlation report missing")
	}
}

func TestRunMergedSectionOrder(t *testing.T) {
	static := universe.Load()
	quotes := map[string]*models.StockQuote{}
	for _, sym := range static.TechUniverse {
		quotes[sym] = &models.StockQuote{Symbol: sym, Price: 100, Sector: "Technology", MarketCap: 1e12}
	}
	r := New(static, &stubProvider{quotes: quotes})

	report := r.Run(context.Background(), "tech stocks analysis with risk")

	if !strings.Contains(report, "Multi-Capability Investment Analysis") {
		t.Fatal("multi-capability query must get the merged wrapper")
	}

	idxScreen := strings.Index(report, "## "+consts.CapabilityTitles[consts.StockScreening])
	idxStyle := strings.Index(report, "## "+consts.CapabilityTitles[consts.StyleTheme])
	idxRisk := strings.Index(report, "## "+consts.CapabilityTitles[consts.PortfolioRisk])

	if idxScreen == -1 || idxStyle == -1 || idxRisk == -1 {
		t.Fatalf("missing sections: screen=%d style=%d risk=%d", idxScreen, idxStyle, idxRisk)
	}
	if !(idxScreen < idxStyle && idxStyle < idxRisk) {
		t.Error("sections must appear in fixed order screening, style, risk")
	}
	if !strings.Contains(report, "## Integrated Insights") {
		t.Error("merged report missing integrated insights")
	}
	if !strings.Contains(report, "Sector Focus") {
		t.Error("tech query must add the sector focus insight")
	}
}

func TestRunDividendInsight(t *testing.T) {
	static := universe.Load()
	quotes := map[string]*models.StockQuote{}
	for _, sym := range static.DividendUniverse {
		quotes[sym] = &models.StockQuote{Symbol: sym, Price: 50, DividendYieldPct: 3.5, Sector: "Consumer Defensive"}
	}
	r := New(static, &stubProvider{quotes: quotes})

	report := r.Run(context.Background(), "find dividend stocks and classify their style")

	if !strings.Contains(report, "Income Strategy") {
		t.Error("dividend query must add the income strategy insight")
	}
	if !strings.Contains(report, "Investment Style Alignment") {
		t.Error("screening plus style must produce the alignment insight")
	}
}

func TestRunNeverPanics(t *testing.T) {
	static := universe.Load()
	r := New(static, &stubProvider{quotes: map[string]*models.StockQuote{}})

	// Empty provider everywhere: every capability degrades, none crash.
	report := r.Run(context.Background(), "comprehensive view of everything interesting")
	if report == "" {
		t.Fatal("router must always produce a report")
	}
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FilterCriteria is the structured form of a free-text screening query.
// Nil numeric fields mean unconstrained; zero is never used as a sentinel.
type FilterCriteria struct {
	MaxPrice         *float64 `json:"max_price,omitempty"`
	MinPrice         *float64 `json:"min_price,omitempty"`
	MaxPE            *float64 `json:"max_pe,omitempty"`
	MinDividendYield *float64 `json:"min_dividend_yield,omitempty"`

	Dividend bool `json:"dividend,omitempty"`
	Growth   bool `json:"growth,omitempty"`
	Value    bool `json:"value,omitempty"`
	LargeCap bool `json:"large_cap,omitempty"`

	Tech       bool `json:"tech,omitempty"`
	Financial  bool `json:"financial,omitempty"`
	Healthcare bool `json:"healthcare,omitempty"`
	Energy     bool `json:"energy,omitempty"`

	OriginalQuery string `json:"original_query"`
}

// StockQuote is a per-ticker snapshot assembled fresh for each request.
// DividendYieldPct is always in percentage units. Missing numeric fields
// are zero, never NaN.
type StockQuote struct {
	Symbol           string  `json:"symbol"`
	Price            float64 `json:"price"`
	PERatio          float64 `json:"pe_ratio"`
	DividendYieldPct float64 `json:"dividend_yield"`
	MarketCap        float64 `json:"market_cap"`
	Sector           string  `json:"sector"`

	Beta             float64 `json:"beta"`
	RevenueGrowthPct float64 `json:"revenue_growth"`
	ROEPct           float64 `json:"roe"`
	PBRatio          float64 `json:"pb_ratio"`
	DebtToEquity     float64 `json:"debt_to_equity"`
	CurrentRatio     float64 `json:"current_ratio"`
}

// PriceBar is one day of close data used for momentum and volatility.
type PriceBar struct {
	Date  time.Time       `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// Portfolio maps ticker symbols to relative allocation weights. Weights
// need not sum to 1.0.
type Portfolio map[string]float64

// FactorDefinition names an investment factor with its archetype members.
// Membership is a hard attribution shortcut: a member always scores 0.9
// exposure regardless of live metrics.
type FactorDefinition struct {
	Name        string
	Description string
	Members     map[string]bool
}

// StressScenario maps factor names to signed impact fractions. Portfolio
// impact under a scenario is the sum of exposure times impact per factor.
type StressScenario struct {
	Name          string
	Description   string
	FactorImpacts map[string]float64
}

// ManagerPortfolio is one institutional model portfolio on the platform.
type ManagerPortfolio struct {
	Name     string
	Strategy string
	AUM      float64
	Holdings Portfolio
}

// Theme groups tickers into core and related membership.
type Theme struct {
	Name        string
	Description string
	Core        []string
	Related     []string
}

// ScreeningResult is the structured output of one screening pass.
type ScreeningResult struct {
	Query          string         `json:"query"`
	ParsedCriteria FilterCriteria `json:"parsed_criteria"`
	TotalScreened  int            `json:"total_screened"`
	MatchedCount   int            `json:"matched_count"`
	Stocks         []*StockQuote  `json:"stocks"`
	Summary        string         `json:"summary"`
}

// StyleScores holds the three competing style scores for one ticker.
type StyleScores struct {
	Growth   int `json:"growth"`
	Value    int `json:"value"`
	Momentum int `json:"momentum"`
}

// Max returns the highest of the three scores.
func (s StyleScores) Max() int {
	m := s.Growth
	if s.Value > m {
		m = s.Value
	}
	if s.Momentum > m {
		m = s.Momentum
	}
	return m
}

// AnalysisInput is the query payload for the capability tool boundary.
type AnalysisInput struct {
	Query string `json:"query"`
}

// AnalysisOutput carries a fully formatted report back to the agent runtime.
type AnalysisOutput struct {
	Report string `json:"report"`
}

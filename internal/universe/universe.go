// Package universe holds the static ticker tables the analysis engines
// draw from: screening universes, sector rosters, theme membership,
// factor definitions, stress scenarios, and the institutional model
// portfolios. Everything here is fixed data constructed once at startup.
package universe

import "alphadesk/internal/models"

// Static bundles every table. Components receive a *Static and must treat
// its contents as read-only.
type Static struct {
	DividendUniverse []string
	TechUniverse     []string
	BroadUniverse    []string

	// SectorOrder preserves the declared roster order because sector
	// classification is first-match.
	SectorOrder  []string
	SectorStocks map[string][]string

	Themes []models.Theme

	Factors []models.FactorDefinition

	SamplePortfolios map[string]models.Portfolio

	Managers []models.ManagerPortfolio

	HistoricalScenarios []models.StressScenario

	// AdHocScenarios apply a flat shock; the tech correction scales with
	// the portfolio's weight in TechShockTickers.
	AdHocScenarios   []AdHocScenario
	TechShockTickers []string

	// MappingOrder and SectorMapping implement first-match sector lookup
	// with Other as the catch-all.
	MappingOrder  []string
	SectorMapping map[string][]string
}

// AdHocScenario is a flat market shock applied to custom portfolios.
type AdHocScenario struct {
	Name       string
	BaseImpact float64
	TechScaled bool
}

func members(symbols ...string) map[string]bool {
	m := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		m[s] = true
	}
	return m
}

// Load constructs the full static dataset.
func Load() *Static {
	s := &Static{
		DividendUniverse: []string{
			"AAPL", "MSFT", "JPM", "JNJ", "PFE", "UNH", "ABBV", "MRK",
			"CVX", "XOM", "KO", "PG", "HD", "WMT", "T", "VZ",
			"CMCSA", "BAC", "WFC", "GS", "V", "MA", "AXP", "COST", "MCD",
		},
		TechUniverse: []string{
			"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA", "ORCL", "CRM", "ADBE",
			"NFLX", "TSLA", "INTC", "AMD", "QCOM", "AVGO", "CSCO", "IBM",
		},
		BroadUniverse: []string{
			"AAPL", "MSFT", "GOOGL", "AMZN", "META", "NVDA", "ORCL", "CRM", "ADBE",
			"JPM", "BAC", "WFC", "GS", "BRK-B", "V", "MA", "AXP",
			"JNJ", "PFE", "UNH", "ABBV", "MRK", "CVX", "XOM", "KO", "PG",
			"HD", "NKE", "DIS", "MCD", "WMT", "COST", "TGT",
			"T", "VZ", "CMCSA", "NFLX", "TSLA", "F", "GM",
			"INTC", "AMD", "QCOM", "AVGO", "CSCO", "IBM", "HPQ",
		},

		SectorOrder: []string{
			"Technology", "Healthcare", "Financials", "Consumer", "Energy",
			"Industrials", "Materials", "Communication Services", "Utilities",
			"Real Estate",
		},
		SectorStocks: map[string][]string{
			"Technology": {
				"AAPL", "MSFT", "NVDA", "AVGO", "ORCL", "ADBE", "CRM", "CSCO",
				"INTC", "AMD", "QCOM", "TXX", "INTU", "IBM", "MU", "AMAT",
			},
			"Healthcare": {
				"UNH", "JNJ", "LLY", "PFE", "ABBV", "MRK", "TMO", "ABT",
				"CVS", "AMGN", "MDT", "DHR", "BMY", "GILD", "ISRG", "VRTX",
			},
			"Financials": {
				"BRK-B", "JPM", "V", "MA", "BAC", "WFC", "GS", "MS",
				"AXP", "SCHW", "C", "SPGI", "BLK", "CB", "MMC", "PGR",
			},
			"Consumer": {
				"AMZN", "TSLA", "HD", "WMT", "MCD", "NKE", "SBUX", "TGT",
				"LOW", "COST", "TJX", "DG", "CMG", "YUM", "LULU", "ROST",
			},
			"Energy": {
				"XOM", "CVX", "COP", "SLB", "EOG", "MPC", "VLO", "PSX",
				"OXY", "PXD", "HES", "DVN", "HAL", "BKR", "FANG", "KMI",
			},
			"Industrials": {
				"BA", "RTX", "HON", "UPS", "CAT", "LMT", "DE", "GE",
				"MMM", "FDX", "ETN", "EMR", "ITW", "GD", "NSC", "WM",
			},
			"Materials": {
				"LIN", "APD", "SHW", "ECL", "DD", "NEM", "FCX", "DOW",
				"PPG", "CTVA", "ALB", "IFF", "LYB", "BALL", "AVY", "IP",
			},
			"Communication Services": {
				"GOOGL", "META", "DIS", "NFLX", "CMCSA", "VZ", "T", "TMUS",
				"CHTR", "EA", "TTWO", "ATVI", "MTCH", "SNAP", "PINS", "ROKU",
			},
			"Utilities": {
				"NEE", "SO", "DUK", "CEG", "SRE", "AEP", "D", "PCG",
				"EXC", "XEL", "ED", "WEC", "ES", "DTE", "AWK", "PPL",
			},
			"Real Estate": {
				"PLD", "AMT", "CCI", "EQIX", "PSA", "O", "SBAC", "WELL",
				"DLR", "AVB", "EQR", "VTR", "INVH", "MAA", "ARE", "UDR",
			},
		},

		Themes: []models.Theme{
			{
				Name:        "AI",
				Description: "Artificial Intelligence & Machine Learning",
				Core:        []string{"NVDA", "GOOGL", "MSFT", "META", "AMD"},
				Related:     []string{"PLTR", "CRM", "SNOW", "ADBE", "NOW"},
			},
			{
				Name:        "EV_CleanEnergy",
				Description: "Electric Vehicles & Clean Energy",
				Core:        []string{"TSLA", "RIVN", "LCID", "NIO", "XPEV"},
				Related:     []string{"CHPT", "PLUG", "ENPH", "SEDG", "LAC"},
			},
			{
				Name:        "Fintech",
				Description: "Financial Technology & Digital Payments",
				Core:        []string{"SQ", "PYPL", "V", "MA", "COIN"},
				Related:     []string{"AFRM", "SOFI", "HOOD", "UPST"},
			},
			{
				Name:        "Cybersecurity",
				Description: "Cybersecurity & Data Protection",
				Core:        []string{"CRWD", "PANW", "ZS", "OKTA", "FTNT"},
				Related:     []string{"S", "NET", "CYBR", "RPD", "TENB"},
			},
			{
				Name:        "Cloud",
				Description: "Cloud Computing & Infrastructure",
				Core:        []string{"AMZN", "MSFT", "GOOGL", "CRM", "NOW"},
				Related:     []string{"SNOW", "DDOG", "MDB", "TEAM", "HUBS"},
			},
		},

		Factors: []models.FactorDefinition{
			{
				Name:        "Growth",
				Description: "Companies with high revenue/earnings growth",
				Members:     members("NVDA", "AAPL", "MSFT", "GOOGL", "META", "AMZN", "TSLA"),
			},
			{
				Name:        "Value",
				Description: "Companies trading at low valuations",
				Members:     members("BRK-B", "JPM", "WFC", "BAC", "XOM", "CVX", "IBM"),
			},
			{
				Name:        "Quality",
				Description: "Companies with strong fundamentals",
				Members:     members("AAPL", "MSFT", "JNJ", "PG", "KO", "HD", "WMT"),
			},
			{
				Name:        "Momentum",
				Description: "Companies with strong price momentum",
				Members:     members("NVDA", "AMD", "CRM", "NET", "DDOG", "SHOP", "SQ"),
			},
		},

		SamplePortfolios: map[string]models.Portfolio{
			"growth_portfolio": {
				"NVDA": 0.15, "AAPL": 0.12, "MSFT": 0.11, "GOOGL": 0.10, "META": 0.08,
				"AMZN": 0.07, "TSLA": 0.06, "AMD": 0.05, "CRM": 0.04, "ADBE": 0.04,
				"NFLX": 0.03, "SHOP": 0.03, "SQ": 0.03, "SNOW": 0.03, "PLTR": 0.03,
				"COIN": 0.02, "RBLX": 0.02, "ZM": 0.02, "DDOG": 0.02, "NET": 0.02,
			},
			"value_portfolio": {
				"BRK-B": 0.12, "JPM": 0.10, "JNJ": 0.08, "PG": 0.07, "KO": 0.06,
				"WMT": 0.06, "HD": 0.05, "VZ": 0.05, "PFE": 0.05, "MRK": 0.05,
				"BAC": 0.04, "WFC": 0.04, "XOM": 0.04, "CVX": 0.04, "T": 0.04,
				"IBM": 0.03, "GE": 0.03, "F": 0.03, "GM": 0.03, "C": 0.03,
			},
			"balanced_portfolio": {
				"AAPL": 0.08, "MSFT": 0.07, "GOOGL": 0.06, "BRK-B": 0.06, "JPM": 0.05,
				"JNJ": 0.05, "NVDA": 0.05, "META": 0.04, "PG": 0.04, "HD": 0.04,
				"WMT": 0.04, "V": 0.04, "MA": 0.04, "UNH": 0.04, "AMZN": 0.03,
				"TSLA": 0.03, "DIS": 0.03, "KO": 0.03, "PFE": 0.03, "MRK": 0.03,
			},
		},

		Managers: []models.ManagerPortfolio{
			{
				Name:     "TechGrowth Capital",
				Strategy: "Technology Growth",
				AUM:      2_500_000_000,
				Holdings: models.Portfolio{
					"NVDA": 0.18, "AAPL": 0.15, "MSFT": 0.13, "GOOGL": 0.12, "META": 0.10,
					"AMZN": 0.08, "TSLA": 0.07, "AMD": 0.06, "CRM": 0.05, "ADBE": 0.04,
					"NFLX": 0.02,
				},
			},
			{
				Name:     "Innovation Partners",
				Strategy: "Innovation Growth",
				AUM:      1_800_000_000,
				Holdings: models.Portfolio{
					"MSFT": 0.16, "GOOGL": 0.14, "NVDA": 0.12, "META": 0.11, "AAPL": 0.10,
					"AMZN": 0.09, "ADBE": 0.07, "CRM": 0.06, "SNOW": 0.05, "PLTR": 0.04,
					"DDOG": 0.03, "NET": 0.03,
				},
			},
			{
				Name:     "Berkshire-Style Value",
				Strategy: "Deep Value",
				AUM:      3_200_000_000,
				Holdings: models.Portfolio{
					"BRK-B": 0.20, "JPM": 0.15, "JNJ": 0.12, "PG": 0.10, "KO": 0.08,
					"WMT": 0.07, "HD": 0.06, "VZ": 0.05, "PFE": 0.05, "MRK": 0.05,
					"BAC": 0.04, "WFC": 0.03,
				},
			},
			{
				Name:     "Diversified Alpha",
				Strategy: "Balanced Growth",
				AUM:      4_500_000_000,
				Holdings: models.Portfolio{
					"AAPL": 0.10, "MSFT": 0.09, "GOOGL": 0.08, "BRK-B": 0.07, "JPM": 0.06,
					"JNJ": 0.06, "NVDA": 0.06, "META": 0.05, "PG": 0.05, "HD": 0.05,
					"WMT": 0.05, "V": 0.04, "MA": 0.04, "UNH": 0.04, "AMZN": 0.04,
					"TSLA": 0.03, "DIS": 0.03, "KO": 0.03, "PFE": 0.03, "MRK": 0.03,
					"CVX": 0.02, "XOM": 0.02,
				},
			},
			{
				Name:     "Trend Followers",
				Strategy: "Momentum",
				AUM:      1_200_000_000,
				Holdings: models.Portfolio{
					"NVDA": 0.25, "AMD": 0.15, "TSLA": 0.12, "COIN": 0.08, "RBLX": 0.07,
					"SHOP": 0.06, "SQ": 0.05, "SNOW": 0.05, "NET": 0.04, "DDOG": 0.04,
					"PLTR": 0.04, "ROKU": 0.03, "ZM": 0.02,
				},
			},
		},

		HistoricalScenarios: []models.StressScenario{
			{
				Name:        "2008_financial_crisis",
				Description: "Financial Crisis (2008)",
				FactorImpacts: map[string]float64{
					"Growth": -0.45, "Value": -0.35, "Quality": -0.25, "Momentum": -0.55,
				},
			},
			{
				Name:        "covid_pandemic",
				Description: "COVID-19 Pandemic (2020)",
				FactorImpacts: map[string]float64{
					"Growth": 0.15, "Value": -0.25, "Quality": 0.05, "Momentum": 0.35,
				},
			},
			{
				Name:        "inflation_spike",
				Description: "High Inflation Environment",
				FactorImpacts: map[string]float64{
					"Growth": -0.20, "Value": 0.10, "Quality": -0.05, "Momentum": -0.15,
				},
			},
		},

		AdHocScenarios: []AdHocScenario{
			{Name: "Market Crash (-30%)", BaseImpact: -0.30},
			{Name: "Tech Sector Correction", BaseImpact: -0.20, TechScaled: true},
			{Name: "Rising Interest Rates", BaseImpact: -0.15},
			{Name: "Recession Scenario", BaseImpact: -0.25},
		},
		TechShockTickers: []string{"AAPL", "MSFT", "NVDA", "GOOGL", "META", "AMZN"},

		MappingOrder: []string{
			"Technology", "Healthcare", "Financials", "Consumer", "Energy",
			"Communication", "Other",
		},
		SectorMapping: map[string][]string{
			"Technology":    {"AAPL", "MSFT", "NVDA", "GOOGL", "META", "AMZN", "ADBE", "CRM", "ORCL", "INTC", "AMD"},
			"Healthcare":    {"JNJ", "PFE", "MRK", "UNH", "ABBV", "TMO", "ABT", "CVS", "AMGN", "MDT"},
			"Financials":    {"BRK-B", "JPM", "V", "MA", "BAC", "WFC", "GS", "MS", "AXP", "SCHW"},
			"Consumer":      {"HD", "WMT", "MCD", "NKE", "SBUX", "TGT", "LOW", "COST", "TJX", "DG"},
			"Energy":        {"XOM", "CVX", "COP", "SLB", "EOG", "MPC", "VLO", "PSX", "OXY", "PXD"},
			"Communication": {"DIS", "NFLX", "CMCSA", "VZ", "T", "TMUS", "CHTR"},
			"Other":         {"KO", "PG", "TSLA", "COIN", "RBLX", "SHOP", "SQ", "SNOW", "NET", "DDOG", "PLTR", "ROKU", "ZM"},
		},
	}

	return s
}

// SectorFor returns the mapped sector for a ticker, checking sectors in
// declared order and falling back to Other.
func (s *Static) SectorFor(symbol string) string {
	for _, sector := range s.MappingOrder {
		for _, t := range s.SectorMapping[sector] {
			if t == symbol {
				return sector
			}
		}
	}
	return "Other"
}

// ThemeByName returns the theme with the given name, or nil.
func (s *Static) ThemeByName(name string) *models.Theme {
	for i := range s.Themes {
		if s.Themes[i].Name == name {
			return &s.Themes[i]
		}
	}
	return nil
}

// FactorByName returns the factor definition with the given name, or nil.
func (s *Static) FactorByName(name string) *models.FactorDefinition {
	for i := range s.Factors {
		if s.Factors[i].Name == name {
			return &s.Factors[i]
		}
	}
	return nil
}

// IsFactorMember reports hard membership of a ticker in a named factor.
func (s *Static) IsFactorMember(factor, symbol string) bool {
	f := s.FactorByName(factor)
	return f != nil && f.Members[symbol]
}

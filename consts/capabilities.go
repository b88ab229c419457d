package consts

// Capability identifiers shared by the router, tool layer and display.
const (
	StockScreening = "stock_screening"
	StyleTheme     = "style_theme"
	PortfolioRisk  = "portfolio_risk"
	MultiStrategy  = "multi_strategy"
)

// Section titles in the order merged reports are assembled.
var CapabilityTitles = map[string]string{
	StockScreening: "Stock Screening Results",
	StyleTheme:     "Style & Theme Classification",
	PortfolioRisk:  "Portfolio Risk Analysis",
	MultiStrategy:  "Multi-Strategy Monitoring",
}

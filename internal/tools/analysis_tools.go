// Package tools exposes the analysis capabilities as agent-callable tools.
package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"alphadesk/internal/dataflows"
	"alphadesk/internal/models"
	"alphadesk/internal/multistrategy"
	"alphadesk/internal/risk"
	"alphadesk/internal/router"
	"alphadesk/internal/screener"
	"alphadesk/internal/styleclass"
	"alphadesk/internal/universe"
)

func queryParams() *schema.ParamsOneOf {
	return schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
		"query": {
			Type:     "string",
			Desc:     "The free-text investment query",
			Required: true,
		},
	})
}

// NewStockScreeningTool screens a ticker universe against criteria parsed
// from the query.
func NewStockScreeningTool(static *universe.Static, provider dataflows.MarketDataProvider) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "stock_screening",
			Desc:        "Screen stocks by natural-language criteria (price, P/E, dividend yield, sector)",
			ParamsOneOf: queryParams(),
		},
		func(ctx context.Context, input models.AnalysisInput) (*models.AnalysisOutput, error) {
			if input.Query == "" {
				return nil, fmt.Errorf("query parameter is required")
			}
			s := screener.New(static)
			report := s.Analyze(ctx, dataflows.Memoized(provider), input.Query)
			return &models.AnalysisOutput{Report: report}, nil
		},
	)
}

// NewStyleThemeTool classifies stocks by investment style and theme.
func NewStyleThemeTool(static *universe.Static, provider dataflows.MarketDataProvider) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "style_theme_analysis",
			Desc:        "Classify stocks by investment style (Growth/Value/Momentum) or analyze a theme",
			ParamsOneOf: queryParams(),
		},
		func(ctx context.Context, input models.AnalysisInput) (*models.AnalysisOutput, error) {
			if input.Query == "" {
				return nil, fmt.Errorf("query parameter is required")
			}
			c := styleclass.New(static)
			report := c.Analyze(ctx, dataflows.Memoized(provider), input.Query)
			return &models.AnalysisOutput{Report: report}, nil
		},
	)
}

// NewPortfolioRiskTool performs risk attribution for stocks and portfolios.
func NewPortfolioRiskTool(static *universe.Static, provider dataflows.MarketDataProvider) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "portfolio_risk_analysis",
			Desc:        "Risk attribution, factor exposure, and stress testing for stocks and portfolios",
			ParamsOneOf: queryParams(),
		},
		func(ctx context.Context, input models.AnalysisInput) (*models.AnalysisOutput, error) {
			if input.Query == "" {
				return nil, fmt.Errorf("query parameter is required")
			}
			a := risk.New(static)
			report := a.Analyze(ctx, dataflows.Memoized(provider), input.Query)
			return &models.AnalysisOutput{Report: report}, nil
		},
	)
}

// NewMultiStrategyTool monitors the institutional multi-manager platform.
func NewMultiStrategyTool(static *universe.Static) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "multi_strategy_analysis",
			Desc:        "Cross-manager overlap, correlation, concentration, and allocation analysis",
			ParamsOneOf: queryParams(),
		},
		func(ctx context.Context, input models.AnalysisInput) (*models.AnalysisOutput, error) {
			if input.Query == "" {
				return nil, fmt.Errorf("query parameter is required")
			}
			a := multistrategy.New(static)
			return &models.AnalysisOutput{Report: a.Analyze(input.Query)}, nil
		},
	)
}

// NewRouterTool runs the full routing pipeline: classification, capability
// fan-out, and report merging. Beyond input validation it does not error;
// capability failures surface inside the report text.
func NewRouterTool(static *universe.Static, provider dataflows.MarketDataProvider) tool.BaseTool {
	return t_utils.NewTool(
		&schema.ToolInfo{
			Name:        "investment_query",
			Desc:        "Route any free-text investment query to the right analysis capabilities",
			ParamsOneOf: queryParams(),
		},
		func(ctx context.Context, input models.AnalysisInput) (*models.AnalysisOutput, error) {
			if input.Query == "" {
				return nil, fmt.Errorf("query parameter is required")
			}
			rt := router.New(static, provider)
			return &models.AnalysisOutput{Report: rt.Run(ctx, input.Query)}, nil
		},
	)
}

// AllTools assembles the complete tool set for the agent runtime.
func AllTools(static *universe.Static, provider dataflows.MarketDataProvider) []tool.BaseTool {
	return []tool.BaseTool{
		NewStockScreeningTool(static, provider),
		NewStyleThemeTool(static, provider),
		NewPortfolioRiskTool(static, provider),
		NewMultiStrategyTool(static),
		NewRouterTool(static, provider),
	}
}

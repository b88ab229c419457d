package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"alphadesk/config"
	"alphadesk/internal/dataflows"
	"alphadesk/internal/display"
	"alphadesk/internal/router"
	"alphadesk/internal/universe"
)

// InteractiveSession drives the query loop: prompt, route, render, repeat.
type InteractiveSession struct {
	config   *config.Config
	static   *universe.Static
	provider dataflows.MarketDataProvider
	router   *router.Router
}

// NewInteractiveSession wires the full pipeline for interactive use.
func NewInteractiveSession(cfg *config.Config) *InteractiveSession {
	static := universe.Load()
	provider := newProvider(cfg, static)
	return &InteractiveSession{
		config:   cfg,
		static:   static,
		provider: provider,
		router:   router.New(static, provider),
	}
}

// newProvider builds the market data gateway. On-disk caching happens
// inside the gateway's feed clients per config.CacheEnabled.
func newProvider(cfg *config.Config, static *universe.Static) dataflows.MarketDataProvider {
	return dataflows.NewGateway(cfg, static.SectorFor)
}

// Start begins the interactive session.
func (s *InteractiveSession) Start() error {
	display.DisplayWelcomeBanner()
	display.DisplayCapabilities()

	for {
		action, err := PromptForAction()
		if err != nil {
			// survey returns an error on Ctrl-C; treat it as exit
			fmt.Println()
			return nil
		}

		var query string
		switch action {
		case actionQuery:
			query, err = PromptForQuery()
		case actionExamples:
			query, err = PromptForExampleQuery()
		case actionExit:
			display.DisplayInfo("Thank you for using AlphaDesk!")
			return nil
		}
		if err != nil {
			fmt.Println()
			return nil
		}

		s.runQuery(query)
	}
}

// runQuery executes one query end to end and offers to save the report.
func (s *InteractiveSession) runQuery(query string) {
	display.DisplayThinking(query)

	report := s.router.Run(context.Background(), query)

	renderer := display.NewReportRenderer(query)
	renderer.Render(report)

	defaultPath := filepath.Join(s.config.ResultsDir,
		fmt.Sprintf("report_%s.json", time.Now().Format("20060102_150405")))
	path, err := PromptForSaveReport(defaultPath)
	if err != nil || path == "" {
		return
	}
	if err := renderer.SaveReportToFile(report, path); err != nil {
		display.DisplayError(err, "report export")
		return
	}
	display.DisplaySuccess(fmt.Sprintf("Report saved to %s", path))
}

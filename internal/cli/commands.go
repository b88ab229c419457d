package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"alphadesk/config"
	"alphadesk/internal/display"
	"alphadesk/internal/router"
	"alphadesk/internal/universe"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "alphadesk",
		Short: "AlphaDesk - Free-Text Investment Query Analysis",
		Long: `AlphaDesk routes free-text investment queries to specialized analysis
capabilities: stock screening, style and theme classification, portfolio risk
attribution, and multi-manager strategy monitoring.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start interactive mode
			return NewInteractiveSession(cfg).Start()
		},
	}

	rootCmd.AddCommand(newQueryCmd(cfg))
	rootCmd.AddCommand(newInteractiveCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(cfg))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	return rootCmd
}

// newQueryCmd creates the one-shot query command
func newQueryCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [QUERY...]",
		Short: "Run a single investment query",
		Long: `Run one free-text investment query and print the analysis report.
Example: alphadesk query find dividend stocks under \$100`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			savePath, _ := cmd.Flags().GetString("save")

			return runQueryCommand(cfg, query, savePath)
		},
	}

	cmd.Flags().String("save", "", "Export the report as JSON to the given path")

	return cmd
}

// newInteractiveCmd creates the interactive session command
func newInteractiveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive query session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewInteractiveSession(cfg).Start()
		},
	}
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("AlphaDesk v1.0.0")
			fmt.Println("Free-Text Investment Query Analysis System")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Manage AlphaDesk configuration settings",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cfg)
		},
	})

	return configCmd
}

// runQueryCommand executes one query end to end.
func runQueryCommand(cfg *config.Config, query, savePath string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query is required")
	}

	static := universe.Load()
	provider := newProvider(cfg, static)
	rt := router.New(static, provider)

	display.DisplayThinking(query)
	report := rt.Run(context.Background(), query)

	renderer := display.NewReportRenderer(query)
	renderer.Render(report)

	if savePath != "" {
		if err := renderer.SaveReportToFile(report, savePath); err != nil {
			return fmt.Errorf("report export failed: %w", err)
		}
		display.DisplaySuccess(fmt.Sprintf("Report saved to %s", savePath))
	}

	return nil
}

// showConfig displays the current configuration
func showConfig(cfg *config.Config) {
	fmt.Println("📋 Current AlphaDesk Configuration:")
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("Project Directory:    %s\n", cfg.ProjectDir)
	fmt.Printf("Results Directory:    %s\n", cfg.ResultsDir)
	fmt.Printf("Data Directory:       %s\n", cfg.DataDir)
	fmt.Printf("Cache Directory:      %s\n", cfg.DataCacheDir)
	fmt.Println()
	fmt.Printf("Online Tools:         %t\n", cfg.OnlineTools)
	fmt.Printf("Cache Enabled:        %t\n", cfg.CacheEnabled)
	fmt.Printf("Debug Mode:           %t\n", cfg.Debug)
	fmt.Printf("Fetch Timeout:        %ds\n", cfg.FetchTimeoutSec)
	fmt.Printf("Default Result Count: %d\n", cfg.DefaultResultCount)
	fmt.Println()

	fmt.Println("🔌 API Configuration:")
	fmt.Println("─────────────────────")
	if cfg.FinnhubAPIKey != "" {
		fmt.Println("Finnhub API:          ✅ Configured")
	} else {
		fmt.Println("Finnhub API:          ❌ Not configured (fundamentals degrade to zero)")
	}
}

// validateConfig validates the configuration and dependencies
func validateConfig(cfg *config.Config) error {
	fmt.Println("🔍 Validating AlphaDesk Configuration...")
	fmt.Println("═══════════════════════════════════════")

	fmt.Print("📁 Checking directories... ")
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Println("❌")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Println("✅")

	fmt.Print("🔑 Checking API keys... ")
	warnings := []string{}

	if cfg.FinnhubAPIKey == "" {
		warnings = append(warnings, "Finnhub API key not configured; beta, growth, and leverage fields will be unavailable")
	}

	if len(warnings) > 0 {
		fmt.Println("⚠️")
		for _, warning := range warnings {
			fmt.Printf("  ⚠️  %s\n", warning)
		}
	} else {
		fmt.Println("✅")
	}

	fmt.Print("⚙️  Checking configuration values... ")
	if cfg.FetchTimeoutSec < 1 || cfg.FetchTimeoutSec > 120 {
		fmt.Println("❌")
		return fmt.Errorf("fetch timeout must be between 1 and 120 seconds")
	}

	if cfg.DefaultResultCount < 1 || cfg.DefaultResultCount > 50 {
		fmt.Println("❌")
		return fmt.Errorf("default result count must be between 1 and 50")
	}
	fmt.Println("✅")

	fmt.Print("📚 Loading reference universe... ")
	static := universe.Load()
	if len(static.BroadUniverse) == 0 || len(static.Managers) == 0 {
		fmt.Println("❌")
		return fmt.Errorf("reference universe failed to load")
	}
	fmt.Println("✅")

	fmt.Println()
	if len(warnings) == 0 {
		fmt.Println("✅ Configuration validation completed successfully!")
	} else {
		fmt.Printf("⚠️  Configuration validation completed with %d warnings.\n", len(warnings))
		fmt.Println("Some features may be limited without proper API configuration.")
	}

	fmt.Println()
	fmt.Println("💡 Tips:")
	fmt.Println("  • Set ALPHADESK_FINNHUB_API_KEY environment variable for fundamentals")
	fmt.Println("  • Use 'alphadesk query <text>' to run your first analysis")

	return nil
}

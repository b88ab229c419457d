// Package display renders markdown analysis reports for the terminal.
package display

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Background(lipgloss.Color("#1F2937")).
			Padding(0, 1).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	subHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	bulletStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	tableStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)
)

// ReportRenderer turns the markdown produced by the analysis capabilities
// into styled terminal output.
type ReportRenderer struct {
	query string
}

// NewReportRenderer creates a renderer for the given query.
func NewReportRenderer(query string) *ReportRenderer {
	return &ReportRenderer{query: query}
}

// Render prints a full report with header and footer framing.
func (r *ReportRenderer) Render(report string) {
	r.showHeader()
	r.showBody(report)
	r.showFooter()
}

func (r *ReportRenderer) showHeader() {
	fmt.Println()
	fmt.Println(titleStyle.Render(fmt.Sprintf("📊 AlphaDesk Analysis: %s", truncateString(r.query, 60))))
}

// showBody styles the report line by line. Markdown headings, bullets,
// and table rows each get their own treatment; everything else passes
// through unchanged.
func (r *ReportRenderer) showBody(report string) {
	for _, line := range strings.Split(report, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "###"):
			fmt.Println(subHeaderStyle.Render(line))
		case strings.HasPrefix(trimmed, "#"):
			fmt.Println(headerStyle.Render(line))
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "• "):
			fmt.Println(bulletStyle.Render(line))
		case strings.HasPrefix(trimmed, "|"):
			fmt.Println(tableStyle.Render(line))
		default:
			fmt.Println(line)
		}
	}
}

func (r *ReportRenderer) showFooter() {
	fmt.Println()
	fmt.Println(footerStyle.Render(fmt.Sprintf("🕐 Generated at %s", time.Now().Format("2006-01-02 15:04:05"))))
	fmt.Println(footerStyle.Render("⚠️  For informational purposes only. Not financial advice."))
	fmt.Println()
}

// DisplayWelcomeBanner shows the startup banner for interactive mode.
func DisplayWelcomeBanner() {
	banner := `
 █████╗ ██╗     ██████╗ ██╗  ██╗ █████╗ ██████╗ ███████╗███████╗██╗  ██╗
██╔══██╗██║     ██╔══██╗██║  ██║██╔══██╗██╔══██╗██╔════╝██╔════╝██║ ██╔╝
███████║██║     ██████╔╝███████║███████║██║  ██║█████╗  ███████╗█████╔╝
██╔══██║██║     ██╔═══╝ ██╔══██║██╔══██║██║  ██║██╔══╝  ╚════██║██╔═██╗
██║  ██║███████╗██║     ██║  ██║██║  ██║██████╔╝███████╗███████║██║  ██╗
╚═╝  ╚═╝╚══════╝╚═╝     ╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝ ╚══════╝╚══════╝╚═╝  ╚═╝

              📈 Free-Text Investment Query Analysis 📈
`

	welcomeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Align(lipgloss.Center).
		Width(80).
		MarginBottom(1)

	taglineStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6")).
		Italic(true).
		Align(lipgloss.Center).
		Width(80).
		MarginBottom(1)

	fmt.Print(welcomeStyle.Render(banner))
	fmt.Print(taglineStyle.Render("Screening, style classification, risk attribution, and multi-manager monitoring"))
	fmt.Println()
}

// ClearScreen clears the terminal screen.
func ClearScreen() {
	fmt.Print("\033[2J\033[H")
}

// DisplayCapabilities prints the capability list shown by the help command
// and at the start of an interactive session.
func DisplayCapabilities() {
	fmt.Println(headerStyle.Render("Available analysis capabilities:"))
	lines := []string{
		"  🔍 Stock Screening        find stocks by price, P/E, yield, sector",
		"  🎨 Style & Theme          classify by Growth/Value/Momentum, analyze themes",
		"  ⚠️  Portfolio Risk         factor attribution, stress tests, risk scores",
		"  🏦 Multi-Strategy         cross-manager overlap, correlation, concentration",
	}
	for _, line := range lines {
		fmt.Println(bulletStyle.Render(line))
	}
	fmt.Println()
}

// DisplayError shows a formatted error message.
func DisplayError(err error, context string) {
	fmt.Println(errorStyle.Render(fmt.Sprintf("❌ Error in %s: %v", context, err)))
}

// DisplayWarning shows a formatted warning message.
func DisplayWarning(message string) {
	fmt.Println(warningStyle.Render(fmt.Sprintf("⚠️  Warning: %s", message)))
}

// DisplaySuccess shows a formatted success message.
func DisplaySuccess(message string) {
	fmt.Println(successStyle.Render(fmt.Sprintf("✅ %s", message)))
}

// DisplayInfo shows a formatted info message.
func DisplayInfo(message string) {
	fmt.Println(infoStyle.Render(fmt.Sprintf("ℹ️  %s", message)))
}

// DisplayThinking shows the in-progress indicator while a query runs.
func DisplayThinking(query string) {
	fmt.Println(infoStyle.Render(fmt.Sprintf("🔄 Analyzing: %s", truncateString(query, 70))))
}

// SaveReportToFile exports a report as JSON with query metadata.
func (r *ReportRenderer) SaveReportToFile(report, filepath string) error {
	result := map[string]interface{}{
		"metadata": map[string]string{
			"query":             r.query,
			"generated_at":      time.Now().Format(time.RFC3339),
			"alphadesk_version": "1.0.0",
		},
		"report": report,
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	if err := os.WriteFile(filepath, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// Example queries shown in the interactive picker, one per capability
// plus a comprehensive one.
var exampleQueries = []string{
	"find dividend stocks under $100",
	"show me tech stocks with PE under 30",
	"classify healthcare stocks by investment style",
	"analyze AI theme stocks",
	"analyze portfolio risk for AAPL MSFT NVDA",
	"stress test the sample portfolios",
	"which managers have overlapping holdings",
	"correlation between manager strategies",
	"give me a complete market analysis",
}

// PromptForQuery asks the user for a free-text investment query.
func PromptForQuery() (string, error) {
	var query string
	prompt := &survey.Input{
		Message: "Enter your investment query:",
		Help:    "Free text, e.g. 'find dividend stocks under $50' or 'analyze risk for AAPL'",
	}

	err := survey.AskOne(prompt, &query, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		if len(str) == 0 {
			return fmt.Errorf("query cannot be empty")
		}
		if len(str) > 500 {
			return fmt.Errorf("query too long (max 500 characters)")
		}
		return nil
	}))

	if err != nil {
		return "", err
	}

	return strings.TrimSpace(query), nil
}

// PromptForExampleQuery lets the user pick from the example query list.
func PromptForExampleQuery() (string, error) {
	var selected string
	prompt := &survey.Select{
		Message: "Pick an example query:",
		Options: exampleQueries,
		Help:    "Each example exercises a different analysis capability.",
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	return selected, nil
}

// sessionAction is one choice from the interactive main menu.
type sessionAction string

const (
	actionQuery    sessionAction = "Enter a query"
	actionExamples sessionAction = "Browse example queries"
	actionExit     sessionAction = "Exit AlphaDesk"
)

// PromptForAction shows the interactive main menu.
func PromptForAction() (sessionAction, error) {
	var choice string
	prompt := &survey.Select{
		Message: "What would you like to do?",
		Options: []string{
			string(actionQuery),
			string(actionExamples),
			string(actionExit),
		},
		Default: string(actionQuery),
	}

	if err := survey.AskOne(prompt, &choice); err != nil {
		return actionExit, err
	}
	return sessionAction(choice), nil
}

// PromptForSaveReport asks whether to export the report, returning the
// chosen file path or empty when declined.
func PromptForSaveReport(defaultPath string) (string, error) {
	var save bool
	confirm := &survey.Confirm{
		Message: "Save this report to a file?",
		Default: false,
	}
	if err := survey.AskOne(confirm, &save); err != nil {
		return "", err
	}
	if !save {
		return "", nil
	}

	var path string
	prompt := &survey.Input{
		Message: "Report file path:",
		Default: defaultPath,
	}
	if err := survey.AskOne(prompt, &path); err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

// Package parser turns free-text investment queries into structured
// screening criteria.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"alphadesk/internal/models"
)

// Category flags are plain substring-style patterns; numeric patterns carry
// alternative phrasings whose first non-empty capture group holds the value.
// Patterns are applied in declared order and the first match wins per field,
// so a query mixing "between" and "under" phrasing resolves deterministically.
var (
	reDividend     = regexp.MustCompile(`dividend|yield|income`)
	reGrowth       = regexp.MustCompile(`growth|growing|expanding`)
	reValue        = regexp.MustCompile(`value|cheap|undervalued`)
	reLargeCap     = regexp.MustCompile(`large cap|big|established|blue chip`)
	reTech         = regexp.MustCompile(`tech|technology|software|ai|artificial intelligence`)
	reFinancial    = regexp.MustCompile(`bank|financial|finance|insurance`)
	reHealthcare   = regexp.MustCompile(`health|pharma|medical|biotech`)
	reEnergy       = regexp.MustCompile(`energy|oil|gas|renewable`)
	rePriceUnder   = regexp.MustCompile(`price under \$?(\d+)|under \$(\d+)|below \$(\d+)|less than \$(\d+)`)
	rePriceOver    = regexp.MustCompile(`price over \$?(\d+)|over \$(\d+)|above \$(\d+)|more than \$(\d+)`)
	rePriceBetween = regexp.MustCompile(`between \$?(\d+) and \$?(\d+)`)
	rePEUnder      = regexp.MustCompile(`pe under (\d+)|p/e under (\d+)|pe below (\d+)|p/e below (\d+)`)
	reYieldOver    = regexp.MustCompile(`yield over (\d+)|yield above (\d+)|dividend over (\d+)`)
)

// ParseQuery lower-cases the query once and extracts every matching
// criterion. Malformed or negative numbers leave the field unconstrained.
func ParseQuery(query string) *models.FilterCriteria {
	lower := strings.ToLower(query)

	criteria := &models.FilterCriteria{
		Dividend:      reDividend.MatchString(lower),
		Growth:        reGrowth.MatchString(lower),
		Value:         reValue.MatchString(lower),
		LargeCap:      reLargeCap.MatchString(lower),
		Tech:          reTech.MatchString(lower),
		Financial:     reFinancial.MatchString(lower),
		Healthcare:    reHealthcare.MatchString(lower),
		Energy:        reEnergy.MatchString(lower),
		OriginalQuery: query,
	}

	criteria.MaxPrice = firstCapture(rePriceUnder, lower)
	criteria.MinPrice = firstCapture(rePriceOver, lower)

	// Between sets both bounds, but only the sides a single-sided pattern
	// has not already claimed.
	if groups := rePriceBetween.FindStringSubmatch(lower); groups != nil {
		if criteria.MinPrice == nil {
			criteria.MinPrice = parseBound(groups[1])
		}
		if criteria.MaxPrice == nil {
			criteria.MaxPrice = parseBound(groups[2])
		}
	}

	criteria.MaxPE = firstCapture(rePEUnder, lower)
	criteria.MinDividendYield = firstCapture(reYieldOver, lower)

	return criteria
}

// firstCapture returns the first non-empty capture group of the match as a
// parsed bound, or nil when the pattern does not match or the value is bad.
func firstCapture(re *regexp.Regexp, text string) *float64 {
	groups := re.FindStringSubmatch(text)
	if groups == nil {
		return nil
	}
	for _, g := range groups[1:] {
		if g != "" {
			return parseBound(g)
		}
	}
	return nil
}

func parseBound(raw string) *float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

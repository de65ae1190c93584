// Package parser turns free-text analysis commands into a typed request.
// Parsing is pure keyword and regex matching; symbols are not validated
// against any real market, so any 1-5 letter uppercase token matches.
package parser

import (
	"regexp"
	"strings"

	"stocksense-api/internal/entity"
)

// Command is the parsed form of a free-text analysis command. An empty Symbol
// means no ticker could be identified; the caller decides how to surface that.
type Command struct {
	Symbol       string
	AnalysisType entity.AnalysisType
}

var symbolPattern = regexp.MustCompile(`\b([A-Z]{1,5})\b`)

// companyTickers maps well-known company names to their tickers, used when the
// command contains no uppercase symbol token.
var companyTickers = map[string]string{
	"tesla":     "TSLA",
	"apple":     "AAPL",
	"microsoft": "MSFT",
	"amazon":    "AMZN",
	"google":    "GOOGL",
	"nvidia":    "NVDA",
	"meta":      "META",
	"netflix":   "NFLX",
}

var companyPattern = regexp.MustCompile(`\b(tesla|apple|microsoft|amazon|google|nvidia|meta|netflix)\b`)

// typeRule associates trigger keywords with an analysis type. Rules are
// evaluated in order; the first keyword hit wins.
type typeRule struct {
	keywords []string
	result   entity.AnalysisType
}

var typeRules = []typeRule{
	{[]string{"chart", "technical"}, entity.AnalysisTypeChart},
	{[]string{"fundamental", "financial"}, entity.AnalysisTypeFundamental},
	{[]string{"insider", "institutional"}, entity.AnalysisTypeInsider},
	{[]string{"sentiment", "news"}, entity.AnalysisTypeNewsSentiment},
	{[]string{"full", "complete"}, entity.AnalysisTypeFull},
}

// Parse extracts the symbol and analysis type from a free-text command.
func Parse(text string) Command {
	lower := strings.ToLower(text)

	return Command{
		Symbol:       extractSymbol(text, lower),
		AnalysisType: extractType(lower),
	}
}

func extractSymbol(text, lower string) string {
	if m := symbolPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := companyPattern.FindStringSubmatch(lower); m != nil {
		return companyTickers[m[1]]
	}
	return ""
}

func extractType(lower string) entity.AnalysisType {
	for _, rule := range typeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.result
			}
		}
	}
	return entity.AnalysisTypeFull
}

// Package insights derives display summaries from raw analysis payloads.
// Everything here is keyword/regex heuristics over free text, display-only
// convenience with no correctness guarantees.
package insights

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	summaryMaxLen  = 200
	maxKeyInsights = 3

	defaultSummary = "Analysis completed successfully."
)

// Insight is a single keyword-derived signal from the analysis text.
type Insight struct {
	Type string `json:"type"` // positive, negative, warning
	Text string `json:"text"`
}

// Metric is a financial figure extracted from free-form analysis text.
type Metric struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Assessment is a qualitative keyword-derived rating.
type Assessment struct {
	Category string `json:"category"`
	Rating   string `json:"rating"`
}

// insightRule maps trigger substrings to an insight, evaluated in order.
type insightRule struct {
	triggers []string
	insight  Insight
}

var insightRules = []insightRule{
	{[]string{"bullish", "positiv"}, Insight{Type: "positive", Text: "Positive outlook identified"}},
	{[]string{"bearish", "negativ"}, Insight{Type: "negative", Text: "Negative signals detected"}},
	{[]string{"risk", "Risiko"}, Insight{Type: "warning", Text: "Risk factors present"}},
}

// metricRule extracts one financial figure; the source analyses are German,
// hence the localized labels.
type metricRule struct {
	name    string
	pattern *regexp.Regexp
}

var metricRules = []metricRule{
	{"Market Cap", regexp.MustCompile(`(?i)Marktkapitalisierung.*?([0-9,.]+ (?:Mrd|Mio))`)},
	{"Revenue", regexp.MustCompile(`(?i)Umsatz.*?([0-9,.]+ (?:Mrd|Mio))`)},
	{"P/E Ratio", regexp.MustCompile(`(?i)KGV.*?([0-9,.]+)`)},
	{"Profit Margin", regexp.MustCompile(`(?i)Gewinnmarge.*?([0-9,.]+ ?%)`)},
	{"ROE", regexp.MustCompile(`(?i)ROE.*?([0-9,.]+ ?%)`)},
	{"Debt Ratio", regexp.MustCompile(`(?i)Verschuldung.*?([0-9,.]+ ?%)`)},
}

type assessmentRule struct {
	triggers   []string
	assessment Assessment
}

var assessmentRules = []assessmentRule{
	{[]string{"stark", "solide", "robust"}, Assessment{Category: "Financial Health", Rating: "Strong"}},
	{[]string{"Wachstum", "growth"}, Assessment{Category: "Growth Potential", Rating: "Positive"}},
	{[]string{"Risiko", "Unsicherheit"}, Assessment{Category: "Risk Level", Rating: "Moderate"}},
	{[]string{"Bewertung", "bewertet"}, Assessment{Category: "Valuation", Rating: "Fair"}},
}

// AnalysisText pulls the "analysis" string out of a raw result payload.
// Returns an empty string for missing or non-text payloads.
func AnalysisText(resultData []byte) string {
	if len(resultData) == 0 {
		return ""
	}
	var payload struct {
		Analysis string `json:"analysis"`
	}
	if err := json.Unmarshal(resultData, &payload); err != nil {
		return ""
	}
	return payload.Analysis
}

// Summary returns the first paragraph of the analysis text, capped at 200
// characters, or a stock phrase when the payload carries no text.
func Summary(text string) string {
	if text == "" {
		return defaultSummary
	}
	first := strings.SplitN(text, "\n", 2)[0]
	// Cut on rune boundaries; the analysis text is German and umlauts must
	// not be split mid-sequence.
	if runes := []rune(first); len(runes) > summaryMaxLen {
		return string(runes[:summaryMaxLen]) + "..."
	}
	return first
}

// KeyInsights scans for sentiment and risk keywords, returning up to three
// insights in rule order.
func KeyInsights(text string) []Insight {
	if text == "" {
		return nil
	}
	var out []Insight
	for _, rule := range insightRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(text, trigger) {
				out = append(out, rule.insight)
				break
			}
		}
		if len(out) == maxKeyInsights {
			break
		}
	}
	return out
}

// Metrics extracts financial figures for fundamental analyses.
func Metrics(text string) []Metric {
	var out []Metric
	for _, rule := range metricRules {
		if m := rule.pattern.FindStringSubmatch(text); m != nil {
			out = append(out, Metric{Name: rule.name, Value: m[1]})
		}
	}
	return out
}

// Assessments derives qualitative ratings from the analysis wording.
func Assessments(text string) []Assessment {
	var out []Assessment
	for _, rule := range assessmentRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(text, trigger) {
				out = append(out, rule.assessment)
				break
			}
		}
	}
	return out
}

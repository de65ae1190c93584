package telegram

import (
	"fmt"
	"strings"

	"stocksense-api/internal/entity"
	"stocksense-api/internal/insights"
)

// FormatAnalysisOutcome builds the Markdown notification sent when an
// analysis reaches a terminal status.
func FormatAnalysisOutcome(analysis *entity.StockAnalysis) string {
	var b strings.Builder

	switch analysis.Status {
	case entity.AnalysisStatusCompleted:
		b.WriteString(fmt.Sprintf("✅ *%s analysis for %s is ready*\n\n", formatType(analysis.AnalysisType), analysis.Symbol))
		text := insights.AnalysisText(analysis.ResultData)
		b.WriteString(fmt.Sprintf("💬 %s\n", insights.Summary(text)))
		for _, insight := range insights.KeyInsights(text) {
			b.WriteString(fmt.Sprintf("%s %s\n", insightIcon(insight.Type), insight.Text))
		}
	case entity.AnalysisStatusFailed:
		b.WriteString(fmt.Sprintf("❌ *%s analysis for %s failed*\n\n", formatType(analysis.AnalysisType), analysis.Symbol))
		if analysis.ErrorMessage != "" {
			b.WriteString(fmt.Sprintf("⚠️ %s\n", analysis.ErrorMessage))
		}
	default:
		b.WriteString(fmt.Sprintf("ℹ️ Analysis for %s is %s\n", analysis.Symbol, analysis.Status))
	}

	b.WriteString(fmt.Sprintf("\n_Command: %s_", analysis.CommandText))
	return b.String()
}

func formatType(t entity.AnalysisType) string {
	return strings.Title(strings.ReplaceAll(string(t), "_", " "))
}

func insightIcon(insightType string) string {
	switch insightType {
	case "positive":
		return "📈"
	case "negative":
		return "📉"
	case "warning":
		return "⚠️"
	default:
		return "ℹ️"
	}
}

package dto

import (
	"encoding/json"
	"time"

	"stocksense-api/internal/insights"
)

// SubmitAnalysisRequest is the DTO for submitting a free-text analysis command.
type SubmitAnalysisRequest struct {
	CommandText string `json:"command_text"`
	UserID      string `json:"user_id"`
}

// SubmitAnalysisResponse is returned after a successful dispatch.
type SubmitAnalysisResponse struct {
	Success    bool   `json:"success"`
	AnalysisID string `json:"analysis_id"`
	Message    string `json:"message"`
}

// AnalysisJob is the payload delivered to the external analysis system, via
// webhook POST or the Redis request stream.
type AnalysisJob struct {
	AnalysisID   string    `json:"analysis_id"`
	Symbol       string    `json:"symbol"`
	AnalysisType string    `json:"analysis_type"`
	CommandText  string    `json:"command_text"`
	UserID       string    `json:"user_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// CallbackRequest is the payload the external analysis system posts back once
// an analysis finishes or fails.
type CallbackRequest struct {
	AnalysisID   string          `json:"analysis_id"`
	Status       string          `json:"status"`
	ResultData   json.RawMessage `json:"result_data,omitempty" swaggertype:"object"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// CallbackResponse acknowledges a processed callback.
type CallbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AnalysisSummary is the display-support enrichment attached to completed
// records: a short excerpt plus keyword-derived signals. Heuristic only.
type AnalysisSummary struct {
	Summary     string                `json:"summary"`
	Insights    []insights.Insight    `json:"insights,omitempty"`
	Metrics     []insights.Metric     `json:"metrics,omitempty"`
	Assessments []insights.Assessment `json:"assessments,omitempty"`
}

// AnalysisResponse is the DTO for a single analysis record.
type AnalysisResponse struct {
	ID           string           `json:"id"`
	Symbol       string           `json:"symbol"`
	AnalysisType string           `json:"analysis_type"`
	CommandText  string           `json:"command_text"`
	Status       string           `json:"status"`
	ResultData   json.RawMessage  `json:"result_data,omitempty" swaggertype:"object"`
	ErrorMessage string           `json:"error_message,omitempty"`
	Summary      *AnalysisSummary `json:"summary,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
}

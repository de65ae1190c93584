package entity

import (
	"time"

	"gorm.io/datatypes"
)

// AnalysisStatus is the lifecycle state of a stock analysis request.
type AnalysisStatus string

const (
	// AnalysisStatusPending marks a request queued for an external poller.
	AnalysisStatusPending AnalysisStatus = "pending"
	// AnalysisStatusProcessing marks a request dispatched to a webhook.
	AnalysisStatusProcessing AnalysisStatus = "processing"
	AnalysisStatusCompleted  AnalysisStatus = "completed"
	AnalysisStatusFailed     AnalysisStatus = "failed"
)

// IsTerminal reports whether the status is a final state.
func (s AnalysisStatus) IsTerminal() bool {
	return s == AnalysisStatusCompleted || s == AnalysisStatusFailed
}

// AnalysisType classifies what kind of analysis was requested.
type AnalysisType string

const (
	AnalysisTypeChart         AnalysisType = "chart"
	AnalysisTypeFundamental   AnalysisType = "fundamental"
	AnalysisTypeInsider       AnalysisType = "insider"
	AnalysisTypeNewsSentiment AnalysisType = "news_sentiment"
	AnalysisTypeFull          AnalysisType = "full_analysis"
)

// StockAnalysis tracks one user-submitted analysis request and its outcome.
// ResultData and ErrorMessage are mutually exclusive; CompletedAt is set only
// once the record reaches a terminal status.
type StockAnalysis struct {
	ID           string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string         `gorm:"not null;index" json:"user_id"`
	Symbol       string         `gorm:"not null" json:"symbol"`
	AnalysisType AnalysisType   `gorm:"not null" json:"analysis_type"`
	CommandText  string         `gorm:"not null" json:"command_text"`
	Status       AnalysisStatus `gorm:"not null" json:"status"`
	ResultData   datatypes.JSON `gorm:"type:jsonb" json:"result_data,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

func (StockAnalysis) TableName() string {
	return "stock_analyses"
}

package dto

import "time"

// CreateHoldingRequest is the DTO for recording a new portfolio holding.
type CreateHoldingRequest struct {
	UserID        string  `json:"user_id"`
	Symbol        string  `json:"symbol"`
	CompanyName   *string `json:"company_name,omitempty"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchase_price"`
	PurchaseDate  string  `json:"purchase_date"` // YYYY-MM-DD
	Notes         *string `json:"notes,omitempty"`
}

// HoldingMetrics carries the computed valuation of one holding.
type HoldingMetrics struct {
	CurrentPrice    float64 `json:"current_price"`
	TotalCost       float64 `json:"total_cost"`
	CurrentValue    float64 `json:"current_value"`
	GainLoss        float64 `json:"gain_loss"`
	GainLossPercent float64 `json:"gain_loss_percent"`
}

// HoldingResponse is the DTO for a holding with its valuation.
type HoldingResponse struct {
	ID            string         `json:"id"`
	Symbol        string         `json:"symbol"`
	CompanyName   *string        `json:"company_name,omitempty"`
	Shares        float64        `json:"shares"`
	PurchasePrice float64        `json:"purchase_price"`
	PurchaseDate  time.Time      `json:"purchase_date"`
	Notes         *string        `json:"notes,omitempty"`
	Metrics       HoldingMetrics `json:"metrics"`
	CreatedAt     time.Time      `json:"created_at"`
}

// PortfolioSummary aggregates the valuation across all holdings.
type PortfolioSummary struct {
	TotalCost       float64 `json:"total_cost"`
	TotalValue      float64 `json:"total_value"`
	TotalGainLoss   float64 `json:"total_gain_loss"`
	GainLossPercent float64 `json:"gain_loss_percent"`
	HoldingCount    int     `json:"holding_count"`
}

// PortfolioResponse is the DTO for the portfolio listing.
type PortfolioResponse struct {
	Holdings []HoldingResponse `json:"holdings"`
	Summary  PortfolioSummary  `json:"summary"`
}

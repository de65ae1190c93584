package entity

import "time"

// PortfolioHolding is a user's recorded stock position. Holdings are created
// and deleted only; there is no update-in-place path.
type PortfolioHolding struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string    `gorm:"not null;index" json:"user_id"`
	Symbol        string    `gorm:"not null" json:"symbol"`
	CompanyName   *string   `json:"company_name,omitempty"`
	Shares        float64   `gorm:"not null" json:"shares"`
	PurchasePrice float64   `gorm:"not null" json:"purchase_price"`
	PurchaseDate  time.Time `gorm:"not null" json:"purchase_date"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PortfolioHolding) TableName() string {
	return "portfolio_holdings"
}

package repository

import (
	"context"

	"stocksense-api/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PortfolioHoldingRepository defines the interface for holding operations.
type PortfolioHoldingRepository interface {
	Create(ctx context.Context, holding *entity.PortfolioHolding) error
	FindByUser(ctx context.Context, userID string) ([]entity.PortfolioHolding, error)
	DeleteForUser(ctx context.Context, id, userID string) (int64, error)
}

// NewPortfolioHoldingRepository creates a new GORM-based holding repository.
func NewPortfolioHoldingRepository(db *gorm.DB) PortfolioHoldingRepository {
	return &portfolioHoldingRepository{db: db}
}

type portfolioHoldingRepository struct {
	db *gorm.DB
}

// Create inserts a new holding, assigning its id when unset.
func (r *portfolioHoldingRepository) Create(ctx context.Context, holding *entity.PortfolioHolding) error {
	if holding.ID == "" {
		holding.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(holding).Error
}

// FindByUser retrieves the user's holdings, newest first.
func (r *portfolioHoldingRepository) FindByUser(ctx context.Context, userID string) ([]entity.PortfolioHolding, error) {
	var holdings []entity.PortfolioHolding
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&holdings).Error
	if err != nil {
		return nil, err
	}
	return holdings, nil
}

// DeleteForUser removes a holding owned by the given user, returning the
// number of rows deleted so callers can distinguish a miss.
func (r *portfolioHoldingRepository) DeleteForUser(ctx context.Context, id, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entity.PortfolioHolding{})
	return result.RowsAffected, result.Error
}

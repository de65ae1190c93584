package repository

import (
	"context"
	"time"

	"stocksense-api/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockAnalysisRepository defines the interface for analysis record operations.
// Every read is scoped to the owning user except FindByID, which serves the
// callback path where only the record id is known.
type StockAnalysisRepository interface {
	Create(ctx context.Context, analysis *entity.StockAnalysis) error
	FindByID(ctx context.Context, id string) (*entity.StockAnalysis, error)
	FindByIDForUser(ctx context.Context, id, userID string) (*entity.StockAnalysis, error)
	FindRecentByUser(ctx context.Context, userID string, limit int) ([]entity.StockAnalysis, error)
	Update(ctx context.Context, analysis *entity.StockAnalysis) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewStockAnalysisRepository creates a new GORM-based analysis repository.
func NewStockAnalysisRepository(db *gorm.DB) StockAnalysisRepository {
	return &stockAnalysisRepository{db: db}
}

type stockAnalysisRepository struct {
	db *gorm.DB
}

// Create inserts a new analysis record, assigning its id when unset.
func (r *stockAnalysisRepository) Create(ctx context.Context, analysis *entity.StockAnalysis) error {
	if analysis.ID == "" {
		analysis.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(analysis).Error
}

// FindByID retrieves an analysis record by its id.
func (r *stockAnalysisRepository) FindByID(ctx context.Context, id string) (*entity.StockAnalysis, error) {
	var analysis entity.StockAnalysis
	if err := r.db.WithContext(ctx).First(&analysis, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &analysis, nil
}

// FindByIDForUser retrieves an analysis record scoped to its owner.
func (r *stockAnalysisRepository) FindByIDForUser(ctx context.Context, id, userID string) (*entity.StockAnalysis, error) {
	var analysis entity.StockAnalysis
	if err := r.db.WithContext(ctx).First(&analysis, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &analysis, nil
}

// FindRecentByUser retrieves the user's most recent analyses, newest first.
func (r *stockAnalysisRepository) FindRecentByUser(ctx context.Context, userID string, limit int) ([]entity.StockAnalysis, error) {
	var analyses []entity.StockAnalysis
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&analyses).Error
	if err != nil {
		return nil, err
	}
	return analyses, nil
}

// Update persists changes to an existing analysis record.
func (r *stockAnalysisRepository) Update(ctx context.Context, analysis *entity.StockAnalysis) error {
	return r.db.WithContext(ctx).Save(analysis).Error
}

// DeleteOlderThan removes analyses created before the cutoff, returning the
// number of rows deleted.
func (r *stockAnalysisRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&entity.StockAnalysis{})
	return result.RowsAffected, result.Error
}

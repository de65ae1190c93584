package repository

import (
	"context"

	"stocksense-api/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserProfileRepository defines the interface for user delivery settings.
type UserProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*entity.UserProfile, error)
	Upsert(ctx context.Context, profile *entity.UserProfile) error
}

// NewUserProfileRepository creates a new GORM-based profile repository.
func NewUserProfileRepository(db *gorm.DB) UserProfileRepository {
	return &userProfileRepository{db: db}
}

type userProfileRepository struct {
	db *gorm.DB
}

// FindByUserID retrieves a profile by its owning user.
func (r *userProfileRepository) FindByUserID(ctx context.Context, userID string) (*entity.UserProfile, error) {
	var profile entity.UserProfile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert creates or updates the profile keyed by user id.
func (r *userProfileRepository) Upsert(ctx context.Context, profile *entity.UserProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"webhook_url", "telegram_chat_id", "updated_at"}),
		}).
		Create(profile).Error
}

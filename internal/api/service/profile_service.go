package service

import (
	"context"
	"errors"

	"stocksense-api/internal/api/dto"
	"stocksense-api/internal/api/repository"
	"stocksense-api/internal/entity"
	"stocksense-api/pkg/logger"

	"gorm.io/gorm"
)

// ProfileService manages per-user delivery settings.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	Update(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

// NewProfileService creates a new profile service.
func NewProfileService(profileRepo repository.UserProfileRepository, log *logger.Logger) ProfileService {
	return &profileService{profileRepo: profileRepo, logger: log}
}

type profileService struct {
	profileRepo repository.UserProfileRepository
	logger      *logger.Logger
}

// Get returns the user's delivery settings.
func (s *profileService) Get(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return mapToProfileResponse(profile), nil
}

// Update upserts the user's delivery settings.
func (s *profileService) Update(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	profile := &entity.UserProfile{
		UserID:         userID,
		WebhookURL:     req.WebhookURL,
		TelegramChatID: req.TelegramChatID,
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		s.logger.Error("Failed to upsert profile", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, err
	}

	s.logger.Info("Profile updated", logger.Field("user_id", userID))
	return mapToProfileResponse(profile), nil
}

func mapToProfileResponse(profile *entity.UserProfile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		UserID:         profile.UserID,
		WebhookURL:     profile.WebhookURL,
		TelegramChatID: profile.TelegramChatID,
		UpdatedAt:      profile.UpdatedAt,
	}
}

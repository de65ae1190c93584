package service

import (
	"context"
	"time"

	"stocksense-api/internal/api/config"
	"stocksense-api/internal/api/repository"
	"stocksense-api/pkg/logger"

	"github.com/robfig/cron/v3"
)

// RetentionService periodically deletes analysis records past the configured
// age. Disabled when max_age_days is zero.
type RetentionService interface {
	Start(ctx context.Context) error
	Stop()
	Purge(ctx context.Context)
}

// NewRetentionService creates a new retention service.
func NewRetentionService(analysisRepo repository.StockAnalysisRepository, cfg config.Retention, log *logger.Logger) RetentionService {
	return &retentionService{
		analysisRepo: analysisRepo,
		cfg:          cfg,
		cron:         cron.New(),
		logger:       log,
	}
}

type retentionService struct {
	analysisRepo repository.StockAnalysisRepository
	cfg          config.Retention
	cron         *cron.Cron
	logger       *logger.Logger
}

// Start schedules the purge job on the configured cron expression.
func (s *retentionService) Start(ctx context.Context) error {
	if s.cfg.MaxAgeDays <= 0 {
		s.logger.Info("Analysis retention disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Cron, func() {
		s.Purge(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Analysis retention scheduled",
		logger.Field("cron", s.cfg.Cron),
		logger.Field("max_age_days", s.cfg.MaxAgeDays))
	return nil
}

// Stop halts the cron scheduler, waiting for a running purge to finish.
func (s *retentionService) Stop() {
	<-s.cron.Stop().Done()
}

// Purge deletes analyses created before the retention cutoff.
func (s *retentionService) Purge(ctx context.Context) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.MaxAgeDays)
	deleted, err := s.analysisRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to purge old analyses", logger.ErrorField(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("Purged old analyses", logger.Field("deleted", deleted), logger.Field("cutoff", cutoff))
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stocksense-api/internal/api/dto"
	"stocksense-api/internal/api/repository"
	"stocksense-api/internal/api/strategy"
	"stocksense-api/internal/entity"
	"stocksense-api/internal/insights"
	"stocksense-api/internal/parser"
	"stocksense-api/pkg/logger"
	"stocksense-api/pkg/telegram"
	"stocksense-api/pkg/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnalysisService owns the analysis lifecycle: dispatching parsed commands to
// the external system, reconciling callback results, and serving the viewer.
type AnalysisService interface {
	Submit(ctx context.Context, commandText, userID string) (*dto.SubmitAnalysisResponse, error)
	ApplyCallback(ctx context.Context, req *dto.CallbackRequest) error
	List(ctx context.Context, userID string) ([]*dto.AnalysisResponse, error)
	Get(ctx context.Context, id, userID string) (*dto.AnalysisResponse, error)
}

// NewAnalysisService creates a new analysis service. telegramNotifier may be
// nil when no bot is configured.
func NewAnalysisService(
	analysisRepo repository.StockAnalysisRepository,
	profileRepo repository.UserProfileRepository,
	notifier strategy.Notifier,
	telegramNotifier telegram.Notifier,
	pageSize int,
	log *logger.Logger,
) AnalysisService {
	return &analysisService{
		analysisRepo:     analysisRepo,
		profileRepo:      profileRepo,
		notifier:         notifier,
		telegramNotifier: telegramNotifier,
		pageSize:         pageSize,
		logger:           log,
	}
}

type analysisService struct {
	analysisRepo     repository.StockAnalysisRepository
	profileRepo      repository.UserProfileRepository
	notifier         strategy.Notifier
	telegramNotifier telegram.Notifier
	pageSize         int
	logger           *logger.Logger
}

// Submit parses the command, persists a new analysis record, and hands the
// job to the external system through the configured notifier. A delivery
// failure marks the record failed before the error is returned, so no record
// is ever left stuck in a non-terminal state by a failed dispatch.
func (s *analysisService) Submit(ctx context.Context, commandText, userID string) (*dto.SubmitAnalysisResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	cmd := parser.Parse(commandText)
	if cmd.Symbol == "" {
		return nil, ErrMissingSymbol
	}

	var webhookURL string
	if s.notifier.RequiresWebhook() {
		profile, err := s.profileRepo.FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoWebhookConfigured
			}
			return nil, err
		}
		if profile.WebhookURL == "" {
			return nil, ErrNoWebhookConfigured
		}
		webhookURL = profile.WebhookURL
	}

	analysis := &entity.StockAnalysis{
		UserID:       userID,
		Symbol:       cmd.Symbol,
		AnalysisType: cmd.AnalysisType,
		CommandText:  commandText,
		Status:       s.notifier.InitialStatus(),
	}
	if err := s.analysisRepo.Create(ctx, analysis); err != nil {
		s.logger.Error("Failed to create analysis record", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, err
	}

	job := &dto.AnalysisJob{
		AnalysisID:   analysis.ID,
		Symbol:       analysis.Symbol,
		AnalysisType: string(analysis.AnalysisType),
		CommandText:  analysis.CommandText,
		UserID:       userID,
		Timestamp:    time.Now().UTC(),
	}

	if err := s.notifier.Notify(ctx, webhookURL, job); err != nil {
		s.markDispatchFailed(ctx, analysis, err)
		return nil, fmt.Errorf("%w: %v", ErrWebhookDelivery, err)
	}

	s.logger.Info("Analysis dispatched",
		logger.Field("analysis_id", analysis.ID),
		logger.Field("symbol", analysis.Symbol),
		logger.Field("analysis_type", analysis.AnalysisType),
		logger.Field("strategy", s.notifier.GetType()))

	return &dto.SubmitAnalysisResponse{
		Success:    true,
		AnalysisID: analysis.ID,
		Message:    "Analysis started successfully",
	}, nil
}

// markDispatchFailed is the compensating write for a failed dispatch.
func (s *analysisService) markDispatchFailed(ctx context.Context, analysis *entity.StockAnalysis, cause error) {
	now := time.Now().UTC()
	analysis.Status = entity.AnalysisStatusFailed
	analysis.ErrorMessage = cause.Error()
	analysis.CompletedAt = &now

	if err := s.analysisRepo.Update(ctx, analysis); err != nil {
		s.logger.Error("Failed to mark analysis as failed after dispatch error",
			logger.ErrorField(err),
			logger.Field("analysis_id", analysis.ID))
	}
}

// ApplyCallback records the outcome reported by the external system. Status
// transitions are monotonic: a record that already reached a terminal status
// is never mutated again, which also makes repeat deliveries harmless.
func (s *analysisService) ApplyCallback(ctx context.Context, req *dto.CallbackRequest) error {
	status := entity.AnalysisStatus(req.Status)
	if !status.IsTerminal() {
		return ErrInvalidCallbackStatus
	}

	analysis, err := s.analysisRepo.FindByID(ctx, req.AnalysisID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnalysisNotFound
		}
		return err
	}

	if analysis.Status.IsTerminal() {
		return ErrAnalysisFinalized
	}

	now := time.Now().UTC()
	analysis.Status = status
	analysis.CompletedAt = &now

	// result_data and error_message are mutually exclusive.
	switch status {
	case entity.AnalysisStatusCompleted:
		if len(req.ResultData) > 0 {
			analysis.ResultData = datatypes.JSON(req.ResultData)
		}
		analysis.ErrorMessage = ""
	case entity.AnalysisStatusFailed:
		analysis.ErrorMessage = req.ErrorMessage
		analysis.ResultData = nil
	}

	if err := s.analysisRepo.Update(ctx, analysis); err != nil {
		s.logger.Error("Failed to apply analysis callback", logger.ErrorField(err), logger.Field("analysis_id", analysis.ID))
		return err
	}

	s.logger.Info("Analysis callback applied",
		logger.Field("analysis_id", analysis.ID),
		logger.Field("status", analysis.Status))

	utils.GoSafe(func() {
		s.notifyOwner(context.Background(), analysis)
	})
	return nil
}

// notifyOwner sends a best-effort Telegram notification off the request
// goroutine; failures are logged and never surfaced to the callback caller.
func (s *analysisService) notifyOwner(ctx context.Context, analysis *entity.StockAnalysis) {
	if s.telegramNotifier == nil {
		return
	}

	profile, err := s.profileRepo.FindByUserID(ctx, analysis.UserID)
	if err != nil || profile.TelegramChatID == 0 {
		return
	}

	if err := s.telegramNotifier.SendMessage(profile.TelegramChatID, telegram.FormatAnalysisOutcome(analysis)); err != nil {
		s.logger.Warn("Failed to send Telegram notification",
			logger.ErrorField(err),
			logger.Field("analysis_id", analysis.ID))
	}
}

// List returns the requester's most recent analyses, newest first, capped at
// the configured page size.
func (s *analysisService) List(ctx context.Context, userID string) ([]*dto.AnalysisResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	analyses, err := s.analysisRepo.FindRecentByUser(ctx, userID, s.pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.AnalysisResponse, 0, len(analyses))
	for i := range analyses {
		responses = append(responses, s.mapToAnalysisResponse(&analyses[i]))
	}
	return responses, nil
}

// Get returns a single analysis record scoped to its owner.
func (s *analysisService) Get(ctx context.Context, id, userID string) (*dto.AnalysisResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	analysis, err := s.analysisRepo.FindByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, err
	}
	return s.mapToAnalysisResponse(analysis), nil
}

// mapToAnalysisResponse maps an entity to its DTO, enriching completed
// records with the display summary.
func (s *analysisService) mapToAnalysisResponse(analysis *entity.StockAnalysis) *dto.AnalysisResponse {
	resp := &dto.AnalysisResponse{
		ID:           analysis.ID,
		Symbol:       analysis.Symbol,
		AnalysisType: string(analysis.AnalysisType),
		CommandText:  analysis.CommandText,
		Status:       string(analysis.Status),
		ResultData:   []byte(analysis.ResultData),
		ErrorMessage: analysis.ErrorMessage,
		CreatedAt:    analysis.CreatedAt,
		CompletedAt:  analysis.CompletedAt,
	}

	if analysis.Status == entity.AnalysisStatusCompleted {
		text := insights.AnalysisText(analysis.ResultData)
		summary := &dto.AnalysisSummary{
			Summary:  insights.Summary(text),
			Insights: insights.KeyInsights(text),
		}
		if analysis.AnalysisType == entity.AnalysisTypeFundamental {
			summary.Metrics = insights.Metrics(text)
			summary.Assessments = insights.Assessments(text)
		}
		resp.Summary = summary
	}
	return resp
}

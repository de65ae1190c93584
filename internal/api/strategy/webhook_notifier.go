package strategy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stocksense-api/internal/api/dto"
	"stocksense-api/internal/entity"
	"stocksense-api/pkg/logger"

	"golang.org/x/time/rate"
)

const TypeWebhook = "webhook"

// WebhookNotifier posts analysis jobs to the requester's configured webhook.
type WebhookNotifier struct {
	client         *http.Client
	requestLimiter *rate.Limiter
	logger         *logger.Logger
}

// NewWebhookNotifier creates a webhook notifier with a request timeout and a
// process-wide outbound rate limit.
func NewWebhookNotifier(timeout time.Duration, maxRequestPerMinute int, log *logger.Logger) Notifier {
	if maxRequestPerMinute <= 0 {
		maxRequestPerMinute = 60
	}
	secondsPerRequest := time.Minute / time.Duration(maxRequestPerMinute)
	return &WebhookNotifier{
		client:         &http.Client{Timeout: timeout},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		logger:         log,
	}
}

func (n *WebhookNotifier) GetType() string {
	return TypeWebhook
}

func (n *WebhookNotifier) InitialStatus() entity.AnalysisStatus {
	return entity.AnalysisStatusProcessing
}

func (n *WebhookNotifier) RequiresWebhook() bool {
	return true
}

// Notify posts the job as JSON to the webhook. Any non-2xx response is a
// delivery failure carrying the HTTP status code.
func (n *WebhookNotifier) Notify(ctx context.Context, webhookURL string, job *dto.AnalysisJob) error {
	if err := n.requestLimiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Error("Webhook request failed", logger.ErrorField(err), logger.Field("analysis_id", job.AnalysisID))
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("Webhook failed: %d", resp.StatusCode)
		n.logger.Error("Webhook returned non-success status",
			logger.Field("analysis_id", job.AnalysisID),
			logger.Field("status_code", resp.StatusCode))
		return err
	}

	n.logger.Info("Analysis job delivered to webhook",
		logger.Field("analysis_id", job.AnalysisID),
		logger.Field("symbol", job.Symbol))
	return nil
}

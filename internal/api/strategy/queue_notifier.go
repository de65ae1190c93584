package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"stocksense-api/internal/api/dto"
	"stocksense-api/internal/entity"
	"stocksense-api/pkg/common"
	"stocksense-api/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const TypeQueue = "queue"

// QueueNotifier publishes analysis jobs onto the analysis request stream for
// an external poller to pick up. Records dispatched this way start as pending
// rather than processing.
type QueueNotifier struct {
	redisClient  *redis.Client
	streamMaxLen int64
	logger       *logger.Logger
}

// NewQueueNotifier creates a Redis stream backed notifier.
func NewQueueNotifier(redisClient *redis.Client, streamMaxLen int64, log *logger.Logger) Notifier {
	return &QueueNotifier{
		redisClient:  redisClient,
		streamMaxLen: streamMaxLen,
		logger:       log,
	}
}

func (n *QueueNotifier) GetType() string {
	return TypeQueue
}

func (n *QueueNotifier) InitialStatus() entity.AnalysisStatus {
	return entity.AnalysisStatusPending
}

func (n *QueueNotifier) RequiresWebhook() bool {
	return false
}

// Notify enqueues the job on the request stream, capped at the configured
// stream length.
func (n *QueueNotifier) Notify(ctx context.Context, _ string, job *dto.AnalysisJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal queue payload: %w", err)
	}

	if err := n.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamAnalysisRequest,
		Values: map[string]interface{}{"payload": payload},
		MaxLen: n.streamMaxLen,
	}).Err(); err != nil {
		n.logger.Error("Failed to enqueue analysis job", logger.ErrorField(err), logger.Field("analysis_id", job.AnalysisID))
		return fmt.Errorf("failed to enqueue analysis job: %w", err)
	}

	n.logger.Info("Analysis job enqueued",
		logger.Field("analysis_id", job.AnalysisID),
		logger.Field("symbol", job.Symbol))
	return nil
}

package strategy

import (
	"context"

	"stocksense-api/internal/api/dto"
	"stocksense-api/internal/entity"
)

// Notifier delivers a dispatched analysis job to the external analysis
// system. Implementations are selected by deployment configuration.
type Notifier interface {
	// Notify hands the job to the external system. webhookURL is the
	// requester's configured destination; queue-based implementations ignore it.
	Notify(ctx context.Context, webhookURL string, job *dto.AnalysisJob) error
	GetType() string
	// InitialStatus is the lifecycle state a record enters when dispatched
	// through this notifier.
	InitialStatus() entity.AnalysisStatus
	// RequiresWebhook reports whether dispatch needs a per-user webhook URL.
	RequiresWebhook() bool
}

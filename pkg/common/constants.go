package common

const (
	// RedisStreamAnalysisRequest carries dispatched analysis requests for the
	// external executor when the queue notifier strategy is active.
	RedisStreamAnalysisRequest = "analysis.request"
)

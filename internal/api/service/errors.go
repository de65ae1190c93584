package service

import "errors"

var (
	// ErrUnauthenticated is returned when an operation has no requester.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrMissingSymbol is returned when no ticker could be identified in a
	// command. No record is created in this case.
	ErrMissingSymbol = errors.New("no stock symbol found in command")

	// ErrNoWebhookConfigured is returned when the webhook dispatch strategy
	// is active but the requester has no destination URL.
	ErrNoWebhookConfigured = errors.New("no webhook URL configured")

	// ErrWebhookDelivery is returned when the external system rejected or
	// never received the dispatched job. The record has already been marked
	// failed by the time this error surfaces.
	ErrWebhookDelivery = errors.New("failed to trigger analysis webhook")

	// ErrAnalysisNotFound is returned for callbacks or reads against an
	// unknown analysis id.
	ErrAnalysisNotFound = errors.New("analysis not found")

	// ErrAnalysisFinalized is returned when a callback targets a record that
	// already reached a terminal status. Status transitions are monotonic.
	ErrAnalysisFinalized = errors.New("analysis already finalized")

	// ErrInvalidCallbackStatus is returned when a callback carries a status
	// outside the terminal set.
	ErrInvalidCallbackStatus = errors.New("callback status must be completed or failed")

	// ErrInvalidHolding is returned for holding submissions failing
	// validation.
	ErrInvalidHolding = errors.New("invalid holding")

	// ErrHoldingNotFound is returned when deleting a holding the requester
	// does not own.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrProfileNotFound is returned when reading a profile that was never
	// configured.
	ErrProfileNotFound = errors.New("profile not found")
)

package dto

import "time"

// UpdateProfileRequest upserts a user's delivery settings.
type UpdateProfileRequest struct {
	WebhookURL     string `json:"webhook_url"`
	TelegramChatID int64  `json:"telegram_chat_id,omitempty"`
}

// ProfileResponse is the DTO for a user profile.
type ProfileResponse struct {
	UserID         string    `json:"user_id"`
	WebhookURL     string    `json:"webhook_url"`
	TelegramChatID int64     `json:"telegram_chat_id,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

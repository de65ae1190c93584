package entity

import "time"

// UserProfile holds per-user delivery settings: the external automation
// webhook that performs analyses, and an optional Telegram chat for
// completion notifications.
type UserProfile struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         string    `gorm:"not null;uniqueIndex" json:"user_id"`
	WebhookURL     string    `json:"webhook_url"`
	TelegramChatID int64     `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

package service

import (
	"context"
	"testing"

	"stocksense-api/internal/api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_GetUnknownUser(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo(), testLogger(t))

	_, err := svc.Get(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileService_Unauthenticated(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo(), testLogger(t))
	ctx := context.Background()

	_, err := svc.Get(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Update(ctx, "", &dto.UpdateProfileRequest{WebhookURL: "https://x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestProfileService_UpdateThenGet(t *testing.T) {
	profiles := newFakeProfileRepo()
	svc := NewProfileService(profiles, testLogger(t))
	ctx := context.Background()

	updated, err := svc.Update(ctx, "user-1", &dto.UpdateProfileRequest{
		WebhookURL:     "https://n8n.example.com/hook",
		TelegramChatID: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", updated.UserID)
	assert.Equal(t, "https://n8n.example.com/hook", updated.WebhookURL)
	assert.Equal(t, int64(42), updated.TelegramChatID)

	got, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, updated.WebhookURL, got.WebhookURL)
	assert.Equal(t, updated.TelegramChatID, got.TelegramChatID)
}

func TestProfileService_UpdateIsUpsert(t *testing.T) {
	profiles := newFakeProfileRepo()
	svc := NewProfileService(profiles, testLogger(t))
	ctx := context.Background()

	_, err := svc.Update(ctx, "user-1", &dto.UpdateProfileRequest{WebhookURL: "https://old"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "user-1", &dto.UpdateProfileRequest{WebhookURL: "https://new", TelegramChatID: 7})
	require.NoError(t, err)

	got, err := svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "https://new", got.WebhookURL)
	assert.Equal(t, int64(7), got.TelegramChatID)
}

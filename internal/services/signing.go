package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/tungdtnguyen/messenger-backend/internal/models"
	"github.com/tungdtnguyen/messenger-backend/internal/storage"
)

// Responses carry presigned GET URLs instead of raw object keys. Signing is
// best-effort: a failed presign leaves the key in place and logs, it never
// fails the request. Federated avatars are already absolute URLs and pass
// through untouched.

func signUserMedia(ctx context.Context, store storage.ObjectStore, ttl time.Duration, user *models.User) {
	if user == nil || user.AvatarKey == nil || *user.AvatarKey == "" {
		return
	}
	if strings.HasPrefix(*user.AvatarKey, "http") {
		return
	}
	url, err := store.PresignGet(ctx, *user.AvatarKey, ttl)
	if err != nil {
		slog.Error("presign avatar failed", "user_id", user.ID, "error", err)
		return
	}
	user.AvatarKey = &url
}

func signConversationMedia(ctx context.Context, store storage.ObjectStore, ttl time.Duration, conv *models.Conversation) {
	if conv == nil {
		return
	}
	if conv.ImageKey != nil && *conv.ImageKey != "" {
		if url, err := store.PresignGet(ctx, *conv.ImageKey, ttl); err != nil {
			slog.Error("presign conversation image failed", "conversation_id", conv.ID, "error", err)
		} else {
			conv.ImageKey = &url
		}
	}
	for i := range conv.Participants {
		signUserMedia(ctx, store, ttl, &conv.Participants[i].User)
	}
	for i := range conv.Messages {
		signMessageMedia(ctx, store, ttl, &conv.Messages[i])
	}
}

func signMessageMedia(ctx context.Context, store storage.ObjectStore, ttl time.Duration, msg *models.Message) {
	if msg == nil {
		return
	}
	if msg.ImageKey != nil && *msg.ImageKey != "" {
		if url, err := store.PresignGet(ctx, *msg.ImageKey, ttl); err != nil {
			slog.Error("presign message image failed", "message_id", msg.ID, "error", err)
		} else {
			msg.ImageKey = &url
		}
	}
	if msg.FileKey != nil && *msg.FileKey != "" {
		if url, err := store.PresignGet(ctx, *msg.FileKey, ttl); err != nil {
			slog.Error("presign message file failed", "message_id", msg.ID, "error", err)
		} else {
			msg.FileKey = &url
		}
	}
}

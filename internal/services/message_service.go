package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tungdtnguyen/messenger-backend/internal/authz"
	"github.com/tungdtnguyen/messenger-backend/internal/config"
	"github.com/tungdtnguyen/messenger-backend/internal/dto"
	"github.com/tungdtnguyen/messenger-backend/internal/models"
	"github.com/tungdtnguyen/messenger-backend/internal/realtime"
	"github.com/tungdtnguyen/messenger-backend/internal/storage"
)

// Attachment describes an already uploaded object for a new message. IsImage
// selects which of the two mutually exclusive slots the key lands in.
type Attachment struct {
	Key      string
	FileName string
	IsImage  bool
}

type MessageService struct {
	db         *gorm.DB
	cfg        *config.Config
	store      storage.ObjectStore
	dispatcher realtime.Dispatcher
}

func NewMessageService(db *gorm.DB, cfg *config.Config, store storage.ObjectStore, dispatcher realtime.Dispatcher) *MessageService {
	return &MessageService{db: db, cfg: cfg, store: store, dispatcher: dispatcher}
}

// ListByConversation returns messages with their sender projection. Open
// read by design.
func (s *MessageService) ListByConversation(ctx context.Context, convID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.Preload("Sender").Where("conversation_id = ?", convID).
		Order("created_at asc").Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	for i := range messages {
		signMessageMedia(ctx, s.store, s.cfg.SignedURLTTL, &messages[i])
		signUserMedia(ctx, s.store, s.cfg.SignedURLTTL, &messages[i].Sender)
	}
	return messages, nil
}

// Create stores the message, touches the conversation's updated_at so it
// sorts to the top of the client's list, and fans newMessage out to every
// participant. The sender is included on purpose: their other devices need
// the echo.
func (s *MessageService) Create(ctx context.Context, senderID uuid.UUID, req *dto.CreateMessageRequest, attachment *Attachment) (*models.Message, error) {
	var conv models.Conversation
	if err := s.db.Preload("Participants").First(&conv, "id = ?", req.ConversationID).Error; err != nil {
		return nil, ErrNotFound
	}

	msg := models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           req.Body,
	}
	if attachment != nil {
		key := attachment.Key
		if attachment.IsImage {
			msg.ImageKey = &key
		} else {
			name := attachment.FileName
			msg.FileKey = &key
			msg.FileName = &name
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		return tx.Model(&conv).Update("updated_at", gorm.Expr("now()")).Error
	})
	if err != nil {
		return nil, err
	}

	signMessageMedia(ctx, s.store, s.cfg.SignedURLTTL, &msg)

	ids := make([]uuid.UUID, 0, len(conv.Participants))
	for _, p := range conv.Participants {
		ids = append(ids, p.UserID)
	}
	s.dispatcher.Notify(ids, realtime.EventNewMessage, msg)
	return &msg, nil
}

// Update edits the body. Sender only.
func (s *MessageService) Update(ctx context.Context, actorID, messageID uuid.UUID, req *dto.UpdateMessageRequest) (*models.Message, error) {
	var msg models.Message
	if err := s.db.First(&msg, "id = ?", messageID).Error; err != nil {
		return nil, ErrNotFound
	}
	if !authz.CanModifyMessage(actorID, &msg) {
		return nil, ErrForbidden
	}

	if req.Body != nil {
		if err := s.db.Model(&msg).Update("body", *req.Body).Error; err != nil {
			return nil, fmt.Errorf("failed to update message: %w", err)
		}
		msg.Body = *req.Body
	}

	signMessageMedia(ctx, s.store, s.cfg.SignedURLTTL, &msg)
	return &msg, nil
}

// Delete removes the message and its attachment object. Sender only.
func (s *MessageService) Delete(ctx context.Context, actorID, messageID uuid.UUID) error {
	var msg models.Message
	if err := s.db.First(&msg, "id = ?", messageID).Error; err != nil {
		return ErrNotFound
	}
	if !authz.CanModifyMessage(actorID, &msg) {
		return ErrForbidden
	}

	if err := s.db.Delete(&msg).Error; err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	// Blob cleanup is best-effort; an orphaned object is not worth failing
	// the delete over.
	if msg.ImageKey != nil {
		_ = s.store.Delete(ctx, *msg.ImageKey)
	}
	if msg.FileKey != nil {
		_ = s.store.Delete(ctx, *msg.FileKey)
	}
	return nil
}

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

type ConversationService struct {
	db         *gorm.DB
	cfg        *config.Config
	store      storage.ObjectStore
	dispatcher realtime.Dispatcher
}

func NewConversationService(db *gorm.DB, cfg *config.Config, store storage.ObjectStore, dispatcher realtime.Dispatcher) *ConversationService {
	return &ConversationService{db: db, cfg: cfg, store: store, dispatcher: dispatcher}
}

// Create runs the conversation-creation protocol in one transaction: the
// conversation row, the creator as first participant with the admin flag,
// then one member row per requested user. Non-creator participants get a
// newConversation push after commit.
func (s *ConversationService) Create(ctx context.Context, creatorID uuid.UUID, req *dto.CreateConversationRequest, imageKey *string) (*models.Conversation, error) {
	conv := models.Conversation{
		ID:        uuid.New(),
		CreatorID: creatorID,
		Title:     req.Title,
		ImageKey:  imageKey,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conv).Error; err != nil {
			return fmt.Errorf("failed to create conversation: %w", err)
		}
		if err := tx.Create(&models.Participant{
			ID:             uuid.New(),
			ConversationID: conv.ID,
			UserID:         creatorID,
			IsAdmin:        true,
		}).Error; err != nil {
			return fmt.Errorf("failed to create admin participant: %w", err)
		}
		for _, userID := range req.Participants {
			if userID == creatorID {
				continue
			}
			if err := tx.Create(&models.Participant{
				ID:             uuid.New(),
				ConversationID: conv.ID,
				UserID:         userID,
			}).Error; err != nil {
				return fmt.Errorf("failed to add participant %s: %w", userID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	loaded, err := s.Get(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Notify(memberIDs(loaded.Participants, creatorID), realtime.EventNewConversation, loaded)
	return loaded, nil
}

// Get loads a conversation with its participant and message projections.
// Reads are unrestricted by design.
func (s *ConversationService) Get(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.Preload("Participants.User").Preload("Messages").
		First(&conv, "id = ?", id).Error
	if err != nil {
		return nil, ErrNotFound
	}
	signConversationMedia(ctx, s.store, s.cfg.SignedURLTTL, &conv)
	return &conv, nil
}

func (s *ConversationService) List(ctx context.Context) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.db.Preload("Participants.User").Preload("Messages").Find(&convs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	for i := range convs {
		signConversationMedia(ctx, s.store, s.cfg.SignedURLTTL, &convs[i])
	}
	return convs, nil
}

// Update applies the whitelisted fields (title, group image). Admin only.
// Other members get an updateConversation push; the actor is excluded, the
// response already carries the new state.
func (s *ConversationService) Update(ctx context.Context, actorID, convID uuid.UUID, req *dto.UpdateConversationRequest, imageKey *string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.db.Preload("Participants").First(&conv, "id = ?", convID).Error; err != nil {
		return nil, ErrNotFound
	}
	if !authz.CanManageConversation(actorID, conv.Participants) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if imageKey != nil {
		updates["image_key"] = *imageKey
	}
	if len(updates) > 0 {
		if err := s.db.Model(&conv).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update conversation: %w", err)
		}
	}

	loaded, err := s.Get(ctx, convID)
	if err != nil {
		return nil, err
	}
	s.dispatcher.Notify(memberIDs(loaded.Participants, actorID), realtime.EventUpdateConversation, loaded)
	return loaded, nil
}

// Delete removes the conversation and everything it owns. Admin only.
// Participants go first, then messages, then the conversation row, all in
// one transaction so a crash cannot strand orphaned rows.
func (s *ConversationService) Delete(ctx context.Context, actorID, convID uuid.UUID) error {
	var conv models.Conversation
	if err := s.db.Preload("Participants").First(&conv, "id = ?", convID).Error; err != nil {
		return ErrNotFound
	}
	if !authz.CanManageConversation(actorID, conv.Participants) {
		return ErrForbidden
	}

	remaining := memberIDs(conv.Participants, actorID)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", convID).Delete(&models.Participant{}).Error; err != nil {
			return fmt.Errorf("failed to delete participants: %w", err)
		}
		if err := tx.Where("conversation_id = ?", convID).Delete(&models.Message{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		return tx.Unscoped().Delete(&conv).Error
	})
	if err != nil {
		return err
	}

	s.dispatcher.Notify(remaining, realtime.EventDeleteConversation, map[string]any{"id": convID})
	return nil
}

// memberIDs collects participant user ids, excluding the acting user.
func memberIDs(participants []models.Participant, exclude uuid.UUID) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(participants))
	for _, p := range participants {
		if p.UserID != exclude {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}

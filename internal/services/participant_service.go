package services

import (
	"context"
	"errors"
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

type ParticipantService struct {
	db         *gorm.DB
	cfg        *config.Config
	store      storage.ObjectStore
	dispatcher realtime.Dispatcher
}

func NewParticipantService(db *gorm.DB, cfg *config.Config, store storage.ObjectStore, dispatcher realtime.Dispatcher) *ParticipantService {
	return &ParticipantService{db: db, cfg: cfg, store: store, dispatcher: dispatcher}
}

// ListByConversation returns the participant rows with user projections.
// Open read by design.
func (s *ParticipantService) ListByConversation(ctx context.Context, convID uuid.UUID) ([]models.Participant, error) {
	var participants []models.Participant
	err := s.db.Preload("User").Where("conversation_id = ?", convID).Find(&participants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	for i := range participants {
		signUserMedia(ctx, s.store, s.cfg.SignedURLTTL, &participants[i].User)
	}
	return participants, nil
}

// Add inserts a new member, identified by email. Only an admin of the
// conversation may invite. Existing members are rejected as conflicts so the
// unique (conversation, user) index never has to fire.
func (s *ParticipantService) Add(ctx context.Context, actorID uuid.UUID, req *dto.AddParticipantRequest) (*models.Participant, error) {
	var conv models.Conversation
	if err := s.db.Preload("Participants").First(&conv, "id = ?", req.ConversationID).Error; err != nil {
		return nil, ErrNotFound
	}
	if !authz.CanManageConversation(actorID, conv.Participants) {
		return nil, ErrForbidden
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("%w: no user with that email", ErrNotFound)
	}
	if authz.IsMember(user.ID, conv.Participants) {
		return nil, fmt.Errorf("%w: already a participant", ErrConflict)
	}

	participant := models.Participant{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		UserID:         user.ID,
	}
	if err := s.db.Create(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: already a participant", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}
	participant.User = user
	signUserMedia(ctx, s.store, s.cfg.SignedURLTTL, &participant.User)

	// Tell the invited user and the existing members; the admin sees the
	// result in the response. The invited user gets the conversation reloaded
	// with full user projections, the same shape a detail read returns.
	var loaded models.Conversation
	if err := s.db.Preload("Participants.User").Preload("Messages").First(&loaded, "id = ?", conv.ID).Error; err == nil {
		signConversationMedia(ctx, s.store, s.cfg.SignedURLTTL, &loaded)
		s.dispatcher.Notify([]uuid.UUID{user.ID}, realtime.EventNewConversation, loaded)
	}
	s.dispatcher.Notify(memberIDs(conv.Participants, actorID), realtime.EventNewParticipant, participant)
	return &participant, nil
}

// Promote flips the admin flag on. Promotion is one-directional: there is no
// demotion path.
func (s *ParticipantService) Promote(ctx context.Context, actorID, participantID uuid.UUID) (*models.Participant, error) {
	var participant models.Participant
	if err := s.db.First(&participant, "id = ?", participantID).Error; err != nil {
		return nil, ErrNotFound
	}

	var conv models.Conversation
	if err := s.db.Preload("Participants").First(&conv, "id = ?", participant.ConversationID).Error; err != nil {
		return nil, ErrNotFound
	}
	if !authz.CanManageConversation(actorID, conv.Participants) {
		return nil, ErrForbidden
	}

	if err := s.db.Model(&participant).Update("is_admin", true).Error; err != nil {
		return nil, fmt.Errorf("failed to promote participant: %w", err)
	}
	participant.IsAdmin = true
	return &participant, nil
}

// Remove deletes the participant row. Admin only. The removed user gets a
// dedicated removedFromConversation event; the remaining members get a
// participantRemoved event. Removing a participant never deletes the
// conversation.
func (s *ParticipantService) Remove(ctx context.Context, actorID, participantID uuid.UUID) error {
	var participant models.Participant
	if err := s.db.First(&participant, "id = ?", participantID).Error; err != nil {
		return ErrNotFound
	}

	var conv models.Conversation
	if err := s.db.Preload("Participants").First(&conv, "id = ?", participant.ConversationID).Error; err != nil {
		return ErrNotFound
	}
	if !authz.CanManageConversation(actorID, conv.Participants) {
		return ErrForbidden
	}

	if err := s.db.Delete(&participant).Error; err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}

	payload := map[string]any{
		"conversation_id": conv.ID,
		"participant_id":  participant.ID,
		"user_id":         participant.UserID,
	}
	s.dispatcher.Notify([]uuid.UUID{participant.UserID}, realtime.EventRemovedFromConv, payload)

	remaining := make([]uuid.UUID, 0, len(conv.Participants))
	for _, p := range conv.Participants {
		if p.UserID != actorID && p.UserID != participant.UserID {
			remaining = append(remaining, p.UserID)
		}
	}
	s.dispatcher.Notify(remaining, realtime.EventParticipantRemoved, payload)
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tungdtnguyen/messenger-backend/internal/authz"
	"github.com/tungdtnguyen/messenger-backend/internal/config"
	"github.com/tungdtnguyen/messenger-backend/internal/dto"
	"github.com/tungdtnguyen/messenger-backend/internal/models"
	"github.com/tungdtnguyen/messenger-backend/internal/realtime"
	"github.com/tungdtnguyen/messenger-backend/internal/storage"
)

type FriendService struct {
	db         *gorm.DB
	cfg        *config.Config
	store      storage.ObjectStore
	dispatcher realtime.Dispatcher
}

func NewFriendService(db *gorm.DB, cfg *config.Config, store storage.ObjectStore, dispatcher realtime.Dispatcher) *FriendService {
	return &FriendService{db: db, cfg: cfg, store: store, dispatcher: dispatcher}
}

// ListByUser returns the user's outgoing edges with the friend's profile
// attached.
func (s *FriendService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	var friends []models.Friend
	err := s.db.Preload("User").Where("user_id = ?", userID).Find(&friends).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	for i := range friends {
		signUserMedia(ctx, s.store, s.cfg.SignedURLTTL, &friends[i].User)
	}
	return friends, nil
}

// Add creates the symmetric edge pair and the direct conversation between
// the two users, all inside one transaction: either the whole friendship
// materializes or none of it does.
func (s *FriendService) Add(ctx context.Context, actorID uuid.UUID, req *dto.AddFriendRequest) (*models.Friend, error) {
	if req.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	var target models.User
	if err := s.db.Where("email = ?", req.Email).First(&target).Error; err != nil {
		return nil, fmt.Errorf("%w: no user with that email", ErrNotFound)
	}
	if target.ID == actorID {
		return nil, fmt.Errorf("%w: cannot add yourself as a friend", ErrValidation)
	}

	var existing models.Friend
	if err := s.db.Where("user_id = ? AND friend_id = ?", actorID, target.ID).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: friendship already exists", ErrConflict)
	}

	edge := models.Friend{ID: uuid.New(), UserID: actorID, FriendID: target.ID}
	mirror := models.Friend{ID: uuid.New(), UserID: target.ID, FriendID: actorID}
	conv := models.Conversation{ID: uuid.New(), CreatorID: actorID}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&edge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: friendship already exists", ErrConflict)
			}
			return fmt.Errorf("failed to create friend edge: %w", err)
		}
		if err := tx.Create(&mirror).Error; err != nil {
			return fmt.Errorf("failed to create mirror edge: %w", err)
		}
		if err := tx.Create(&conv).Error; err != nil {
			return fmt.Errorf("failed to create direct conversation: %w", err)
		}
		// A direct conversation has no admin distinction.
		participants := []models.Participant{
			{ID: uuid.New(), ConversationID: conv.ID, UserID: actorID},
			{ID: uuid.New(), ConversationID: conv.ID, UserID: target.ID},
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		return nil, err
	}

	signUserMedia(ctx, s.store, s.cfg.SignedURLTTL, &target)
	edge.User = target

	var loadedConv models.Conversation
	if err := s.db.Preload("Participants.User").First(&loadedConv, "id = ?", conv.ID).Error; err == nil {
		signConversationMedia(ctx, s.store, s.cfg.SignedURLTTL, &loadedConv)
		s.dispatcher.Notify([]uuid.UUID{actorID, target.ID}, realtime.EventNewConversation, loadedConv)
	}

	// The mirror edge carries the actor's profile, which is what the other
	// user's friend list needs.
	var mirrorLoaded models.Friend
	if err := s.db.Preload("User").First(&mirrorLoaded, "id = ?", mirror.ID).Error; err == nil {
		signUserMedia(ctx, s.store, s.cfg.SignedURLTTL, &mirrorLoaded.User)
		s.dispatcher.Notify([]uuid.UUID{target.ID}, realtime.EventNewFriend, mirrorLoaded)
	}

	return &edge, nil
}

// Delete removes a directed edge and its mirror. Only the owning side of the
// edge may delete it. A missing mirror means the symmetric-pair invariant
// was already broken: the operation fails loudly instead of half-succeeding.
// The direct conversation survives friendship deletion.
func (s *FriendService) Delete(ctx context.Context, actorID, edgeID uuid.UUID) error {
	var edge models.Friend
	if err := s.db.First(&edge, "id = ?", edgeID).Error; err != nil {
		return ErrNotFound
	}
	if !authz.OwnsEdge(actorID, &edge) {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var mirror models.Friend
		err := tx.Where("user_id = ? AND friend_id = ?", edge.FriendID, edge.UserID).First(&mirror).Error
		if err != nil {
			slog.Error("friend edge missing its mirror",
				"edge_id", edge.ID, "user_id", edge.UserID, "friend_id", edge.FriendID)
			return fmt.Errorf("%w: friend edge %s has no mirror", ErrIntegrity, edge.ID)
		}
		if err := tx.Delete(&edge).Error; err != nil {
			return fmt.Errorf("failed to delete friend edge: %w", err)
		}
		if err := tx.Delete(&mirror).Error; err != nil {
			return fmt.Errorf("failed to delete mirror edge: %w", err)
		}
		return nil
	})
}

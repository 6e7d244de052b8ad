// Package authz holds the membership predicates that gate every mutating
// conversation operation. The functions are pure: they operate on participant
// state the caller has already loaded, so policy can be tested without a
// database.
package authz

import (
	"github.com/google/uuid"

	"github.com/tungdtnguyen/messenger-backend/internal/models"
)

// IsMember reports whether userID appears in the participant list.
func IsMember(userID uuid.UUID, participants []models.Participant) bool {
	for _, p := range participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether userID is a participant with the admin flag set.
func IsAdmin(userID uuid.UUID, participants []models.Participant) bool {
	for _, p := range participants {
		if p.UserID == userID {
			return p.IsAdmin
		}
	}
	return false
}

// CanManageConversation gates title/image updates, deletion, and every
// participant mutation (add, promote, remove). Only admins qualify.
func CanManageConversation(userID uuid.UUID, participants []models.Participant) bool {
	return IsAdmin(userID, participants)
}

// CanModifyMessage gates message edits and deletes: sender only.
func CanModifyMessage(userID uuid.UUID, msg *models.Message) bool {
	return msg != nil && msg.SenderID == userID
}

// OwnsEdge gates friend-edge deletion: only the owning side of the directed
// edge may remove it.
func OwnsEdge(userID uuid.UUID, edge *models.Friend) bool {
	return edge != nil && edge.UserID == userID
}

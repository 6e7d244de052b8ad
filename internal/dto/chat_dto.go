package dto

import "github.com/google/uuid"

type CreateConversationRequest struct {
	Title        *string     `json:"title" form:"title"`
	Participants []uuid.UUID `json:"participants" form:"participants"`
}

// UpdateConversationRequest whitelists the mutable conversation fields; the
// group image travels as a file part next to it.
type UpdateConversationRequest struct {
	Title *string `json:"title" form:"title"`
}

// AddParticipantRequest identifies the new member by email, matching the
// invite-by-address flow of the client.
type AddParticipantRequest struct {
	ConversationID uuid.UUID `json:"conversation_id" form:"conversation_id"`
	Email          string    `json:"email" form:"email"`
}

type CreateMessageRequest struct {
	ConversationID uuid.UUID `json:"conversation_id" form:"conversation_id"`
	Body           string    `json:"message" form:"message"`
}

type UpdateMessageRequest struct {
	Body *string `json:"message" form:"message"`
}

type AddFriendRequest struct {
	Email string `json:"email"`
}

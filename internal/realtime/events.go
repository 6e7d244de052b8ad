package realtime

// Event names delivered over the push channel. Clients switch on these, so
// they are part of the wire contract.
const (
	EventOnlineUsers        = "getOnlineUsers"
	EventNewConversation    = "newConversation"
	EventUpdateConversation = "updateConversation"
	EventDeleteConversation = "deleteConversation"
	EventNewMessage         = "newMessage"
	EventNewFriend          = "newFriend"
	EventNewParticipant     = "newParticipant"
	EventParticipantRemoved = "participantRemoved"
	EventRemovedFromConv    = "removedFromConversation"
)

// envelope is the single frame format: event name plus payload.
type envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

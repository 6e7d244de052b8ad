package authz

import (
	"testing"

	"github.com/google/uuid"

	"github.com/tungdtnguyen/messenger-backend/internal/models"
)

func TestIsMember(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	outsider := uuid.New()

	participants := []models.Participant{
		{UserID: alice, IsAdmin: true},
		{UserID: bob},
	}

	if !IsMember(alice, participants) {
		t.Error("expected alice to be a member")
	}
	if !IsMember(bob, participants) {
		t.Error("expected bob to be a member")
	}
	if IsMember(outsider, participants) {
		t.Error("expected outsider not to be a member")
	}
	if IsMember(alice, nil) {
		t.Error("empty participant list should have no members")
	}
}

func TestIsAdmin(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	outsider := uuid.New()

	participants := []models.Participant{
		{UserID: alice, IsAdmin: true},
		{UserID: bob},
	}

	if !IsAdmin(alice, participants) {
		t.Error("expected alice to be admin")
	}
	if IsAdmin(bob, participants) {
		t.Error("plain member must not be admin")
	}
	if IsAdmin(outsider, participants) {
		t.Error("non-member must not be admin")
	}
}

func TestCanManageConversationRequiresAdmin(t *testing.T) {
	admin := uuid.New()
	member := uuid.New()

	participants := []models.Participant{
		{UserID: admin, IsAdmin: true},
		{UserID: member},
	}

	if !CanManageConversation(admin, participants) {
		t.Error("admin should be able to manage the conversation")
	}
	if CanManageConversation(member, participants) {
		t.Error("plain member must not manage the conversation")
	}
}

func TestCanModifyMessage(t *testing.T) {
	sender := uuid.New()
	other := uuid.New()
	msg := &models.Message{SenderID: sender}

	if !CanModifyMessage(sender, msg) {
		t.Error("sender should be able to modify their message")
	}
	if CanModifyMessage(other, msg) {
		t.Error("non-sender must not modify the message")
	}
	if CanModifyMessage(sender, nil) {
		t.Error("nil message must not be modifiable")
	}
}

func TestOwnsEdge(t *testing.T) {
	owner := uuid.New()
	friend := uuid.New()
	edge := &models.Friend{UserID: owner, FriendID: friend}

	if !OwnsEdge(owner, edge) {
		t.Error("owner should own their outgoing edge")
	}
	if OwnsEdge(friend, edge) {
		t.Error("the mirrored side must not own this edge")
	}
	if OwnsEdge(owner, nil) {
		t.Error("nil edge must not be owned")
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/tungdtnguyen/messenger-backend/internal/dto"
	"github.com/tungdtnguyen/messenger-backend/internal/models"
	"github.com/tungdtnguyen/messenger-backend/internal/realtime"
)

// The invitee's newConversation push must carry the conversation in the same
// shape a detail read returns: every participant row with its user projection,
// the fresh member included.
func TestAddSendsFullConversationToInvitee(t *testing.T) {
	db, mock := newMockDB(t)
	dispatcher := &recordingDispatcher{}
	svc := NewParticipantService(db, testConfig(), nil, dispatcher)

	convID := uuid.New()
	adminID := uuid.New()
	adminRowID := uuid.New()
	inviteeID := uuid.New()

	convRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "creator_id"}).
			AddRow(convID.String(), adminID.String())
	}

	// Membership check: the actor is the sole participant and an admin.
	mock.ExpectQuery(`SELECT .+ FROM "conversations"`).WillReturnRows(convRows())
	mock.ExpectQuery(`SELECT .+ FROM "participants"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "conversation_id", "user_id", "is_admin"}).
			AddRow(adminRowID.String(), convID.String(), adminID.String(), true))

	mock.ExpectQuery(`SELECT .+ FROM "users" WHERE email =`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "email"}).
			AddRow(inviteeID.String(), "invitee@example.com"))

	mock.ExpectQuery(`INSERT INTO "participants"`).WillReturnRows(
		sqlmock.NewRows([]string{"is_admin"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO "participants"`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	// Reload for the push: both members, each with a user projection.
	mock.ExpectQuery(`SELECT .+ FROM "conversations"`).WillReturnRows(convRows())
	mock.ExpectQuery(`SELECT .+ FROM "participants"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "conversation_id", "user_id", "is_admin"}).
			AddRow(adminRowID.String(), convID.String(), adminID.String(), true).
			AddRow(uuid.NewString(), convID.String(), inviteeID.String(), false))
	mock.ExpectQuery(`SELECT .+ FROM "users"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "email"}).
			AddRow(adminID.String(), "admin@example.com").
			AddRow(inviteeID.String(), "invitee@example.com"))
	mock.ExpectQuery(`SELECT .+ FROM "messages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	created, err := svc.Add(context.Background(), adminID, &dto.AddParticipantRequest{
		ConversationID: convID,
		Email:          "invitee@example.com",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if created.UserID != inviteeID {
		t.Fatalf("created participant belongs to %s, want %s", created.UserID, inviteeID)
	}

	if len(dispatcher.calls) != 2 {
		t.Fatalf("dispatched %d pushes, want 2", len(dispatcher.calls))
	}

	first := dispatcher.calls[0]
	if first.event != realtime.EventNewConversation {
		t.Fatalf("first push is %q, want %q", first.event, realtime.EventNewConversation)
	}
	if len(first.targets) != 1 || first.targets[0] != inviteeID {
		t.Fatalf("newConversation targets %v, want only the invitee", first.targets)
	}
	conv, ok := first.payload.(models.Conversation)
	if !ok {
		t.Fatalf("newConversation payload is %T, want models.Conversation", first.payload)
	}
	if len(conv.Participants) != 2 {
		t.Fatalf("pushed conversation has %d participants, want 2", len(conv.Participants))
	}
	for _, p := range conv.Participants {
		if p.User.ID == uuid.Nil {
			t.Fatalf("participant %s pushed without its user projection", p.ID)
		}
	}

	if got := dispatcher.calls[1].event; got != realtime.EventNewParticipant {
		t.Fatalf("second push is %q, want %q", got, realtime.EventNewParticipant)
	}
}

func TestAddRejectsNonAdmin(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewParticipantService(db, testConfig(), nil, &recordingDispatcher{})

	convID := uuid.New()
	memberID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM "conversations"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "creator_id"}).
			AddRow(convID.String(), uuid.NewString()))
	mock.ExpectQuery(`SELECT .+ FROM "participants"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "conversation_id", "user_id", "is_admin"}).
			AddRow(uuid.NewString(), convID.String(), memberID.String(), false))

	_, err := svc.Add(context.Background(), memberID, &dto.AddParticipantRequest{
		ConversationID: convID,
		Email:          "invitee@example.com",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

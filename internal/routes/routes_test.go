package routes

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tungdtnguyen/messenger-backend/internal/config"
	"github.com/tungdtnguyen/messenger-backend/internal/handlers"
	"github.com/tungdtnguyen/messenger-backend/internal/mail"
	"github.com/tungdtnguyen/messenger-backend/internal/realtime"
	"github.com/tungdtnguyen/messenger-backend/internal/services"
)

// newTestApp wires the full route table over a sqlmock-backed database.
func newTestApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	mock.MatchExpectationsInOrder(false)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:    "test-secret",
		JWTExpiry:    time.Hour,
		SignedURLTTL: time.Hour,
	}
	mailer := mail.NewMailer("localhost", 2525, "", "", "test@example.com")
	hub := realtime.NewHub(realtime.NewRegistry())

	authService := services.NewAuthService(db, cfg, mailer)
	userService := services.NewUserService(db, cfg, nil, mailer)
	convService := services.NewConversationService(db, cfg, nil, hub)
	participantService := services.NewParticipantService(db, cfg, nil, hub)
	messageService := services.NewMessageService(db, cfg, nil, hub)
	friendService := services.NewFriendService(db, cfg, nil, hub)

	app := fiber.New()
	Setup(app, cfg, authService, hub,
		handlers.NewAuthHandler(authService),
		handlers.NewHealthHandler(),
		handlers.NewUserHandler(userService, nil),
		handlers.NewConversationHandler(convService, nil),
		handlers.NewParticipantHandler(participantService),
		handlers.NewMessageHandler(messageService, nil),
		handlers.NewFriendHandler(friendService),
	)
	return app, mock
}

// Listing and detail reads are open: no bearer token, no session row.
func TestReadRoutesNeedNoToken(t *testing.T) {
	app, mock := newTestApp(t)

	for _, table := range []string{"users", "conversations", "participants", "messages", "friends"} {
		mock.ExpectQuery(`SELECT .+ FROM "` + table + `"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
	}

	convID := uuid.NewString()
	userID := uuid.NewString()
	paths := []string{
		"/api/users",
		"/api/conversations",
		"/api/conversations/" + convID + "/participants",
		"/api/conversations/" + convID + "/messages",
		"/api/users/" + userID + "/friends",
	}
	for _, path := range paths {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("GET %s returned %d, want %d", path, resp.StatusCode, fiber.StatusOK)
		}
	}
}

// Every mutation stays behind the token check and rejects before touching
// the database.
func TestMutatingRoutesRejectMissingToken(t *testing.T) {
	app, _ := newTestApp(t)

	requests := []struct {
		method string
		path   string
	}{
		{"POST", "/api/auth/logout"},
		{"PUT", "/api/users/" + uuid.NewString()},
		{"POST", "/api/conversations"},
		{"PUT", "/api/conversations/" + uuid.NewString()},
		{"DELETE", "/api/conversations/" + uuid.NewString()},
		{"POST", "/api/participants"},
		{"PUT", "/api/participants/" + uuid.NewString()},
		{"DELETE", "/api/participants/" + uuid.NewString()},
		{"POST", "/api/messages"},
		{"PUT", "/api/messages/" + uuid.NewString()},
		{"DELETE", "/api/messages/" + uuid.NewString()},
		{"POST", "/api/friends"},
		{"DELETE", "/api/friends/" + uuid.NewString()},
	}
	for _, r := range requests {
		resp, err := app.Test(httptest.NewRequest(r.method, r.path, nil))
		if err != nil {
			t.Fatalf("%s %s: %v", r.method, r.path, err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("%s %s returned %d, want %d", r.method, r.path, resp.StatusCode, fiber.StatusUnauthorized)
		}
	}
}

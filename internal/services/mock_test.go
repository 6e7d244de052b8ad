package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tungdtnguyen/messenger-backend/internal/config"
)

// newMockDB opens gorm over a sqlmock connection. Expectations are unordered
// so tests can assert outcomes rather than exact statement sequences.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
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
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret",
		JWTExpiry:    time.Hour,
		SignedURLTTL: time.Hour,
	}
}

type notifyCall struct {
	targets []uuid.UUID
	event   string
	payload any
}

// recordingDispatcher captures pushes instead of delivering them.
type recordingDispatcher struct {
	calls []notifyCall
}

func (d *recordingDispatcher) Notify(userIDs []uuid.UUID, event string, payload any) {
	d.calls = append(d.calls, notifyCall{targets: userIDs, event: event, payload: payload})
}

func (d *recordingDispatcher) Broadcast(event string, payload any) {
	d.calls = append(d.calls, notifyCall{event: event, payload: payload})
}

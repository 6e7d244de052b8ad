package services

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tungdtnguyen/messenger-backend/internal/dto"
)

// Two registrations can pass the advisory lookups together; the loser hits
// the unique index at insert time and must still come back as a conflict,
// not as an internal error.
func TestRegisterMapsDuplicateKeyToConflict(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewUserService(db, testConfig(), nil, nil)

	mock.ExpectQuery(`SELECT .+ FROM "users" WHERE email =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT .+ FROM "users" WHERE username =`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(dup)
	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(dup)
	mock.ExpectRollback()

	_, err := svc.Register(&dto.RegisterRequest{
		Email:    "kate@example.com",
		Username: "kate",
		Password: "longenough123",
	}, nil)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewUserService(db, testConfig(), nil, nil)

	_, err := svc.Register(&dto.RegisterRequest{
		Email:    "kate@example.com",
		Username: "kate",
		Password: "short",
	}, nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

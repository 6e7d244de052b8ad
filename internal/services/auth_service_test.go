package services

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tungdtnguyen/messenger-backend/internal/dto"
)

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewAuthService(db, testConfig(), nil), mock
}

func resetTokenRow(t *testing.T, userID uuid.UUID, code string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return sqlmock.NewRows([]string{"id", "email", "reset_token"}).
		AddRow(userID.String(), "kate@example.com", string(hash))
}

func TestResetPasswordConsumesToken(t *testing.T) {
	svc, mock := newAuthService(t)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM "users" WHERE id =`).
		WillReturnRows(resetTokenRow(t, userID, "raw-reset-code"))
	mock.ExpectExec(`UPDATE "users" SET .+ WHERE id = .+ AND reset_token =`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.ResetPassword(&dto.ResetPasswordRequest{
		ID:       userID,
		Token:    "raw-reset-code",
		Password: "brand-new-password",
	})
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
}

// The consuming update is predicated on the stored token hash, so a second
// submission racing the first matches zero rows and must be rejected.
func TestResetPasswordRejectsConsumedToken(t *testing.T) {
	svc, mock := newAuthService(t)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM "users" WHERE id =`).
		WillReturnRows(resetTokenRow(t, userID, "raw-reset-code"))
	mock.ExpectExec(`UPDATE "users" SET .+ WHERE id = .+ AND reset_token =`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.ResetPassword(&dto.ResetPasswordRequest{
		ID:       userID,
		Token:    "raw-reset-code",
		Password: "brand-new-password",
	})
	if !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("got %v, want ErrInvalidResetToken", err)
	}
}

func TestResetPasswordRejectsWrongCode(t *testing.T) {
	svc, mock := newAuthService(t)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM "users" WHERE id =`).
		WillReturnRows(resetTokenRow(t, userID, "raw-reset-code"))

	err := svc.ResetPassword(&dto.ResetPasswordRequest{
		ID:       userID,
		Token:    "not-the-code",
		Password: "brand-new-password",
	})
	if !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("got %v, want ErrInvalidResetToken", err)
	}
}

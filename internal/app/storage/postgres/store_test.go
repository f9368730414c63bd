package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/flowmatic-labs/platform/internal/app/domain/user"
	"github.com/flowmatic-labs/platform/internal/app/domain/wallet"
	"github.com/flowmatic-labs/platform/internal/app/storage"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "sqlmock")), mock
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.GetUserByEmail(context.Background(), "missing@example.com")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := store.CreateUser(context.Background(), userFixture())
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAdjust_InsufficientBalanceRollsBack(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM wallets WHERE id = \$1 FOR UPDATE`).
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "balance", "monthly_allowance", "total_earned", "total_spent",
			"subscription_tier", "last_allowance_at", "created_at", "updated_at",
		}).AddRow("w1", "u1", int64(10), int64(75), int64(75), int64(65), "founder", now, now, now))
	mock.ExpectRollback()

	_, _, err := store.Adjust(context.Background(), "w1", wallet.Transaction{
		Type:   wallet.TypeDebit,
		Amount: 25,
	})
	if !errors.Is(err, storage.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAdjust_DebitCommitsBalanceAndLedger(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM wallets WHERE id = \$1 FOR UPDATE`).
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "balance", "monthly_allowance", "total_earned", "total_spent",
			"subscription_tier", "last_allowance_at", "created_at", "updated_at",
		}).AddRow("w1", "u1", int64(75), int64(75), int64(75), int64(0), "founder", now, now, now))
	mock.ExpectExec(`UPDATE wallets SET balance = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO wallet_transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w, entry, err := store.Adjust(context.Background(), "w1", wallet.Transaction{
		Type:        wallet.TypeDebit,
		Amount:      15,
		Description: "expense tracking automation",
		ServiceTag:  "expenseTracking",
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if w.Balance != 60 {
		t.Fatalf("unexpected balance: %d", w.Balance)
	}
	if entry.BalanceAfter != 60 {
		t.Fatalf("unexpected balance_after: %d", entry.BalanceAfter)
	}
	if w.TotalSpent != 15 {
		t.Fatalf("unexpected total_spent: %d", w.TotalSpent)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAdjust_AllowanceStampsWalletInSameTx(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now().UTC()
	grantAt := now.AddDate(0, 1, 0)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM wallets WHERE id = \$1 FOR UPDATE`).
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "balance", "monthly_allowance", "total_earned", "total_spent",
			"subscription_tier", "last_allowance_at", "created_at", "updated_at",
		}).AddRow("w1", "u1", int64(5), int64(75), int64(75), int64(70), "founder", now, now, now))
	mock.ExpectExec(`UPDATE wallets SET balance = \$1, total_earned = \$2, total_spent = \$3, last_allowance_at = \$4, updated_at = \$5`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO wallet_transactions`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w, entry, err := store.Adjust(context.Background(), "w1", wallet.Transaction{
		Type:        wallet.TypeAllowance,
		Amount:      75,
		Description: "monthly IXP allowance",
		CreatedAt:   grantAt,
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if !w.LastAllowanceAt.Equal(grantAt) {
		t.Fatalf("last_allowance_at = %v, want grant time %v", w.LastAllowanceAt, grantAt)
	}
	if !entry.CreatedAt.Equal(grantAt) {
		t.Fatalf("entry time = %v, want %v", entry.CreatedAt, grantAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func userFixture() user.User {
	return user.User{
		Email:        "owner@example.com",
		PasswordHash: "x",
		FullName:     "Owner",
		Role:         user.RoleUser,
		Status:       user.StatusActive,
	}
}

// Package storage defines persistence interfaces for the platform's domain
// services. Implementations live in the memory and postgres subpackages.
package storage

import (
	"context"
	"errors"
	"time"

	admindomain "github.com/flowmatic-labs/platform/internal/app/domain/admin"
	"github.com/flowmatic-labs/platform/internal/app/domain/automation"
	"github.com/flowmatic-labs/platform/internal/app/domain/onboarding"
	"github.com/flowmatic-labs/platform/internal/app/domain/payment"
	"github.com/flowmatic-labs/platform/internal/app/domain/user"
	"github.com/flowmatic-labs/platform/internal/app/domain/wallet"
)

// Sentinel errors shared by every implementation. Services translate these
// into their own error vocabulary.
var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate signals a uniqueness violation, e.g. an email already
	// registered or a second wallet for the same user.
	ErrDuplicate = errors.New("record already exists")
	// ErrInsufficientBalance signals a debit that would take a wallet
	// below zero. The wallet and its ledger are left untouched.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// UserStore persists platform accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	UpdateUser(ctx context.Context, u user.User) (user.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]user.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// SessionStore persists sign-in sessions. Sessions are revoked in place,
// never deleted.
type SessionStore interface {
	CreateSession(ctx context.Context, s user.Session) (user.Session, error)
	GetSession(ctx context.Context, id string) (user.Session, error)
	RevokeSession(ctx context.Context, id string, at time.Time) error
	RevokeUserSessions(ctx context.Context, userID string, at time.Time) error
}

// OnboardingStore persists questionnaire profiles, one per user.
type OnboardingStore interface {
	UpsertProfile(ctx context.Context, p onboarding.Profile) (onboarding.Profile, error)
	GetProfile(ctx context.Context, userID string) (onboarding.Profile, error)
	DeleteProfile(ctx context.Context, userID string) error
	CountProfiles(ctx context.Context) (int, error)
}

// WalletStore persists wallets and their ledgers. Adjust is the only write
// path for balances: the balance update and the ledger entry are applied as
// one atomic unit, serialised per wallet. A debit exceeding the balance
// fails with ErrInsufficientBalance and leaves no trace. Allowance entries
// stamp the wallet's LastAllowanceAt inside the same unit; a non-zero entry
// CreatedAt is preserved as the entry time.
type WalletStore interface {
	CreateWallet(ctx context.Context, w wallet.Wallet, initial *wallet.Transaction) (wallet.Wallet, error)
	GetWallet(ctx context.Context, id string) (wallet.Wallet, error)
	GetWalletByUser(ctx context.Context, userID string) (wallet.Wallet, error)
	ListWallets(ctx context.Context) ([]wallet.Wallet, error)
	DeleteWallet(ctx context.Context, userID string) error
	Adjust(ctx context.Context, walletID string, tx wallet.Transaction) (wallet.Wallet, wallet.Transaction, error)
	ListTransactions(ctx context.Context, userID string, limit int) ([]wallet.Transaction, error)
	TotalBalance(ctx context.Context) (int64, error)
}

// InteractionStore records automation dispatch attempts.
type InteractionStore interface {
	CreateInteraction(ctx context.Context, in automation.Interaction) (automation.Interaction, error)
	ListInteractions(ctx context.Context, userID string, limit int) ([]automation.Interaction, error)
	CountInteractions(ctx context.Context) (int, error)
}

// PaymentStore records completed credit purchases.
type PaymentStore interface {
	CreatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error)
	ListPayments(ctx context.Context, userID string, limit int) ([]payment.Payment, error)
}

// AdminStore records the admin audit trail.
type AdminStore interface {
	CreateAdminAction(ctx context.Context, a admindomain.Action) (admindomain.Action, error)
	ListAdminActions(ctx context.Context, limit int) ([]admindomain.Action, error)
}

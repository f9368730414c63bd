// Package wallet manages IXP wallets: provisioning, the ledger, and the
// monthly allowance.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/flowmatic-labs/platform/internal/app/domain/wallet"
	"github.com/flowmatic-labs/platform/internal/app/metrics"
	"github.com/flowmatic-labs/platform/internal/app/storage"
	"github.com/flowmatic-labs/platform/pkg/logger"
)

// Sentinel errors surfaced to transports.
var (
	// ErrNotFound indicates the user has no wallet.
	ErrNotFound = errors.New("wallet not found")
	// ErrInsufficientBalance indicates a debit larger than the balance.
	// The wallet and its ledger are left untouched.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)

// Service exposes wallet operations. Every balance change flows through the
// store's atomic Adjust, so a ledger entry exists for each mutation.
type Service struct {
	store storage.WalletStore
	log   *logger.Logger
}

// New creates the wallet service.
func New(store storage.WalletStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("wallet")
	}
	return &Service{store: store, log: log}
}

// GetOrCreate returns the user's wallet, provisioning one on first use. New
// wallets start with the tier's monthly allowance, recorded as an allowance
// ledger entry. Unknown tiers fall back to the base founder tier.
func (s *Service) GetOrCreate(ctx context.Context, userID, tier string) (domain.Wallet, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Wallet{}, fmt.Errorf("user id is required")
	}

	existing, err := s.store.GetWalletByUser(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return domain.Wallet{}, err
	}

	t := domain.TierByName(strings.TrimSpace(tier))
	created, err := s.store.CreateWallet(ctx, domain.Wallet{
		UserID:           userID,
		MonthlyAllowance: t.MonthlyAllowance,
		SubscriptionTier: t.Name,
	}, &domain.Transaction{
		Type:        domain.TypeAllowance,
		Amount:      t.MonthlyAllowance,
		Description: "monthly IXP allowance",
	})
	if errors.Is(err, storage.ErrDuplicate) {
		// Lost a provisioning race; the winner's wallet is authoritative.
		return s.store.GetWalletByUser(ctx, userID)
	}
	if err != nil {
		return domain.Wallet{}, err
	}

	s.log.WithField("user_id", userID).WithField("tier", t.Name).Info("wallet provisioned")
	return created, nil
}

// Get returns the user's wallet.
func (s *Service) Get(ctx context.Context, userID string) (domain.Wallet, error) {
	w, err := s.store.GetWalletByUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Wallet{}, ErrNotFound
	}
	return w, err
}

// Credit adds IXP to the user's wallet. txType must be a crediting ledger
// type: credit, allowance or purchase.
func (s *Service) Credit(ctx context.Context, userID string, amount int64, txType, description, serviceTag string) (domain.Wallet, domain.Transaction, error) {
	if amount <= 0 {
		return domain.Wallet{}, domain.Transaction{}, fmt.Errorf("amount must be positive")
	}
	if !domain.ValidType(txType) || domain.IsDebit(txType) {
		return domain.Wallet{}, domain.Transaction{}, fmt.Errorf("invalid credit type %q", txType)
	}
	return s.adjust(ctx, userID, domain.Transaction{
		Type:        txType,
		Amount:      amount,
		Description: description,
		ServiceTag:  serviceTag,
	})
}

// Debit removes IXP from the user's wallet. A debit beyond the balance
// returns ErrInsufficientBalance and changes nothing.
func (s *Service) Debit(ctx context.Context, userID string, amount int64, description, serviceTag string) (domain.Wallet, domain.Transaction, error) {
	if amount <= 0 {
		return domain.Wallet{}, domain.Transaction{}, fmt.Errorf("amount must be positive")
	}
	return s.adjust(ctx, userID, domain.Transaction{
		Type:        domain.TypeDebit,
		Amount:      amount,
		Description: description,
		ServiceTag:  serviceTag,
	})
}

// SpendOnService debits the wallet by the service's IXP price.
func (s *Service) SpendOnService(ctx context.Context, userID, serviceTag string) (domain.Wallet, domain.Transaction, error) {
	serviceTag = strings.TrimSpace(serviceTag)
	if serviceTag == "" {
		return domain.Wallet{}, domain.Transaction{}, fmt.Errorf("service tag is required")
	}
	cost := domain.ServiceCost(serviceTag)
	return s.Debit(ctx, userID, cost, fmt.Sprintf("%s automation", serviceTag), serviceTag)
}

func (s *Service) adjust(ctx context.Context, userID string, entry domain.Transaction) (domain.Wallet, domain.Transaction, error) {
	w, err := s.store.GetWalletByUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Wallet{}, domain.Transaction{}, ErrNotFound
	}
	if err != nil {
		return domain.Wallet{}, domain.Transaction{}, err
	}

	updated, applied, err := s.store.Adjust(ctx, w.ID, entry)
	if errors.Is(err, storage.ErrInsufficientBalance) {
		return domain.Wallet{}, domain.Transaction{}, ErrInsufficientBalance
	}
	if err != nil {
		return domain.Wallet{}, domain.Transaction{}, err
	}

	metrics.RecordWalletAdjustment(applied.Type)
	s.log.WithField("user_id", userID).
		WithField("type", applied.Type).
		WithField("amount", applied.Amount).
		WithField("balance", updated.Balance).
		Info("wallet adjusted")
	return updated, applied, nil
}

// ListTransactions returns the newest ledger entries first. A non-positive
// limit defaults to 20.
func (s *Service) ListTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.ListTransactions(ctx, userID, limit)
}

// TotalBalance reports IXP in circulation across all wallets.
func (s *Service) TotalBalance(ctx context.Context) (int64, error) {
	return s.store.TotalBalance(ctx)
}

// GrantMonthlyAllowance credits the wallet's monthly allowance if none was
// granted in the current calendar month. It reports whether a grant happened.
func (s *Service) GrantMonthlyAllowance(ctx context.Context, walletID string, now time.Time) (bool, error) {
	w, err := s.store.GetWallet(ctx, walletID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}

	if sameMonth(w.LastAllowanceAt, now) {
		return false, nil
	}
	if w.MonthlyAllowance <= 0 {
		return false, nil
	}

	// The allowance entry carries the grant time, so the store stamps
	// LastAllowanceAt in the same atomic adjustment.
	if _, _, err := s.store.Adjust(ctx, w.ID, domain.Transaction{
		Type:        domain.TypeAllowance,
		Amount:      w.MonthlyAllowance,
		Description: "monthly IXP allowance",
		CreatedAt:   now.UTC(),
	}); err != nil {
		return false, err
	}

	s.log.WithField("wallet_id", w.ID).
		WithField("amount", w.MonthlyAllowance).
		Info("monthly allowance granted")
	return true, nil
}

// GrantDueAllowances grants the allowance to every wallet due one and
// returns the number of grants.
func (s *Service) GrantDueAllowances(ctx context.Context, now time.Time) (int, error) {
	wallets, err := s.store.ListWallets(ctx)
	if err != nil {
		return 0, err
	}

	granted := 0
	for _, w := range wallets {
		ok, err := s.GrantMonthlyAllowance(ctx, w.ID, now)
		if err != nil {
			s.log.WithError(err).WithField("wallet_id", w.ID).Warn("allowance grant failed")
			continue
		}
		if ok {
			granted++
		}
	}
	return granted, nil
}

func sameMonth(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

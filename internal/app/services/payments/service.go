// Package payments sells IXP credit packages and keeps the purchase history.
package payments

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/flowmatic-labs/platform/internal/app/domain/payment"
	walletdomain "github.com/flowmatic-labs/platform/internal/app/domain/wallet"
	"github.com/flowmatic-labs/platform/internal/app/storage"
	"github.com/flowmatic-labs/platform/pkg/logger"
)

var (
	// ErrUnknownPackage is returned when the purchase names a package that
	// is not offered.
	ErrUnknownPackage = errors.New("unknown credit package")
	// ErrInvalidAmount is returned for custom purchases below one credit.
	ErrInvalidAmount = errors.New("credit amount must be at least 1")
)

// Ledger is the wallet surface payments need: crediting purchased IXP.
type Ledger interface {
	Credit(ctx context.Context, userID string, amount int64, txType, description, serviceTag string) (walletdomain.Wallet, walletdomain.Transaction, error)
}

// Service handles credit purchases. Charging is out of scope: purchases
// arrive already settled and this service books the credits.
type Service struct {
	payments storage.PaymentStore
	ledger   Ledger
	log      *logger.Logger
}

// New creates the payments service.
func New(payments storage.PaymentStore, ledger Ledger, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("payments")
	}
	return &Service{payments: payments, ledger: ledger, log: log}
}

// Packages returns the credit packages offered for purchase.
func (s *Service) Packages() []domain.CreditPackage {
	return domain.Packages()
}

// Purchase books a settled credit purchase: the package credits plus any
// bonus are added to the wallet as one purchase entry and the payment is
// recorded. packageID "custom" purchases customCredits at the per-credit
// price with no bonus.
func (s *Service) Purchase(ctx context.Context, userID, packageID string, customCredits int64) (domain.Payment, error) {
	var pkg domain.CreditPackage
	if packageID == "custom" {
		if customCredits < 1 {
			return domain.Payment{}, ErrInvalidAmount
		}
		pkg = domain.CustomPackage(customCredits)
	} else {
		var ok bool
		pkg, ok = domain.PackageByID(packageID)
		if !ok {
			return domain.Payment{}, fmt.Errorf("%w: %s", ErrUnknownPackage, packageID)
		}
	}

	total := pkg.CreditsIXP + pkg.BonusIXP
	desc := fmt.Sprintf("purchased %d IXP (%s package)", pkg.CreditsIXP, pkg.ID)
	if pkg.BonusIXP > 0 {
		desc = fmt.Sprintf("purchased %d IXP + %d bonus (%s package)", pkg.CreditsIXP, pkg.BonusIXP, pkg.ID)
	}
	if _, _, err := s.ledger.Credit(ctx, userID, total, walletdomain.TypePurchase, desc, ""); err != nil {
		return domain.Payment{}, fmt.Errorf("credit wallet: %w", err)
	}

	p, err := s.payments.CreatePayment(ctx, domain.Payment{
		UserID:      userID,
		PackageID:   pkg.ID,
		AmountCents: pkg.PriceCents,
		CreditsIXP:  pkg.CreditsIXP,
		BonusIXP:    pkg.BonusIXP,
		Status:      domain.StatusCompleted,
	})
	if err != nil {
		// Credits are already granted; surface the record failure loudly
		// but do not claw them back.
		s.log.WithError(err).
			WithField("user_id", userID).
			WithField("package", pkg.ID).
			Error("failed to record payment")
		return domain.Payment{}, fmt.Errorf("record payment: %w", err)
	}

	s.log.WithField("user_id", userID).
		WithField("package", pkg.ID).
		WithField("credits", total).
		Info("credit purchase completed")
	return p, nil
}

// History returns the user's purchases, newest first. A non-positive limit
// defaults to 20.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]domain.Payment, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.payments.ListPayments(ctx, userID, limit)
}

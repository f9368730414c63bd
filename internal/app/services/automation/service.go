package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/flowmatic-labs/platform/internal/app/domain/automation"
	walletdomain "github.com/flowmatic-labs/platform/internal/app/domain/wallet"
	"github.com/flowmatic-labs/platform/internal/app/metrics"
	walletsvc "github.com/flowmatic-labs/platform/internal/app/services/wallet"
	"github.com/flowmatic-labs/platform/internal/app/storage"
	"github.com/flowmatic-labs/platform/pkg/logger"
)

var (
	// ErrUnknownService is returned when the trigger names a service that
	// is not in the catalog.
	ErrUnknownService = errors.New("unknown automation service")
	// ErrInsufficientBalance is returned when the wallet cannot cover the
	// service cost.
	ErrInsufficientBalance = walletsvc.ErrInsufficientBalance
	// ErrDispatchFailed is returned when the downstream webhook rejects or
	// fails the trigger. The interaction is still recorded.
	ErrDispatchFailed = errors.New("automation dispatch failed")
)

// Ledger is the wallet surface the automation service needs: a debit when a
// trigger fires and a compensating credit when delivery fails.
type Ledger interface {
	SpendOnService(ctx context.Context, userID, serviceTag string) (walletdomain.Wallet, walletdomain.Transaction, error)
	Credit(ctx context.Context, userID string, amount int64, txType, description, serviceTag string) (walletdomain.Wallet, walletdomain.Transaction, error)
}

// Service fires automation triggers against downstream webhooks and keeps
// the interaction history.
type Service struct {
	interactions storage.InteractionStore
	ledger       Ledger
	dispatcher   Dispatcher
	log          *logger.Logger
}

// New constructs the automation service.
func New(interactions storage.InteractionStore, ledger Ledger, dispatcher Dispatcher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("automation")
	}
	return &Service{
		interactions: interactions,
		ledger:       ledger,
		dispatcher:   dispatcher,
		log:          log,
	}
}

// Catalog returns the automation services available to every user.
func (s *Service) Catalog() []domain.ServiceDefinition {
	return domain.Catalog()
}

// Trigger charges the user's wallet for the named service, dispatches the
// webhook, and records the interaction. A failed dispatch refunds the charge
// before returning; the interaction is recorded either way.
func (s *Service) Trigger(ctx context.Context, userID, serviceTag, triggerType string, details map[string]string) (domain.Interaction, error) {
	def, ok := domain.ServiceByTag(serviceTag)
	if !ok {
		return domain.Interaction{}, fmt.Errorf("%w: %s", ErrUnknownService, serviceTag)
	}
	if triggerType == "" {
		triggerType = "manual"
	}

	_, debitTx, err := s.ledger.SpendOnService(ctx, userID, def.Tag)
	if err != nil {
		if errors.Is(err, ErrInsufficientBalance) || errors.Is(err, storage.ErrInsufficientBalance) {
			return domain.Interaction{}, fmt.Errorf("%w: %s costs %d IXP", ErrInsufficientBalance, def.Tag, def.CostIXP)
		}
		return domain.Interaction{}, fmt.Errorf("charge wallet for %s: %w", def.Tag, err)
	}

	start := time.Now()
	message, dispatchErr := s.dispatcher.Dispatch(ctx, def, userID, details)
	success := dispatchErr == nil
	metrics.RecordAutomationDispatch(def.Tag, time.Since(start), success)
	if success && message == "" {
		message = fmt.Sprintf("%s triggered", def.Name)
	}
	if !success {
		message = dispatchErr.Error()
		if _, _, refundErr := s.ledger.Credit(ctx, userID, debitTx.Amount, walletdomain.TypeCredit,
			fmt.Sprintf("refund: %s dispatch failed", def.Tag), def.Tag); refundErr != nil {
			s.log.WithError(refundErr).
				WithField("user_id", userID).
				WithField("service", def.Tag).
				Error("failed to refund wallet after dispatch failure")
		}
	}

	interaction := domain.Interaction{
		UserID:      userID,
		ServiceTag:  def.Tag,
		TriggerType: triggerType,
		Details:     details,
		Success:     success,
		Message:     message,
	}
	created, err := s.interactions.CreateInteraction(ctx, interaction)
	if err != nil {
		s.log.WithError(err).
			WithField("user_id", userID).
			WithField("service", def.Tag).
			Error("failed to record interaction")
		created = interaction
	}

	s.log.WithField("user_id", userID).
		WithField("service", def.Tag).
		WithField("success", success).
		Info("automation trigger processed")

	if !success {
		return created, fmt.Errorf("%w: %v", ErrDispatchFailed, dispatchErr)
	}
	return created, nil
}

// ListInteractions returns the user's interaction history, newest first.
func (s *Service) ListInteractions(ctx context.Context, userID string, limit int) ([]domain.Interaction, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.interactions.ListInteractions(ctx, userID, limit)
}

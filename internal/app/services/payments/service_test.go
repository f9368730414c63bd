package payments

import (
	"context"
	"errors"
	"testing"

	walletdomain "github.com/flowmatic-labs/platform/internal/app/domain/wallet"
	walletsvc "github.com/flowmatic-labs/platform/internal/app/services/wallet"
	"github.com/flowmatic-labs/platform/internal/app/storage/memory"
)

func newTestService(t *testing.T) (*Service, *walletsvc.Service, string) {
	t.Helper()

	store := memory.New()
	wallets := walletsvc.New(store, nil)
	if _, err := wallets.GetOrCreate(context.Background(), "user-1", walletdomain.TierFounder); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	return New(store, wallets, nil), wallets, "user-1"
}

func TestPurchasePackageCreditsBonus(t *testing.T) {
	svc, wallets, userID := newTestService(t)

	p, err := svc.Purchase(context.Background(), userID, "growth", 0)
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if p.AmountCents != 8900 || p.CreditsIXP != 100 || p.BonusIXP != 10 {
		t.Fatalf("unexpected payment record: %+v", p)
	}
	if p.Status != "completed" {
		t.Fatalf("status = %q, want completed", p.Status)
	}

	w, err := wallets.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if w.Balance != 75+110 {
		t.Fatalf("balance = %d, want 185", w.Balance)
	}

	txs, err := wallets.ListTransactions(context.Background(), userID, 5)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if txs[0].Type != walletdomain.TypePurchase || txs[0].Amount != 110 {
		t.Fatalf("newest entry should be a 110 IXP purchase, got %+v", txs[0])
	}
}

func TestPurchaseCustomAmount(t *testing.T) {
	svc, wallets, userID := newTestService(t)

	p, err := svc.Purchase(context.Background(), userID, "custom", 37)
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if p.AmountCents != 37*99 {
		t.Fatalf("amount = %d, want %d", p.AmountCents, 37*99)
	}
	if p.BonusIXP != 0 {
		t.Fatalf("custom purchases earn no bonus, got %d", p.BonusIXP)
	}

	w, _ := wallets.Get(context.Background(), userID)
	if w.Balance != 75+37 {
		t.Fatalf("balance = %d, want 112", w.Balance)
	}
}

func TestPurchaseValidation(t *testing.T) {
	svc, _, userID := newTestService(t)

	if _, err := svc.Purchase(context.Background(), userID, "platinum", 0); !errors.Is(err, ErrUnknownPackage) {
		t.Fatalf("err = %v, want ErrUnknownPackage", err)
	}
	if _, err := svc.Purchase(context.Background(), userID, "custom", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	svc, _, userID := newTestService(t)

	if _, err := svc.Purchase(context.Background(), userID, "starter", 0); err != nil {
		t.Fatalf("Purchase starter: %v", err)
	}
	if _, err := svc.Purchase(context.Background(), userID, "business", 0); err != nil {
		t.Fatalf("Purchase business: %v", err)
	}

	history, err := svc.History(context.Background(), userID, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want 2", len(history))
	}
	if history[0].PackageID != "business" || history[1].PackageID != "starter" {
		t.Fatalf("history not newest first: %+v", history)
	}
}

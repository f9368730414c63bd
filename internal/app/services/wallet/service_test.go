package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/flowmatic-labs/platform/internal/app/domain/wallet"
	"github.com/flowmatic-labs/platform/internal/app/storage/memory"
)

func TestService_GetOrCreateSeedsAllowance(t *testing.T) {
	svc := New(memory.New(), nil)

	w, err := svc.GetOrCreate(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if w.Balance != 75 {
		t.Fatalf("base tier wallet should start at 75, got %d", w.Balance)
	}
	if w.SubscriptionTier != domain.TierFounder {
		t.Fatalf("unexpected tier: %s", w.SubscriptionTier)
	}
	if w.TotalEarned != 75 {
		t.Fatalf("total earned should match allowance, got %d", w.TotalEarned)
	}

	txs, err := svc.ListTransactions(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != domain.TypeAllowance || txs[0].Amount != 75 {
		t.Fatalf("expected a single allowance entry, got %+v", txs)
	}

	again, err := svc.GetOrCreate(context.Background(), "u1", "scale")
	if err != nil {
		t.Fatalf("second get or create: %v", err)
	}
	if again.ID != w.ID || again.Balance != 75 {
		t.Fatalf("get or create must be idempotent, got %+v", again)
	}
}

func TestService_GetOrCreateGrowthTier(t *testing.T) {
	svc := New(memory.New(), nil)

	w, err := svc.GetOrCreate(context.Background(), "u1", "growth")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if w.Balance != 150 || w.MonthlyAllowance != 150 {
		t.Fatalf("growth tier should seed 150, got %+v", w)
	}
}

func TestService_DebitInsufficientLeavesStateUnchanged(t *testing.T) {
	svc := New(memory.New(), nil)
	if _, err := svc.GetOrCreate(context.Background(), "u1", ""); err != nil {
		t.Fatalf("get or create: %v", err)
	}

	_, _, err := svc.Debit(context.Background(), "u1", 100, "too much", "")
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	w, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if w.Balance != 75 || w.TotalSpent != 0 {
		t.Fatalf("failed debit must not change the wallet, got %+v", w)
	}
	txs, _ := svc.ListTransactions(context.Background(), "u1", 10)
	if len(txs) != 1 {
		t.Fatalf("failed debit must not append to the ledger, got %d entries", len(txs))
	}
}

func TestService_SpendOnServiceUsesPriceTable(t *testing.T) {
	svc := New(memory.New(), nil)
	if _, err := svc.GetOrCreate(context.Background(), "u1", ""); err != nil {
		t.Fatalf("get or create: %v", err)
	}

	w, tx, err := svc.SpendOnService(context.Background(), "u1", "taxPrep")
	if err != nil {
		t.Fatalf("spend: %v", err)
	}
	if tx.Amount != 30 || w.Balance != 45 {
		t.Fatalf("taxPrep should cost 30, got amount=%d balance=%d", tx.Amount, w.Balance)
	}

	_, tx, err = svc.SpendOnService(context.Background(), "u1", "somethingNew")
	if err != nil {
		t.Fatalf("spend default: %v", err)
	}
	if tx.Amount != domain.DefaultServiceCost {
		t.Fatalf("unknown services should cost the default, got %d", tx.Amount)
	}
}

func TestService_ListTransactionsNewestFirst(t *testing.T) {
	svc := New(memory.New(), nil)
	if _, err := svc.GetOrCreate(context.Background(), "u1", ""); err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if _, _, err := svc.Debit(context.Background(), "u1", 10, "first debit", ""); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if _, _, err := svc.Credit(context.Background(), "u1", 5, domain.TypeCredit, "refund", ""); err != nil {
		t.Fatalf("credit: %v", err)
	}

	txs, err := svc.ListTransactions(context.Background(), "u1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("limit not applied, got %d", len(txs))
	}
	if txs[0].Description != "refund" || txs[1].Description != "first debit" {
		t.Fatalf("expected newest first, got %q then %q", txs[0].Description, txs[1].Description)
	}
	if txs[0].BalanceAfter != 70 {
		t.Fatalf("balance after should snapshot the ledger, got %d", txs[0].BalanceAfter)
	}
}

func TestService_CreditRejectsDebitType(t *testing.T) {
	svc := New(memory.New(), nil)
	if _, err := svc.GetOrCreate(context.Background(), "u1", ""); err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if _, _, err := svc.Credit(context.Background(), "u1", 5, domain.TypeDebit, "", ""); err == nil {
		t.Fatal("credit must reject the debit type")
	}
	if _, _, err := svc.Credit(context.Background(), "u1", 0, domain.TypeCredit, "", ""); err == nil {
		t.Fatal("credit must reject non-positive amounts")
	}
}

func TestService_MonthlyAllowanceIdempotentWithinMonth(t *testing.T) {
	svc := New(memory.New(), nil)
	w, err := svc.GetOrCreate(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}

	now := time.Now().UTC()
	granted, err := svc.GrantMonthlyAllowance(context.Background(), w.ID, now)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if granted {
		t.Fatal("allowance already granted this month at provisioning")
	}

	nextMonth := now.AddDate(0, 1, 0)
	granted, err = svc.GrantMonthlyAllowance(context.Background(), w.ID, nextMonth)
	if err != nil {
		t.Fatalf("grant next month: %v", err)
	}
	if !granted {
		t.Fatal("allowance due in a new month")
	}

	granted, err = svc.GrantMonthlyAllowance(context.Background(), w.ID, nextMonth)
	if err != nil {
		t.Fatalf("repeat grant: %v", err)
	}
	if granted {
		t.Fatal("second grant in the same month must be a no-op")
	}

	updated, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.Balance != 150 {
		t.Fatalf("expected 75 seed + 75 grant, got %d", updated.Balance)
	}
	if !updated.LastAllowanceAt.Equal(nextMonth.UTC()) {
		t.Fatalf("last allowance at = %v, want grant time %v", updated.LastAllowanceAt, nextMonth.UTC())
	}

	txs, err := svc.ListTransactions(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 2 || txs[0].Type != domain.TypeAllowance {
		t.Fatalf("expected the grant as the newest ledger entry, got %+v", txs)
	}
	if !txs[0].CreatedAt.Equal(updated.LastAllowanceAt) {
		t.Fatalf("grant entry time %v and wallet stamp %v must match", txs[0].CreatedAt, updated.LastAllowanceAt)
	}
}

package automation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "github.com/flowmatic-labs/platform/internal/app/domain/automation"
	walletdomain "github.com/flowmatic-labs/platform/internal/app/domain/wallet"
	walletsvc "github.com/flowmatic-labs/platform/internal/app/services/wallet"
	"github.com/flowmatic-labs/platform/internal/app/storage/memory"
)

func newTestService(t *testing.T, webhookURL string) (*Service, *walletsvc.Service, string) {
	t.Helper()

	store := memory.New()
	wallets := walletsvc.New(store, nil)
	if _, err := wallets.GetOrCreate(context.Background(), "user-1", walletdomain.TierFounder); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	dispatcher, err := NewWebhookDispatcher(nil, webhookURL, "", nil)
	if err != nil {
		t.Fatalf("NewWebhookDispatcher: %v", err)
	}
	return New(store, wallets, dispatcher, nil), wallets, "user-1"
}

func TestTriggerDebitsWalletAndRecordsInteraction(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","message":"report queued"}`))
	}))
	defer srv.Close()

	svc, wallets, userID := newTestService(t, srv.URL)

	in, err := svc.Trigger(context.Background(), userID, "expenseTracking", "manual", map[string]string{"period": "monthly"})
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if !in.Success {
		t.Fatal("expected successful interaction")
	}
	if in.Message != "report queued" {
		t.Fatalf("message = %q, want remote acknowledgement", in.Message)
	}
	if gotPath != "/expense-tracking" {
		t.Fatalf("webhook path = %q, want /expense-tracking", gotPath)
	}

	w, err := wallets.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if w.Balance != 75-15 {
		t.Fatalf("balance = %d, want 60", w.Balance)
	}
}

func TestTriggerUnknownService(t *testing.T) {
	svc, _, userID := newTestService(t, "http://localhost:5678/webhook")

	if _, err := svc.Trigger(context.Background(), userID, "mining", "manual", nil); !errors.Is(err, ErrUnknownService) {
		t.Fatalf("err = %v, want ErrUnknownService", err)
	}
}

func TestTriggerDispatchFailureRefundsWallet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	svc, wallets, userID := newTestService(t, srv.URL)

	in, err := svc.Trigger(context.Background(), userID, "taxPrep", "manual", nil)
	if !errors.Is(err, ErrDispatchFailed) {
		t.Fatalf("err = %v, want ErrDispatchFailed", err)
	}
	if in.Success {
		t.Fatal("interaction should be recorded as failed")
	}

	w, err := wallets.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if w.Balance != 75 {
		t.Fatalf("balance = %d, want refund back to 75", w.Balance)
	}

	history, err := svc.ListInteractions(context.Background(), userID, 10)
	if err != nil {
		t.Fatalf("ListInteractions: %v", err)
	}
	if len(history) != 1 || history[0].ServiceTag != "taxPrep" || history[0].Success {
		t.Fatalf("unexpected interaction history: %+v", history)
	}

	txs, err := wallets.ListTransactions(context.Background(), userID, 10)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	// refund credit, failed debit, initial allowance
	if len(txs) != 3 {
		t.Fatalf("transactions = %d, want 3", len(txs))
	}
	if txs[0].Type != walletdomain.TypeCredit || txs[0].Amount != 30 {
		t.Fatalf("newest entry should be the 30 IXP refund, got %+v", txs[0])
	}
}

func TestTriggerInsufficientBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	svc, wallets, userID := newTestService(t, srv.URL)

	if _, _, err := wallets.Debit(context.Background(), userID, 70, "setup fee", ""); err != nil {
		t.Fatalf("Debit: %v", err)
	}

	if _, err := svc.Trigger(context.Background(), userID, "taxPrep", "manual", nil); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}

	w, _ := wallets.Get(context.Background(), userID)
	if w.Balance != 5 {
		t.Fatalf("balance = %d, want unchanged 5", w.Balance)
	}
}

func TestTriggerRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			http.Error(w, "try again", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	svc, _, userID := newTestService(t, srv.URL)

	in, err := svc.Trigger(context.Background(), userID, "marketing", "manual", nil)
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if !in.Success {
		t.Fatal("expected success after retry")
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
}

func TestDispatcherMaxRetriesZeroDisablesRetries(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	dispatcher, err := NewWebhookDispatcher(nil, srv.URL, "", nil)
	if err != nil {
		t.Fatalf("NewWebhookDispatcher: %v", err)
	}
	dispatcher.WithMaxRetries(0)

	def, ok := domain.ServiceByTag("marketing")
	if !ok {
		t.Fatal("marketing service missing from catalog")
	}
	if _, err := dispatcher.Dispatch(context.Background(), def, "user-1", nil); err == nil {
		t.Fatal("expected dispatch failure")
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestDispatcherReturnsAcknowledgement(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","message":"scheduled"}`))
	}))
	defer srv.Close()

	dispatcher, err := NewWebhookDispatcher(nil, srv.URL, "", nil)
	if err != nil {
		t.Fatalf("NewWebhookDispatcher: %v", err)
	}

	def, ok := domain.ServiceByTag("seo")
	if !ok {
		t.Fatal("seo service missing from catalog")
	}
	msg, err := dispatcher.Dispatch(context.Background(), def, "user-1", nil)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if msg != "scheduled" {
		t.Fatalf("message = %q, want %q", msg, "scheduled")
	}
}

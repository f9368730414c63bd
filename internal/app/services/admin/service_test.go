package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/flowmatic-labs/platform/internal/app/domain/admin"
	"github.com/flowmatic-labs/platform/internal/app/domain/onboarding"
	"github.com/flowmatic-labs/platform/internal/app/domain/user"
	walletdomain "github.com/flowmatic-labs/platform/internal/app/domain/wallet"
	walletsvc "github.com/flowmatic-labs/platform/internal/app/services/wallet"
	"github.com/flowmatic-labs/platform/internal/app/storage/memory"
)

type fixture struct {
	svc     *Service
	store   *memory.Store
	wallets *walletsvc.Service
	adminID string
	userID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	wallets := walletsvc.New(store, nil)
	ctx := context.Background()

	adm, err := store.CreateUser(ctx, user.User{
		Email: "admin@example.com", FullName: "Ada Admin",
		Role: user.RoleAdmin, Status: user.StatusActive,
	})
	if err != nil {
		t.Fatalf("CreateUser admin: %v", err)
	}
	u, err := store.CreateUser(ctx, user.User{
		Email: "member@example.com", FullName: "Mo Member",
		Role: user.RoleUser, Status: user.StatusActive,
	})
	if err != nil {
		t.Fatalf("CreateUser member: %v", err)
	}
	if _, err := wallets.GetOrCreate(ctx, u.ID, walletdomain.TierFounder); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	hostStub := func(ctx context.Context) (domain.HostSnapshot, error) {
		return domain.HostSnapshot{CPUPercent: 12.5, MemoryPercent: 40, UptimeSeconds: 3600}, nil
	}
	svc := New(store, store, store, store, store, store, wallets, hostStub, nil)
	return &fixture{svc: svc, store: store, wallets: wallets, adminID: adm.ID, userID: u.ID}
}

func TestListUsersJoinsWalletAndOnboarding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.store.UpsertProfile(ctx, onboarding.Profile{
		UserID: f.userID, BusinessType: "LLC", BusinessGoals: []string{"Automate repetitive tasks"},
	}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	rows, err := f.svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	var member domain.UserOverview
	for _, r := range rows {
		if r.ID == f.userID {
			member = r
		}
	}
	if member.Balance != 75 {
		t.Fatalf("balance = %d, want 75", member.Balance)
	}
	if !member.Onboarded {
		t.Fatal("member should be flagged onboarded")
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)

	st, err := f.svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalUsers != 2 {
		t.Fatalf("total users = %d, want 2", st.TotalUsers)
	}
	if st.IXPInCirculation != 75 {
		t.Fatalf("circulation = %d, want 75", st.IXPInCirculation)
	}
	if st.Host.CPUPercent != 12.5 || st.Host.UptimeSeconds != 3600 {
		t.Fatalf("host snapshot not included: %+v", st.Host)
	}
}

func TestUpdateUserRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	updated, err := f.svc.UpdateUserRole(ctx, f.adminID, f.userID, user.RoleAdmin)
	if err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	if updated.Role != user.RoleAdmin {
		t.Fatalf("role = %q, want admin", updated.Role)
	}

	if _, err := f.svc.UpdateUserRole(ctx, f.adminID, f.adminID, user.RoleUser); !errors.Is(err, ErrSelfAction) {
		t.Fatalf("self demotion err = %v, want ErrSelfAction", err)
	}
	if _, err := f.svc.UpdateUserRole(ctx, f.adminID, f.userID, "owner"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("bad role err = %v, want ErrInvalidRole", err)
	}

	actions, err := f.svc.Actions(ctx, 10)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(actions) != 1 || actions[0].Action != domain.ActionUpdateRole || actions[0].TargetUserID != f.userID {
		t.Fatalf("unexpected audit trail: %+v", actions)
	}
}

func TestSuspendRevokesSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.store.CreateSession(ctx, user.Session{
		UserID:    f.userID,
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if _, err := f.svc.UpdateUserStatus(ctx, f.adminID, f.userID, user.StatusSuspended); err != nil {
		t.Fatalf("UpdateUserStatus: %v", err)
	}

	got, err := f.store.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Active(time.Now().UTC()) {
		t.Fatal("session should be revoked after suspension")
	}
}

func TestDeleteUserCleansUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.DeleteUser(ctx, f.adminID, f.adminID); !errors.Is(err, ErrSelfAction) {
		t.Fatalf("self delete err = %v, want ErrSelfAction", err)
	}

	if err := f.svc.DeleteUser(ctx, f.adminID, f.userID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if _, err := f.store.GetUser(ctx, f.userID); err == nil {
		t.Fatal("user should be gone")
	}
	if _, err := f.wallets.Get(ctx, f.userID); !errors.Is(err, walletsvc.ErrNotFound) {
		t.Fatalf("wallet err = %v, want ErrNotFound", err)
	}

	if err := f.svc.DeleteUser(ctx, f.adminID, "no-such-user"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user err = %v, want ErrNotFound", err)
	}
}

func TestCreditWallet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	w, err := f.svc.CreditWallet(ctx, f.adminID, f.userID, 25, "goodwill credit")
	if err != nil {
		t.Fatalf("CreditWallet: %v", err)
	}
	if w.Balance != 100 {
		t.Fatalf("balance = %d, want 100", w.Balance)
	}

	actions, _ := f.svc.Actions(ctx, 10)
	if len(actions) != 1 || actions[0].Action != domain.ActionCreditWallet {
		t.Fatalf("unexpected audit trail: %+v", actions)
	}
}

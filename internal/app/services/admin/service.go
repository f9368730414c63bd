// Package admin implements the administrative panel: user management, the
// audit trail, and platform statistics.
package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/flowmatic-labs/platform/internal/app/domain/admin"
	"github.com/flowmatic-labs/platform/internal/app/domain/user"
	walletdomain "github.com/flowmatic-labs/platform/internal/app/domain/wallet"
	"github.com/flowmatic-labs/platform/internal/app/storage"
	"github.com/flowmatic-labs/platform/pkg/logger"
)

var (
	// ErrNotFound indicates the target user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrSelfAction indicates an admin tried to demote, suspend or delete
	// their own account.
	ErrSelfAction = errors.New("admins cannot modify their own account")
	// ErrInvalidRole indicates an unrecognised role value.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidStatus indicates an unrecognised status value.
	ErrInvalidStatus = errors.New("invalid status")
)

// Ledger is the wallet surface admin operations need.
type Ledger interface {
	Credit(ctx context.Context, userID string, amount int64, txType, description, serviceTag string) (walletdomain.Wallet, walletdomain.Transaction, error)
	TotalBalance(ctx context.Context) (int64, error)
}

// HostStatsFunc samples resource usage of the serving host.
type HostStatsFunc func(ctx context.Context) (domain.HostSnapshot, error)

// Service implements the admin panel operations. Every mutation is written
// to the audit trail.
type Service struct {
	users        storage.UserStore
	sessions     storage.SessionStore
	wallets      storage.WalletStore
	profiles     storage.OnboardingStore
	interactions storage.InteractionStore
	audit        storage.AdminStore
	ledger       Ledger
	hostStats    HostStatsFunc
	log          *logger.Logger
}

// New creates the admin service. hostStats may be nil, in which case Stats
// reports an empty host snapshot.
func New(
	users storage.UserStore,
	sessions storage.SessionStore,
	wallets storage.WalletStore,
	profiles storage.OnboardingStore,
	interactions storage.InteractionStore,
	audit storage.AdminStore,
	ledger Ledger,
	hostStats HostStatsFunc,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.NewDefault("admin")
	}
	return &Service{
		users:        users,
		sessions:     sessions,
		wallets:      wallets,
		profiles:     profiles,
		interactions: interactions,
		audit:        audit,
		ledger:       ledger,
		hostStats:    hostStats,
		log:          log,
	}
}

// ListUsers returns every account joined with its wallet balance and
// onboarding state, for the admin user table.
func (s *Service) ListUsers(ctx context.Context) ([]domain.UserOverview, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]domain.UserOverview, 0, len(users))
	for _, u := range users {
		row := domain.UserOverview{
			ID:           u.ID,
			Email:        u.Email,
			FullName:     u.FullName,
			BusinessName: u.BusinessName,
			Role:         u.Role,
			Status:       u.Status,
			CreatedAt:    u.CreatedAt,
		}
		if w, err := s.wallets.GetWalletByUser(ctx, u.ID); err == nil {
			row.Balance = w.Balance
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("wallet for user %s: %w", u.ID, err)
		}
		if _, err := s.profiles.GetProfile(ctx, u.ID); err == nil {
			row.Onboarded = true
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("profile for user %s: %w", u.ID, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// Stats returns the aggregate dashboard counters. Host sampling failures are
// logged and leave the snapshot zeroed rather than failing the call.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	var st domain.Stats
	var err error

	if st.TotalUsers, err = s.users.CountUsers(ctx); err != nil {
		return domain.Stats{}, fmt.Errorf("count users: %w", err)
	}
	if st.OnboardedUsers, err = s.profiles.CountProfiles(ctx); err != nil {
		return domain.Stats{}, fmt.Errorf("count profiles: %w", err)
	}
	if st.TotalInteractions, err = s.interactions.CountInteractions(ctx); err != nil {
		return domain.Stats{}, fmt.Errorf("count interactions: %w", err)
	}
	if st.IXPInCirculation, err = s.ledger.TotalBalance(ctx); err != nil {
		return domain.Stats{}, fmt.Errorf("total balance: %w", err)
	}

	if s.hostStats != nil {
		snap, err := s.hostStats(ctx)
		if err != nil {
			s.log.WithError(err).Warn("failed to sample host stats")
		} else {
			st.Host = snap
		}
	}
	return st, nil
}

// UpdateUserRole changes the target's role. Admins cannot change their own
// role.
func (s *Service) UpdateUserRole(ctx context.Context, adminID, userID, role string) (user.User, error) {
	if !user.ValidRole(role) {
		return user.User{}, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}
	if adminID == userID {
		return user.User{}, ErrSelfAction
	}

	u, err := s.getUser(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	u.Role = role
	updated, err := s.users.UpdateUser(ctx, u)
	if err != nil {
		return user.User{}, fmt.Errorf("update user %s: %w", userID, err)
	}

	s.record(ctx, adminID, domain.ActionUpdateRole, userID, fmt.Sprintf("role set to %s", role))
	return updated, nil
}

// UpdateUserStatus changes the target's status. Suspending revokes every
// active session. Admins cannot change their own status.
func (s *Service) UpdateUserStatus(ctx context.Context, adminID, userID, status string) (user.User, error) {
	if !user.ValidStatus(status) {
		return user.User{}, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if adminID == userID {
		return user.User{}, ErrSelfAction
	}

	u, err := s.getUser(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	u.Status = status
	updated, err := s.users.UpdateUser(ctx, u)
	if err != nil {
		return user.User{}, fmt.Errorf("update user %s: %w", userID, err)
	}

	if status == user.StatusSuspended {
		if err := s.sessions.RevokeUserSessions(ctx, userID, time.Now().UTC()); err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("failed to revoke sessions on suspension")
		}
	}

	s.record(ctx, adminID, domain.ActionUpdateStatus, userID, fmt.Sprintf("status set to %s", status))
	return updated, nil
}

// DeleteUser removes the account together with its sessions, wallet and
// onboarding profile. Admins cannot delete themselves.
func (s *Service) DeleteUser(ctx context.Context, adminID, userID string) error {
	if adminID == userID {
		return ErrSelfAction
	}
	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}

	if err := s.sessions.RevokeUserSessions(ctx, userID, time.Now().UTC()); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("failed to revoke sessions on deletion")
	}
	if err := s.wallets.DeleteWallet(ctx, userID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete wallet for %s: %w", userID, err)
	}
	if err := s.profiles.DeleteProfile(ctx, userID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete profile for %s: %w", userID, err)
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}

	s.record(ctx, adminID, domain.ActionDeleteUser, userID, "account deleted")
	return nil
}

// CreditWallet grants IXP to the target's wallet with an audit entry.
func (s *Service) CreditWallet(ctx context.Context, adminID, userID string, amount int64, reason string) (walletdomain.Wallet, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return walletdomain.Wallet{}, err
	}
	if reason == "" {
		reason = "admin credit"
	}

	w, _, err := s.ledger.Credit(ctx, userID, amount, walletdomain.TypeCredit, reason, "")
	if err != nil {
		return walletdomain.Wallet{}, fmt.Errorf("credit wallet for %s: %w", userID, err)
	}

	s.record(ctx, adminID, domain.ActionCreditWallet, userID, fmt.Sprintf("%d IXP: %s", amount, reason))
	return w, nil
}

// Actions returns the audit trail, newest first. A non-positive limit
// defaults to 50.
func (s *Service) Actions(ctx context.Context, limit int) ([]domain.Action, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.audit.ListAdminActions(ctx, limit)
}

func (s *Service) getUser(ctx context.Context, id string) (user.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return user.User{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return user.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (s *Service) record(ctx context.Context, adminID, action, targetID, detail string) {
	_, err := s.audit.CreateAdminAction(ctx, domain.Action{
		AdminID:      adminID,
		Action:       action,
		TargetUserID: targetID,
		Detail:       detail,
	})
	if err != nil {
		s.log.WithError(err).
			WithField("action", action).
			WithField("target", targetID).
			Error("failed to write audit entry")
		return
	}
	s.log.WithField("admin_id", adminID).
		WithField("action", action).
		WithField("target", targetID).
		Info("admin action recorded")
}

// Package postgres implements the storage interfaces on PostgreSQL via sqlx.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	admindomain "github.com/flowmatic-labs/platform/internal/app/domain/admin"
	"github.com/flowmatic-labs/platform/internal/app/domain/automation"
	"github.com/flowmatic-labs/platform/internal/app/domain/onboarding"
	"github.com/flowmatic-labs/platform/internal/app/domain/payment"
	"github.com/flowmatic-labs/platform/internal/app/domain/user"
	"github.com/flowmatic-labs/platform/internal/app/domain/wallet"
	"github.com/flowmatic-labs/platform/internal/app/storage"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store is a PostgreSQL-backed implementation of the storage interfaces.
type Store struct {
	db *sqlx.DB
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.SessionStore = (*Store)(nil)
var _ storage.OnboardingStore = (*Store)(nil)
var _ storage.WalletStore = (*Store)(nil)
var _ storage.InteractionStore = (*Store)(nil)
var _ storage.PaymentStore = (*Store)(nil)
var _ storage.AdminStore = (*Store)(nil)

// New wraps an open database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Migrate applies all pending schema migrations.
func (s *Store) Migrate() error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	driver, err := migratepg.WithInstance(s.db.DB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("prepare migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("prepare migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// UserStore implementation ----------------------------------------------------

const userColumns = `id, email, password_hash, full_name, business_name, role, status, created_at, updated_at`

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, business_name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Email, u.PasswordHash, u.FullName, u.BusinessName, u.Role, u.Status, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, fmt.Errorf("user %s: %w", u.Email, storage.ErrDuplicate)
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
	}
	if err != nil {
		return user.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u user.User) (user.User, error) {
	u.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET full_name = $1, business_name = $2, role = $3, status = $4, password_hash = $5, updated_at = $6
		WHERE id = $7`,
		u.FullName, u.BusinessName, u.Role, u.Status, u.PasswordHash, u.UpdatedAt, u.ID)
	if err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrNotFound)
	}
	return s.GetUser(ctx, u.ID)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	users := []user.User{}
	err := s.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// SessionStore implementation -------------------------------------------------

func (s *Store) CreateSession(ctx context.Context, sess user.Session) (user.Session, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, issued_at, expires_at, revoked_at)
		VALUES ($1, $2, $3, $4, $5)`,
		sess.ID, sess.UserID, sess.IssuedAt, sess.ExpiresAt, sess.RevokedAt)
	if err != nil {
		return user.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

func (s *Store) GetSession(ctx context.Context, id string) (user.Session, error) {
	var sess user.Session
	err := s.db.GetContext(ctx, &sess, `SELECT id, user_id, issued_at, expires_at, revoked_at FROM sessions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return user.Session{}, fmt.Errorf("session %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return user.Session{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *Store) RevokeSession(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		// Already revoked or unknown; distinguish for callers.
		var exists bool
		if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`, id); err != nil {
			return fmt.Errorf("revoke session: %w", err)
		}
		if !exists {
			return fmt.Errorf("session %s: %w", id, storage.ErrNotFound)
		}
	}
	return nil
}

func (s *Store) RevokeUserSessions(ctx context.Context, userID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET revoked_at = $1 WHERE user_id = $2 AND revoked_at IS NULL`, at.UTC(), userID)
	if err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}
	return nil
}

// OnboardingStore implementation ----------------------------------------------

const profileColumns = `id, user_id, business_type, industry, company_size, annual_revenue,
	business_goals, pain_points, current_tools, budget_range, timeline,
	completed_at, created_at, updated_at`

func scanProfile(row sqlx.ColScanner) (onboarding.Profile, error) {
	var p onboarding.Profile
	var goals, pains, tools pq.StringArray
	err := row.Scan(&p.ID, &p.UserID, &p.BusinessType, &p.Industry, &p.CompanySize, &p.AnnualRevenue,
		&goals, &pains, &tools, &p.BudgetRange, &p.Timeline,
		&p.CompletedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return onboarding.Profile{}, err
	}
	p.BusinessGoals = []string(goals)
	p.PainPoints = []string(pains)
	p.CurrentTools = []string(tools)
	return p, nil
}

func (s *Store) UpsertProfile(ctx context.Context, p onboarding.Profile) (onboarding.Profile, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CompletedAt.IsZero() {
		p.CompletedAt = now
	}

	row := s.db.QueryRowxContext(ctx, `
		INSERT INTO onboarding_profiles (id, user_id, business_type, industry, company_size, annual_revenue,
			business_goals, pain_points, current_tools, budget_range, timeline,
			completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			business_type = EXCLUDED.business_type,
			industry = EXCLUDED.industry,
			company_size = EXCLUDED.company_size,
			annual_revenue = EXCLUDED.annual_revenue,
			business_goals = EXCLUDED.business_goals,
			pain_points = EXCLUDED.pain_points,
			current_tools = EXCLUDED.current_tools,
			budget_range = EXCLUDED.budget_range,
			timeline = EXCLUDED.timeline,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at
		RETURNING `+profileColumns,
		p.ID, p.UserID, p.BusinessType, p.Industry, p.CompanySize, p.AnnualRevenue,
		pq.StringArray(p.BusinessGoals), pq.StringArray(p.PainPoints), pq.StringArray(p.CurrentTools),
		p.BudgetRange, p.Timeline, p.CompletedAt, now)

	saved, err := scanProfile(row)
	if err != nil {
		return onboarding.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return saved, nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (onboarding.Profile, error) {
	row := s.db.QueryRowxContext(ctx, `SELECT `+profileColumns+` FROM onboarding_profiles WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return onboarding.Profile{}, fmt.Errorf("profile for user %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return onboarding.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *Store) DeleteProfile(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM onboarding_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("profile for user %s: %w", userID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) CountProfiles(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM onboarding_profiles`); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return count, nil
}

// WalletStore implementation --------------------------------------------------

const walletColumns = `id, user_id, balance, monthly_allowance, total_earned, total_spent,
	subscription_tier, last_allowance_at, created_at, updated_at`

func (s *Store) CreateWallet(ctx context.Context, w wallet.Wallet, initial *wallet.Transaction) (wallet.Wallet, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	if w.LastAllowanceAt.IsZero() {
		w.LastAllowanceAt = now
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("begin create wallet: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if initial != nil {
		w.Balance += initial.Amount
		w.TotalEarned += initial.Amount
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO wallets (id, user_id, balance, monthly_allowance, total_earned, total_spent,
			subscription_tier, last_allowance_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		w.ID, w.UserID, w.Balance, w.MonthlyAllowance, w.TotalEarned, w.TotalSpent,
		w.SubscriptionTier, w.LastAllowanceAt, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return wallet.Wallet{}, fmt.Errorf("wallet for user %s: %w", w.UserID, storage.ErrDuplicate)
		}
		return wallet.Wallet{}, fmt.Errorf("insert wallet: %w", err)
	}

	if initial != nil {
		entry := *initial
		entry.ID = uuid.NewString()
		entry.WalletID = w.ID
		entry.UserID = w.UserID
		entry.BalanceAfter = w.Balance
		entry.CreatedAt = now
		if err := insertTransaction(ctx, tx, entry); err != nil {
			return wallet.Wallet{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return wallet.Wallet{}, fmt.Errorf("commit create wallet: %w", err)
	}
	return w, nil
}

func (s *Store) GetWallet(ctx context.Context, id string) (wallet.Wallet, error) {
	var w wallet.Wallet
	err := s.db.GetContext(ctx, &w, `SELECT `+walletColumns+` FROM wallets WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return wallet.Wallet{}, fmt.Errorf("wallet %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("get wallet: %w", err)
	}
	return w, nil
}

func (s *Store) GetWalletByUser(ctx context.Context, userID string) (wallet.Wallet, error) {
	var w wallet.Wallet
	err := s.db.GetContext(ctx, &w, `SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return wallet.Wallet{}, fmt.Errorf("wallet for user %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("get wallet by user: %w", err)
	}
	return w, nil
}

func (s *Store) ListWallets(ctx context.Context) ([]wallet.Wallet, error) {
	wallets := []wallet.Wallet{}
	err := s.db.SelectContext(ctx, &wallets, `SELECT `+walletColumns+` FROM wallets ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	return wallets, nil
}

func (s *Store) DeleteWallet(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM wallets WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("wallet for user %s: %w", userID, storage.ErrNotFound)
	}
	return nil
}

// Adjust applies one ledger entry inside a transaction. The wallet row is
// locked with FOR UPDATE so concurrent debits serialise per wallet, and the
// balance check happens against the locked row.
func (s *Store) Adjust(ctx context.Context, walletID string, entry wallet.Transaction) (wallet.Wallet, wallet.Transaction, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return wallet.Wallet{}, wallet.Transaction{}, fmt.Errorf("begin adjust: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var w wallet.Wallet
	err = tx.GetContext(ctx, &w, `SELECT `+walletColumns+` FROM wallets WHERE id = $1 FOR UPDATE`, walletID)
	if errors.Is(err, sql.ErrNoRows) {
		return wallet.Wallet{}, wallet.Transaction{}, fmt.Errorf("wallet %s: %w", walletID, storage.ErrNotFound)
	}
	if err != nil {
		return wallet.Wallet{}, wallet.Transaction{}, fmt.Errorf("lock wallet: %w", err)
	}

	if wallet.IsDebit(entry.Type) {
		if w.Balance < entry.Amount {
			return wallet.Wallet{}, wallet.Transaction{}, fmt.Errorf("wallet %s: %w", walletID, storage.ErrInsufficientBalance)
		}
		w.Balance -= entry.Amount
		w.TotalSpent += entry.Amount
	} else {
		w.Balance += entry.Amount
		w.TotalEarned += entry.Amount
	}

	now := time.Now().UTC()
	entryAt := now
	if !entry.CreatedAt.IsZero() {
		entryAt = entry.CreatedAt.UTC()
	}
	w.UpdatedAt = now
	if entry.Type == wallet.TypeAllowance {
		w.LastAllowanceAt = entryAt
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE wallets SET balance = $1, total_earned = $2, total_spent = $3, last_allowance_at = $4, updated_at = $5 WHERE id = $6`,
		w.Balance, w.TotalEarned, w.TotalSpent, w.LastAllowanceAt, w.UpdatedAt, w.ID)
	if err != nil {
		return wallet.Wallet{}, wallet.Transaction{}, fmt.Errorf("update wallet: %w", err)
	}

	entry.ID = uuid.NewString()
	entry.WalletID = w.ID
	entry.UserID = w.UserID
	entry.BalanceAfter = w.Balance
	entry.CreatedAt = entryAt
	if err := insertTransaction(ctx, tx, entry); err != nil {
		return wallet.Wallet{}, wallet.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		return wallet.Wallet{}, wallet.Transaction{}, fmt.Errorf("commit adjust: %w", err)
	}
	return w, entry, nil
}

func insertTransaction(ctx context.Context, tx *sqlx.Tx, entry wallet.Transaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO wallet_transactions (id, wallet_id, user_id, type, amount, balance_after, description, service_tag, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.WalletID, entry.UserID, entry.Type, entry.Amount, entry.BalanceAfter,
		entry.Description, entry.ServiceTag, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, userID string, limit int) ([]wallet.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	txs := []wallet.Transaction{}
	err := s.db.SelectContext(ctx, &txs, `
		SELECT id, wallet_id, user_id, type, amount, balance_after, description, service_tag, created_at
		FROM wallet_transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *Store) TotalBalance(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(balance), 0) FROM wallets`); err != nil {
		return 0, fmt.Errorf("total balance: %w", err)
	}
	return total, nil
}

// InteractionStore implementation ---------------------------------------------

func (s *Store) CreateInteraction(ctx context.Context, in automation.Interaction) (automation.Interaction, error) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	in.CreatedAt = time.Now().UTC()

	details := in.Details
	if details == nil {
		details = map[string]string{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return automation.Interaction{}, fmt.Errorf("encode interaction details: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO interactions (id, user_id, service_tag, trigger_type, details, success, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		in.ID, in.UserID, in.ServiceTag, in.TriggerType, raw, in.Success, in.Message, in.CreatedAt)
	if err != nil {
		return automation.Interaction{}, fmt.Errorf("insert interaction: %w", err)
	}
	return in, nil
}

func (s *Store) ListInteractions(ctx context.Context, userID string, limit int) ([]automation.Interaction, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, user_id, service_tag, trigger_type, details, success, message, created_at
		FROM interactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	result := []automation.Interaction{}
	for rows.Next() {
		var in automation.Interaction
		var raw []byte
		if err := rows.Scan(&in.ID, &in.UserID, &in.ServiceTag, &in.TriggerType, &raw, &in.Success, &in.Message, &in.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &in.Details); err != nil {
				return nil, fmt.Errorf("decode interaction details: %w", err)
			}
		}
		result = append(result, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return result, nil
}

func (s *Store) CountInteractions(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM interactions`); err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return count, nil
}

// PaymentStore implementation -------------------------------------------------

func (s *Store) CreatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, user_id, package_id, amount_cents, credits_ixp, bonus_ixp, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.UserID, p.PackageID, p.AmountCents, p.CreditsIXP, p.BonusIXP, p.Status, p.CreatedAt)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	return p, nil
}

func (s *Store) ListPayments(ctx context.Context, userID string, limit int) ([]payment.Payment, error) {
	if limit <= 0 {
		limit = 20
	}
	payments := []payment.Payment{}
	err := s.db.SelectContext(ctx, &payments, `
		SELECT id, user_id, package_id, amount_cents, credits_ixp, bonus_ixp, status, created_at
		FROM payments WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// AdminStore implementation ---------------------------------------------------

func (s *Store) CreateAdminAction(ctx context.Context, a admindomain.Action) (admindomain.Action, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_actions (id, admin_id, action, target_user_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.AdminID, a.Action, a.TargetUserID, a.Detail, a.CreatedAt)
	if err != nil {
		return admindomain.Action{}, fmt.Errorf("insert admin action: %w", err)
	}
	return a, nil
}

func (s *Store) ListAdminActions(ctx context.Context, limit int) ([]admindomain.Action, error) {
	if limit <= 0 {
		limit = 50
	}
	actions := []admindomain.Action{}
	err := s.db.SelectContext(ctx, &actions, `
		SELECT id, admin_id, action, target_user_id, detail, created_at
		FROM admin_actions ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list admin actions: %w", err)
	}
	return actions, nil
}

package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	admindomain "github.com/flowmatic-labs/platform/internal/app/domain/admin"
	"github.com/flowmatic-labs/platform/internal/app/domain/automation"
	"github.com/flowmatic-labs/platform/internal/app/domain/onboarding"
	"github.com/flowmatic-labs/platform/internal/app/domain/payment"
	"github.com/flowmatic-labs/platform/internal/app/domain/user"
	"github.com/flowmatic-labs/platform/internal/app/domain/wallet"
	"github.com/flowmatic-labs/platform/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local development.
type Store struct {
	mu            sync.RWMutex
	nextID        int64
	users         map[string]user.User
	usersByEmail  map[string]string
	sessions      map[string]user.Session
	profiles      map[string]onboarding.Profile
	wallets       map[string]wallet.Wallet
	walletsByUser map[string]string
	transactions  map[string][]wallet.Transaction
	interactions  map[string][]automation.Interaction
	payments      map[string][]payment.Payment
	adminActions  []admindomain.Action
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.SessionStore = (*Store)(nil)
var _ storage.OnboardingStore = (*Store)(nil)
var _ storage.WalletStore = (*Store)(nil)
var _ storage.InteractionStore = (*Store)(nil)
var _ storage.PaymentStore = (*Store)(nil)
var _ storage.AdminStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:        1,
		users:         make(map[string]user.User),
		usersByEmail:  make(map[string]string),
		sessions:      make(map[string]user.Session),
		profiles:      make(map[string]onboarding.Profile),
		wallets:       make(map[string]wallet.Wallet),
		walletsByUser: make(map[string]string),
		transactions:  make(map[string][]wallet.Transaction),
		interactions:  make(map[string][]automation.Interaction),
		payments:      make(map[string][]payment.Payment),
	}
}

func (s *Store) nextIDLocked() string {
	id := s.nextID
	s.nextID++
	return fmt.Sprintf("%d", id)
}

// UserStore implementation ----------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(u.Email))
	if _, exists := s.usersByEmail[email]; exists {
		return user.User{}, fmt.Errorf("user %s: %w", email, storage.ErrDuplicate)
	}

	if u.ID == "" {
		u.ID = s.nextIDLocked()
	} else if _, exists := s.users[u.ID]; exists {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrDuplicate)
	}

	now := time.Now().UTC()
	u.Email = email
	u.CreatedAt = now
	u.UpdatedAt = now

	s.users[u.ID] = u
	s.usersByEmail[email] = u.ID
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
	}
	return s.users[id], nil
}

func (s *Store) UpdateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.users[u.ID]
	if !ok {
		return user.User{}, fmt.Errorf("user %s: %w", u.ID, storage.ErrNotFound)
	}

	u.Email = original.Email
	u.CreatedAt = original.CreatedAt
	u.UpdatedAt = time.Now().UTC()

	s.users[u.ID] = u
	return u, nil
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	delete(s.users, id)
	delete(s.usersByEmail, u.Email)
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		result = append(result, u)
	}
	return result, nil
}

func (s *Store) CountUsers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

// SessionStore implementation -------------------------------------------------

func (s *Store) CreateSession(_ context.Context, sess user.Session) (user.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.ID == "" {
		sess.ID = s.nextIDLocked()
	} else if _, exists := s.sessions[sess.ID]; exists {
		return user.Session{}, fmt.Errorf("session %s: %w", sess.ID, storage.ErrDuplicate)
	}

	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *Store) GetSession(_ context.Context, id string) (user.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return user.Session{}, fmt.Errorf("session %s: %w", id, storage.ErrNotFound)
	}
	return sess, nil
}

func (s *Store) RevokeSession(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("session %s: %w", id, storage.ErrNotFound)
	}
	if sess.RevokedAt == nil {
		revoked := at.UTC()
		sess.RevokedAt = &revoked
		s.sessions[id] = sess
	}
	return nil
}

func (s *Store) RevokeUserSessions(_ context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	revoked := at.UTC()
	for id, sess := range s.sessions {
		if sess.UserID == userID && sess.RevokedAt == nil {
			sess.RevokedAt = &revoked
			s.sessions[id] = sess
		}
	}
	return nil
}

// OnboardingStore implementation ----------------------------------------------

func (s *Store) UpsertProfile(_ context.Context, p onboarding.Profile) (onboarding.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.profiles[p.UserID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		if p.ID == "" {
			p.ID = s.nextIDLocked()
		}
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.CompletedAt.IsZero() {
		p.CompletedAt = now
	}
	p.BusinessGoals = cloneStrings(p.BusinessGoals)
	p.PainPoints = cloneStrings(p.PainPoints)
	p.CurrentTools = cloneStrings(p.CurrentTools)

	s.profiles[p.UserID] = p
	return cloneProfile(p), nil
}

func (s *Store) GetProfile(_ context.Context, userID string) (onboarding.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return onboarding.Profile{}, fmt.Errorf("profile for user %s: %w", userID, storage.ErrNotFound)
	}
	return cloneProfile(p), nil
}

func (s *Store) DeleteProfile(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[userID]; !ok {
		return fmt.Errorf("profile for user %s: %w", userID, storage.ErrNotFound)
	}
	delete(s.profiles, userID)
	return nil
}

func (s *Store) CountProfiles(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles), nil
}

// WalletStore implementation --------------------------------------------------

func (s *Store) CreateWallet(_ context.Context, w wallet.Wallet, initial *wallet.Transaction) (wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.walletsByUser[w.UserID]; exists {
		return wallet.Wallet{}, fmt.Errorf("wallet for user %s: %w", w.UserID, storage.ErrDuplicate)
	}

	if w.ID == "" {
		w.ID = s.nextIDLocked()
	}

	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	if w.LastAllowanceAt.IsZero() {
		w.LastAllowanceAt = now
	}

	if initial != nil {
		tx := *initial
		tx.ID = s.nextIDLocked()
		tx.WalletID = w.ID
		tx.UserID = w.UserID
		tx.CreatedAt = now
		w.Balance += tx.Amount
		w.TotalEarned += tx.Amount
		tx.BalanceAfter = w.Balance
		s.transactions[w.UserID] = append(s.transactions[w.UserID], tx)
	}

	s.wallets[w.ID] = w
	s.walletsByUser[w.UserID] = w.ID
	return w, nil
}

func (s *Store) GetWallet(_ context.Context, id string) (wallet.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.wallets[id]
	if !ok {
		return wallet.Wallet{}, fmt.Errorf("wallet %s: %w", id, storage.ErrNotFound)
	}
	return w, nil
}

func (s *Store) GetWalletByUser(_ context.Context, userID string) (wallet.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.walletsByUser[userID]
	if !ok {
		return wallet.Wallet{}, fmt.Errorf("wallet for user %s: %w", userID, storage.ErrNotFound)
	}
	return s.wallets[id], nil
}

func (s *Store) ListWallets(_ context.Context) ([]wallet.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]wallet.Wallet, 0, len(s.wallets))
	for _, w := range s.wallets {
		result = append(result, w)
	}
	return result, nil
}

func (s *Store) DeleteWallet(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.walletsByUser[userID]
	if !ok {
		return fmt.Errorf("wallet for user %s: %w", userID, storage.ErrNotFound)
	}
	delete(s.wallets, id)
	delete(s.walletsByUser, userID)
	delete(s.transactions, userID)
	return nil
}

// Adjust applies one ledger entry under the store lock, so balance update and
// transaction append are indivisible.
func (s *Store) Adjust(_ context.Context, walletID string, tx wallet.Transaction) (wallet.Wallet, wallet.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[walletID]
	if !ok {
		return wallet.Wallet{}, wallet.Transaction{}, fmt.Errorf("wallet %s: %w", walletID, storage.ErrNotFound)
	}

	if wallet.IsDebit(tx.Type) {
		if w.Balance < tx.Amount {
			return wallet.Wallet{}, wallet.Transaction{}, fmt.Errorf("wallet %s: %w", walletID, storage.ErrInsufficientBalance)
		}
		w.Balance -= tx.Amount
		w.TotalSpent += tx.Amount
	} else {
		w.Balance += tx.Amount
		w.TotalEarned += tx.Amount
	}

	now := time.Now().UTC()
	entryAt := now
	if !tx.CreatedAt.IsZero() {
		entryAt = tx.CreatedAt.UTC()
	}
	w.UpdatedAt = now
	if tx.Type == wallet.TypeAllowance {
		w.LastAllowanceAt = entryAt
	}
	tx.ID = s.nextIDLocked()
	tx.WalletID = w.ID
	tx.UserID = w.UserID
	tx.BalanceAfter = w.Balance
	tx.CreatedAt = entryAt

	s.wallets[w.ID] = w
	s.transactions[w.UserID] = append(s.transactions[w.UserID], tx)
	return w, tx, nil
}

func (s *Store) ListTransactions(_ context.Context, userID string, limit int) ([]wallet.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.transactions[userID]
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}

	// Entries are appended in order, so newest-first is a reverse walk.
	result := make([]wallet.Transaction, 0, limit)
	for i := len(all) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, all[i])
	}
	return result, nil
}

func (s *Store) TotalBalance(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, w := range s.wallets {
		total += w.Balance
	}
	return total, nil
}

// InteractionStore implementation ---------------------------------------------

func (s *Store) CreateInteraction(_ context.Context, in automation.Interaction) (automation.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.ID == "" {
		in.ID = s.nextIDLocked()
	}
	in.CreatedAt = time.Now().UTC()
	in.Details = cloneDetails(in.Details)

	s.interactions[in.UserID] = append(s.interactions[in.UserID], in)
	return in, nil
}

func (s *Store) ListInteractions(_ context.Context, userID string, limit int) ([]automation.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.interactions[userID]
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}

	result := make([]automation.Interaction, 0, limit)
	for i := len(all) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, all[i])
	}
	return result, nil
}

func (s *Store) CountInteractions(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, list := range s.interactions {
		total += len(list)
	}
	return total, nil
}

// PaymentStore implementation -------------------------------------------------

func (s *Store) CreatePayment(_ context.Context, p payment.Payment) (payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = s.nextIDLocked()
	}
	p.CreatedAt = time.Now().UTC()

	s.payments[p.UserID] = append(s.payments[p.UserID], p)
	return p, nil
}

func (s *Store) ListPayments(_ context.Context, userID string, limit int) ([]payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.payments[userID]
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}

	result := make([]payment.Payment, 0, limit)
	for i := len(all) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, all[i])
	}
	return result, nil
}

// AdminStore implementation ---------------------------------------------------

func (s *Store) CreateAdminAction(_ context.Context, a admindomain.Action) (admindomain.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = s.nextIDLocked()
	}
	a.CreatedAt = time.Now().UTC()

	s.adminActions = append(s.adminActions, a)
	return a, nil
}

func (s *Store) ListAdminActions(_ context.Context, limit int) ([]admindomain.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.adminActions
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}

	result := make([]admindomain.Action, 0, limit)
	for i := len(all) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, all[i])
	}
	return result, nil
}

// Helpers ----------------------------------------------------------------------

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	return append([]string(nil), src...)
}

func cloneDetails(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func cloneProfile(p onboarding.Profile) onboarding.Profile {
	p.BusinessGoals = cloneStrings(p.BusinessGoals)
	p.PainPoints = cloneStrings(p.PainPoints)
	p.CurrentTools = cloneStrings(p.CurrentTools)
	return p
}

// Package accounts handles registration, sign-in and session verification.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/flowmatic-labs/platform/internal/app/domain/user"
	"github.com/flowmatic-labs/platform/internal/app/domain/wallet"
	"github.com/flowmatic-labs/platform/internal/app/storage"
	"github.com/flowmatic-labs/platform/pkg/logger"
)

// Sentinel errors surfaced to transports.
var (
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so sign-in cannot be used to probe for accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserSuspended indicates a suspended account.
	ErrUserSuspended = errors.New("account suspended")
	// ErrSessionInvalid indicates a missing, expired or revoked session.
	ErrSessionInvalid = errors.New("session invalid")
	// ErrNotFound indicates an unknown user.
	ErrNotFound = errors.New("user not found")
)

const (
	bcryptCost      = 10
	minPasswordLen  = 8
	defaultTokenTTL = 24 * time.Hour
)

// WalletProvisioner creates the user's wallet at registration.
type WalletProvisioner interface {
	GetOrCreate(ctx context.Context, userID, tier string) (wallet.Wallet, error)
}

// Service implements account management backed by the user and session stores.
type Service struct {
	users    storage.UserStore
	sessions storage.SessionStore
	wallets  WalletProvisioner
	secret   []byte
	tokenTTL time.Duration
	log      *logger.Logger
}

// New creates the accounts service. secret signs session tokens.
func New(users storage.UserStore, sessions storage.SessionStore, wallets WalletProvisioner, secret []byte, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("accounts")
	}
	return &Service{
		users:    users,
		sessions: sessions,
		wallets:  wallets,
		secret:   secret,
		tokenTTL: defaultTokenTTL,
		log:      log,
	}
}

// WithTokenTTL overrides the session lifetime. Call before issuing sessions.
func (s *Service) WithTokenTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.tokenTTL = ttl
	}
	return s
}

// SignUp registers a new account and provisions its base-tier wallet.
// Emails are stored lowercased; a duplicate returns ErrEmailTaken.
func (s *Service) SignUp(ctx context.Context, email, password, fullName, businessName string) (user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return user.User{}, fmt.Errorf("email is required")
	}
	if !strings.Contains(email, "@") {
		return user.User{}, fmt.Errorf("email is not valid")
	}
	if len(password) < minPasswordLen {
		return user.User{}, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.CreateUser(ctx, user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
		BusinessName: strings.TrimSpace(businessName),
		Role:         user.RoleUser,
		Status:       user.StatusActive,
	})
	if errors.Is(err, storage.ErrDuplicate) {
		return user.User{}, ErrEmailTaken
	}
	if err != nil {
		return user.User{}, err
	}

	if s.wallets != nil {
		if _, err := s.wallets.GetOrCreate(ctx, created.ID, wallet.TierFounder); err != nil {
			// Wallet creation retries lazily on first wallet access.
			s.log.WithError(err).WithField("user_id", created.ID).Warn("wallet provisioning failed at signup")
		}
	}

	s.log.WithField("user_id", created.ID).Info("user registered")
	return created, nil
}

// SignIn verifies credentials and issues a session plus a signed token.
func (s *Service) SignIn(ctx context.Context, email, password string) (user.User, user.Session, string, error) {
	u, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, storage.ErrNotFound) {
		return user.User{}, user.Session{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return user.User{}, user.Session{}, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return user.User{}, user.Session{}, "", ErrInvalidCredentials
	}
	if u.Status == user.StatusSuspended {
		return user.User{}, user.Session{}, "", ErrUserSuspended
	}

	now := time.Now().UTC()
	sess, err := s.sessions.CreateSession(ctx, user.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokenTTL),
	})
	if err != nil {
		return user.User{}, user.Session{}, "", err
	}

	token, err := s.signToken(u.ID, sess)
	if err != nil {
		return user.User{}, user.Session{}, "", err
	}

	s.log.WithField("user_id", u.ID).WithField("session_id", sess.ID).Info("user signed in")
	return u, sess, token, nil
}

// Authenticate verifies a bearer token and resolves its session and user.
// Revoked and expired sessions fail with ErrSessionInvalid.
func (s *Service) Authenticate(ctx context.Context, token string) (user.User, user.Session, error) {
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid || claims.ID == "" {
		return user.User{}, user.Session{}, ErrSessionInvalid
	}

	sess, err := s.sessions.GetSession(ctx, claims.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return user.User{}, user.Session{}, ErrSessionInvalid
	}
	if err != nil {
		return user.User{}, user.Session{}, err
	}
	if !sess.Active(time.Now().UTC()) {
		return user.User{}, user.Session{}, ErrSessionInvalid
	}

	u, err := s.users.GetUser(ctx, sess.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return user.User{}, user.Session{}, ErrSessionInvalid
	}
	if err != nil {
		return user.User{}, user.Session{}, err
	}
	if u.Status == user.StatusSuspended {
		return user.User{}, user.Session{}, ErrUserSuspended
	}
	return u, sess, nil
}

// SignOut revokes the session in place. Already-revoked sessions are a no-op.
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	err := s.sessions.RevokeSession(ctx, sessionID, time.Now().UTC())
	if errors.Is(err, storage.ErrNotFound) {
		return ErrSessionInvalid
	}
	return err
}

// RevokeAllSessions invalidates every session of a user. Used when an
// account is suspended or deleted.
func (s *Service) RevokeAllSessions(ctx context.Context, userID string) error {
	return s.sessions.RevokeUserSessions(ctx, userID, time.Now().UTC())
}

// Get returns a user by ID.
func (s *Service) Get(ctx context.Context, id string) (user.User, error) {
	u, err := s.users.GetUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return user.User{}, ErrNotFound
	}
	return u, err
}

func (s *Service) signToken(userID string, sess user.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ID:        sess.ID,
		IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

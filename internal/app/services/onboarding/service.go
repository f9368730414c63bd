// Package onboarding validates and stores business questionnaire answers,
// with a draft cache for in-progress forms.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/flowmatic-labs/platform/internal/app/domain/onboarding"
	"github.com/flowmatic-labs/platform/internal/app/storage"
	"github.com/flowmatic-labs/platform/pkg/logger"
)

var (
	// ErrNotFound indicates the user has no completed questionnaire.
	ErrNotFound = errors.New("onboarding profile not found")
	// ErrInvalid indicates an answer outside the published catalogs.
	ErrInvalid = errors.New("invalid questionnaire")
)

// DraftCache stores raw in-progress questionnaire payloads. Implementations
// may expire drafts at will; a missing draft is not an error.
type DraftCache interface {
	SaveDraft(ctx context.Context, userID string, payload []byte) error
	LoadDraft(ctx context.Context, userID string) ([]byte, error)
	ClearDraft(ctx context.Context, userID string) error
}

// Service manages questionnaire profiles.
type Service struct {
	profiles storage.OnboardingStore
	drafts   DraftCache
	log      *logger.Logger
}

// New creates the onboarding service. drafts may be nil, which disables the
// draft cache.
func New(profiles storage.OnboardingStore, drafts DraftCache, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("onboarding")
	}
	if drafts == nil {
		drafts = NewMemoryDraftCache()
	}
	return &Service{profiles: profiles, drafts: drafts, log: log}
}

// Submit validates and saves the questionnaire. Single-select answers must
// come from the published catalogs; resubmission replaces the previous
// profile. A successful submit clears any cached draft.
func (s *Service) Submit(ctx context.Context, userID string, p domain.Profile) (domain.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Profile{}, fmt.Errorf("user id is required")
	}
	if err := validate(p); err != nil {
		return domain.Profile{}, err
	}
	p.UserID = userID

	saved, err := s.profiles.UpsertProfile(ctx, p)
	if err != nil {
		return domain.Profile{}, err
	}

	if err := s.drafts.ClearDraft(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("clear draft failed")
	}

	s.log.WithField("user_id", userID).Info("onboarding submitted")
	return saved, nil
}

// Get returns the user's completed profile.
func (s *Service) Get(ctx context.Context, userID string) (domain.Profile, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Profile{}, ErrNotFound
	}
	return p, err
}

// HasCompleted reports whether the user finished the questionnaire.
func (s *Service) HasCompleted(ctx context.Context, userID string) (bool, error) {
	_, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SaveDraft caches a raw in-progress payload for the user.
func (s *Service) SaveDraft(ctx context.Context, userID string, payload []byte) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}
	if len(payload) == 0 {
		return fmt.Errorf("draft payload is empty")
	}
	return s.drafts.SaveDraft(ctx, userID, payload)
}

// LoadDraft returns the cached draft, or nil when none exists.
func (s *Service) LoadDraft(ctx context.Context, userID string) ([]byte, error) {
	return s.drafts.LoadDraft(ctx, userID)
}

// ClearDraft drops the cached draft.
func (s *Service) ClearDraft(ctx context.Context, userID string) error {
	return s.drafts.ClearDraft(ctx, userID)
}

func validate(p domain.Profile) error {
	checks := []struct {
		catalog []string
		value   string
		name    string
	}{
		{domain.BusinessTypes, p.BusinessType, "business type"},
		{domain.Industries, p.Industry, "industry"},
		{domain.CompanySizes, p.CompanySize, "company size"},
		{domain.RevenueRanges, p.AnnualRevenue, "annual revenue"},
		{domain.BudgetRanges, p.BudgetRange, "budget range"},
		{domain.Timelines, p.Timeline, "timeline"},
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalid, c.name)
		}
		if !domain.InCatalog(c.catalog, c.value) {
			return fmt.Errorf("%w: %s %q is not a valid choice", ErrInvalid, c.name, c.value)
		}
	}
	if len(p.BusinessGoals) == 0 {
		return fmt.Errorf("%w: at least one business goal is required", ErrInvalid)
	}
	return nil
}

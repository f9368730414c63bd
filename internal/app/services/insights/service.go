// Package insights derives the business health report from a completed
// questionnaire using a declarative rule table.
package insights

import (
	"context"
	"errors"

	"github.com/flowmatic-labs/platform/internal/app/domain/insight"
	"github.com/flowmatic-labs/platform/internal/app/domain/onboarding"
	"github.com/flowmatic-labs/platform/internal/app/storage"
	"github.com/flowmatic-labs/platform/pkg/logger"
)

// ErrNoProfile indicates the user has not completed onboarding, so there is
// nothing to score.
var ErrNoProfile = errors.New("onboarding profile required for insights")

// Service produces insight reports. The report is a pure read model; nothing
// is persisted.
type Service struct {
	profiles storage.OnboardingStore
	rules    ruleSet
	log      *logger.Logger
}

// New creates the insights service with the embedded rule table.
func New(profiles storage.OnboardingStore, log *logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.NewDefault("insights")
	}
	rules, err := loadRules(rulesYAML)
	if err != nil {
		return nil, err
	}
	return &Service{profiles: profiles, rules: rules, log: log}, nil
}

// Generate loads the user's profile and scores it.
func (s *Service) Generate(ctx context.Context, userID string) (insight.Report, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return insight.Report{}, ErrNoProfile
	}
	if err != nil {
		return insight.Report{}, err
	}
	return s.Score(p), nil
}

// Score evaluates the rule table against a profile.
func (s *Service) Score(p onboarding.Profile) insight.Report {
	score := s.rules.BaseScore
	for _, rule := range s.rules.ScoreRules {
		score += rule.points(p)
	}
	if score > s.rules.MaxScore {
		score = s.rules.MaxScore
	}

	strengths := []string{}
	for _, rule := range s.rules.Strengths.Rules {
		if allHold(rule.When, p) {
			strengths = append(strengths, rule.Text)
		}
	}
	if len(strengths) == 0 && s.rules.Strengths.Fallback != "" {
		strengths = append(strengths, s.rules.Strengths.Fallback)
	}

	lagging := []insight.LaggingArea{}
	for _, rule := range s.rules.Lagging {
		if allHold(rule.When, p) && anyHolds(rule.WhenAny, p) {
			lagging = append(lagging, insight.LaggingArea{
				Area:        rule.Area,
				Severity:    rule.Severity,
				Description: rule.Description,
			})
		}
	}

	recommendations := []insight.Recommendation{}
	for _, rule := range s.rules.Recommendations {
		if allHold(rule.When, p) {
			recommendations = append(recommendations, insight.Recommendation{
				Title:    rule.Title,
				Priority: rule.Priority,
				Action:   rule.Action,
			})
		}
	}

	actions := make([]insight.PriorityAction, 0, len(s.rules.PriorityActions))
	for _, a := range s.rules.PriorityActions {
		actions = append(actions, insight.PriorityAction{
			Action:    a.Action,
			Timeframe: a.Timeframe,
			Impact:    a.Impact,
		})
	}

	return insight.Report{
		Score:           score,
		Strengths:       strengths,
		Lagging:         lagging,
		Recommendations: recommendations,
		PriorityActions: actions,
	}
}

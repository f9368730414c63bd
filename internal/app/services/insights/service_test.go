package insights

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmatic-labs/platform/internal/app/domain/onboarding"
	"github.com/flowmatic-labs/platform/internal/app/storage/memory"
)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc, err := New(store, nil)
	require.NoError(t, err)
	return svc, store
}

func TestScore_ClampsAtHundred(t *testing.T) {
	svc, _ := newService(t)

	// 50 base + 15 revenue + 15 size + 12 goals + 10 tools + 10 budget = 112.
	report := svc.Score(onboarding.Profile{
		AnnualRevenue: "$100K+",
		CompanySize:   "51+ employees",
		BusinessGoals: []string{"Increase Revenue", "Scale Operations", "Reduce Costs", "Improve Marketing"},
		CurrentTools:  []string{"CRM", "Slack", "QuickBooks", "Zapier", "Trello"},
		BudgetRange:   "$1000+ per month",
	})
	assert.Equal(t, 100, report.Score)
}

func TestScore_PartialProfile(t *testing.T) {
	svc, _ := newService(t)

	tests := []struct {
		name    string
		profile onboarding.Profile
		want    int
	}{
		{
			name:    "base only",
			profile: onboarding.Profile{},
			want:    50,
		},
		{
			name: "mid band answers",
			profile: onboarding.Profile{
				AnnualRevenue: "$25K-$50K",
				CompanySize:   "6-10 employees",
				BusinessGoals: []string{"Reduce Costs", "Scale Operations"},
				CurrentTools:  []string{"Slack"},
				BudgetRange:   "$500-$1000 monthly",
			},
			// 50 + 5 + 5 + 6 + 2 + 5.
			want: 73,
		},
		{
			name: "goal points cap at fifteen",
			profile: onboarding.Profile{
				BusinessGoals: []string{"a", "b", "c", "d", "e", "f", "g"},
			},
			want: 65,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Score(tt.profile).Score)
		})
	}
}

func TestScore_StrengthsAndFallback(t *testing.T) {
	svc, _ := newService(t)

	report := svc.Score(onboarding.Profile{
		AnnualRevenue: "$100K+",
		BusinessGoals: []string{"Increase Revenue"},
	})
	assert.Contains(t, report.Strengths, "Strong revenue foundation")
	assert.Contains(t, report.Strengths, "Growth-focused mindset")

	empty := svc.Score(onboarding.Profile{})
	assert.Equal(t, []string{"Business foundation established"}, empty.Strengths)
}

func TestScore_LaggingAreas(t *testing.T) {
	svc, _ := newService(t)

	report := svc.Score(onboarding.Profile{
		PainPoints:    []string{"Manual bookkeeping", "Time management"},
		BusinessGoals: []string{"Improve Marketing"},
		CurrentTools:  []string{"Slack"},
	})

	areas := make([]string, 0, len(report.Lagging))
	for _, l := range report.Lagging {
		areas = append(areas, l.Area)
	}
	assert.Contains(t, areas, "Financial Management")
	assert.Contains(t, areas, "Operational Efficiency")
	assert.Contains(t, areas, "Marketing Automation")
	assert.Contains(t, areas, "Technology Integration")
}

func TestScore_Recommendations(t *testing.T) {
	svc, _ := newService(t)

	report := svc.Score(onboarding.Profile{
		BusinessGoals: []string{"Increase Revenue"},
		CurrentTools:  []string{"Slack"},
	})
	var titles []string
	for _, r := range report.Recommendations {
		titles = append(titles, r.Title)
	}
	assert.Contains(t, titles, "Customer Relationship Management")

	// A CRM in the toolset suppresses the CRM recommendation.
	withCRM := svc.Score(onboarding.Profile{
		BusinessGoals: []string{"Increase Revenue"},
		CurrentTools:  []string{"CRM"},
	})
	for _, r := range withCRM.Recommendations {
		assert.NotEqual(t, "Customer Relationship Management", r.Title)
	}
}

func TestGenerate_RequiresProfile(t *testing.T) {
	svc, store := newService(t)

	_, err := svc.Generate(context.Background(), "u1")
	require.True(t, errors.Is(err, ErrNoProfile))

	_, err = store.UpsertProfile(context.Background(), onboarding.Profile{
		UserID:        "u1",
		AnnualRevenue: "$100K+",
	})
	require.NoError(t, err)

	report, err := svc.Generate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 65, report.Score)
	assert.NotEmpty(t, report.PriorityActions)
}

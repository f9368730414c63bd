package insights

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flowmatic-labs/platform/internal/app/domain/onboarding"
)

//go:embed rules.yaml
var rulesYAML []byte

// ruleSet is the declarative scoring and advice table. It is data, not code:
// tuning the report means editing rules.yaml.
type ruleSet struct {
	BaseScore  int         `yaml:"base_score"`
	MaxScore   int         `yaml:"max_score"`
	ScoreRules []scoreRule `yaml:"score_rules"`
	Strengths  struct {
		Fallback string         `yaml:"fallback"`
		Rules    []strengthRule `yaml:"rules"`
	} `yaml:"strengths"`
	Lagging         []laggingRule        `yaml:"lagging"`
	Recommendations []recommendationRule `yaml:"recommendations"`
	PriorityActions []priorityActionRule `yaml:"priority_actions"`
}

type scoreRule struct {
	Field   string `yaml:"field"`
	PerItem int    `yaml:"per_item"`
	Cap     int    `yaml:"cap"`
	Matches []struct {
		Contains string `yaml:"contains"`
		Points   int    `yaml:"points"`
	} `yaml:"matches"`
}

type condition struct {
	Field    string `yaml:"field"`
	Contains string `yaml:"contains"`
	Includes string `yaml:"includes"`
	Excludes string `yaml:"excludes"`
	MinCount *int   `yaml:"min_count"`
	MaxCount *int   `yaml:"max_count"`
}

type strengthRule struct {
	Text string      `yaml:"text"`
	When []condition `yaml:"when"`
}

type laggingRule struct {
	Area        string      `yaml:"area"`
	Severity    string      `yaml:"severity"`
	Description string      `yaml:"description"`
	When        []condition `yaml:"when"`
	WhenAny     []condition `yaml:"when_any"`
}

type recommendationRule struct {
	Title    string      `yaml:"title"`
	Priority string      `yaml:"priority"`
	Action   string      `yaml:"action"`
	When     []condition `yaml:"when"`
}

type priorityActionRule struct {
	Action    string `yaml:"action"`
	Timeframe string `yaml:"timeframe"`
	Impact    string `yaml:"impact"`
}

func loadRules(raw []byte) (ruleSet, error) {
	var rs ruleSet
	if err := yaml.Unmarshal(raw, &rs); err != nil {
		return ruleSet{}, fmt.Errorf("parse insight rules: %w", err)
	}
	if rs.MaxScore <= 0 {
		rs.MaxScore = 100
	}
	return rs, nil
}

// fieldValue resolves a rule field against the profile. Scalar fields return
// a single-element list so count conditions work uniformly.
func fieldValue(p onboarding.Profile, field string) (scalar string, list []string, isList bool) {
	switch field {
	case "business_type":
		return p.BusinessType, nil, false
	case "industry":
		return p.Industry, nil, false
	case "company_size":
		return p.CompanySize, nil, false
	case "annual_revenue":
		return p.AnnualRevenue, nil, false
	case "budget_range":
		return p.BudgetRange, nil, false
	case "timeline":
		return p.Timeline, nil, false
	case "business_goals":
		return "", p.BusinessGoals, true
	case "pain_points":
		return "", p.PainPoints, true
	case "current_tools":
		return "", p.CurrentTools, true
	}
	return "", nil, false
}

func (c condition) holds(p onboarding.Profile) bool {
	scalar, list, isList := fieldValue(p, c.Field)

	if c.Contains != "" {
		if isList {
			return false
		}
		if !strings.Contains(scalar, c.Contains) {
			return false
		}
	}
	if c.Includes != "" && !contains(list, c.Includes) {
		return false
	}
	if c.Excludes != "" && contains(list, c.Excludes) {
		return false
	}
	if c.MinCount != nil && len(list) < *c.MinCount {
		return false
	}
	if c.MaxCount != nil && len(list) > *c.MaxCount {
		return false
	}
	return true
}

func allHold(conds []condition, p onboarding.Profile) bool {
	for _, c := range conds {
		if !c.holds(p) {
			return false
		}
	}
	return true
}

func anyHolds(conds []condition, p onboarding.Profile) bool {
	if len(conds) == 0 {
		return true
	}
	for _, c := range conds {
		if c.holds(p) {
			return true
		}
	}
	return false
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func (r scoreRule) points(p onboarding.Profile) int {
	scalar, list, isList := fieldValue(p, r.Field)

	if r.PerItem > 0 {
		pts := len(list) * r.PerItem
		if !isList {
			pts = 0
		}
		if r.Cap > 0 && pts > r.Cap {
			pts = r.Cap
		}
		return pts
	}

	for _, m := range r.Matches {
		if strings.Contains(scalar, m.Contains) {
			return m.Points
		}
	}
	return 0
}

// Package insight defines the business health report produced from a
// completed questionnaire profile.
package insight

// Severity and priority grades used across the report.
const (
	GradeHigh   = "high"
	GradeMedium = "medium"
	GradeLow    = "low"
)

// LaggingArea flags a part of the business that is holding growth back.
type LaggingArea struct {
	Area        string `json:"area"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// Recommendation is a suggested automation with a priority grade.
type Recommendation struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
	Action   string `json:"action"`
}

// PriorityAction is a concrete next step with a timeframe and expected impact.
type PriorityAction struct {
	Action    string `json:"action"`
	Timeframe string `json:"timeframe"`
	Impact    string `json:"impact"`
}

// Report is the full business health read model. Score is 0-100.
type Report struct {
	Score           int              `json:"score"`
	Strengths       []string         `json:"strengths"`
	Lagging         []LaggingArea    `json:"lagging_areas"`
	Recommendations []Recommendation `json:"recommendations"`
	PriorityActions []PriorityAction `json:"priority_actions"`
}

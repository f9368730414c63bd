// Package onboarding defines the business questionnaire profile and the
// catalogs of answers the questionnaire offers.
package onboarding

import "time"

// Profile captures a user's completed business questionnaire. One profile
// exists per user; resubmission replaces the previous answers.
type Profile struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	BusinessType  string    `json:"business_type" db:"business_type"`
	Industry      string    `json:"industry" db:"industry"`
	CompanySize   string    `json:"company_size" db:"company_size"`
	AnnualRevenue string    `json:"annual_revenue" db:"annual_revenue"`
	BusinessGoals []string  `json:"business_goals" db:"-"`
	PainPoints    []string  `json:"pain_points" db:"-"`
	CurrentTools  []string  `json:"current_tools" db:"-"`
	BudgetRange   string    `json:"budget_range" db:"budget_range"`
	Timeline      string    `json:"timeline" db:"timeline"`
	CompletedAt   time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

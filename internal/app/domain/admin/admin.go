// Package admin defines audit log entries and aggregate views used by the
// admin panel.
package admin

import "time"

// Audited admin actions.
const (
	ActionUpdateRole   = "update_role"
	ActionUpdateStatus = "update_status"
	ActionDeleteUser   = "delete_user"
	ActionCreditWallet = "credit_wallet"
)

// Action is one audited administrative operation.
type Action struct {
	ID           string    `json:"id" db:"id"`
	AdminID      string    `json:"admin_id" db:"admin_id"`
	Action       string    `json:"action" db:"action"`
	TargetUserID string    `json:"target_user_id" db:"target_user_id"`
	Detail       string    `json:"detail" db:"detail"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserOverview is one row of the admin user list: the account joined with
// its wallet balance and onboarding state.
type UserOverview struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	BusinessName string    `json:"business_name"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	Balance      int64     `json:"balance"`
	Onboarded    bool      `json:"onboarded"`
	CreatedAt    time.Time `json:"created_at"`
}

// HostSnapshot captures resource usage of the host serving the platform.
type HostSnapshot struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	UptimeSeconds uint64  `json:"uptime_seconds"`
}

// Stats are the aggregate platform counters shown on the admin dashboard.
type Stats struct {
	TotalUsers        int          `json:"total_users"`
	OnboardedUsers    int          `json:"onboarded_users"`
	TotalInteractions int          `json:"total_interactions"`
	IXPInCirculation  int64        `json:"ixp_in_circulation"`
	Host              HostSnapshot `json:"host"`
}

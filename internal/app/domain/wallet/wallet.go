// Package wallet defines the IXP credit ledger models: per-user wallets,
// ledger transactions, subscription tiers and service pricing.
package wallet

import "time"

// Transaction types. Credit, allowance and purchase increase the balance;
// debit decreases it.
const (
	TypeCredit    = "credit"
	TypeDebit     = "debit"
	TypeAllowance = "allowance"
	TypePurchase  = "purchase"
)

// Subscription tiers.
const (
	TierFounder = "founder"
	TierGrowth  = "growth"
	TierScale   = "scale"
)

// Tier describes a subscription plan and its monthly IXP allowance.
type Tier struct {
	Name             string `json:"name"`
	PriceUSD         int64  `json:"price_usd"`
	MonthlyAllowance int64  `json:"monthly_allowance"`
}

var tiers = map[string]Tier{
	TierFounder: {Name: TierFounder, PriceUSD: 297, MonthlyAllowance: 75},
	TierGrowth:  {Name: TierGrowth, PriceUSD: 597, MonthlyAllowance: 150},
	TierScale:   {Name: TierScale, PriceUSD: 1197, MonthlyAllowance: 350},
}

// TierByName resolves a tier by name. Unknown names fall back to the base
// founder tier.
func TierByName(name string) Tier {
	if t, ok := tiers[name]; ok {
		return t
	}
	return tiers[TierFounder]
}

// serviceCosts maps automation service tags to their IXP price.
var serviceCosts = map[string]int64{
	"expenseTracking": 15,
	"bookkeeping":     20,
	"payroll":         25,
	"taxPrep":         30,
	"marketing":       10,
	"socialMedia":     8,
	"emailCampaign":   12,
	"seo":             15,
}

// DefaultServiceCost applies to service tags without a dedicated price.
const DefaultServiceCost int64 = 10

// ServiceCost returns the IXP price for a service tag.
func ServiceCost(tag string) int64 {
	if cost, ok := serviceCosts[tag]; ok {
		return cost
	}
	return DefaultServiceCost
}

// Wallet is a user's IXP balance with lifetime counters.
type Wallet struct {
	ID               string    `json:"id" db:"id"`
	UserID           string    `json:"user_id" db:"user_id"`
	Balance          int64     `json:"balance" db:"balance"`
	MonthlyAllowance int64     `json:"monthly_allowance" db:"monthly_allowance"`
	TotalEarned      int64     `json:"total_earned" db:"total_earned"`
	TotalSpent       int64     `json:"total_spent" db:"total_spent"`
	SubscriptionTier string    `json:"subscription_tier" db:"subscription_tier"`
	LastAllowanceAt  time.Time `json:"last_allowance_at" db:"last_allowance_at"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Transaction is one ledger entry. Amount is always positive; the type
// decides the direction. BalanceAfter snapshots the wallet balance once the
// entry applied.
type Transaction struct {
	ID           string    `json:"id" db:"id"`
	WalletID     string    `json:"wallet_id" db:"wallet_id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Type         string    `json:"type" db:"type"`
	Amount       int64     `json:"amount" db:"amount"`
	BalanceAfter int64     `json:"balance_after" db:"balance_after"`
	Description  string    `json:"description" db:"description"`
	ServiceTag   string    `json:"service_tag,omitempty" db:"service_tag"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// IsDebit reports whether a transaction type reduces the balance.
func IsDebit(txType string) bool {
	return txType == TypeDebit
}

// ValidType reports whether txType is a known ledger entry type.
func ValidType(txType string) bool {
	switch txType {
	case TypeCredit, TypeDebit, TypeAllowance, TypePurchase:
		return true
	}
	return false
}

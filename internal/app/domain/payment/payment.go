// Package payment defines IXP credit packages and purchase history records.
package payment

import "time"

// CreditPackage is a purchasable bundle of IXP credits. Bonus credits are
// granted on top of the purchased amount.
type CreditPackage struct {
	ID         string `json:"id"`
	CreditsIXP int64  `json:"credits_ixp"`
	PriceCents int64  `json:"price_cents"`
	BonusIXP   int64  `json:"bonus_ixp"`
}

// Packages offered for purchase.
var packages = []CreditPackage{
	{ID: "starter", CreditsIXP: 50, PriceCents: 4900, BonusIXP: 0},
	{ID: "growth", CreditsIXP: 100, PriceCents: 8900, BonusIXP: 10},
	{ID: "business", CreditsIXP: 250, PriceCents: 19900, BonusIXP: 50},
	{ID: "enterprise", CreditsIXP: 500, PriceCents: 34900, BonusIXP: 150},
}

// CustomCreditPriceCents is the per-credit price for custom amounts. Custom
// purchases earn no bonus.
const CustomCreditPriceCents int64 = 99

// Packages returns the offered credit packages in display order.
func Packages() []CreditPackage {
	out := make([]CreditPackage, len(packages))
	copy(out, packages)
	return out
}

// PackageByID resolves a credit package by ID.
func PackageByID(id string) (CreditPackage, bool) {
	for _, p := range packages {
		if p.ID == id {
			return p, true
		}
	}
	return CreditPackage{}, false
}

// CustomPackage builds a package for an arbitrary credit amount.
func CustomPackage(credits int64) CreditPackage {
	return CreditPackage{
		ID:         "custom",
		CreditsIXP: credits,
		PriceCents: credits * CustomCreditPriceCents,
	}
}

// Payment statuses.
const (
	StatusCompleted = "completed"
)

// Payment is one completed credit purchase.
type Payment struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	PackageID   string    `json:"package_id" db:"package_id"`
	AmountCents int64     `json:"amount_cents" db:"amount_cents"`
	CreditsIXP  int64     `json:"credits_ixp" db:"credits_ixp"`
	BonusIXP    int64     `json:"bonus_ixp" db:"bonus_ixp"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

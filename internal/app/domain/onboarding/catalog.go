package onboarding

// Catalogs of answers offered by the questionnaire. Single-select answers
// are validated against these lists; multi-select answers accept any subset.

var BusinessTypes = []string{
	"Sole Proprietorship",
	"Partnership",
	"LLC",
	"Corporation",
	"Non-profit",
	"Startup",
	"Other",
}

var Industries = []string{
	"Technology",
	"Healthcare",
	"Finance",
	"Retail",
	"Manufacturing",
	"Education",
	"Real Estate",
	"Consulting",
	"Marketing",
	"Food & Beverage",
	"Other",
}

var CompanySizes = []string{
	"Just me (1)",
	"Small team (2-10)",
	"Medium business (11-50)",
	"Large business (51-200)",
	"Enterprise (200+)",
}

var RevenueRanges = []string{
	"Pre-revenue",
	"Under $50K",
	"$50K - $250K",
	"$250K - $1M",
	"$1M - $5M",
	"$5M+",
}

var BudgetRanges = []string{
	"Under $500/month",
	"$500 - $2,000/month",
	"$2,000 - $5,000/month",
	"$5,000 - $10,000/month",
	"$10,000+/month",
}

var BusinessGoals = []string{
	"Automate repetitive tasks",
	"Improve financial management",
	"Scale operations",
	"Reduce costs",
	"Increase revenue",
	"Better customer service",
	"Streamline workflows",
	"Data analysis & reporting",
	"Compliance management",
	"Team productivity",
}

var PainPoints = []string{
	"Manual data entry",
	"Disorganized finances",
	"Time-consuming processes",
	"Poor communication",
	"Lack of automation",
	"Difficulty scaling",
	"Compliance issues",
	"Data silos",
	"Inefficient workflows",
	"Limited reporting",
}

var CurrentTools = []string{
	"Excel/Google Sheets",
	"QuickBooks",
	"Salesforce",
	"HubSpot",
	"Slack",
	"Trello/Asana",
	"Zapier",
	"Custom software",
	"No automation tools",
	"Other",
}

var Timelines = []string{
	"Immediate (within 1 month)",
	"Short-term (1-3 months)",
	"Medium-term (3-6 months)",
	"Long-term (6+ months)",
}

// InCatalog reports whether value appears in the given catalog.
func InCatalog(catalog []string, value string) bool {
	for _, item := range catalog {
		if item == value {
			return true
		}
	}
	return false
}

// Catalogs bundles every answer list, keyed the way the API exposes them.
func Catalogs() map[string][]string {
	return map[string][]string{
		"business_types": BusinessTypes,
		"industries":     Industries,
		"company_sizes":  CompanySizes,
		"revenue_ranges": RevenueRanges,
		"budget_ranges":  BudgetRanges,
		"business_goals": BusinessGoals,
		"pain_points":    PainPoints,
		"current_tools":  CurrentTools,
		"timelines":      Timelines,
	}
}

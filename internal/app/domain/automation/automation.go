// Package automation defines the catalog of automatable business services
// and the interaction log recorded for every dispatch attempt.
package automation

import "time"

// Config field kinds rendered by clients.
const (
	FieldSelect = "select"
	FieldSwitch = "switch"
	FieldInput  = "input"
	FieldNumber = "number"
)

// ConfigField describes one configurable option of a service.
type ConfigField struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
	Default any      `json:"default,omitempty"`
}

// ServiceDefinition describes an automatable service: pricing, the webhook
// path it dispatches to and the configuration fields it accepts.
type ServiceDefinition struct {
	Tag         string        `json:"tag"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	WebhookPath string        `json:"webhook_path"`
	CostIXP     int64         `json:"cost_ixp"`
	Fields      []ConfigField `json:"fields,omitempty"`
}

// Interaction records one dispatch attempt, successful or not.
type Interaction struct {
	ID          string            `json:"id" db:"id"`
	UserID      string            `json:"user_id" db:"user_id"`
	ServiceTag  string            `json:"service_tag" db:"service_tag"`
	TriggerType string            `json:"trigger_type" db:"trigger_type"`
	Details     map[string]string `json:"details,omitempty" db:"-"`
	Success     bool              `json:"success" db:"success"`
	Message     string            `json:"message" db:"message"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
}

var catalog = []ServiceDefinition{
	{
		Tag:         "expenseTracking",
		Name:        "Expense Tracking",
		Description: "Sync bank transactions and categorise expenses automatically.",
		WebhookPath: "expense-tracking",
		CostIXP:     15,
		Fields: []ConfigField{
			{Name: "bankConnection", Label: "Bank Connection", Type: FieldSelect, Options: []string{"Chase", "Bank of America", "Wells Fargo", "Manual Upload"}},
			{Name: "categories", Label: "Auto-Categorize", Type: FieldSwitch, Default: true},
			{Name: "frequency", Label: "Sync Frequency", Type: FieldSelect, Options: []string{"Daily", "Weekly", "Monthly"}},
			{Name: "reportEmail", Label: "Email Reports To", Type: FieldInput},
			{Name: "threshold", Label: "Alert Threshold ($)", Type: FieldNumber},
		},
	},
	{
		Tag:         "bookkeeping",
		Name:        "Bookkeeping",
		Description: "Reconcile accounts and produce books on a schedule.",
		WebhookPath: "bookkeeping",
		CostIXP:     20,
		Fields: []ConfigField{
			{Name: "accountingSoftware", Label: "Accounting Software", Type: FieldSelect, Options: []string{"QuickBooks", "Xero", "FreshBooks", "Manual"}},
			{Name: "autoReconcile", Label: "Auto Reconciliation", Type: FieldSwitch, Default: true},
			{Name: "reportFrequency", Label: "Report Frequency", Type: FieldSelect, Options: []string{"Weekly", "Monthly", "Quarterly"}},
			{Name: "backupEnabled", Label: "Auto Backup", Type: FieldSwitch, Default: true},
			{Name: "notifications", Label: "Notification Email", Type: FieldInput},
		},
	},
	{
		Tag:         "payroll",
		Name:        "Payroll",
		Description: "Run payroll with tax filing and direct deposit.",
		WebhookPath: "payroll",
		CostIXP:     25,
		Fields: []ConfigField{
			{Name: "payrollProvider", Label: "Payroll Provider", Type: FieldSelect, Options: []string{"ADP", "Gusto", "Paychex", "Manual"}},
			{Name: "payFrequency", Label: "Pay Frequency", Type: FieldSelect, Options: []string{"Weekly", "Bi-weekly", "Monthly"}},
			{Name: "autoTaxFiling", Label: "Auto Tax Filing", Type: FieldSwitch, Default: true},
			{Name: "directDeposit", Label: "Direct Deposit", Type: FieldSwitch, Default: true},
			{Name: "hrEmail", Label: "HR Notification Email", Type: FieldInput},
		},
	},
	{
		Tag:         "taxPrep",
		Name:        "Tax Preparation",
		Description: "Gather documents and prepare filings ahead of deadlines.",
		WebhookPath: "tax-prep",
		CostIXP:     30,
		Fields: []ConfigField{
			{Name: "taxSoftware", Label: "Tax Software", Type: FieldSelect, Options: []string{"TurboTax", "H&R Block", "TaxAct", "Manual"}},
			{Name: "autoGather", Label: "Auto Gather Documents", Type: FieldSwitch, Default: true},
			{Name: "filingType", Label: "Filing Type", Type: FieldSelect, Options: []string{"Federal Only", "Federal + State", "All"}},
			{Name: "reminderDays", Label: "Reminder Days Before Deadline", Type: FieldNumber, Default: 30},
			{Name: "cpaEmail", Label: "CPA Email (Optional)", Type: FieldInput},
		},
	},
	{
		Tag:         "marketing",
		Name:        "Marketing Campaigns",
		Description: "Plan and launch marketing campaigns automatically.",
		WebhookPath: "marketing",
		CostIXP:     10,
	},
	{
		Tag:         "socialMedia",
		Name:        "Social Media",
		Description: "Schedule and publish social media content.",
		WebhookPath: "social-media",
		CostIXP:     8,
	},
	{
		Tag:         "emailCampaign",
		Name:        "Email Campaigns",
		Description: "Build and send automated email sequences.",
		WebhookPath: "email-campaign",
		CostIXP:     12,
	},
	{
		Tag:         "seo",
		Name:        "SEO Optimization",
		Description: "Audit pages and apply search optimisations.",
		WebhookPath: "seo",
		CostIXP:     15,
	},
}

// Catalog returns every service definition in display order.
func Catalog() []ServiceDefinition {
	out := make([]ServiceDefinition, len(catalog))
	copy(out, catalog)
	return out
}

// ServiceByTag resolves a service definition by tag.
func ServiceByTag(tag string) (ServiceDefinition, bool) {
	for _, def := range catalog {
		if def.Tag == tag {
			return def, true
		}
	}
	return ServiceDefinition{}, false
}

package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/flowmatic-labs/platform/internal/app/services/accounts"
	adminsvc "github.com/flowmatic-labs/platform/internal/app/services/admin"
	automationsvc "github.com/flowmatic-labs/platform/internal/app/services/automation"
	chatbotsvc "github.com/flowmatic-labs/platform/internal/app/services/chatbot"
	insightssvc "github.com/flowmatic-labs/platform/internal/app/services/insights"
	onboardingsvc "github.com/flowmatic-labs/platform/internal/app/services/onboarding"
	paymentssvc "github.com/flowmatic-labs/platform/internal/app/services/payments"
	walletsvc "github.com/flowmatic-labs/platform/internal/app/services/wallet"
	"github.com/flowmatic-labs/platform/internal/app/storage"
	"github.com/flowmatic-labs/platform/internal/app/storage/memory"
	"github.com/flowmatic-labs/platform/internal/app/system"
	"github.com/flowmatic-labs/platform/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Users        storage.UserStore
	Sessions     storage.SessionStore
	Onboarding   storage.OnboardingStore
	Wallets      storage.WalletStore
	Interactions storage.InteractionStore
	Payments     storage.PaymentStore
	Admin        storage.AdminStore
}

// Options configure optional application integrations.
type Options struct {
	// JWTSecret signs session tokens.
	JWTSecret []byte
	// TokenTTL overrides the default session lifetime when positive.
	TokenTTL time.Duration
	// WebhookBaseURL is the base endpoint automation triggers post to.
	WebhookBaseURL string
	// WebhookAPIKey, when set, is sent as a bearer token on dispatches.
	WebhookAPIKey string
	// WebhookTimeout bounds a single dispatch attempt. Non-positive values
	// use the dispatcher default.
	WebhookTimeout time.Duration
	// WebhookMaxRetries is how often a retryable dispatch failure is
	// retried. Zero disables retries; negative values use the default.
	WebhookMaxRetries int
	// Drafts, when set, caches in-progress onboarding questionnaires.
	Drafts onboardingsvc.DraftCache
}

// Application ties domain services together and manages their lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Accounts    *accounts.Service
	Onboarding  *onboardingsvc.Service
	Wallets     *walletsvc.Service
	Insights    *insightssvc.Service
	Automations *automationsvc.Service
	Payments    *paymentssvc.Service
	Admin       *adminsvc.Service
	Chatbot     *chatbotsvc.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, opts Options, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}
	if len(opts.JWTSecret) == 0 {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if opts.WebhookBaseURL == "" {
		opts.WebhookBaseURL = "http://localhost:5678/webhook"
	}

	mem := memory.New()
	if stores.Users == nil {
		stores.Users = mem
	}
	if stores.Sessions == nil {
		stores.Sessions = mem
	}
	if stores.Onboarding == nil {
		stores.Onboarding = mem
	}
	if stores.Wallets == nil {
		stores.Wallets = mem
	}
	if stores.Interactions == nil {
		stores.Interactions = mem
	}
	if stores.Payments == nil {
		stores.Payments = mem
	}
	if stores.Admin == nil {
		stores.Admin = mem
	}

	manager := system.NewManager()

	walletService := walletsvc.New(stores.Wallets, log)
	accountService := accounts.New(stores.Users, stores.Sessions, walletService, opts.JWTSecret, log)
	if opts.TokenTTL > 0 {
		accountService.WithTokenTTL(opts.TokenTTL)
	}
	onboardingService := onboardingsvc.New(stores.Onboarding, opts.Drafts, log)

	insightService, err := insightssvc.New(stores.Onboarding, log)
	if err != nil {
		return nil, fmt.Errorf("build insights service: %w", err)
	}

	var httpClient *http.Client
	if opts.WebhookTimeout > 0 {
		httpClient = &http.Client{Timeout: opts.WebhookTimeout}
	}
	dispatcher, err := automationsvc.NewWebhookDispatcher(httpClient, opts.WebhookBaseURL, opts.WebhookAPIKey, log)
	if err != nil {
		return nil, fmt.Errorf("build webhook dispatcher: %w", err)
	}
	dispatcher.WithMaxRetries(opts.WebhookMaxRetries)
	automationService := automationsvc.New(stores.Interactions, walletService, dispatcher, log)

	paymentService := paymentssvc.New(stores.Payments, walletService, log)
	adminService := adminsvc.New(
		stores.Users, stores.Sessions, stores.Wallets, stores.Onboarding,
		stores.Interactions, stores.Admin, walletService, adminsvc.SampleHostStats, log,
	)

	chatbotService, err := chatbotsvc.New(time.Now().UnixNano(), log)
	if err != nil {
		return nil, fmt.Errorf("build chatbot service: %w", err)
	}

	allowance := walletsvc.NewAllowanceScheduler(walletService, log)
	if err := manager.Register(allowance); err != nil {
		return nil, fmt.Errorf("register %s: %w", allowance.Name(), err)
	}

	return &Application{
		manager:     manager,
		log:         log,
		Accounts:    accountService,
		Onboarding:  onboardingService,
		Wallets:     walletService,
		Insights:    insightService,
		Automations: automationService,
		Payments:    paymentService,
		Admin:       adminService,
		Chatbot:     chatbotService,
	}, nil
}

// Attach registers an additional lifecycle-managed service. Call before Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// Start begins all registered services.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}

// Package httpapi exposes the platform services over a JSON REST API.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flowmatic-labs/platform/internal/app/metrics"
	accountssvc "github.com/flowmatic-labs/platform/internal/app/services/accounts"
	adminsvc "github.com/flowmatic-labs/platform/internal/app/services/admin"
	automationsvc "github.com/flowmatic-labs/platform/internal/app/services/automation"
	chatbotsvc "github.com/flowmatic-labs/platform/internal/app/services/chatbot"
	insightssvc "github.com/flowmatic-labs/platform/internal/app/services/insights"
	onboardingsvc "github.com/flowmatic-labs/platform/internal/app/services/onboarding"
	paymentssvc "github.com/flowmatic-labs/platform/internal/app/services/payments"
	walletsvc "github.com/flowmatic-labs/platform/internal/app/services/wallet"
	"github.com/flowmatic-labs/platform/internal/middleware"
	"github.com/flowmatic-labs/platform/pkg/logger"
)

// Options tune the outer middleware chain.
type Options struct {
	AllowedOrigins []string
	RatePerSecond  int
	RateBurst      int
}

// Server wires the domain services into an HTTP handler.
type Server struct {
	accounts    *accountssvc.Service
	onboarding  *onboardingsvc.Service
	wallets     *walletsvc.Service
	insights    *insightssvc.Service
	automations *automationsvc.Service
	payments    *paymentssvc.Service
	admin       *adminsvc.Service
	bot         *chatbotsvc.Service
	opts        Options
	log         *logger.Logger
}

// NewServer creates the API server over the given services.
func NewServer(
	accounts *accountssvc.Service,
	onboarding *onboardingsvc.Service,
	wallets *walletsvc.Service,
	insights *insightssvc.Service,
	automations *automationsvc.Service,
	payments *paymentssvc.Service,
	admin *adminsvc.Service,
	bot *chatbotsvc.Service,
	opts Options,
	log *logger.Logger,
) *Server {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 50
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 100
	}
	return &Server{
		accounts:    accounts,
		onboarding:  onboarding,
		wallets:     wallets,
		insights:    insights,
		automations: automations,
		payments:    payments,
		admin:       admin,
		bot:         bot,
		opts:        opts,
		log:         log,
	}
}

// Handler builds the full middleware chain and route table.
func (s *Server) Handler() http.Handler {
	auth := middleware.NewAuthMiddleware(s.accounts, s.log)
	cors := middleware.NewCORSMiddleware(s.opts.AllowedOrigins)
	limiter := middleware.NewRateLimiter(s.opts.RatePerSecond, s.opts.RateBurst, s.log)
	limiter.StartCleanup(10 * time.Minute)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(cors.Handler)
	r.Use(limiter.Handler)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignUp)
		r.Post("/auth/signin", s.handleSignIn)

		r.Post("/chatbot", s.handleChatbot)
		r.Get("/chatbot/ws", s.handleChatbotWS)

		r.Get("/payments/packages", s.handlePackages)
		r.Get("/automations", s.handleAutomationCatalog)
		r.Get("/onboarding/catalogs", s.handleOnboardingCatalogs)

		r.Group(func(r chi.Router) {
			r.Use(auth.Handler)

			r.Post("/auth/signout", s.handleSignOut)
			r.Get("/auth/me", s.handleMe)

			r.Get("/onboarding", s.handleGetOnboarding)
			r.Post("/onboarding", s.handleSubmitOnboarding)
			r.Get("/onboarding/draft", s.handleGetDraft)
			r.Put("/onboarding/draft", s.handleSaveDraft)
			r.Delete("/onboarding/draft", s.handleClearDraft)

			r.Get("/wallet", s.handleGetWallet)
			r.Get("/wallet/transactions", s.handleListTransactions)
			r.Post("/wallet/debit", s.handleDebit)
			r.With(middleware.RequireAdmin).Post("/wallet/credit", s.handleWalletCredit)

			r.Get("/insights", s.handleInsights)

			r.Post("/automations/{tag}/trigger", s.handleTrigger)
			r.Get("/automations/interactions", s.handleInteractions)

			r.Post("/payments/purchase", s.handlePurchase)
			r.Get("/payments/history", s.handlePaymentHistory)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/users", s.handleAdminUsers)
				r.Get("/stats", s.handleAdminStats)
				r.Get("/actions", s.handleAdminActions)
				r.Patch("/users/{id}/role", s.handleAdminUpdateRole)
				r.Patch("/users/{id}/status", s.handleAdminUpdateStatus)
				r.Delete("/users/{id}", s.handleAdminDeleteUser)
				r.Post("/users/{id}/credit", s.handleAdminCreditWallet)
			})
		})
	})

	return metrics.InstrumentHandler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	onboardingdomain "github.com/flowmatic-labs/platform/internal/app/domain/onboarding"
	walletdomain "github.com/flowmatic-labs/platform/internal/app/domain/wallet"
	accountssvc "github.com/flowmatic-labs/platform/internal/app/services/accounts"
	automationsvc "github.com/flowmatic-labs/platform/internal/app/services/automation"
	"github.com/flowmatic-labs/platform/internal/middleware"
)

// Auth ---------------------------------------------------------------------

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		FullName     string `json:"full_name"`
		BusinessName string `json:"business_name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := s.accounts.SignUp(r.Context(), req.Email, req.Password, req.FullName, req.BusinessName)
	if errors.Is(err, accountssvc.ErrEmailTaken) {
		writeServiceError(w, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, sess, token, err := s.accounts.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":       u,
		"token":      token,
		"expires_at": sess.ExpiresAt,
	})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if err := s.accounts.SignOut(r.Context(), sess.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())
	writeJSON(w, http.StatusOK, u)
}

// Onboarding ---------------------------------------------------------------

func (s *Server) handleOnboardingCatalogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, onboardingdomain.Catalogs())
}

func (s *Server) handleGetOnboarding(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())
	p, err := s.onboarding.Get(r.Context(), u.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSubmitOnboarding(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())

	var p onboardingdomain.Profile
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.onboarding.Submit(r.Context(), u.ID, p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())
	payload, err := s.onboarding.LoadDraft(r.Context(), u.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(payload) == 0 {
		writeError(w, http.StatusNotFound, "no draft saved")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.onboarding.SaveDraft(r.Context(), u.ID, payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "draft saved"})
}

func (s *Server) handleClearDraft(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())
	if err := s.onboarding.ClearDraft(r.Context(), u.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "draft cleared"})
}

// Wallet -------------------------------------------------------------------

func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())
	wlt, err := s.wallets.GetOrCreate(r.Context(), u.ID, walletdomain.TierFounder)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wlt)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())
	txs, err := s.wallets.ListTransactions(r.Context(), u.ID, queryLimit(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleDebit(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())

	var req struct {
		Amount      int64  `json:"amount"`
		Description string `json:"description"`
		ServiceTag  string `json:"service_tag"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	wlt, tx, err := s.wallets.Debit(r.Context(), u.ID, req.Amount, req.Description, req.ServiceTag)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"wallet": wlt, "transaction": tx})
}

func (s *Server) handleWalletCredit(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.UserFrom(r.Context())

	var req struct {
		UserID string `json:"user_id"`
		Amount int64  `json:"amount"`
		Reason string `json:"reason"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	wlt, err := s.admin.CreditWallet(r.Context(), admin.ID, req.UserID, req.Amount, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wlt)
}

// Insights -----------------------------------------------------------------

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())
	report, err := s.insights.Generate(r.Context(), u.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Automations --------------------------------------------------------------

func (s *Server) handleAutomationCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.automations.Catalog())
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())
	tag := chi.URLParam(r, "tag")

	var req struct {
		TriggerType string            `json:"trigger_type"`
		Details     map[string]string `json:"details"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	in, err := s.automations.Trigger(r.Context(), u.ID, tag, req.TriggerType, req.Details)
	if errors.Is(err, automationsvc.ErrDispatchFailed) {
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":       err.Error(),
			"interaction": in,
		})
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())
	history, err := s.automations.ListInteractions(r.Context(), u.ID, queryLimit(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// Payments -----------------------------------------------------------------

func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.payments.Packages())
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())

	var req struct {
		PackageID     string `json:"package_id"`
		CustomCredits int64  `json:"custom_credits"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := s.payments.Purchase(r.Context(), u.ID, req.PackageID, req.CustomCredits)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handlePaymentHistory(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFrom(r.Context())
	history, err := s.payments.History(r.Context(), u.ID, queryLimit(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// Admin --------------------------------------------------------------------

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := s.admin.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.admin.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleAdminActions(w http.ResponseWriter, r *http.Request) {
	actions, err := s.admin.Actions(r.Context(), queryLimit(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actions)
}

func (s *Server) handleAdminUpdateRole(w http.ResponseWriter, r *http.Request) {
	adminUser, _ := middleware.UserFrom(r.Context())

	var req struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.admin.UpdateUserRole(r.Context(), adminUser.ID, chi.URLParam(r, "id"), req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleAdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	adminUser, _ := middleware.UserFrom(r.Context())

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.admin.UpdateUserStatus(r.Context(), adminUser.ID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	adminUser, _ := middleware.UserFrom(r.Context())
	if err := s.admin.DeleteUser(r.Context(), adminUser.ID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAdminCreditWallet(w http.ResponseWriter, r *http.Request) {
	adminUser, _ := middleware.UserFrom(r.Context())

	var req struct {
		Amount int64  `json:"amount"`
		Reason string `json:"reason"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	wlt, err := s.admin.CreditWallet(r.Context(), adminUser.ID, chi.URLParam(r, "id"), req.Amount, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wlt)
}

// Chatbot ------------------------------------------------------------------

func (s *Server) handleChatbot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": s.bot.Reply(req.Message)})
}

func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

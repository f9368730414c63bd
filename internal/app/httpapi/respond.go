package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	accountssvc "github.com/flowmatic-labs/platform/internal/app/services/accounts"
	adminsvc "github.com/flowmatic-labs/platform/internal/app/services/admin"
	automationsvc "github.com/flowmatic-labs/platform/internal/app/services/automation"
	insightssvc "github.com/flowmatic-labs/platform/internal/app/services/insights"
	onboardingsvc "github.com/flowmatic-labs/platform/internal/app/services/onboarding"
	paymentssvc "github.com/flowmatic-labs/platform/internal/app/services/payments"
	walletsvc "github.com/flowmatic-labs/platform/internal/app/services/wallet"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service sentinel errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accountssvc.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, accountssvc.ErrInvalidCredentials),
		errors.Is(err, accountssvc.ErrSessionInvalid):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, accountssvc.ErrUserSuspended):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, walletsvc.ErrInsufficientBalance):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, adminsvc.ErrSelfAction):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, accountssvc.ErrNotFound),
		errors.Is(err, walletsvc.ErrNotFound),
		errors.Is(err, onboardingsvc.ErrNotFound),
		errors.Is(err, adminsvc.ErrNotFound),
		errors.Is(err, insightssvc.ErrNoProfile),
		errors.Is(err, automationsvc.ErrUnknownService):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, onboardingsvc.ErrInvalid),
		errors.Is(err, paymentssvc.ErrUnknownPackage),
		errors.Is(err, paymentssvc.ErrInvalidAmount),
		errors.Is(err, adminsvc.ErrInvalidRole),
		errors.Is(err, adminsvc.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, automationsvc.ErrDispatchFailed):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

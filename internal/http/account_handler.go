package httpapi

import (
	"net/http"

	"mindcare/internal/service"

	"go.uber.org/zap"
)

type AccountHandler struct {
	accountService service.AccountService
	authService    service.AuthService
	logger         *zap.Logger
}

func NewAccountHandler(accountService service.AccountService, authService service.AuthService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{accountService: accountService, authService: authService, logger: logger}
}

func (h *AccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v1/account":
		switch r.Method {
		case http.MethodGet:
			h.GetAccount(w, r)
		case http.MethodPut:
			h.UpdateProfile(w, r)
		default:
			methodNotAllowed(w)
		}
	case "/api/v1/account/plan":
		if r.Method != http.MethodPut {
			methodNotAllowed(w)
			return
		}
		h.ChangePlan(w, r)
	case "/api/v1/account/password":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.ChangePassword(w, r)
	case "/api/v1/account/cancel":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.CancelSubscription(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	resp, err := h.accountService.GetAccount(r.Context())
	if err != nil {
		h.logger.Error("GetAccount failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.accountService.UpdateProfile(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "account_profile", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *AccountHandler) ChangePlan(w http.ResponseWriter, r *http.Request) {
	var req service.ChangePlanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.accountService.ChangePlan(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "account_plan", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req service.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.authService.ChangePassword(r.Context(), req); err != nil {
		writeError(w, h.logger, "account_password", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

func (h *AccountHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	var req service.CancelSubscriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.accountService.CancelSubscription(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "account_cancel", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

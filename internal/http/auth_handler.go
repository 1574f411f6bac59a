package httpapi

import (
	"errors"
	"net/http"

	"mindcare/internal/service"

	"go.uber.org/zap"
)

type AuthHandler struct {
	authService  service.AuthService
	resetService service.PasswordResetService
	logger       *zap.Logger
}

func NewAuthHandler(authService service.AuthService, resetService service.PasswordResetService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		resetService: resetService,
		logger:       logger,
	}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth/api/v1/login":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.Login(w, r)
	case "/auth/api/v1/register":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.Register(w, r)
	case "/auth/api/v1/logout":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.Logout(w, r)
	case "/auth/api/v1/forgot-password":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.ForgotPassword(w, r)
	case "/auth/api/v1/password-reset":
		switch r.Method {
		case http.MethodGet:
			h.CheckResetLink(w, r)
		case http.MethodPost:
			h.ResetPassword(w, r)
		default:
			methodNotAllowed(w)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.authService.Register(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, "register", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context()); err != nil {
		writeError(w, h.logger, "logout", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req service.ForgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.authService.ForgotPassword(r.Context(), req); err != nil {
		writeError(w, h.logger, "forgot_password", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// CheckResetLink answers GET ?token=&type= with the link state. A link that
// cannot be used is still a handled answer, so the result carries the state
// and message for the page to show.
func (h *AuthHandler) CheckResetLink(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	check := h.resetService.CheckLink(r.Context(), q.Get("token"), q.Get("type"))
	if check.State != service.LinkValid {
		writeJSON(w, http.StatusOK, Result[service.LinkCheck]{Code: ResultError, Type: "error", Message: check.Message, Result: check})
		return
	}
	writeJSON(w, http.StatusOK, Ok(check))
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req service.ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.resetService.Reset(r.Context(), req)
	if errors.Is(err, service.ErrNoToken) {
		writeJSON(w, http.StatusOK, Fail("Acesse esta página através do link enviado por email"))
		return
	}
	if err != nil {
		writeError(w, h.logger, "password_reset", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"message": "Senha alterada com sucesso!"}))
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/xela07ax/crm-backend/internal/domain"
	"github.com/xela07ax/crm-backend/internal/infra"
	"github.com/xela07ax/crm-backend/internal/infra/auth"
	"github.com/xela07ax/crm-backend/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service *service.AuthService
	metrics *infra.Metrics
	logger  *zap.Logger
}

func NewAuthHandler(s *service.AuthService, m *infra.Metrics, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: s, metrics: m, logger: logger.Named("auth-handler")}
}

// Login обрабатывает POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "malformed request body")
		return
	}
	if msg := validateLogin(&req); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msg)
		return
	}

	resp, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.loginFailure(w, err)
		return
	}

	h.metrics.LoginAttempts.WithLabelValues("success").Inc()
	respondJSON(w, http.StatusOK, resp)
}

// Me обрабатывает GET /auth/me. Для анонима отвечаем 200 null —
// осознанное решение, унаследованное от контракта API: на этом слое
// отсутствие личности не является ошибкой.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, auth.CurrentUserFromContext(r.Context()))
}

func (h *AuthHandler) loginFailure(w http.ResponseWriter, err error) {
	var berr *domain.BusinessError

	switch {
	case errors.Is(err, domain.ErrUserStoreUnavailable):
		h.metrics.LoginAttempts.WithLabelValues("store_unavailable").Inc()
		writeError(w, http.StatusServiceUnavailable, domain.ErrUserStoreUnavailable.Code, domain.ErrUserStoreUnavailable.Message)
	case errors.As(err, &berr):
		// не уточняем, что именно неверно (логин или пароль) для защиты от перебора
		h.metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
		writeError(w, http.StatusBadRequest, berr.Code, berr.Message)
	default:
		h.logger.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func validateLogin(req *domain.LoginRequest) string {
	if req.Email == "" {
		return "email is required"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return "email is not a valid address"
	}
	if req.Password == "" {
		return "password is required"
	}
	return ""
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, domain.ErrorResponse{Code: code, Message: message})
}

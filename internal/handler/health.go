package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aidar/ksc-recruitment/internal/mailer"
)

// Pinger проверяет доступность внешней зависимости
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает эндпоинты проверки состояния
type HealthHandler struct {
	storage Pinger
	mail    Pinger
}

// NewHealthHandler создает новый HealthHandler
func NewHealthHandler(storage, mail Pinger) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		mail:    mail,
	}
}

// HealthResponse представляет состояние сервиса
type HealthResponse struct {
	Status string `json:"status"`
}

// MailCheckResponse представляет результат диагностики SMTP
type MailCheckResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Health обрабатывает GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.Ping(r.Context()); err != nil {
		RespondWithJSON(w, r, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

// MailCheck обрабатывает GET /health/mail
func (h *HealthHandler) MailCheck(w http.ResponseWriter, r *http.Request) {
	err := h.mail.Ping(r.Context())
	switch {
	case err == nil:
		RespondWithJSON(w, r, http.StatusOK, MailCheckResponse{
			OK:      true,
			Message: "Email connection successful - all steps completed",
		})
	case errors.Is(err, mailer.ErrDisabled):
		RespondWithJSON(w, r, http.StatusServiceUnavailable, MailCheckResponse{
			Message: "Email is not configured: set SMTP_SERVER and credentials",
		})
	case errors.Is(err, mailer.ErrAuthFailed):
		RespondWithJSON(w, r, http.StatusServiceUnavailable, MailCheckResponse{
			Message: "Authentication failed: check SMTP username and password",
		})
	default:
		RespondWithJSON(w, r, http.StatusServiceUnavailable, MailCheckResponse{
			Message: "Connection test failed: " + err.Error(),
		})
	}
}

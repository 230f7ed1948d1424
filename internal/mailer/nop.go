package mailer

import (
	"context"
	"log/slog"

	"github.com/aidar/ksc-recruitment/internal/domain"
)

// NopSender используется без настроенного SMTP: письма не отправляются
type NopSender struct {
	logger *slog.Logger
}

// NewNopSender создает NopSender
func NewNopSender(logger *slog.Logger) *NopSender {
	return &NopSender{logger: logger}
}

// Send записывает пропущенное письмо в лог и сообщает о неудаче
func (n *NopSender) Send(_ context.Context, email domain.Email) bool {
	n.logger.Warn("SMTP is not configured, confirmation email skipped", "recipient", email.RecipientEmail)
	return false
}

// Ping всегда возвращает ErrDisabled
func (n *NopSender) Ping(context.Context) error {
	return ErrDisabled
}

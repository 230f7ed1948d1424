// Package mailer отправляет письма-подтверждения через SMTP.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/aidar/ksc-recruitment/internal/config"
	"github.com/aidar/ksc-recruitment/internal/domain"
	"github.com/aidar/ksc-recruitment/internal/metrics"
)

var (
	// ErrDisabled почтовый сервер не настроен
	ErrDisabled = errors.New("smtp is not configured")
	// ErrAuthFailed сервер отклонил учетные данные
	ErrAuthFailed = errors.New("smtp authentication failed")
)

// message готовое к отправке письмо
type message struct {
	to   string
	body []byte
}

// SMTPSender отправляет письма с ограниченным числом повторов.
// Временные ошибки (сеть, 4xx) повторяются с экспоненциальной задержкой,
// постоянные (5xx, авторизация) завершают отправку сразу.
type SMTPSender struct {
	cfg      config.SMTPConfig
	tmpl     *Template
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
	transmit func(ctx context.Context, msg *message) error
}

// NewSMTPSender создает отправителя писем
func NewSMTPSender(cfg config.SMTPConfig, tmpl *Template, m *metrics.Metrics, logger *slog.Logger) *SMTPSender {
	s := &SMTPSender{
		cfg:     cfg,
		tmpl:    tmpl,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
	s.transmit = s.transmitSMTP
	return s
}

// Send отправляет письмо и возвращает true при успешной доставке серверу
func (s *SMTPSender) Send(ctx context.Context, email domain.Email) bool {
	msg, err := s.compose(email)
	if err != nil {
		s.logger.Error("Failed to compose email", "recipient", email.RecipientEmail, "error", err)
		return false
	}

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		s.metrics.RecordSendAttempt()

		attemptCtx, cancel := s.attemptContext(ctx)
		err := s.transmit(attemptCtx, msg)
		cancel()
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		s.logger.Warn("Email send attempt failed",
			"recipient", email.RecipientEmail,
			"attempt", attempt,
			"error", err,
		)
		return err
	}, s.policy(ctx))

	if err != nil {
		s.logger.Error("Failed to send confirmation email",
			"recipient", email.RecipientEmail,
			"attempts", attempt,
			"error", err,
		)
		return false
	}

	s.logger.Info("Confirmation email sent", "recipient", email.RecipientEmail, "attempts", attempt)
	return true
}

// attemptContext ограничивает одну попытку SendTimeout,
// даже если у ctx нет дедлайна
func (s *SMTPSender) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.SendTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.SendTimeout)
}

// connDeadline выбирает ближайший из дедлайна ctx и SendTimeout
func (s *SMTPSender) connDeadline(ctx context.Context) (time.Time, bool) {
	deadline, ok := ctx.Deadline()
	if s.cfg.SendTimeout > 0 {
		limit := time.Now().Add(s.cfg.SendTimeout)
		if !ok || limit.Before(deadline) {
			return limit, true
		}
	}
	return deadline, ok
}

// policy задает экспоненциальную задержку 1x, 2x, 4x... от InitialInterval
func (s *SMTPSender) policy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = s.cfg.InitialInterval
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0

	retries := s.cfg.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

// isPermanent возвращает true для ошибок, которые не исправит повтор
func isPermanent(err error) bool {
	if errors.Is(err, ErrAuthFailed) {
		return true
	}
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return protoErr.Code >= 500
	}
	return false
}

func (s *SMTPSender) compose(email domain.Email) (*message, error) {
	to, err := mail.ParseAddress(email.RecipientEmail)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}

	now := s.now()
	body, err := s.tmpl.Render(email, now)
	if err != nil {
		return nil, err
	}

	from := mail.Address{Name: s.cfg.SenderName, Address: s.cfg.SenderEmail}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", to.Address)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", Subject(email)))
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(normalizeNewlines(body))

	return &message{to: to.Address, body: buf.Bytes()}, nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func (s *SMTPSender) transmitSMTP(ctx context.Context, msg *message) error {
	client, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(s.cfg.SenderEmail); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := client.Rcpt(msg.to); err != nil {
		return fmt.Errorf("RCPT TO: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(msg.body); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish DATA: %w", err)
	}

	return client.Quit()
}

// dial подключается к серверу, включает STARTTLS и проходит авторизацию
func (s *SMTPSender) dial(ctx context.Context) (*smtp.Client, error) {
	dialer := net.Dialer{Timeout: s.cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", s.cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", s.cfg.Addr(), err)
	}
	if deadline, ok := s.connDeadline(ctx); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("smtp handshake: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			client.Close()
			return nil, fmt.Errorf("starttls: %w", err)
		}
	}

	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, fmt.Errorf("%w: %w", ErrAuthFailed, err)
		}
	}

	return client, nil
}

// Ping проверяет подключение: соединение, STARTTLS, авторизация, QUIT
func (s *SMTPSender) Ping(ctx context.Context) error {
	client, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Quit()
}

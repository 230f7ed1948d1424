// Package metrics содержит Prometheus метрики сервиса заявок.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Исходы обработки заявки
const (
	OutcomeAccepted         = "accepted"
	OutcomeRejected         = "rejected"
	OutcomeAlreadySubmitted = "already_submitted"
	OutcomePersistenceError = "persistence_error"
)

// Metrics набор метрик, регистрируемых в переданном реестре
type Metrics struct {
	submissions     *prometheus.CounterVec
	emailDeliveries *prometheus.CounterVec
	emailAttempts   prometheus.Counter
	sessions        prometheus.Counter
	duplicates      prometheus.Counter
}

// New создает и регистрирует метрики в реестре reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ksc",
			Subsystem: "recruitment",
			Name:      "submissions_total",
			Help:      "Form submissions by type and outcome.",
		}, []string{"type", "outcome"}),
		emailDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ksc",
			Subsystem: "recruitment",
			Name:      "email_deliveries_total",
			Help:      "Confirmation email deliveries by result.",
		}, []string{"result"}),
		emailAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ksc",
			Subsystem: "recruitment",
			Name:      "email_send_attempts_total",
			Help:      "SMTP send attempts including retries.",
		}),
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ksc",
			Subsystem: "recruitment",
			Name:      "sessions_started_total",
			Help:      "Sessions started after login.",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ksc",
			Subsystem: "recruitment",
			Name:      "duplicate_sessions_total",
			Help:      "Sessions that started in the already-submitted state.",
		}),
	}

	reg.MustRegister(m.submissions, m.emailDeliveries, m.emailAttempts, m.sessions, m.duplicates)
	return m
}

// Nop возвращает метрики, зарегистрированные в отдельном реестре (для тестов)
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}

// RecordSubmission учитывает обработанную заявку
func (m *Metrics) RecordSubmission(submissionType, outcome string) {
	m.submissions.WithLabelValues(submissionType, outcome).Inc()
}

// RecordDelivery учитывает результат доставки одного письма
func (m *Metrics) RecordDelivery(delivered bool) {
	result := "failed"
	if delivered {
		result = "delivered"
	}
	m.emailDeliveries.WithLabelValues(result).Inc()
}

// RecordSendAttempt учитывает одну попытку отправки через SMTP
func (m *Metrics) RecordSendAttempt() {
	m.emailAttempts.Inc()
}

// RecordSession учитывает начало сессии
func (m *Metrics) RecordSession(alreadySubmitted bool) {
	m.sessions.Inc()
	if alreadySubmitted {
		m.duplicates.Inc()
	}
}

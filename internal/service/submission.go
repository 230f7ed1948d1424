package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aidar/ksc-recruitment/internal/domain"
	"github.com/aidar/ksc-recruitment/internal/metrics"
	"github.com/aidar/ksc-recruitment/internal/repository"
)

// IndividualForm сырые данные индивидуальной формы
type IndividualForm struct {
	Name     string `json:"name"`
	CRN      string `json:"crn"`
	Contact  string `json:"contact"`
	Email    string `json:"email"` // Пустое значение заменяется email из провайдера
	Comments string `json:"comments"`
}

// TeamForm сырые данные командной формы
type TeamForm struct {
	TeamName string               `json:"team_name"`
	Members  []domain.MemberInput `json:"members"`
	Comments string               `json:"comments"`
}

// SubmissionService координирует отправку формы:
// валидация -> сохранение -> рассылка подтверждений -> агрегированный результат
type SubmissionService struct {
	sessions       *SessionService
	builder        *SubmissionBuilder
	submissionRepo repository.SubmissionRepository
	dispatcher     *NotificationDispatcher
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

// NewSubmissionService создает новый SubmissionService
func NewSubmissionService(
	sessions *SessionService,
	builder *SubmissionBuilder,
	submissionRepo repository.SubmissionRepository,
	dispatcher *NotificationDispatcher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *SubmissionService {
	return &SubmissionService{
		sessions:       sessions,
		builder:        builder,
		submissionRepo: submissionRepo,
		dispatcher:     dispatcher,
		metrics:        m,
		logger:         logger,
	}
}

// SubmitIndividual обрабатывает индивидуальную заявку
func (s *SubmissionService) SubmitIndividual(ctx context.Context, sessionID string, form IndividualForm) (*domain.SubmissionResult, error) {
	kind := string(domain.SubmissionIndividual)

	session, release, err := s.openSession(ctx, sessionID, kind)
	if err != nil {
		return nil, err
	}
	defer release()

	if strings.TrimSpace(form.Email) == "" {
		form.Email = session.Identity.Email
	}

	if errs := ValidateMember(form.Name, form.CRN, form.Contact, form.Email); len(errs) > 0 {
		s.metrics.RecordSubmission(kind, metrics.OutcomeRejected)
		return nil, domain.NewValidationError(errs)
	}

	input := domain.MemberInput{Name: form.Name, CRN: form.CRN, Contact: form.Contact, Email: form.Email}
	submission, err := s.builder.BuildIndividual(input.Normalize(), session.SelectedTeam, form.Comments)
	if err != nil {
		s.metrics.RecordSubmission(kind, metrics.OutcomeRejected)
		return nil, err
	}
	submission.SubmittedBy = session.Identity.Email

	return s.complete(ctx, session, submission)
}

// SubmitTeam обрабатывает командную заявку
func (s *SubmissionService) SubmitTeam(ctx context.Context, sessionID string, form TeamForm) (*domain.SubmissionResult, error) {
	kind := string(domain.SubmissionTeam)

	session, release, err := s.openSession(ctx, sessionID, kind)
	if err != nil {
		return nil, err
	}
	defer release()

	submission, err := s.builder.BuildTeam(form.TeamName, form.Members, session.SelectedTeam, form.Comments)
	if err != nil {
		s.metrics.RecordSubmission(kind, metrics.OutcomeRejected)
		return nil, err
	}
	submission.SubmittedBy = session.Identity.Email

	return s.complete(ctx, session, submission)
}

// openSession занимает сессию на время отправки и проверяет, что форму еще можно отправить
func (s *SubmissionService) openSession(ctx context.Context, sessionID, kind string) (*domain.Session, func(), error) {
	session, release, err := s.sessions.Claim(ctx, sessionID)
	switch {
	case errors.Is(err, domain.ErrAlreadySubmitted):
		s.metrics.RecordSubmission(kind, metrics.OutcomeAlreadySubmitted)
	case errors.Is(err, domain.ErrMissingTeamSelection):
		s.metrics.RecordSubmission(kind, metrics.OutcomeRejected)
	}
	if err != nil {
		return nil, nil, err
	}
	return session, release, nil
}

// complete сохраняет заявку и рассылает подтверждения.
// После успешного Append заявка считается принятой независимо от писем.
func (s *SubmissionService) complete(ctx context.Context, session *domain.Session, submission domain.Submission) (*domain.SubmissionResult, error) {
	kind := string(submission.Type())

	if err := s.submissionRepo.Append(ctx, submission); err != nil {
		s.metrics.RecordSubmission(kind, metrics.OutcomePersistenceError)
		s.logger.Error("Failed to persist submission",
			"session_id", session.ID,
			"type", kind,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistenceFailed, err)
	}
	s.metrics.RecordSubmission(kind, metrics.OutcomeAccepted)

	// Письма отправляются даже после отключения клиента
	results := s.dispatcher.Notify(context.WithoutCancel(ctx), submission)
	for _, ok := range results {
		s.metrics.RecordDelivery(ok)
	}
	report := domain.Summarize(submission.Type(), results)

	result := &domain.SubmissionResult{
		Type:         submission.Type(),
		Accepted:     true,
		SelectedTeam: session.SelectedTeam,
		MemberCount:  len(submission.Recipients()),
		Delivery:     report,
	}
	switch sub := submission.(type) {
	case *domain.IndividualSubmission:
		result.SubmissionID = sub.ID
	case *domain.TeamSubmission:
		result.SubmissionID = sub.ID
		result.TeamName = sub.TeamName
	}

	s.logger.Info("Submission accepted",
		"session_id", session.ID,
		"submission_id", result.SubmissionID,
		"type", kind,
		"delivered", report.Delivered,
		"recipients", report.Total,
	)

	if _, err := s.sessions.MarkSubmitted(ctx, session.ID, result); err != nil {
		s.logger.Warn("Failed to mark session as submitted", "session_id", session.ID, "error", err)
	}

	return result, nil
}

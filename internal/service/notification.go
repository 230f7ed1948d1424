package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/aidar/ksc-recruitment/internal/domain"
)

// EmailSender отправляет одно письмо-подтверждение.
// Повторы и таймауты остаются внутри реализации, наружу виден только итог.
type EmailSender interface {
	Send(ctx context.Context, email domain.Email) bool
}

// NotificationDispatcher рассылает подтверждения всем получателям заявки
type NotificationDispatcher struct {
	sender EmailSender
}

// NewNotificationDispatcher создает новый NotificationDispatcher
func NewNotificationDispatcher(sender EmailSender) *NotificationDispatcher {
	return &NotificationDispatcher{sender: sender}
}

// Notify отправляет письма параллельно и ждет завершения всех попыток.
// Результаты идут в порядке получателей заявки; ошибка одного не мешает остальным.
func (d *NotificationDispatcher) Notify(ctx context.Context, submission domain.Submission) []bool {
	emails := confirmationEmails(submission)
	results := make([]bool, len(emails))

	var g errgroup.Group
	for i, email := range emails {
		g.Go(func() error {
			results[i] = d.sender.Send(ctx, email)
			return nil
		})
	}
	_ = g.Wait() // Горутины не возвращают ошибок

	return results
}

// confirmationEmails строит письма для каждого получателя заявки
func confirmationEmails(submission domain.Submission) []domain.Email {
	var (
		selectedTeam string
		details      *domain.TeamDetails
	)
	switch s := submission.(type) {
	case *domain.IndividualSubmission:
		selectedTeam = s.SelectedTeam
	case *domain.TeamSubmission:
		selectedTeam = s.SelectedTeam
		details = &domain.TeamDetails{TeamName: s.TeamName, MemberCount: len(s.Members)}
	}

	recipients := submission.Recipients()
	emails := make([]domain.Email, len(recipients))
	for i, m := range recipients {
		emails[i] = domain.Email{
			RecipientEmail: m.Email,
			RecipientName:  m.Name,
			TeamName:       selectedTeam,
			SubmissionType: submission.Type(),
			TeamDetails:    details,
		}
	}
	return emails
}

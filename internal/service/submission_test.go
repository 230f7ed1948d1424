package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/ksc-recruitment/internal/domain"
)

var testIdentity = domain.Identity{Email: "ram.bahadur@example.com", Name: "Ram Bahadur", Verified: true}

// startWithTeam открывает сессию и выбирает команду
func startWithTeam(t *testing.T, env *testEnv, team string) *domain.Session {
	t.Helper()
	ctx := context.Background()

	session, err := env.sessions.Start(ctx, testIdentity)
	require.NoError(t, err)
	if team != "" {
		session, err = env.sessions.SelectTeam(ctx, session.ID, team)
		require.NoError(t, err)
	}
	return session
}

func validIndividualForm() IndividualForm {
	return IndividualForm{Name: validName, CRN: validCRN, Contact: validContact, Email: validEmail}
}

func TestSubmitIndividual_Success(t *testing.T) {
	env := newTestEnv(newFakeSubmissionRepo(), newFakeSender(nil))
	session := startWithTeam(t, env, "Tech")

	result, err := env.submission.SubmitIndividual(context.Background(), session.ID, validIndividualForm())
	require.NoError(t, err)

	assert.True(t, result.Accepted)
	assert.Equal(t, domain.SubmissionIndividual, result.Type)
	assert.Equal(t, "Tech", result.SelectedTeam)
	assert.Equal(t, 1, result.MemberCount)
	assert.Equal(t, domain.DeliveryAll, result.Delivery.Status)
	assert.Equal(t, []bool{true}, result.Delivery.Results)

	require.Equal(t, 1, env.repo.appendCount())
	stored := env.repo.appended[0].(*domain.IndividualSubmission)
	assert.Equal(t, testIdentity.Email, stored.SubmittedBy)
	assert.Equal(t, result.SubmissionID, stored.ID)

	updated, err := env.sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.True(t, updated.Submitted)
	assert.Equal(t, result, updated.LastResult)
}

func TestSubmitIndividual_BlankEmailUsesIdentity(t *testing.T) {
	env := newTestEnv(newFakeSubmissionRepo(), newFakeSender(nil))
	session := startWithTeam(t, env, "Tech")

	form := validIndividualForm()
	form.Email = "  "
	_, err := env.submission.SubmitIndividual(context.Background(), session.ID, form)
	require.NoError(t, err)

	stored := env.repo.appended[0].(*domain.IndividualSubmission)
	assert.Equal(t, testIdentity.Email, stored.Member.Email)
	assert.Equal(t, testIdentity.Email, env.sender.sent[0].RecipientEmail)
}

func TestSubmitIndividual_DuplicateShortCircuits(t *testing.T) {
	repo := newFakeSubmissionRepo(testIdentity.Email)
	env := newTestEnv(repo, newFakeSender(nil))

	session, err := env.sessions.Start(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.True(t, session.AlreadySubmitted)
	callsAfterStart := repo.existsCalls

	// Невалидная форма: ошибка дубликата возвращается раньше валидации
	_, err = env.submission.SubmitIndividual(context.Background(), session.ID, IndividualForm{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	assert.NotErrorIs(t, err, domain.ErrValidationFailed)

	assert.Equal(t, 0, repo.appendCount())
	assert.Equal(t, 0, env.sender.sentCount())
	// Проверка выполняется один раз за сессию
	assert.Equal(t, callsAfterStart, repo.existsCalls)
}

func TestSubmitIndividual_SecondSubmitInSessionRejected(t *testing.T) {
	env := newTestEnv(newFakeSubmissionRepo(), newFakeSender(nil))
	session := startWithTeam(t, env, "Tech")

	_, err := env.submission.SubmitIndividual(context.Background(), session.ID, validIndividualForm())
	require.NoError(t, err)

	_, err = env.submission.SubmitIndividual(context.Background(), session.ID, validIndividualForm())
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	assert.Equal(t, 1, env.repo.appendCount())
}

func TestSubmitIndividual_NewSessionSeesStoredSubmission(t *testing.T) {
	env := newTestEnv(newFakeSubmissionRepo(), newFakeSender(nil))
	session := startWithTeam(t, env, "Tech")

	form := validIndividualForm()
	form.Email = testIdentity.Email
	_, err := env.submission.SubmitIndividual(context.Background(), session.ID, form)
	require.NoError(t, err)

	next, err := env.sessions.Start(context.Background(), testIdentity)
	require.NoError(t, err)
	assert.True(t, next.AlreadySubmitted)
}

func TestSubmitIndividual_MissingTeamSelection(t *testing.T) {
	env := newTestEnv(newFakeSubmissionRepo(), newFakeSender(nil))
	session := startWithTeam(t, env, "")

	_, err := env.submission.SubmitIndividual(context.Background(), session.ID, validIndividualForm())
	assert.ErrorIs(t, err, domain.ErrMissingTeamSelection)
	assert.Equal(t, 0, env.repo.appendCount())
	assert.Equal(t, 0, env.sender.sentCount())
}

func TestSubmitIndividual_ValidationFailedHasNoSideEffects(t *testing.T) {
	env := newTestEnv(newFakeSubmissionRepo(), newFakeSender(nil))
	session := startWithTeam(t, env, "Tech")

	_, err := env.submission.SubmitIndividual(context.Background(), session.ID, IndividualForm{
		Name: "Ram", CRN: "7702000001", Contact: "9612345678", Email: "bad",
	})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Messages, 4)
	assert.Equal(t, 0, env.repo.appendCount())
	assert.Equal(t, 0, env.sender.sentCount())

	updated, err := env.sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.False(t, updated.Submitted)
}

func TestSubmitIndividual_PersistenceFailureIsFatal(t *testing.T) {
	repo := newFakeSubmissionRepo()
	repo.appendErr = errors.New("connection refused")
	env := newTestEnv(repo, newFakeSender(nil))
	session := startWithTeam(t, env, "Tech")

	result, err := env.submission.SubmitIndividual(context.Background(), session.ID, validIndividualForm())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailed)
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, 0, env.sender.sentCount())

	updated, err := env.sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.False(t, updated.Submitted)

	// После сбоя сессия освобождается для повторной попытки
	repo.mu.Lock()
	repo.appendErr = nil
	repo.mu.Unlock()
	_, err = env.submission.SubmitIndividual(context.Background(), session.ID, validIndividualForm())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.appendCount())
}

func TestSubmitIndividual_ConcurrentSubmitInSameSession(t *testing.T) {
	repo := newFakeSubmissionRepo()
	repo.appendGate = make(chan struct{})
	repo.appendStarted = make(chan struct{}, 1)
	env := newTestEnv(repo, newFakeSender(nil))
	session := startWithTeam(t, env, "Tech")
	ctx := context.Background()

	type outcome struct {
		result *domain.SubmissionResult
		err    error
	}
	first := make(chan outcome, 1)
	go func() {
		result, err := env.submission.SubmitIndividual(ctx, session.ID, validIndividualForm())
		first <- outcome{result, err}
	}()

	<-repo.appendStarted

	// Первая отправка еще сохраняется, вторая отклоняется до Append
	_, err := env.submission.SubmitIndividual(ctx, session.ID, validIndividualForm())
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)

	close(repo.appendGate)
	got := <-first
	require.NoError(t, got.err)
	assert.True(t, got.result.Accepted)
	assert.Equal(t, 1, repo.appendCount())
	assert.Equal(t, 1, env.sender.sentCount())
}

func TestSubmitIndividual_EmailFailureKeepsSubmission(t *testing.T) {
	env := newTestEnv(newFakeSubmissionRepo(), newFakeSender(map[string]bool{validEmail: false}))
	session := startWithTeam(t, env, "Tech")

	result, err := env.submission.SubmitIndividual(context.Background(), session.ID, validIndividualForm())
	require.NoError(t, err)

	assert.True(t, result.Accepted)
	assert.Equal(t, domain.DeliveryNone, result.Delivery.Status)
	assert.Equal(t, "Application saved but confirmation email could not be sent.", result.Delivery.Message)
	assert.Equal(t, 1, env.repo.appendCount())
}

func teamForm(emails ...string) TeamForm {
	form := TeamForm{TeamName: "Alpha"}
	for _, e := range emails {
		slot := validSlot()
		slot.Email = e
		form.Members = append(form.Members, slot)
	}
	return form
}

func TestSubmitTeam_PartialDelivery(t *testing.T) {
	sender := newFakeSender(map[string]bool{"b@example.com": false})
	env := newTestEnv(newFakeSubmissionRepo(), sender)
	session := startWithTeam(t, env, "Design")

	result, err := env.submission.SubmitTeam(context.Background(), session.ID, teamForm("a@example.com", "b@example.com", "c@example.com"))
	require.NoError(t, err)

	assert.True(t, result.Accepted)
	assert.Equal(t, "Alpha", result.TeamName)
	assert.Equal(t, 3, result.MemberCount)
	assert.Equal(t, []bool{true, false, true}, result.Delivery.Results)
	assert.Equal(t, 2, result.Delivery.Delivered)
	assert.Equal(t, 3, result.Delivery.Total)
	assert.Equal(t, domain.DeliverySome, result.Delivery.Status)
	assert.Contains(t, result.Delivery.Message, "2 of 3")

	for _, email := range sender.sent {
		assert.Equal(t, domain.SubmissionTeam, email.SubmissionType)
		assert.Equal(t, "Design", email.TeamName)
		require.NotNil(t, email.TeamDetails)
		assert.Equal(t, 3, email.TeamDetails.MemberCount)
	}
}

func TestSubmitTeam_BlankSlotsDropped(t *testing.T) {
	env := newTestEnv(newFakeSubmissionRepo(), newFakeSender(nil))
	session := startWithTeam(t, env, "Tech")

	form := teamForm("a@example.com")
	form.Members = append(form.Members, domain.MemberInput{}, domain.MemberInput{})

	result, err := env.submission.SubmitTeam(context.Background(), session.ID, form)
	require.NoError(t, err)
	assert.Equal(t, 1, result.MemberCount)

	stored := env.repo.appended[0].(*domain.TeamSubmission)
	assert.Len(t, stored.Members, 1)
	assert.Equal(t, testIdentity.Email, stored.SubmittedBy)
}

func TestSubmitTeam_PartialSlotNotPersisted(t *testing.T) {
	env := newTestEnv(newFakeSubmissionRepo(), newFakeSender(nil))
	session := startWithTeam(t, env, "Tech")

	form := teamForm("a@example.com")
	form.Members = append(form.Members, domain.MemberInput{Name: "Hari Prasad"})

	_, err := env.submission.SubmitTeam(context.Background(), session.ID, form)
	assert.ErrorIs(t, err, domain.ErrIncompleteMemberData)
	assert.Equal(t, 0, env.repo.appendCount())
	assert.Equal(t, 0, env.sender.sentCount())
}

func TestSubmitTeam_NoMembers(t *testing.T) {
	env := newTestEnv(newFakeSubmissionRepo(), newFakeSender(nil))
	session := startWithTeam(t, env, "Tech")

	_, err := env.submission.SubmitTeam(context.Background(), session.ID, TeamForm{TeamName: "Alpha", Members: []domain.MemberInput{{}}})
	assert.ErrorIs(t, err, domain.ErrNoMembersProvided)
	assert.Equal(t, 0, env.repo.appendCount())
}

func TestSubmit_UnknownSession(t *testing.T) {
	env := newTestEnv(newFakeSubmissionRepo(), newFakeSender(nil))

	_, err := env.submission.SubmitTeam(context.Background(), "missing", teamForm("a@example.com"))
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSubmitTeam_SingleMemberUsesTeamWording(t *testing.T) {
	env := newTestEnv(newFakeSubmissionRepo(), newFakeSender(map[string]bool{"a@example.com": false}))
	session := startWithTeam(t, env, "Design")

	result, err := env.submission.SubmitTeam(context.Background(), session.ID, teamForm("a@example.com"))
	require.NoError(t, err)

	assert.Equal(t, domain.DeliveryNone, result.Delivery.Status)
	assert.Equal(t, "Team application saved but confirmation emails could not be sent.", result.Delivery.Message)
}

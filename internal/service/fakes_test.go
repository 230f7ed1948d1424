package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aidar/ksc-recruitment/internal/domain"
	"github.com/aidar/ksc-recruitment/internal/metrics"
	"github.com/aidar/ksc-recruitment/internal/repository/memory"
)

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	appended    []domain.Submission
	existing    map[string]bool
	existsCalls int
	appendErr   error
	existsErr   error

	// appendGate задерживает Append, пока канал не закрыт
	appendGate    chan struct{}
	appendStarted chan struct{}
}

func newFakeSubmissionRepo(existing ...string) *fakeSubmissionRepo {
	r := &fakeSubmissionRepo{existing: make(map[string]bool)}
	for _, e := range existing {
		r.existing[strings.ToLower(e)] = true
	}
	return r
}

func (r *fakeSubmissionRepo) Append(_ context.Context, s domain.Submission) error {
	if r.appendGate != nil {
		r.appendStarted <- struct{}{}
		<-r.appendGate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.appended = append(r.appended, s)
	for _, m := range s.Recipients() {
		r.existing[strings.ToLower(m.Email)] = true
	}
	return nil
}

func (r *fakeSubmissionRepo) Exists(_ context.Context, _ domain.Collection, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.existsCalls++
	if r.existsErr != nil {
		return false, r.existsErr
	}
	return r.existing[strings.ToLower(email)], nil
}

func (r *fakeSubmissionRepo) Stats(context.Context) (*domain.Stats, error) {
	return &domain.Stats{TotalIndividuals: len(r.appended)}, nil
}

func (r *fakeSubmissionRepo) Ping(context.Context) error { return nil }

func (r *fakeSubmissionRepo) Close() error { return nil }

func (r *fakeSubmissionRepo) appendCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.appended)
}

// fakeSender возвращает заранее заданный результат по адресу получателя
type fakeSender struct {
	mu      sync.Mutex
	results map[string]bool
	sent    []domain.Email
}

func newFakeSender(results map[string]bool) *fakeSender {
	if results == nil {
		results = map[string]bool{}
	}
	return &fakeSender{results: results}
}

func (s *fakeSender) Send(_ context.Context, email domain.Email) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, email)
	ok, found := s.results[email.RecipientEmail]
	return !found || ok
}

func (s *fakeSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fakeCatalog map[string]bool

func (c fakeCatalog) HasTeam(name string) bool { return c[name] }

type fakeIdentity struct {
	identity domain.Identity
	err      error
}

func (f fakeIdentity) Fetch(context.Context, string) (domain.Identity, error) {
	return f.identity, f.err
}

type testEnv struct {
	repo       *fakeSubmissionRepo
	sender     *fakeSender
	sessions   *SessionService
	submission *SubmissionService
}

func newTestEnv(repo *fakeSubmissionRepo, sender *fakeSender) *testEnv {
	m := metrics.Nop()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	sessions := NewSessionService(
		memory.NewSessionRepository(),
		NewDuplicateGuard(repo),
		fakeCatalog{"Tech": true, "Design": true},
		m,
		time.Hour,
	)
	return &testEnv{
		repo:     repo,
		sender:   sender,
		sessions: sessions,
		submission: NewSubmissionService(
			sessions,
			NewSubmissionBuilder(),
			repo,
			NewNotificationDispatcher(sender),
			m,
			logger,
		),
	}
}

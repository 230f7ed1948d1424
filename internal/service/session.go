package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aidar/ksc-recruitment/internal/domain"
	"github.com/aidar/ksc-recruitment/internal/metrics"
	"github.com/aidar/ksc-recruitment/internal/repository"
)

// TeamCatalog источник списка команд клуба
type TeamCatalog interface {
	HasTeam(name string) bool
}

// SessionService управляет состоянием сессии пользователя
type SessionService struct {
	sessionRepo repository.SessionRepository
	guard       *DuplicateGuard
	catalog     TeamCatalog
	metrics     *metrics.Metrics
	ttl         time.Duration

	// mu сериализует чтение-изменение-запись сессий
	mu sync.Mutex
	// claimed сессии, заявка которых сейчас сохраняется
	claimed map[string]struct{}
}

// NewSessionService создает новый SessionService
func NewSessionService(
	sessionRepo repository.SessionRepository,
	guard *DuplicateGuard,
	catalog TeamCatalog,
	m *metrics.Metrics,
	ttl time.Duration,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		guard:       guard,
		catalog:     catalog,
		metrics:     m,
		ttl:         ttl,
		claimed:     make(map[string]struct{}),
	}
}

// Start создает сессию для пользователя и один раз проверяет дубликат.
// Если email уже есть в хранилище, сессия сразу в состоянии "уже отправлено".
func (s *SessionService) Start(ctx context.Context, identity domain.Identity) (*domain.Session, error) {
	submitted, err := s.guard.HasSubmitted(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}

	now := time.Now().UTC()
	session := domain.NewSession(uuid.NewString(), identity, now)
	session.AlreadySubmitted = submitted
	if s.ttl > 0 {
		session.ExpiresAt = now.Add(s.ttl)
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.metrics.RecordSession(submitted)
	return session, nil
}

// Get возвращает сессию по ID
func (s *SessionService) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.sessionRepo.Get(ctx, sessionID)
}

// SelectTeam сохраняет выбранную команду клуба
func (s *SessionService) SelectTeam(ctx context.Context, sessionID, team string) (*domain.Session, error) {
	team = strings.TrimSpace(team)
	if team == "" {
		return nil, domain.ErrMissingTeamSelection
	}
	if !s.catalog.HasTeam(team) {
		return nil, domain.ErrUnknownTeam
	}

	return s.update(ctx, sessionID, func(session *domain.Session) error {
		if session.IsTerminal() {
			return domain.ErrAlreadySubmitted
		}
		session.SelectedTeam = team
		return nil
	})
}

// AddMember добавляет слот участника (не больше 5)
func (s *SessionService) AddMember(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.update(ctx, sessionID, func(session *domain.Session) error {
		if session.IsTerminal() {
			return domain.ErrAlreadySubmitted
		}
		session.MemberSlots = session.MemberSlots.Add()
		return nil
	})
}

// RemoveMember убирает слот участника (не меньше 1)
func (s *SessionService) RemoveMember(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.update(ctx, sessionID, func(session *domain.Session) error {
		if session.IsTerminal() {
			return domain.ErrAlreadySubmitted
		}
		session.MemberSlots = session.MemberSlots.Remove()
		return nil
	})
}

// Reset возвращает форму сессии к начальному состоянию
func (s *SessionService) Reset(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.update(ctx, sessionID, func(session *domain.Session) error {
		session.Reset()
		return nil
	})
}

// Claim резервирует сессию под одну отправку формы.
// Пока сессия занята, повторный Claim возвращает ErrAlreadySubmitted.
// release нужно вызвать после MarkSubmitted или при ошибке отправки.
func (s *SessionService) Claim(ctx context.Context, sessionID string) (*domain.Session, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if _, busy := s.claimed[sessionID]; busy || session.IsTerminal() {
		return nil, nil, domain.ErrAlreadySubmitted
	}
	if strings.TrimSpace(session.SelectedTeam) == "" {
		return nil, nil, domain.ErrMissingTeamSelection
	}

	s.claimed[sessionID] = struct{}{}
	release := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.claimed, sessionID)
	}
	return session, release, nil
}

// MarkSubmitted переводит сессию в состояние "отправлено" с результатом.
// Сброс формы после этого не открывает повторную отправку.
func (s *SessionService) MarkSubmitted(ctx context.Context, sessionID string, result *domain.SubmissionResult) (*domain.Session, error) {
	return s.update(ctx, sessionID, func(session *domain.Session) error {
		session.Submitted = true
		session.AlreadySubmitted = true
		session.LastResult = result
		return nil
	})
}

// End удаляет сессию
func (s *SessionService) End(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

func (s *SessionService) update(ctx context.Context, sessionID string, fn func(*domain.Session) error) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

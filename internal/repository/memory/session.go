package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aidar/ksc-recruitment/internal/domain"
)

// pruneInterval как часто Save вычищает истекшие сессии
const pruneInterval = time.Minute

// SessionRepository хранит сессии в памяти процесса.
// Истекшие сессии не возвращаются и удаляются при записи.
type SessionRepository struct {
	mu         sync.RWMutex
	sessions   map[string]domain.Session
	now        func() time.Time
	lastPruned time.Time
}

// NewSessionRepository создает пустое хранилище сессий
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]domain.Session),
		now:      time.Now,
	}
}

// Save создает или заменяет сессию
func (r *SessionRepository) Save(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastPruned) >= pruneInterval {
		r.pruneLocked(now)
	}

	r.sessions[session.ID] = *session
	return nil
}

// Get возвращает копию сессии, чтобы изменения вызывающего не протекали без Save
func (r *SessionRepository) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[sessionID]
	if !ok || s.Expired(r.now()) {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

// Delete удаляет сессию
func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

// Prune удаляет истекшие сессии и возвращает их количество
func (r *SessionRepository) Prune(_ context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.pruneLocked(r.now())
}

func (r *SessionRepository) pruneLocked(now time.Time) int {
	removed := 0
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	r.lastPruned = now
	return removed
}

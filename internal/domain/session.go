package domain

import "time"

// MemberSlots количество активных слотов участников в командной форме.
// Допустимые значения 1..5, другие состояния недостижимы через Add/Remove.
type MemberSlots int

// Границы количества слотов совпадают с размером команды
const (
	MinMemberSlots MemberSlots = MinTeamMembers
	MaxMemberSlots MemberSlots = MaxTeamMembers
)

// Add добавляет слот, если не достигнут максимум
func (s MemberSlots) Add() MemberSlots {
	if s < MaxMemberSlots {
		return s + 1
	}
	return s
}

// Remove убирает последний слот, если слотов больше одного
func (s MemberSlots) Remove() MemberSlots {
	if s > MinMemberSlots {
		return s - 1
	}
	return s
}

// Session состояние сессии одного пользователя между запросами
type Session struct {
	ID               string            `json:"session_id"`
	Identity         Identity          `json:"identity"`
	SelectedTeam     string            `json:"selected_team"`
	MemberSlots      MemberSlots       `json:"member_slots"`
	AlreadySubmitted bool              `json:"already_submitted"` // Дубликат найден при старте сессии
	Submitted        bool              `json:"submitted"`         // Заявка отправлена в этой сессии
	LastResult       *SubmissionResult `json:"last_result,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	ExpiresAt        time.Time         `json:"expires_at,omitzero"` // Нулевое значение: без срока
}

// NewSession создает сессию с начальными значениями
func NewSession(id string, identity Identity, now time.Time) *Session {
	return &Session{
		ID:          id,
		Identity:    identity,
		MemberSlots: MinMemberSlots,
		CreatedAt:   now,
	}
}

// Reset возвращает состояние формы к начальному, сохраняя ID и пользователя.
// Флаг AlreadySubmitted не сбрасывается: он отражает состояние хранилища.
func (s *Session) Reset() {
	s.SelectedTeam = ""
	s.MemberSlots = MinMemberSlots
	s.Submitted = false
	s.LastResult = nil
}

// Expired возвращает true если срок сессии истек к моменту now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// IsTerminal возвращает true если форма больше не должна приниматься
func (s *Session) IsTerminal() bool {
	return s.AlreadySubmitted || s.Submitted
}

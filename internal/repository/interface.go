package repository

import (
	"context"

	"github.com/aidar/ksc-recruitment/internal/domain"
)

// SubmissionRepository определяет методы хранилища заявок.
// Хранилище только дописывает записи: дубликаты не перезаписываются и не сливаются.
type SubmissionRepository interface {
	// Append сохраняет заявку; после nil ошибки запись не должна быть потеряна
	Append(ctx context.Context, submission domain.Submission) error

	// Exists проверяет, есть ли в коллекции запись с указанным email
	Exists(ctx context.Context, collection domain.Collection, email string) (bool, error)

	// Stats возвращает количество заявок по командам клуба
	Stats(ctx context.Context) (*domain.Stats, error)

	// Ping проверяет доступность хранилища
	Ping(ctx context.Context) error

	// Close освобождает ресурсы хранилища
	Close() error
}

// SessionRepository определяет методы хранения сессий пользователей
type SessionRepository interface {
	// Save создает или заменяет сессию
	Save(ctx context.Context, session *domain.Session) error

	// Get возвращает копию сессии по ID
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete удаляет сессию
	Delete(ctx context.Context, sessionID string) error
}

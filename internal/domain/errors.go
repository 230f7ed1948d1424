package domain

import (
	"errors"
	"strings"
)

// Доменные ошибки
var (
	// ErrMissingTeamSelection возвращается когда команда клуба не выбрана
	ErrMissingTeamSelection = errors.New("please select a team to continue")

	// ErrNoMembersProvided возвращается когда в командной форме нет ни одного участника
	ErrNoMembersProvided = errors.New("please add at least one team member")

	// ErrIncompleteMemberData возвращается когда участник заполнен частично
	ErrIncompleteMemberData = errors.New("please complete the details of every team member you started")

	// ErrValidationFailed возвращается при ошибках валидации полей
	ErrValidationFailed = errors.New("validation failed")

	// ErrAlreadySubmitted возвращается когда форма уже была отправлена
	ErrAlreadySubmitted = errors.New("your form has already been submitted")

	// ErrUnknownTeam возвращается при выборе несуществующей команды
	ErrUnknownTeam = errors.New("unknown team")

	// ErrSessionNotFound возвращается когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("session not found")

	// ErrPersistenceFailed возвращается когда хранилище не сохранило заявку
	ErrPersistenceFailed = errors.New("failed to save submission")

	// ErrNotFound возвращается когда ресурс не найден
	ErrNotFound = errors.New("resource not found")

	// ErrUnverifiedEmail возвращается когда провайдер не подтвердил email
	ErrUnverifiedEmail = errors.New("email is not verified by identity provider")

	// ErrUnauthorized возвращается при неудачной аутентификации
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken возвращается когда JWT токен невалиден
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError содержит список понятных пользователю сообщений об ошибках.
// Cause уточняет класс отказа (например ErrIncompleteMemberData).
type ValidationError struct {
	Cause    error
	Messages []string
}

// NewValidationError создает ValidationError без уточняющей причины
func NewValidationError(messages []string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	prefix := ErrValidationFailed.Error()
	if e.Cause != nil {
		prefix = e.Cause.Error()
	}
	if len(e.Messages) == 0 {
		return prefix
	}
	return prefix + ": " + strings.Join(e.Messages, "; ")
}

// Unwrap позволяет errors.Is находить и ErrValidationFailed, и Cause
func (e *ValidationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrValidationFailed}
	}
	return []error{ErrValidationFailed, e.Cause}
}

// ErrorCode представляет коды ошибок API
type ErrorCode string

// Коды ошибок API
const (
	CodeMissingTeam      ErrorCode = "MISSING_TEAM_SELECTION" // Команда не выбрана
	CodeNoMembers        ErrorCode = "NO_MEMBERS_PROVIDED"    // Нет участников
	CodeIncompleteMember ErrorCode = "INCOMPLETE_MEMBER_DATA" // Участник заполнен частично
	CodeValidation       ErrorCode = "VALIDATION_FAILED"      // Ошибки в полях
	CodeAlreadySubmitted ErrorCode = "ALREADY_SUBMITTED"      // Форма уже отправлена
	CodeUnknownTeam      ErrorCode = "UNKNOWN_TEAM"           // Несуществующая команда
	CodePersistence      ErrorCode = "PERSISTENCE_FAILED"     // Ошибка хранилища
	CodeNotFound         ErrorCode = "NOT_FOUND"              // Ресурс не найден
	CodeUnauthorized     ErrorCode = "UNAUTHORIZED"           // Нет доступа
	CodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// MapErrorToCode преобразует доменные ошибки в коды ошибок API.
// Порядок важен: IncompleteMemberData проверяется раньше общей ValidationFailed.
func MapErrorToCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrMissingTeamSelection):
		return CodeMissingTeam
	case errors.Is(err, ErrNoMembersProvided):
		return CodeNoMembers
	case errors.Is(err, ErrIncompleteMemberData):
		return CodeIncompleteMember
	case errors.Is(err, ErrValidationFailed):
		return CodeValidation
	case errors.Is(err, ErrAlreadySubmitted):
		return CodeAlreadySubmitted
	case errors.Is(err, ErrUnknownTeam):
		return CodeUnknownTeam
	case errors.Is(err, ErrPersistenceFailed):
		return CodePersistence
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrSessionNotFound):
		return CodeNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrUnverifiedEmail):
		return CodeUnauthorized
	default:
		return CodeInternal
	}
}

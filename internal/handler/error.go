package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/aidar/ksc-recruitment/internal/domain"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail содержит код, описание ошибки и список ошибок по полям
type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	respondWithDetails(w, r, statusCode, code, message, nil)
}

func respondWithDetails(w http.ResponseWriter, r *http.Request, statusCode int, code, message string, details []string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.MapErrorToCode(err)

	switch code {
	case domain.CodeMissingTeam:
		RespondWithError(w, r, http.StatusBadRequest, string(code), domain.ErrMissingTeamSelection.Error())
	case domain.CodeNoMembers:
		RespondWithError(w, r, http.StatusBadRequest, string(code), domain.ErrNoMembersProvided.Error())
	case domain.CodeUnknownTeam:
		RespondWithError(w, r, http.StatusBadRequest, string(code), domain.ErrUnknownTeam.Error())
	case domain.CodeIncompleteMember, domain.CodeValidation:
		message := domain.ErrValidationFailed.Error()
		if code == domain.CodeIncompleteMember {
			message = domain.ErrIncompleteMemberData.Error()
		}
		var verr *domain.ValidationError
		var details []string
		if errors.As(err, &verr) {
			details = verr.Messages
		}
		respondWithDetails(w, r, http.StatusUnprocessableEntity, string(code), message, details)
	case domain.CodeAlreadySubmitted:
		RespondWithError(w, r, http.StatusConflict, string(code), domain.ErrAlreadySubmitted.Error())
	case domain.CodePersistence:
		RespondWithError(w, r, http.StatusInternalServerError, string(code), "failed to save your submission, please try again")
	case domain.CodeNotFound:
		RespondWithError(w, r, http.StatusNotFound, string(code), "resource not found")
	case domain.CodeUnauthorized:
		message := "unauthorized"
		if errors.Is(err, domain.ErrUnverifiedEmail) {
			message = domain.ErrUnverifiedEmail.Error()
		}
		RespondWithError(w, r, http.StatusUnauthorized, string(code), message)
	default:
		RespondWithError(w, r, http.StatusInternalServerError, string(domain.CodeInternal), "internal server error")
	}
}

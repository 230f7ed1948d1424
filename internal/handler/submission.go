package handler

import (
	"net/http"

	"github.com/aidar/ksc-recruitment/internal/middleware"
	"github.com/aidar/ksc-recruitment/internal/service"
)

// SubmissionHandler обрабатывает отправку форм
type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

// NewSubmissionHandler создает новый SubmissionHandler
func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// SubmitIndividual обрабатывает POST /submissions/individual
func (h *SubmissionHandler) SubmitIndividual(w http.ResponseWriter, r *http.Request) {
	var form service.IndividualForm
	if !decodeBody(w, r, &form) {
		return
	}

	result, err := h.submissionService.SubmitIndividual(r.Context(), middleware.GetSessionIDFromContext(r.Context()), form)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, result)
}

// SubmitTeam обрабатывает POST /submissions/team
func (h *SubmissionHandler) SubmitTeam(w http.ResponseWriter, r *http.Request) {
	var form service.TeamForm
	if !decodeBody(w, r, &form) {
		return
	}

	result, err := h.submissionService.SubmitTeam(r.Context(), middleware.GetSessionIDFromContext(r.Context()), form)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, result)
}

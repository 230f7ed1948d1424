package handler

import (
	"net/http"

	"github.com/aidar/ksc-recruitment/internal/domain"
	"github.com/aidar/ksc-recruitment/internal/middleware"
	"github.com/aidar/ksc-recruitment/internal/service"
)

// SessionHandler обрабатывает эндпоинты состояния формы
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler создает новый SessionHandler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// SelectTeamRequest представляет тело запроса на выбор команды
type SelectTeamRequest struct {
	Team string `json:"team"`
}

// GetSession обрабатывает GET /session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.Get(r.Context(), middleware.GetSessionIDFromContext(r.Context()))
	h.respond(w, r, session, err)
}

// SelectTeam обрабатывает POST /session/team
func (h *SessionHandler) SelectTeam(w http.ResponseWriter, r *http.Request) {
	var req SelectTeamRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.sessionService.SelectTeam(r.Context(), middleware.GetSessionIDFromContext(r.Context()), req.Team)
	h.respond(w, r, session, err)
}

// AddMember обрабатывает POST /session/members/add
func (h *SessionHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.AddMember(r.Context(), middleware.GetSessionIDFromContext(r.Context()))
	h.respond(w, r, session, err)
}

// RemoveMember обрабатывает POST /session/members/remove
func (h *SessionHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.RemoveMember(r.Context(), middleware.GetSessionIDFromContext(r.Context()))
	h.respond(w, r, session, err)
}

// Reset обрабатывает POST /session/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.Reset(r.Context(), middleware.GetSessionIDFromContext(r.Context()))
	h.respond(w, r, session, err)
}

func (h *SessionHandler) respond(w http.ResponseWriter, r *http.Request, session *domain.Session, err error) {
	if err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, session)
}

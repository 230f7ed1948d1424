package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidar/ksc-recruitment/internal/content"
	"github.com/aidar/ksc-recruitment/internal/domain"
)

// ContentHandler отдает статический контент клуба
type ContentHandler struct {
	store *content.Store
}

// NewContentHandler создает новый ContentHandler
func NewContentHandler(store *content.Store) *ContentHandler {
	return &ContentHandler{
		store: store,
	}
}

// GetCircle обрабатывает GET /content/circle
func (h *ContentHandler) GetCircle(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, r, http.StatusOK, h.store.Circle())
}

// ListTeamsResponse представляет список команд для выбора
type ListTeamsResponse struct {
	Teams []content.Team `json:"teams"`
}

// ListTeams обрабатывает GET /content/teams
func (h *ContentHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, r, http.StatusOK, ListTeamsResponse{Teams: h.store.Teams()})
}

// GetTeam обрабатывает GET /content/teams/{name}
func (h *ContentHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, ok := h.store.Team(chi.URLParam(r, "name"))
	if !ok {
		HandleError(w, r, domain.ErrNotFound)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, team)
}

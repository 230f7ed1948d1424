package handler

import (
	"net/http"

	"github.com/aidar/ksc-recruitment/internal/domain"
	"github.com/aidar/ksc-recruitment/internal/middleware"
	"github.com/aidar/ksc-recruitment/internal/service"
)

// AuthHandler обрабатывает эндпоинты аутентификации
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler создает новый AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginRequest представляет тело запроса на логин
type LoginRequest struct {
	AccessToken string `json:"access_token"`
}

// LoginResponse представляет тело ответа на логин
type LoginResponse struct {
	Token   string          `json:"token"`
	Session *domain.Session `json:"session"`
}

// Login обрабатывает POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.AccessToken == "" {
		RespondWithError(w, r, http.StatusBadRequest, "BAD_REQUEST", "access_token is required")
		return
	}

	result, err := h.authService.Login(r.Context(), req.AccessToken)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, LoginResponse{Token: result.Token, Session: result.Session})
}

// Logout обрабатывает POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionIDFromContext(r.Context())

	if err := h.authService.Logout(r.Context(), sessionID); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

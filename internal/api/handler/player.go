package handler

import (
	"net/http"

	"github.com/mcoot/othello/internal/api/middleware"
	"github.com/mcoot/othello/internal/api/request"
	"github.com/mcoot/othello/internal/api/response"
	"github.com/mcoot/othello/internal/services/auth"
)

// PlayerHandler serves sign-up, login and the current player
type PlayerHandler struct {
	authService *auth.Service
}

func NewPlayerHandler(authService *auth.Service) *PlayerHandler {
	return &PlayerHandler{authService: authService}
}

// writeSession answers with the new session, or with the error that prevented it
func writeSession(w http.ResponseWriter, status int, session *auth.Session, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, status, response.AuthResponseFromSession(session))
}

// CreateGuest handles POST /api/v1/players/guest
func (h *PlayerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	session, err := h.authService.CreateGuestPlayer(r.Context(), req.DisplayName)
	writeSession(w, http.StatusCreated, session, err)
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	session, err := h.authService.RegisterPlayer(r.Context(), req.Username, req.Password, req.DisplayName)
	writeSession(w, http.StatusCreated, session, err)
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	writeSession(w, http.StatusOK, session, err)
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.PlayerFromModel(middleware.MustGetPlayer(r.Context())))
}

// Logout handles POST /api/v1/players/logout. It succeeds without a session
// so clients can always clear their stored token
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetSession(r.Context()); session != nil {
		h.authService.InvalidateSession(session.Token)
	}
	response.NoContent(w)
}

package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/othello/internal/api/apierr"
	"github.com/mcoot/othello/internal/api/middleware"
	"github.com/mcoot/othello/internal/api/request"
	"github.com/mcoot/othello/internal/api/response"
	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/services/bot"
	"github.com/mcoot/othello/internal/services/lobby"
)

// LobbyHandler handles lobby-related endpoints
type LobbyHandler struct {
	lobbyController *lobby.Controller
	botService      *bot.Service
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(lobbyController *lobby.Controller, botService *bot.Service) *LobbyHandler {
	return &LobbyHandler{
		lobbyController: lobbyController,
		botService:      botService,
	}
}

// Create handles POST /api/v1/lobbies
func (h *LobbyHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.LobbyConfigRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	lob, err := h.lobbyController.CreateLobby(r.Context(), *player)
	if err != nil {
		writeError(w, err)
		return
	}

	if !req.IsEmpty() {
		config, err := req.ApplyTo(lob.Config)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := h.lobbyController.UpdateConfig(r.Context(), lob.Code, player.ID, config); err != nil {
			writeError(w, err)
			return
		}
		lob.Config = config
	}

	response.JSON(w, http.StatusCreated, response.LobbyFromModel(lob))
}

// Get handles GET /api/v1/lobbies/{code}
func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.LobbyCode(mux.Vars(r)["code"])

	lob, err := h.lobbyController.GetLobby(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lob))
}

// Join handles POST /api/v1/lobbies/{code}/join
func (h *LobbyHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	if _, err := h.lobbyController.JoinLobby(r.Context(), code, *player); err != nil {
		writeError(w, err)
		return
	}

	lob, err := h.lobbyController.GetLobby(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lob))
}

// Leave handles POST /api/v1/lobbies/{code}/leave
func (h *LobbyHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	if err := h.lobbyController.LeaveLobby(r.Context(), code, player.ID); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}

// UpdateConfig handles PATCH /api/v1/lobbies/{code}/config
func (h *LobbyHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	var req request.LobbyConfigRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	if req.IsEmpty() {
		writeError(w, apierr.NewInvalidRequestError("search_depth or host_side is required"))
		return
	}

	lob, err := h.lobbyController.GetLobby(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	config, err := req.ApplyTo(lob.Config)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.lobbyController.UpdateConfig(r.Context(), code, player.ID, config); err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyConfigFromModel(config))
}

// SetRole handles PATCH /api/v1/lobbies/{code}/members/{player_id}/role
func (h *LobbyHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	requestingPlayer := middleware.MustGetPlayer(r.Context())
	vars := mux.Vars(r)
	code := model.LobbyCode(vars["code"])
	targetPlayerID := model.PlayerID(vars["player_id"])

	var req request.SetRoleRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	lob, err := h.lobbyController.GetLobby(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	// Players may step down themselves; anything else needs the host
	if targetPlayerID != requestingPlayer.ID {
		if err := lob.RequireHost(requestingPlayer.ID); err != nil {
			writeError(w, err)
			return
		}
	}

	role := model.LobbyMemberRole(req.Role)
	if err := h.lobbyController.SetRole(r.Context(), code, targetPlayerID, role); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}

// TransferHost handles POST /api/v1/lobbies/{code}/transfer-host
func (h *LobbyHandler) TransferHost(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	var req request.TransferHostRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	newHostID := model.PlayerID(req.NewHostID)
	if err := h.lobbyController.TransferHost(r.Context(), code, player.ID, newHostID); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}

// AddBot handles POST /api/v1/lobbies/{code}/bots
func (h *LobbyHandler) AddBot(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	var req request.AddBotRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	if _, err := h.botService.AddBotToLobby(r.Context(), code, player.ID, req.Strategy); err != nil {
		writeError(w, err)
		return
	}

	lob, err := h.lobbyController.GetLobby(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.LobbyFromModel(lob))
}

// RemoveBot handles DELETE /api/v1/lobbies/{code}/bots/{player_id}
func (h *LobbyHandler) RemoveBot(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	vars := mux.Vars(r)
	code := model.LobbyCode(vars["code"])
	botPlayerID := model.PlayerID(vars["player_id"])

	if err := h.botService.RemoveBotFromLobby(r.Context(), code, player.ID, botPlayerID); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}

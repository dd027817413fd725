package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/othello/internal/api/middleware"
	"github.com/mcoot/othello/internal/api/request"
	"github.com/mcoot/othello/internal/api/response"
	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/services/bot"
	"github.com/mcoot/othello/internal/services/game"
	"github.com/mcoot/othello/internal/services/lobby"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	lobbyController *lobby.Controller
	gameController  *game.Controller
	botService      *bot.Service
	logger          *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(
	lobbyController *lobby.Controller,
	gameController *game.Controller,
	botService *bot.Service,
	logger *slog.Logger,
) *GameHandler {
	return &GameHandler{
		lobbyController: lobbyController,
		gameController:  gameController,
		botService:      botService,
		logger:          logger.With(slog.String("component", "game-handler")),
	}
}

// Start handles POST /api/v1/lobbies/{code}/game
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	g, err := h.lobbyController.StartGame(r.Context(), code, player.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	// A bot seated on player1 moves straight away
	actions := h.processBotActions(r.Context(), g.ID, code)

	h.writeMoveResponse(r.Context(), w, http.StatusCreated, g.ID, actions)
}

// Get handles GET /api/v1/lobbies/{code}/game.
// Once a game has finished the lobby's most recent game is returned
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.LobbyCode(mux.Vars(r)["code"])

	lob, err := h.lobbyController.GetLobby(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	var g *model.Game
	if lob.CurrentGame != nil {
		g, err = h.gameController.GetGame(r.Context(), *lob.CurrentGame)
	} else {
		g, err = h.gameController.LatestGameForLobby(r.Context(), code)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	state, err := h.gameState(r.Context(), g)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, state)
}

// List handles GET /api/v1/lobbies/{code}/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	code := model.LobbyCode(mux.Vars(r)["code"])

	if _, err := h.lobbyController.GetLobby(r.Context(), code); err != nil {
		writeError(w, err)
		return
	}

	games, err := h.gameController.GamesForLobby(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]response.GameState, 0, len(games))
	for _, g := range games {
		state, err := h.gameState(r.Context(), g)
		if err != nil {
			writeError(w, err)
			return
		}
		resp = append(resp, state)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Move handles POST /api/v1/lobbies/{code}/game/move
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	var req request.MoveRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	gameID, err := h.currentGameID(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	g, err := h.gameController.PlayMove(r.Context(), gameID, player.ID, req.Position())
	if err != nil {
		writeError(w, err)
		return
	}

	var actions []bot.BotAction
	if g.State == model.GameStateComplete {
		h.completeGame(r.Context(), code)
	} else {
		actions = h.processBotActions(r.Context(), gameID, code)
	}

	h.writeMoveResponse(r.Context(), w, http.StatusOK, gameID, actions)
}

// LegalMoves handles GET /api/v1/lobbies/{code}/game/moves
func (h *GameHandler) LegalMoves(w http.ResponseWriter, r *http.Request) {
	code := model.LobbyCode(mux.Vars(r)["code"])

	gameID, err := h.currentGameID(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	g, err := h.gameController.GetGame(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	moves, err := h.gameController.LegalMoves(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := response.LegalMovesResponse{Moves: response.PositionsFromModel(moves)}
	if g.State == model.GameStateInProgress {
		resp.Side = g.Turn.String()
	}
	response.JSON(w, http.StatusOK, resp)
}

// Hint handles GET /api/v1/lobbies/{code}/game/hint
func (h *GameHandler) Hint(w http.ResponseWriter, r *http.Request) {
	code := model.LobbyCode(mux.Vars(r)["code"])

	gameID, err := h.currentGameID(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}

	g, err := h.gameController.GetGame(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.gameController.Hint(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HintResponseFromResult(g.Turn, g.SearchDepth, result))
}

// Abandon handles DELETE /api/v1/lobbies/{code}/game
func (h *GameHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	if err := h.lobbyController.AbandonGame(r.Context(), code, player.ID); err != nil {
		writeError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *GameHandler) currentGameID(ctx context.Context, code model.LobbyCode) (model.GameID, error) {
	lob, err := h.lobbyController.GetLobby(ctx, code)
	if err != nil {
		return "", err
	}
	if lob.CurrentGame == nil {
		return "", model.ErrNoGameInProgress
	}
	return *lob.CurrentGame, nil
}

// processBotActions lets bots reply until a human is to move or the game ends.
// Bot failures are logged rather than surfaced; the human's move already stands
func (h *GameHandler) processBotActions(ctx context.Context, gameID model.GameID, code model.LobbyCode) []bot.BotAction {
	if h.botService == nil {
		return nil
	}

	actions, err := h.botService.ProcessBotActions(ctx, gameID)
	if err != nil {
		h.logger.Warn("bot actions failed",
			slog.String("game_id", string(gameID)),
			slog.Any("error", err),
		)
	}

	for _, action := range actions {
		if action.Type == bot.ActionGameComplete {
			h.completeGame(ctx, code)
		}
	}
	return actions
}

func (h *GameHandler) completeGame(ctx context.Context, code model.LobbyCode) {
	if err := h.lobbyController.CompleteGame(ctx, code); err != nil {
		h.logger.Warn("failed to record completed game",
			slog.String("lobby_code", string(code)),
			slog.Any("error", err),
		)
	}
}

func (h *GameHandler) writeMoveResponse(ctx context.Context, w http.ResponseWriter, status int, gameID model.GameID, actions []bot.BotAction) {
	g, err := h.gameController.GetGame(ctx, gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	state, err := h.gameState(ctx, g)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, status, response.MoveResponse{
		Game:       state,
		BotActions: response.BotActionsFromService(actions),
	})
}

// gameState builds the response for a game, including the result once complete
func (h *GameHandler) gameState(ctx context.Context, g *model.Game) (response.GameState, error) {
	if g.State != model.GameStateComplete {
		return response.GameStateFromModel(g, nil, ""), nil
	}

	result, err := h.gameController.GetResult(ctx, g.ID)
	if err != nil {
		return response.GameState{}, err
	}
	summary, err := h.gameController.CreateGameSummary(ctx, g.ID)
	if err != nil {
		return response.GameState{}, err
	}
	return response.GameStateFromModel(g, &result, summary.Winner), nil
}

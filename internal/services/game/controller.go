package game

import (
	"context"
	"log/slog"

	"github.com/mcoot/othello/internal/dependencies/clock"
	"github.com/mcoot/othello/internal/dependencies/random"
	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/services/board"
	"github.com/mcoot/othello/internal/services/scoring"
	"github.com/mcoot/othello/internal/services/search"
	"github.com/mcoot/othello/internal/storage"
)

const gameIDLength = 12

// Controller sequences turns for a game and enforces the rules on every move
type Controller struct {
	storage        storage.Storage
	scoringService *scoring.Service
	engine         *search.Engine
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger
}

// NewController creates a new GameController
func NewController(
	storage storage.Storage,
	scoringService *scoring.Service,
	engine *search.Engine,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:        storage,
		scoringService: scoringService,
		engine:         engine,
		clock:          clock,
		random:         random,
		logger:         logger.With(slog.String("component", "game-controller")),
	}
}

// CreateGame starts a new game from the opening position with player1 to move
func (c *Controller) CreateGame(ctx context.Context, lobbyCode model.LobbyCode, player1, player2 model.PlayerID, searchDepth int) (*model.Game, error) {
	if player1 == "" || player2 == "" || player1 == player2 {
		return nil, model.ErrInsufficientPlayers
	}
	if searchDepth < model.MinSearchDepth || searchDepth > model.MaxSearchDepth {
		return nil, model.ErrInvalidConfig
	}

	now := c.clock.Now()
	gameID := model.GameID(c.random.String(gameIDLength, random.UpperAlnum))

	game := &model.Game{
		ID:          gameID,
		LobbyCode:   lobbyCode,
		State:       model.GameStateInProgress,
		Board:       board.CreateInitial(),
		Player1:     player1,
		Player2:     player2,
		Turn:        model.Player1,
		SearchDepth: searchDepth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(gameID)),
		slog.String("lobby_code", string(lobbyCode)),
		slog.String("player1", string(player1)),
		slog.String("player2", string(player2)),
		slog.Int("search_depth", searchDepth),
	)

	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// DefaultSearchDepth is the engine's configured depth, used for new lobbies
func (c *Controller) DefaultSearchDepth() int {
	return c.engine.Depth()
}

// GamesForLobby returns every stored game played in a lobby, oldest first
func (c *Controller) GamesForLobby(ctx context.Context, code model.LobbyCode) ([]*model.Game, error) {
	return c.storage.GetGamesForLobby(ctx, code)
}

// LatestGameForLobby returns the most recently created game in a lobby
func (c *Controller) LatestGameForLobby(ctx context.Context, code model.LobbyCode) (*model.Game, error) {
	games, err := c.storage.GetGamesForLobby(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, model.ErrGameNotFound
	}
	return games[len(games)-1], nil
}

// PlayMove places the player's piece at pos and advances the turn.
// If the opponent then has no legal move they pass automatically; if neither
// side can move the game completes
func (c *Controller) PlayMove(ctx context.Context, gameID model.GameID, playerID model.PlayerID, pos model.Position) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err := checkPlayable(game); err != nil {
		return nil, err
	}

	side := game.SideOf(playerID)
	if !side.IsPlayer() {
		return nil, model.ErrPlayerNotFound
	}
	if side != game.Turn {
		return nil, model.ErrNotPlayerTurn
	}

	if !pos.InBounds() {
		return nil, model.ErrInvalidPosition
	}
	if !game.Board.IsEmpty(pos) {
		return nil, model.ErrCellOccupied
	}

	flipped := len(board.Flips(&game.Board, pos.Row, pos.Col, side))
	if !board.ApplyMove(&game.Board, pos.Row, pos.Col, side) {
		return nil, model.ErrIllegalMove
	}

	game.History = append(game.History, model.MoveRecord{
		Side:     side,
		Position: &pos,
		Flipped:  flipped,
	})
	c.advanceTurn(game)
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Debug("move played",
		slog.String("game_id", string(game.ID)),
		slog.String("player_id", string(playerID)),
		slog.String("side", side.String()),
		slog.Int("row", pos.Row),
		slog.Int("col", pos.Col),
		slog.Int("flipped", flipped),
	)

	return game, nil
}

// advanceTurn hands the turn to the opponent, records a pass for them, or
// completes the game
func (c *Controller) advanceTurn(game *model.Game) {
	mover := game.Turn
	next := mover.Opponent()

	switch {
	case board.HasAnyLegalMove(&game.Board, next):
		game.Turn = next
	case board.HasAnyLegalMove(&game.Board, mover):
		game.History = append(game.History, model.MoveRecord{Side: next, Pass: true})
		c.logger.Debug("side passes",
			slog.String("game_id", string(game.ID)),
			slog.String("side", next.String()),
		)
	default:
		game.State = model.GameStateComplete
		p1, p2 := board.CountPieces(&game.Board)
		c.logger.Info("game completed",
			slog.String("game_id", string(game.ID)),
			slog.String("lobby_code", string(game.LobbyCode)),
			slog.Int("player1_count", p1),
			slog.Int("player2_count", p2),
			slog.Int("moves", len(game.History)),
		)
	}
}

// LegalMoves lists the moves available to the side to move, in row-major order
func (c *Controller) LegalMoves(ctx context.Context, gameID model.GameID) ([]model.Position, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.IsFinished() {
		return []model.Position{}, nil
	}
	return board.LegalMoves(&game.Board, game.Turn), nil
}

// Hint runs the search for the side to move at the game's depth
func (c *Controller) Hint(ctx context.Context, gameID model.GameID) (search.Result, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return search.Result{}, err
	}
	if err := checkPlayable(game); err != nil {
		return search.Result{}, err
	}
	return c.engine.BestMoveAtDepth(ctx, game.Board, game.Turn, game.SearchDepth)
}

// AbandonGame ends a game prematurely
func (c *Controller) AbandonGame(ctx context.Context, gameID model.GameID) error {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	return c.abandon(ctx, game)
}

// abandon is a no-op for games that already ended
func (c *Controller) abandon(ctx context.Context, game *model.Game) error {
	if game.IsFinished() {
		return nil
	}

	game.State = model.GameStateAbandoned
	game.UpdatedAt = c.clock.Now()

	c.logger.Info("game abandoned",
		slog.String("game_id", string(game.ID)),
		slog.String("lobby_code", string(game.LobbyCode)),
	)

	return c.storage.SaveGame(ctx, game)
}

// RemovePlayer abandons an in-progress game when one of its seated players
// leaves, and returns the game as it now stands
func (c *Controller) RemovePlayer(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.SideOf(playerID).IsPlayer() {
		if err := c.abandon(ctx, game); err != nil {
			return nil, err
		}
	}
	return game, nil
}

// GetResult returns the piece counts and winning side of a completed game
func (c *Controller) GetResult(ctx context.Context, gameID model.GameID) (model.GameResult, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return model.GameResult{}, err
	}
	if game.State != model.GameStateComplete {
		return model.GameResult{}, model.ErrNoGameInProgress
	}
	return c.scoringService.Result(&game.Board), nil
}

// CreateGameSummary creates a summary record for a completed game
func (c *Controller) CreateGameSummary(ctx context.Context, gameID model.GameID) (*model.GameSummary, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.State != model.GameStateComplete {
		return nil, model.ErrNoGameInProgress
	}

	return &model.GameSummary{
		ID:          gameID,
		FinalScores: c.scoringService.FinalScores(game),
		Winner:      c.scoringService.DetermineWinner(game),
		CompletedAt: c.clock.Now(),
	}, nil
}

func checkPlayable(game *model.Game) error {
	switch game.State {
	case model.GameStateComplete:
		return model.ErrGameComplete
	case model.GameStateAbandoned:
		return model.ErrGameAbandoned
	}
	return nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, lobbyCode model.LobbyCode, player1, player2 model.PlayerID, searchDepth int) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error)
	GamesForLobby(ctx context.Context, code model.LobbyCode) ([]*model.Game, error)
	LatestGameForLobby(ctx context.Context, code model.LobbyCode) (*model.Game, error)
	PlayMove(ctx context.Context, gameID model.GameID, playerID model.PlayerID, pos model.Position) (*model.Game, error)
	LegalMoves(ctx context.Context, gameID model.GameID) ([]model.Position, error)
	Hint(ctx context.Context, gameID model.GameID) (search.Result, error)
	AbandonGame(ctx context.Context, gameID model.GameID) error
	RemovePlayer(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error)
	GetResult(ctx context.Context, gameID model.GameID) (model.GameResult, error)
	CreateGameSummary(ctx context.Context, gameID model.GameID) (*model.GameSummary, error)
}

var _ ControllerInterface = (*Controller)(nil)

package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/othello/internal/dependencies/clock"
	"github.com/mcoot/othello/internal/dependencies/random"
	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/services/game"
	"github.com/mcoot/othello/internal/services/lobby"
	"github.com/mcoot/othello/internal/storage"
)

const (
	// PlayerIDLength is the length of generated bot player IDs
	PlayerIDLength = 16
	// MaxBotIterations is a safety limit for the ProcessBotActions loop
	MaxBotIterations = 1000
)

// BotActionType represents the type of action a bot took
type BotActionType string

const (
	ActionMove         BotActionType = "move"
	ActionPass         BotActionType = "pass"
	ActionGameComplete BotActionType = "game_complete"
)

// BotAction represents a single action taken during ProcessBotActions
type BotAction struct {
	Type     BotActionType
	PlayerID model.PlayerID
	Side     model.Cell
	Position *model.Position
}

// Service manages bot players in the game
type Service struct {
	storage         storage.Storage
	lobbyController *lobby.Controller
	gameController  *game.Controller
	strategies      map[string]Strategy
	clock           clock.Clock
	random          random.Random
	logger          *slog.Logger
}

// NewService creates a new bot Service
func NewService(
	store storage.Storage,
	lobbyController *lobby.Controller,
	gameController *game.Controller,
	strategies map[string]Strategy,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:         store,
		lobbyController: lobbyController,
		gameController:  gameController,
		strategies:      strategies,
		clock:           clk,
		random:          rnd,
		logger:          logger.With(slog.String("component", "bot-service")),
	}
}

// CreateBotPlayer creates a new bot player and saves it to storage
func (s *Service) CreateBotPlayer(ctx context.Context, displayName string, strategy string) (*model.Player, error) {
	player := &model.Player{
		ID:          model.PlayerID("bot-" + s.random.String(PlayerIDLength, random.LowerAlnum)),
		DisplayName: displayName,
		IsGuest:     true,
		IsBot:       true,
		BotStrategy: strategy,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	return player, nil
}

// hostEditable checks the requester may change the lobby's seating now
func hostEditable(lob *model.Lobby, requester model.PlayerID) error {
	if err := lob.RequireHost(requester); err != nil {
		return err
	}
	if lob.State == model.LobbyStateInGame {
		return model.ErrGameInProgress
	}
	return nil
}

// AddBotToLobby creates a bot player and seats it. Only the host may add
// bots, only between games, and only into an open seat
func (s *Service) AddBotToLobby(ctx context.Context, code model.LobbyCode, requestingPlayerID model.PlayerID, strategy string) (*model.Player, error) {
	strategy, err := model.ParseBotStrategy(strategy)
	if err != nil {
		return nil, err
	}
	if _, ok := s.strategies[strategy]; !ok {
		return nil, fmt.Errorf("%w: %s is not enabled", model.ErrUnknownBotStrategy, strategy)
	}

	lob, err := s.lobbyController.GetLobby(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := hostEditable(lob, requestingPlayerID); err != nil {
		return nil, err
	}
	if !lob.HasOpenSeat() {
		return nil, model.ErrLobbyFull
	}

	displayName := fmt.Sprintf("%s Bot %d", model.BotStrategyDisplayName(strategy), lob.BotCount()+1)
	bot, err := s.CreateBotPlayer(ctx, displayName, strategy)
	if err != nil {
		return nil, err
	}
	if _, err := s.lobbyController.JoinLobby(ctx, code, *bot); err != nil {
		return nil, err
	}

	s.logger.Info("bot added to lobby",
		slog.String("lobby_code", string(code)),
		slog.String("bot_id", string(bot.ID)),
		slog.String("bot_name", displayName),
		slog.String("strategy", strategy),
	)

	return bot, nil
}

// RemoveBotFromLobby takes a bot out of the lobby between games
func (s *Service) RemoveBotFromLobby(ctx context.Context, code model.LobbyCode, requestingPlayerID model.PlayerID, botPlayerID model.PlayerID) error {
	lob, err := s.lobbyController.GetLobby(ctx, code)
	if err != nil {
		return err
	}
	if err := hostEditable(lob, requestingPlayerID); err != nil {
		return err
	}

	switch member := lob.GetMember(botPlayerID); {
	case member == nil:
		return model.ErrNotInLobby
	case !member.Player.IsBot:
		return model.ErrNotBot
	}

	return s.lobbyController.LeaveLobby(ctx, code, botPlayerID)
}

// ProcessBotActions plays moves while the side to move belongs to a bot.
// It returns every action taken so handlers can report them, including
// those taken before an error
func (s *Service) ProcessBotActions(ctx context.Context, gameID model.GameID) ([]BotAction, error) {
	var actions []BotAction
	for range MaxBotIterations {
		taken, done, err := s.takeTurn(ctx, gameID)
		actions = append(actions, taken...)
		if err != nil || done {
			return actions, err
		}
	}
	return actions, nil
}

// takeTurn plays one bot move. done is set once the game is over or a
// human is to move
func (s *Service) takeTurn(ctx context.Context, gameID model.GameID) (actions []BotAction, done bool, err error) {
	g, err := s.gameController.GetGame(ctx, gameID)
	if err != nil {
		return nil, true, err
	}
	if g.IsFinished() {
		return nil, true, nil
	}

	playerID := g.CurrentPlayer()
	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, true, err
	}
	if !player.IsBot {
		return nil, true, nil
	}

	strategy, err := s.strategyForPlayer(player)
	if err != nil {
		return nil, true, err
	}

	start := s.clock.Now()
	pos, err := strategy.ChooseMove(ctx, g)
	if err != nil {
		return nil, true, err
	}
	if pos == nil {
		return nil, true, model.ErrNoLegalMoves
	}
	s.logger.DebugContext(ctx, "bot chose move",
		slog.String("game_id", string(gameID)),
		slog.String("bot_id", string(playerID)),
		slog.String("strategy", player.BotStrategy),
		slog.Int("row", pos.Row),
		slog.Int("col", pos.Col),
		slog.Duration("think_time", clock.Since(s.clock, start)),
	)

	side, before := g.Turn, len(g.History)
	updated, err := s.gameController.PlayMove(ctx, gameID, playerID, *pos)
	if err != nil {
		return nil, true, err
	}

	actions = append(actions, BotAction{Type: ActionMove, PlayerID: playerID, Side: side, Position: pos})
	// Passes forced by the move are recorded after it
	for _, rec := range updated.History[before+1:] {
		if rec.Pass {
			actions = append(actions, BotAction{Type: ActionPass, PlayerID: updated.PlayerFor(rec.Side), Side: rec.Side})
		}
	}

	if updated.State == model.GameStateComplete {
		return append(actions, BotAction{Type: ActionGameComplete}), true, nil
	}
	return actions, false, nil
}

// strategyForPlayer returns the bot's strategy, falling back to the default
// when the stored name is no longer registered
func (s *Service) strategyForPlayer(player *model.Player) (Strategy, error) {
	if st, ok := s.strategies[player.BotStrategy]; ok {
		return st, nil
	}
	if st, ok := s.strategies[model.DefaultBotStrategy]; ok {
		return st, nil
	}
	return nil, fmt.Errorf("%w: %s", model.ErrUnknownBotStrategy, player.BotStrategy)
}

package lobby

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/othello/internal/dependencies/clock"
	"github.com/mcoot/othello/internal/dependencies/random"
	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/services/game"
	"github.com/mcoot/othello/internal/storage"
)

// LobbyCodeLength is the length of generated lobby codes
const LobbyCodeLength = 6

// maxCodeAttempts bounds retries when a generated code is already taken
const maxCodeAttempts = 16

var errNoFreeCode = errors.New("could not generate an unused lobby code")

// Controller manages lobby membership, seating and the lobby's current game
type Controller struct {
	storage        storage.Storage
	gameController *game.Controller
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger
}

func NewController(
	storage storage.Storage,
	gameController *game.Controller,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:        storage,
		gameController: gameController,
		clock:          clock,
		random:         random,
		logger:         logger.With(slog.String("component", "lobby-controller")),
	}
}

// update loads a lobby, applies fn and saves the result. Nothing is saved
// when fn fails
func (c *Controller) update(ctx context.Context, code model.LobbyCode, fn func(*model.Lobby) error) (*model.Lobby, error) {
	lobby, err := c.storage.GetLobby(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := fn(lobby); err != nil {
		return nil, err
	}
	lobby.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return nil, err
	}
	return lobby, nil
}

func (c *Controller) newCode(ctx context.Context) (model.LobbyCode, error) {
	for range maxCodeAttempts {
		code := model.LobbyCode(c.random.String(LobbyCodeLength, random.Unambiguous))
		exists, err := c.storage.LobbyExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errNoFreeCode
}

// CreateLobby creates a new lobby with the given player seated as host
func (c *Controller) CreateLobby(ctx context.Context, host model.Player) (*model.Lobby, error) {
	code, err := c.newCode(ctx)
	if err != nil {
		return nil, err
	}

	config := model.DefaultLobbyConfig()
	config.SearchDepth = c.gameController.DefaultSearchDepth()

	now := c.clock.Now()
	lobby := &model.Lobby{
		Code:   code,
		State:  model.LobbyStateWaiting,
		Config: config,
		Members: []model.LobbyMember{
			{Player: host, Role: model.RolePlayer, IsHost: true, JoinedAt: now},
		},
		GameHistory: []model.GameSummary{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return nil, err
	}

	c.logger.Info("lobby created",
		slog.String("lobby_code", string(code)),
		slog.String("host_id", string(host.ID)),
	)

	return lobby, nil
}

func (c *Controller) GetLobby(ctx context.Context, code model.LobbyCode) (*model.Lobby, error) {
	return c.storage.GetLobby(ctx, code)
}

// JoinLobby adds a player to a lobby. The newcomer takes an open seat while
// the lobby is waiting and otherwise spectates
func (c *Controller) JoinLobby(ctx context.Context, code model.LobbyCode, player model.Player) (*model.LobbyMember, error) {
	var member model.LobbyMember
	_, err := c.update(ctx, code, func(lobby *model.Lobby) error {
		if lobby.GetMember(player.ID) != nil {
			return model.ErrAlreadyInLobby
		}

		member = model.LobbyMember{Player: player, Role: model.RoleSpectator, JoinedAt: c.clock.Now()}
		if lobby.State == model.LobbyStateWaiting && lobby.HasOpenSeat() {
			member.Role = model.RolePlayer
		}
		lobby.Members = append(lobby.Members, member)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("player joined lobby",
		slog.String("lobby_code", string(code)),
		slog.String("player_id", string(player.ID)),
		slog.String("role", string(member.Role)),
	)

	return &member, nil
}

// LeaveLobby removes a player. A seated player leaving mid-game abandons it,
// and the last member out closes the lobby
func (c *Controller) LeaveLobby(ctx context.Context, code model.LobbyCode, playerID model.PlayerID) error {
	lobby, err := c.storage.GetLobby(ctx, code)
	if err != nil {
		return err
	}

	left, ok := lobby.RemoveMember(playerID)
	if !ok {
		return model.ErrNotInLobby
	}

	if len(lobby.Members) == 0 {
		if lobby.CurrentGame != nil {
			if err := c.gameController.AbandonGame(ctx, *lobby.CurrentGame); err != nil {
				return err
			}
		}
		c.logger.Info("lobby closed", slog.String("lobby_code", string(code)))
		return c.storage.DeleteLobby(ctx, code)
	}

	seated := left.Role == model.RolePlayer
	if seated && lobby.CurrentGame != nil {
		g, err := c.gameController.RemovePlayer(ctx, *lobby.CurrentGame, playerID)
		if err != nil {
			return err
		}
		if g.State == model.GameStateAbandoned {
			lobby.EndGame(nil)
		}
	}

	if seated && lobby.State == model.LobbyStateWaiting {
		lobby.PromoteSpectator()
	}

	lobby.UpdatedAt = c.clock.Now()
	return c.storage.SaveLobby(ctx, lobby)
}

// SetRole moves a member between a seat and the spectators
func (c *Controller) SetRole(ctx context.Context, code model.LobbyCode, playerID model.PlayerID, role model.LobbyMemberRole) error {
	_, err := c.update(ctx, code, func(lobby *model.Lobby) error {
		if lobby.State == model.LobbyStateInGame {
			return model.ErrGameInProgress
		}

		member := lobby.GetMember(playerID)
		if member == nil {
			return model.ErrNotInLobby
		}

		switch role {
		case model.RolePlayer:
			if member.Role != model.RolePlayer && !lobby.HasOpenSeat() {
				return model.ErrLobbyFull
			}
		case model.RoleSpectator:
		default:
			return model.ErrInvalidRole
		}

		member.Role = role
		return nil
	})
	return err
}

// TransferHost hands the host role to another human member
func (c *Controller) TransferHost(ctx context.Context, code model.LobbyCode, requestingPlayer model.PlayerID, newHostID model.PlayerID) error {
	_, err := c.update(ctx, code, func(lobby *model.Lobby) error {
		if err := lobby.RequireHost(requestingPlayer); err != nil {
			return err
		}

		newHost := lobby.GetMember(newHostID)
		if newHost == nil {
			return model.ErrNotInLobby
		}
		if newHost.Player.IsBot {
			return model.ErrInvalidRole
		}

		lobby.GetHost().IsHost = false
		newHost.IsHost = true
		return nil
	})
	return err
}

// StartGame begins a new game between the two seated players. A seated host
// takes the configured side and the other player the opposite one
func (c *Controller) StartGame(ctx context.Context, code model.LobbyCode, requestingPlayer model.PlayerID) (*model.Game, error) {
	var g *model.Game
	_, err := c.update(ctx, code, func(lobby *model.Lobby) error {
		if err := lobby.RequireHost(requestingPlayer); err != nil {
			return err
		}
		if lobby.State == model.LobbyStateInGame {
			return model.ErrGameInProgress
		}

		player1, player2, err := lobby.Seating()
		if err != nil {
			return err
		}

		g, err = c.gameController.CreateGame(ctx, code, player1, player2, lobby.Config.SearchDepth)
		if err != nil {
			return err
		}

		lobby.State = model.LobbyStateInGame
		lobby.CurrentGame = &g.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// AbandonGame ends the current game without recording it in the history
func (c *Controller) AbandonGame(ctx context.Context, code model.LobbyCode, requestingPlayer model.PlayerID) error {
	_, err := c.update(ctx, code, func(lobby *model.Lobby) error {
		if err := lobby.RequireHost(requestingPlayer); err != nil {
			return err
		}
		if lobby.State != model.LobbyStateInGame || lobby.CurrentGame == nil {
			return model.ErrNoGameInProgress
		}
		if err := c.gameController.AbandonGame(ctx, *lobby.CurrentGame); err != nil {
			return err
		}

		lobby.EndGame(nil)
		return nil
	})
	return err
}

// CompleteGame records the finished game in the lobby history and returns the lobby to waiting
func (c *Controller) CompleteGame(ctx context.Context, code model.LobbyCode) error {
	var summary *model.GameSummary
	_, err := c.update(ctx, code, func(lobby *model.Lobby) error {
		if lobby.CurrentGame == nil {
			return model.ErrNoGameInProgress
		}

		var err error
		summary, err = c.gameController.CreateGameSummary(ctx, *lobby.CurrentGame)
		if err != nil {
			return err
		}

		lobby.EndGame(summary)
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Info("lobby game recorded",
		slog.String("lobby_code", string(code)),
		slog.String("game_id", string(summary.ID)),
		slog.String("winner", string(summary.Winner)),
	)
	return nil
}

// UpdateConfig replaces the lobby configuration between games
func (c *Controller) UpdateConfig(ctx context.Context, code model.LobbyCode, requestingPlayer model.PlayerID, config model.LobbyConfig) error {
	_, err := c.update(ctx, code, func(lobby *model.Lobby) error {
		if err := lobby.RequireHost(requestingPlayer); err != nil {
			return err
		}
		if lobby.State == model.LobbyStateInGame {
			return model.ErrGameInProgress
		}
		if err := config.Validate(); err != nil {
			return err
		}

		lobby.Config = config
		return nil
	})
	return err
}

// ControllerInterface is the lobby surface the HTTP layer depends on
type ControllerInterface interface {
	CreateLobby(ctx context.Context, host model.Player) (*model.Lobby, error)
	GetLobby(ctx context.Context, code model.LobbyCode) (*model.Lobby, error)
	JoinLobby(ctx context.Context, code model.LobbyCode, player model.Player) (*model.LobbyMember, error)
	LeaveLobby(ctx context.Context, code model.LobbyCode, playerID model.PlayerID) error
	SetRole(ctx context.Context, code model.LobbyCode, playerID model.PlayerID, role model.LobbyMemberRole) error
	TransferHost(ctx context.Context, code model.LobbyCode, requestingPlayer model.PlayerID, newHostID model.PlayerID) error
	StartGame(ctx context.Context, code model.LobbyCode, requestingPlayer model.PlayerID) (*model.Game, error)
	AbandonGame(ctx context.Context, code model.LobbyCode, requestingPlayer model.PlayerID) error
	CompleteGame(ctx context.Context, code model.LobbyCode) error
	UpdateConfig(ctx context.Context, code model.LobbyCode, requestingPlayer model.PlayerID, config model.LobbyConfig) error
}

var _ ControllerInterface = (*Controller)(nil)

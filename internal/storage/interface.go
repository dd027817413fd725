package storage

import (
	"context"

	"github.com/mcoot/othello/internal/model"
)

// PlayerStore holds players and the credentials of registered ones.
// Lookups of missing players return model.ErrPlayerNotFound
type PlayerStore interface {
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	// GetRegisteredPlayerByUsername expects the lower-cased username
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)
}

// LobbyStore returns model.ErrLobbyNotFound for unknown codes
type LobbyStore interface {
	SaveLobby(ctx context.Context, lobby *model.Lobby) error
	GetLobby(ctx context.Context, code model.LobbyCode) (*model.Lobby, error)
	DeleteLobby(ctx context.Context, code model.LobbyCode) error
	LobbyExists(ctx context.Context, code model.LobbyCode) (bool, error)
}

// GameStore returns model.ErrGameNotFound for unknown ids
type GameStore interface {
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
	// GetGamesForLobby returns games oldest first, never nil
	GetGamesForLobby(ctx context.Context, code model.LobbyCode) ([]*model.Game, error)
}

// Storage is everything the services persist. Implementations are safe for
// concurrent use and hand out copies, so callers may mutate what they get
type Storage interface {
	PlayerStore
	LobbyStore
	GameStore

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error
}

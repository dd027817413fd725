package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/storage"
)

// connectTimeout bounds the PING New sends before returning
const connectTimeout = 5 * time.Second

// Storage keeps players, lobbies and games in Redis as JSON strings
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New connects using cfg and fails unless the server answers a PING
func New(cfg Config) (*Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	s := NewWithClient(redis.NewClient(opts), cfg)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := s.Ping(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return s, nil
}

// NewWithClient wraps an existing client without checking it
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{client: client, cfg: cfg}
}

// Ping round-trips to the Redis server
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client's connections
func (s *Storage) Close() error {
	return s.client.Close()
}

var _ storage.Storage = (*Storage)(nil)

// getJSON loads and decodes the value at key, mapping a missing key to notFound
func getJSON[T any](ctx context.Context, c redis.Cmdable, key string, notFound error) (*T, error) {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	return decode[T](key, data)
}

func decode[T any](key string, data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &v, nil
}

func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return data, nil
}

// Players

// SavePlayer expires guests after GuestPlayerTTL; registered players are kept
func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := encode(player)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if player.IsGuest {
		ttl = s.cfg.GuestPlayerTTL
	}
	return s.client.Set(ctx, playerKey(player.ID), data, ttl).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return getJSON[model.Player](ctx, s.client, playerKey(id), model.ErrPlayerNotFound)
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return s.client.Del(ctx, playerKey(id)).Err()
}

// SaveRegisteredPlayer writes the credentials and the username index in one
// transaction
func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := encode(rp)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, registeredPlayerKey(rp.PlayerID), data, 0)
		pipe.Set(ctx, usernameIndexKey(rp.Username), string(rp.PlayerID), 0)
		return nil
	})
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	return getJSON[model.RegisteredPlayer](ctx, s.client, registeredPlayerKey(playerID), model.ErrPlayerNotFound)
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetRegisteredPlayer(ctx, model.PlayerID(id))
}

// Lobbies

// SaveLobby refreshes the lobby's TTL on every write
func (s *Storage) SaveLobby(ctx context.Context, lobby *model.Lobby) error {
	data, err := encode(lobby)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, lobbyKey(lobby.Code), data, s.cfg.LobbyTTL).Err()
}

func (s *Storage) GetLobby(ctx context.Context, code model.LobbyCode) (*model.Lobby, error) {
	return getJSON[model.Lobby](ctx, s.client, lobbyKey(code), model.ErrLobbyNotFound)
}

func (s *Storage) DeleteLobby(ctx context.Context, code model.LobbyCode) error {
	return s.client.Del(ctx, lobbyKey(code)).Err()
}

func (s *Storage) LobbyExists(ctx context.Context, code model.LobbyCode) (bool, error) {
	n, err := s.client.Exists(ctx, lobbyKey(code)).Result()
	return n > 0, err
}

// Games

// SaveGame writes the game and indexes it under its lobby, scored by
// creation time. The index shares the game TTL
func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := encode(game)
	if err != nil {
		return err
	}

	index := gamesForLobbyIndexKey(game.LobbyCode)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(game.ID), data, s.cfg.GameTTL)
		pipe.ZAdd(ctx, index, redis.Z{
			Score:  float64(game.CreatedAt.UnixNano()),
			Member: string(game.ID),
		})
		pipe.Expire(ctx, index, s.cfg.GameTTL)
		return nil
	})
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return getJSON[model.Game](ctx, s.client, gameKey(id), model.ErrGameNotFound)
}

// DeleteGame removes a game and its index entry. Unknown ids are ignored
func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	game, err := s.GetGame(ctx, id)
	if errors.Is(err, model.ErrGameNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, gameKey(id))
		pipe.ZRem(ctx, gamesForLobbyIndexKey(game.LobbyCode), string(id))
		return nil
	})
	return err
}

// GetGamesForLobby returns the lobby's games, oldest first. Index entries
// whose game has expired or cannot be decoded are skipped
func (s *Storage) GetGamesForLobby(ctx context.Context, code model.LobbyCode) ([]*model.Game, error) {
	ids, err := s.client.ZRange(ctx, gamesForLobbyIndexKey(code), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Game{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(model.GameID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(values))
	for i, val := range values {
		str, ok := val.(string)
		if !ok {
			continue
		}
		game, err := decode[model.Game](keys[i], []byte(str))
		if err != nil {
			continue
		}
		games = append(games, game)
	}
	return games, nil
}

package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/othello/internal/dependencies/clock"
	"github.com/mcoot/othello/internal/dependencies/random"
	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/services/auth"
	"github.com/mcoot/othello/internal/services/bot"
	"github.com/mcoot/othello/internal/services/game"
	"github.com/mcoot/othello/internal/services/lobby"
	"github.com/mcoot/othello/internal/services/scoring"
	"github.com/mcoot/othello/internal/services/search"
	"github.com/mcoot/othello/internal/storage"
	"github.com/mcoot/othello/internal/storage/memory"
	redisstorage "github.com/mcoot/othello/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	SearchEngine    *search.Engine
	ScoringService  *scoring.Service
	GameController  *game.Controller
	LobbyController *lobby.Controller
	BotService      *bot.Service
	AuthService     *auth.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// SearchDepth is the default look-ahead for bots and hints (optional)
	// If zero, defaults to model.DefaultSearchDepth
	SearchDepth int
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	searchDepth := cfg.SearchDepth
	if searchDepth == 0 {
		searchDepth = model.DefaultSearchDepth
	}
	if searchDepth < model.MinSearchDepth || searchDepth > model.MaxSearchDepth {
		return nil, fmt.Errorf("invalid SearchDepth %d: must be %d-%d", searchDepth, model.MinSearchDepth, model.MaxSearchDepth)
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, authCfg, search.Config{Depth: searchDepth}, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	searchCfg search.Config,
	logger *slog.Logger,
) *App {
	engine := search.NewEngine(searchCfg, logger)
	scoringService := scoring.New()
	gameController := game.NewController(store, scoringService, engine, clk, rnd, logger)
	lobbyController := lobby.NewController(store, gameController, clk, rnd, logger)
	strategies := map[string]bot.Strategy{
		model.BotStrategyMinimax: bot.NewMinimaxStrategy(engine),
		model.BotStrategyRandom:  bot.NewRandomStrategy(rnd),
	}
	botService := bot.NewService(store, lobbyController, gameController, strategies, clk, rnd, logger)
	authService := auth.New(store, clk, authCfg, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		SearchEngine:    engine,
		ScoringService:  scoringService,
		GameController:  gameController,
		LobbyController: lobbyController,
		BotService:      botService,
		AuthService:     authService,
	}
}

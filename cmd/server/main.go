package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mcoot/othello/internal/api"
	"github.com/mcoot/othello/internal/factory"
	redisstorage "github.com/mcoot/othello/internal/storage/redis"
)

const sessionJanitorInterval = 10 * time.Minute

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := factoryConfigFromEnv(logger)
	if err != nil {
		return err
	}

	serverConfig, err := api.ServerConfigFromEnv(os.Getenv)
	if err != nil {
		return err
	}

	app, err := factory.New(cfg)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AuthService:     app.AuthService,
		LobbyController: app.LobbyController,
		GameController:  app.GameController,
		BotService:      app.BotService,
		Storage:         app.Storage,
	})
	server := api.NewServer(router, serverConfig, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.AuthService.RunJanitor(ctx, sessionJanitorInterval)

	logger.Info("starting othello server",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.Int("search_depth", app.SearchEngine.Depth()),
	)
	return server.Run(ctx)
}

// factoryConfigFromEnv reads STORAGE_TYPE, SEARCH_DEPTH and the REDIS_* settings
func factoryConfigFromEnv(logger *slog.Logger) (factory.Config, error) {
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}
	if cfg.StorageType == "" {
		cfg.StorageType = factory.StorageTypeMemory
	}

	if v := os.Getenv("SEARCH_DEPTH"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("SEARCH_DEPTH must be an integer, got %q", v)
		}
		cfg.SearchDepth = depth
	}

	if cfg.StorageType == factory.StorageTypeRedis {
		if os.Getenv("REDIS_URL") == "" {
			return cfg, fmt.Errorf("REDIS_URL required when STORAGE_TYPE=redis")
		}
		redisCfg, err := redisstorage.ConfigFromEnv(os.Getenv)
		if err != nil {
			return cfg, err
		}
		cfg.RedisConfig = &redisCfg
	}

	return cfg, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

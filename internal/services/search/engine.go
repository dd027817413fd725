package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/othello/internal/model"
)

// Config holds search settings
type Config struct {
	// Depth is the default look-ahead in plies
	Depth int
}

// DefaultConfig returns the default search configuration
func DefaultConfig() Config {
	return Config{
		Depth: model.DefaultSearchDepth,
	}
}

// Engine picks moves for a side using Search
type Engine struct {
	depth  int
	logger *slog.Logger
}

// NewEngine creates a new Engine
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if cfg.Depth <= 0 {
		cfg.Depth = DefaultConfig().Depth
	}
	return &Engine{
		depth:  cfg.Depth,
		logger: logger.With(slog.String("component", "search-engine")),
	}
}

// Depth returns the configured default depth
func (e *Engine) Depth() int {
	return e.depth
}

// BestMove searches at the configured depth for side
func (e *Engine) BestMove(ctx context.Context, b model.Board, side model.Cell) (Result, error) {
	return e.BestMoveAtDepth(ctx, b, side, e.depth)
}

// BestMoveAtDepth searches at the given depth for side. A result without a
// move means side must pass
func (e *Engine) BestMoveAtDepth(ctx context.Context, b model.Board, side model.Cell, depth int) (Result, error) {
	if !side.IsPlayer() {
		return Result{}, model.ErrInvalidSide
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	res := Search(b, depth, NegInf, PosInf, side == model.Player2)

	attrs := []any{
		slog.String("side", side.String()),
		slog.Int("depth", depth),
		slog.Int("score", res.Score),
		slog.Int("nodes", res.Nodes),
		slog.Duration("duration", time.Since(start)),
	}
	if res.Move != nil {
		attrs = append(attrs, slog.Int("row", res.Move.Row), slog.Int("col", res.Move.Col))
	}
	e.logger.DebugContext(ctx, "search complete", attrs...)

	return res, nil
}

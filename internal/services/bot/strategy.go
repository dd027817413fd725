package bot

import (
	"context"

	"github.com/mcoot/othello/internal/model"
)

// Strategy chooses a bot's move
type Strategy interface {
	// ChooseMove selects a move for the side to move in game.
	// A nil position means the side has no legal move
	ChooseMove(ctx context.Context, game *model.Game) (*model.Position, error)
}

// StrategyFunc adapts a plain function to Strategy
type StrategyFunc func(ctx context.Context, game *model.Game) (*model.Position, error)

// ChooseMove calls f
func (f StrategyFunc) ChooseMove(ctx context.Context, game *model.Game) (*model.Position, error) {
	return f(ctx, game)
}

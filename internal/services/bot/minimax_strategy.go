package bot

import (
	"context"

	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/services/search"
)

// MinimaxStrategy plays the search engine's best move at the game's depth
type MinimaxStrategy struct {
	engine *search.Engine
}

// NewMinimaxStrategy creates a new MinimaxStrategy
func NewMinimaxStrategy(engine *search.Engine) *MinimaxStrategy {
	return &MinimaxStrategy{engine: engine}
}

// ChooseMove searches for the side to move
func (s *MinimaxStrategy) ChooseMove(ctx context.Context, game *model.Game) (*model.Position, error) {
	depth := game.SearchDepth
	if depth <= 0 {
		depth = s.engine.Depth()
	}
	res, err := s.engine.BestMoveAtDepth(ctx, game.Board, game.Turn, depth)
	if err != nil {
		return nil, err
	}
	return res.Move, nil
}

package bot

import (
	"context"

	"github.com/mcoot/othello/internal/dependencies/random"
	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/services/board"
)

// RandomStrategy picks uniformly among the legal moves
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseMove returns a random legal move for the side to move
func (s *RandomStrategy) ChooseMove(ctx context.Context, game *model.Game) (*model.Position, error) {
	move, ok := random.Pick(s.random, board.LegalMoves(&game.Board, game.Turn))
	if !ok {
		return nil, nil
	}
	return &move, nil
}

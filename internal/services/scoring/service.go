package scoring

import (
	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/services/board"
)

// Service computes final results for finished boards
type Service struct{}

// New creates a new ScoringService
func New() *Service {
	return &Service{}
}

// Result counts the pieces on b and picks the winning side.
// The side with strictly more pieces wins; equal counts are a draw
func (s *Service) Result(b *model.Board) model.GameResult {
	p1, p2 := board.CountPieces(b)
	result := model.GameResult{
		Player1Count: p1,
		Player2Count: p2,
		Winner:       model.Empty,
	}
	switch {
	case p1 > p2:
		result.Winner = model.Player1
	case p2 > p1:
		result.Winner = model.Player2
	}
	return result
}

// FinalScores maps each seated player to their piece count
func (s *Service) FinalScores(game *model.Game) map[model.PlayerID]int {
	result := s.Result(&game.Board)
	return map[model.PlayerID]int{
		game.Player1: result.Player1Count,
		game.Player2: result.Player2Count,
	}
}

// DetermineWinner returns the player seated on the winning side, or empty string on a draw
func (s *Service) DetermineWinner(game *model.Game) model.PlayerID {
	result := s.Result(&game.Board)
	if result.Winner == model.Empty {
		return ""
	}
	return game.PlayerFor(result.Winner)
}

// Interface for dependency injection
type ServiceInterface interface {
	Result(b *model.Board) model.GameResult
	FinalScores(game *model.Game) map[model.PlayerID]int
	DetermineWinner(game *model.Game) model.PlayerID
}

var _ ServiceInterface = (*Service)(nil)

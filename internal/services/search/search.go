// Package search selects moves with depth-limited minimax and alpha-beta
// pruning.
//
// Scores are always Player2-relative: Player2 maximizes board.Evaluate(b,
// Player2) and Player1 minimizes the same value
package search

import (
	"math"

	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/services/board"
)

// Window bounds used for the root call
const (
	NegInf = math.MinInt
	PosInf = math.MaxInt
)

// Result is the outcome of a search
type Result struct {
	Move  *model.Position // nil when the side to move has no legal move
	Score int             // Player2-relative
	Nodes int             // positions visited, including the root
}

// HasMove reports whether the search produced a move
func (r Result) HasMove() bool {
	return r.Move != nil
}

// Search runs alpha-beta minimax from b. The side to move is Player2 when
// maximizing is true, Player1 otherwise. A depth of zero or less, or a side
// with no legal moves, yields no move and the static evaluation.
//
// Among equally scored moves the first in row-major order wins
func Search(b model.Board, depth, alpha, beta int, maximizing bool) Result {
	var s searcher
	move, ok, score := s.alphaBeta(&b, depth, alpha, beta, maximizing)
	res := Result{Score: score, Nodes: s.nodes}
	if ok {
		res.Move = &move
	}
	return res
}

// SideToMove maps the maximizing flag to a side
func SideToMove(maximizing bool) model.Cell {
	if maximizing {
		return model.Player2
	}
	return model.Player1
}

type searcher struct {
	nodes int
}

func (s *searcher) alphaBeta(b *model.Board, depth, alpha, beta int, maximizing bool) (model.Position, bool, int) {
	s.nodes++

	if depth <= 0 {
		return model.Position{}, false, board.Evaluate(b, model.Player2)
	}

	side := SideToMove(maximizing)
	moves := board.LegalMoves(b, side)
	if len(moves) == 0 {
		return model.Position{}, false, board.Evaluate(b, model.Player2)
	}

	var best model.Position
	if maximizing {
		value := NegInf
		for _, m := range moves {
			child := *b
			board.ApplyMove(&child, m.Row, m.Col, side)
			_, _, score := s.alphaBeta(&child, depth-1, alpha, beta, false)
			if score > value {
				value, best = score, m
			}
			alpha = max(alpha, value)
			if alpha >= beta {
				break
			}
		}
		return best, true, value
	}

	value := PosInf
	for _, m := range moves {
		child := *b
		board.ApplyMove(&child, m.Row, m.Col, side)
		_, _, score := s.alphaBeta(&child, depth-1, alpha, beta, true)
		if score < value {
			value, best = score, m
		}
		beta = min(beta, value)
		if alpha >= beta {
			break
		}
	}
	return best, true, value
}

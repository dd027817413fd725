package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/services/board"
	"github.com/mcoot/othello/internal/testutil"
)

type SearchSuite struct {
	suite.Suite
}

func TestSearchSuite(t *testing.T) {
	suite.Run(t, new(SearchSuite))
}

func (s *SearchSuite) parse(rows ...string) model.Board {
	b, err := model.ParseBoard(rows)
	s.Require().NoError(err)
	return b
}

// minimax is an unpruned reference with the same tie-breaking
func minimax(b model.Board, depth int, maximizing bool, nodes *int) (*model.Position, int) {
	*nodes++
	if depth <= 0 {
		return nil, board.Evaluate(&b, model.Player2)
	}
	side := SideToMove(maximizing)
	moves := board.LegalMoves(&b, side)
	if len(moves) == 0 {
		return nil, board.Evaluate(&b, model.Player2)
	}

	var best *model.Position
	value := PosInf
	if maximizing {
		value = NegInf
	}
	for _, m := range moves {
		child := b
		board.ApplyMove(&child, m.Row, m.Col, side)
		_, score := minimax(child, depth-1, !maximizing, nodes)
		if (maximizing && score > value) || (!maximizing && score < value) {
			value = score
			best = &m
		}
	}
	return best, value
}

func (s *SearchSuite) TestDepthZeroReturnsEvaluation() {
	b := board.CreateInitial()
	board.ApplyMove(&b, 2, 4, model.Player1)

	res := Search(b, 0, NegInf, PosInf, true)
	s.False(res.HasMove())
	s.Equal(board.Evaluate(&b, model.Player2), res.Score)
	s.Equal(1, res.Nodes)
}

func (s *SearchSuite) TestNoLegalMovesReturnsEvaluation() {
	b := s.parse(
		"XO......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	)

	res := Search(b, 4, NegInf, PosInf, true)
	s.Nil(res.Move)
	s.Equal(0, res.Score)
}

func (s *SearchSuite) TestNoLegalMovesEvaluatesFromPlayer2() {
	b := s.parse(
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"XXXXXXXX",
		"OOOOOOOO",
		"OOOOOOOO",
		"OOOOOOOO",
		"OOOOOOO.",
	)

	res := Search(b, 3, NegInf, PosInf, true)
	s.Nil(res.Move)
	s.Equal(-1, res.Score)

	res = Search(b, 3, NegInf, PosInf, false)
	s.Require().NotNil(res.Move)
	s.Equal(model.Position{Row: 7, Col: 7}, *res.Move)
}

func (s *SearchSuite) TestDepthOnePicksLargestCapture() {
	b := s.parse(
		"OXXXXX..",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"OX......",
	)

	res := Search(b, 1, NegInf, PosInf, true)
	s.Require().NotNil(res.Move)
	s.Equal(model.Position{Row: 0, Col: 6}, *res.Move)
	s.Equal(7, res.Score)
	s.Equal(3, res.Nodes)
}

func (s *SearchSuite) TestTiesResolveToFirstRowMajorMove() {
	b := board.CreateInitial()

	// every opening scores the same for either side
	res := Search(b, 1, NegInf, PosInf, false)
	s.Require().NotNil(res.Move)
	s.Equal(model.Position{Row: 2, Col: 4}, *res.Move)
	s.Equal(-3, res.Score)

	res = Search(b, 1, NegInf, PosInf, true)
	s.Require().NotNil(res.Move)
	s.Equal(model.Position{Row: 2, Col: 3}, *res.Move)
	s.Equal(3, res.Score)
}

func (s *SearchSuite) TestKnownOpeningReplies() {
	b := board.CreateInitial()
	board.ApplyMove(&b, 2, 4, model.Player1)

	res := Search(b, 2, NegInf, PosInf, true)
	s.Require().NotNil(res.Move)
	s.Equal(model.Position{Row: 2, Col: 5}, *res.Move)
	s.Equal(-3, res.Score)

	res = Search(b, 5, NegInf, PosInf, true)
	s.Require().NotNil(res.Move)
	s.Equal(model.Position{Row: 4, Col: 5}, *res.Move)
	s.Equal(2, res.Score)
}

func (s *SearchSuite) TestMatchesUnprunedMinimax() {
	positions := []model.Board{board.CreateInitial()}

	b := board.CreateInitial()
	for i, m := range []model.Position{{Row: 2, Col: 4}, {Row: 2, Col: 5}, {Row: 3, Col: 5}, {Row: 2, Col: 3}} {
		side := model.Player1
		if i%2 == 1 {
			side = model.Player2
		}
		s.Require().True(board.ApplyMove(&b, m.Row, m.Col, side))
		positions = append(positions, b)
	}

	for _, pos := range positions {
		for depth := 1; depth <= 4; depth++ {
			for _, maximizing := range []bool{true, false} {
				var fullNodes int
				wantMove, wantScore := minimax(pos, depth, maximizing, &fullNodes)

				got := Search(pos, depth, NegInf, PosInf, maximizing)
				s.Equal(wantScore, got.Score, "depth %d maximizing %v", depth, maximizing)
				s.Equal(wantMove, got.Move, "depth %d maximizing %v", depth, maximizing)
				s.LessOrEqual(got.Nodes, fullNodes)
			}
		}
	}
}

func (s *SearchSuite) TestPruningVisitsFewerNodes() {
	b := board.CreateInitial()

	var fullNodes int
	minimax(b, 4, false, &fullNodes)
	res := Search(b, 4, NegInf, PosInf, false)

	s.Equal(317, fullNodes)
	s.Equal(133, res.Nodes)
}

func (s *SearchSuite) TestSearchDoesNotMutateBoard() {
	b := board.CreateInitial()
	board.ApplyMove(&b, 2, 4, model.Player1)
	before := b

	Search(b, 4, NegInf, PosInf, true)
	s.Equal(before, b)
}

func (s *SearchSuite) TestEngineUsesConfiguredDepth() {
	e := NewEngine(Config{Depth: 2}, testutil.NopLogger())
	s.Equal(2, e.Depth())

	b := board.CreateInitial()
	board.ApplyMove(&b, 2, 4, model.Player1)

	res, err := e.BestMove(context.Background(), b, model.Player2)
	s.Require().NoError(err)
	s.Require().NotNil(res.Move)
	s.Equal(model.Position{Row: 2, Col: 5}, *res.Move)
}

func (s *SearchSuite) TestEngineDefaultsDepth() {
	e := NewEngine(Config{}, testutil.NopLogger())
	s.Equal(model.DefaultSearchDepth, e.Depth())
}

func (s *SearchSuite) TestEngineSearchesForPlayer1() {
	e := NewEngine(DefaultConfig(), testutil.NopLogger())

	b := board.CreateInitial()
	res, err := e.BestMoveAtDepth(context.Background(), b, model.Player1, 1)
	s.Require().NoError(err)
	s.Require().NotNil(res.Move)
	s.True(board.IsValidMove(&b, res.Move.Row, res.Move.Col, model.Player1))
}

func (s *SearchSuite) TestEngineRejectsInvalidSide() {
	e := NewEngine(DefaultConfig(), testutil.NopLogger())

	_, err := e.BestMove(context.Background(), board.CreateInitial(), model.Empty)
	s.ErrorIs(err, model.ErrInvalidSide)
}

func (s *SearchSuite) TestEngineHonoursCancelledContext() {
	e := NewEngine(DefaultConfig(), testutil.NopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.BestMove(ctx, board.CreateInitial(), model.Player2)
	s.ErrorIs(err, context.Canceled)
}

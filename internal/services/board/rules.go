// Package board implements the Othello rules over model.Board.
//
// All functions are pure apart from ApplyMove, which mutates the board it
// is given. Coordinates outside the board or a non-player side never panic;
// queries report false and ApplyMove leaves the board untouched
package board

import "github.com/mcoot/othello/internal/model"

// CreateInitial returns the standard opening position
func CreateInitial() model.Board {
	var b model.Board
	b.Cells[3][3] = model.Player1
	b.Cells[3][4] = model.Player2
	b.Cells[4][3] = model.Player2
	b.Cells[4][4] = model.Player1
	return b
}

// IsValidMove reports whether player may place a piece at (row, col)
func IsValidMove(b *model.Board, row, col int, player model.Cell) bool {
	pos := model.Position{Row: row, Col: col}
	if !placeable(b, pos, player) {
		return false
	}
	for _, d := range model.Directions {
		if boundedRun(b, pos, d, player) > 0 {
			return true
		}
	}
	return false
}

// ApplyMove places player's piece at (row, col) and flips every captured run.
// It returns false and leaves the board unchanged if the move is illegal
func ApplyMove(b *model.Board, row, col int, player model.Cell) bool {
	if !IsValidMove(b, row, col, player) {
		return false
	}
	pos := model.Position{Row: row, Col: col}

	// The eight rays from pos share no cells, so flipping one ray cannot
	// change the run measured along another
	var runs [len(model.Directions)]int
	for i, d := range model.Directions {
		runs[i] = boundedRun(b, pos, d, player)
	}

	b.Set(pos, player)
	for i, d := range model.Directions {
		p := pos
		for n := 0; n < runs[i]; n++ {
			p = p.Step(d)
			b.Set(p, player)
		}
	}
	return true
}

// Flips returns the cells a move at (row, col) would flip, in direction order.
// It returns nil for an illegal move
func Flips(b *model.Board, row, col int, player model.Cell) []model.Position {
	pos := model.Position{Row: row, Col: col}
	if !placeable(b, pos, player) {
		return nil
	}
	var flips []model.Position
	for _, d := range model.Directions {
		p := pos
		for n := boundedRun(b, pos, d, player); n > 0; n-- {
			p = p.Step(d)
			flips = append(flips, p)
		}
	}
	return flips
}

// LegalMoves returns every legal move for player in row-major order
func LegalMoves(b *model.Board, player model.Cell) []model.Position {
	var moves []model.Position
	for row := 0; row < model.Size; row++ {
		for col := 0; col < model.Size; col++ {
			if IsValidMove(b, row, col, player) {
				moves = append(moves, model.Position{Row: row, Col: col})
			}
		}
	}
	return moves
}

// HasAnyLegalMove reports whether player has at least one legal move
func HasAnyLegalMove(b *model.Board, player model.Cell) bool {
	for row := 0; row < model.Size; row++ {
		for col := 0; col < model.Size; col++ {
			if IsValidMove(b, row, col, player) {
				return true
			}
		}
	}
	return false
}

// IsGameOver reports whether neither player can move
func IsGameOver(b *model.Board) bool {
	return !HasAnyLegalMove(b, model.Player1) && !HasAnyLegalMove(b, model.Player2)
}

// CountPieces returns the number of Player1 and Player2 pieces
func CountPieces(b *model.Board) (int, int) {
	p1, p2 := 0, 0
	for row := 0; row < model.Size; row++ {
		for col := 0; col < model.Size; col++ {
			switch b.Cells[row][col] {
			case model.Player1:
				p1++
			case model.Player2:
				p2++
			}
		}
	}
	return p1, p2
}

// Evaluate is the static heuristic: player's pieces minus the opponent's
func Evaluate(b *model.Board, player model.Cell) int {
	p1, p2 := CountPieces(b)
	switch player {
	case model.Player1:
		return p1 - p2
	case model.Player2:
		return p2 - p1
	default:
		return 0
	}
}

// placeable checks the target is an empty on-board cell and player is a side
func placeable(b *model.Board, pos model.Position, player model.Cell) bool {
	return player.IsPlayer() && pos.InBounds() && b.IsEmpty(pos)
}

// boundedRun counts the opponent pieces walking from pos along d, returning
// zero unless the run is non-empty and ends on one of player's pieces
func boundedRun(b *model.Board, pos model.Position, d model.Direction, player model.Cell) int {
	opponent := player.Opponent()
	n := 0
	p := pos.Step(d)
	for p.InBounds() && b.Get(p) == opponent {
		n++
		p = p.Step(d)
	}
	if n > 0 && p.InBounds() && b.Get(p) == player {
		return n
	}
	return 0
}

package model

import (
	"encoding/json"
	"strings"
)

// Size is the fixed board dimension
const Size = 8

// Position identifies a cell on the board
type Position struct {
	Row int // 0-indexed from top
	Col int // 0-indexed from left
}

// InBounds returns true if the position is on the board
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Direction is a unit step between neighbouring cells
type Direction struct {
	DRow int
	DCol int
}

// Directions lists the 8 compass directions
var Directions = [8]Direction{
	{0, 1}, {1, 1}, {1, 0}, {1, -1},
	{0, -1}, {-1, -1}, {-1, 0}, {-1, 1},
}

// Step returns the neighbouring position in direction d
func (p Position) Step(d Direction) Position {
	return Position{Row: p.Row + d.DRow, Col: p.Col + d.DCol}
}

// Board is an 8x8 grid. It is a plain array so assignment copies it
type Board struct {
	Cells [Size][Size]Cell // Row-major: Cells[row][col]
}

// Get returns the cell at the given position, or Empty if off the board
func (b *Board) Get(pos Position) Cell {
	if !pos.InBounds() {
		return Empty
	}
	return b.Cells[pos.Row][pos.Col]
}

// Set writes a cell at the given position; off-board writes are ignored
func (b *Board) Set(pos Position, c Cell) {
	if pos.InBounds() {
		b.Cells[pos.Row][pos.Col] = c
	}
}

// IsEmpty returns true if the cell at the given position is empty
func (b *Board) IsEmpty(pos Position) bool {
	return b.Get(pos) == Empty
}

// Count returns the number of cells holding c
func (b *Board) Count(c Cell) int {
	count := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b.Cells[row][col] == c {
				count++
			}
		}
	}
	return count
}

// Rows renders the board as Size strings using Cell.Symbol
func (b *Board) Rows() []string {
	rows := make([]string, Size)
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		sb.Reset()
		for col := 0; col < Size; col++ {
			sb.WriteByte(b.Cells[row][col].Symbol())
		}
		rows[row] = sb.String()
	}
	return rows
}

// ParseBoard builds a board from the Rows representation
func ParseBoard(rows []string) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, ErrInvalidBoard
	}
	for row, line := range rows {
		if len(line) != Size {
			return b, ErrInvalidBoard
		}
		for col := 0; col < Size; col++ {
			c, ok := CellFromSymbol(line[col])
			if !ok {
				return b, ErrInvalidBoard
			}
			b.Cells[row][col] = c
		}
	}
	return b, nil
}

// MarshalJSON stores the board as its Rows
func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Rows())
}

// UnmarshalJSON reads the Rows representation
func (b *Board) UnmarshalJSON(data []byte) error {
	var rows []string
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	parsed, err := ParseBoard(rows)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

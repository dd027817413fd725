package model

// Cell is the content of a single board square
type Cell uint8

const (
	Empty   Cell = iota
	Player1      // Moves first, rendered as X
	Player2      // Moves second, rendered as O
)

// IsPlayer returns true for Player1 and Player2
func (c Cell) IsPlayer() bool {
	return c == Player1 || c == Player2
}

// Opponent returns the other player, or Empty for a non-player cell
func (c Cell) Opponent() Cell {
	switch c {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return Empty
	}
}

// Symbol returns the single character used for the cell in the wire format
func (c Cell) Symbol() byte {
	switch c {
	case Player1:
		return 'X'
	case Player2:
		return 'O'
	default:
		return '.'
	}
}

// CellFromSymbol is the inverse of Symbol; ok is false for unknown symbols
func CellFromSymbol(s byte) (Cell, bool) {
	switch s {
	case 'X':
		return Player1, true
	case 'O':
		return Player2, true
	case '.':
		return Empty, true
	default:
		return Empty, false
	}
}

// String returns a readable side name
func (c Cell) String() string {
	switch c {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	default:
		return "empty"
	}
}

// ParseSide parses "player1"/"player2"; ok is false otherwise
func ParseSide(s string) (Cell, bool) {
	switch s {
	case "player1":
		return Player1, true
	case "player2":
		return Player2, true
	default:
		return Empty, false
	}
}

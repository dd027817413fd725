package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameState represents the current phase of a game
type GameState string

const (
	GameStateInProgress GameState = "in_progress" // Players alternating moves
	GameStateComplete   GameState = "complete"    // Neither side can move
	GameStateAbandoned  GameState = "abandoned"   // Game was cancelled
)

// MoveRecord is one entry in a game's history
type MoveRecord struct {
	Side     Cell
	Position *Position // nil for a pass
	Pass     bool
	Flipped  int
}

// Game represents a single Othello game between two seated players
type Game struct {
	ID        GameID
	LobbyCode LobbyCode
	State     GameState
	Board     Board

	// Seats maps a side to the player holding it
	Player1 PlayerID
	Player2 PlayerID

	Turn        Cell // side to move
	SearchDepth int  // bot strength for this game
	History     []MoveRecord

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFinished returns true once the game is complete or abandoned
func (g *Game) IsFinished() bool {
	return g.State == GameStateComplete || g.State == GameStateAbandoned
}

// PlayerFor returns the player seated on the given side
func (g *Game) PlayerFor(side Cell) PlayerID {
	switch side {
	case Player1:
		return g.Player1
	case Player2:
		return g.Player2
	default:
		return ""
	}
}

// SideOf returns the side held by playerID, or Empty if not seated
func (g *Game) SideOf(playerID PlayerID) Cell {
	switch playerID {
	case g.Player1:
		return Player1
	case g.Player2:
		return Player2
	default:
		return Empty
	}
}

// CurrentPlayer returns the player whose turn it is
func (g *Game) CurrentPlayer() PlayerID {
	if g.State != GameStateInProgress {
		return ""
	}
	return g.PlayerFor(g.Turn)
}

// Players returns both seated players in side order
func (g *Game) Players() []PlayerID {
	return []PlayerID{g.Player1, g.Player2}
}

// GameResult is the outcome computed from a final board
type GameResult struct {
	Player1Count int
	Player2Count int
	Winner       Cell // Empty on a draw
}

// GameSummary is a lightweight record of a completed game
type GameSummary struct {
	ID          GameID
	FinalScores map[PlayerID]int
	Winner      PlayerID // Empty if draw
	CompletedAt time.Time
}

package response

import (
	"time"

	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/services/auth"
	"github.com/mcoot/othello/internal/services/bot"
	"github.com/mcoot/othello/internal/services/search"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
	IsBot       bool   `json:"is_bot,omitempty"`
	Kind        string `json:"kind"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
		IsBot:       p.IsBot,
		Kind:        string(p.Kind()),
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// LobbyConfig represents lobby configuration
type LobbyConfig struct {
	SearchDepth int    `json:"search_depth"`
	HostSide    string `json:"host_side"`
}

// LobbyConfigFromModel converts model.LobbyConfig
func LobbyConfigFromModel(c model.LobbyConfig) LobbyConfig {
	return LobbyConfig{
		SearchDepth: c.SearchDepth,
		HostSide:    c.HostSide.String(),
	}
}

// LobbyMember represents a lobby member
type LobbyMember struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	IsHost      bool   `json:"is_host"`
	IsBot       bool   `json:"is_bot,omitempty"`
}

// LobbyMemberFromModel converts model.LobbyMember
func LobbyMemberFromModel(m model.LobbyMember) LobbyMember {
	return LobbyMember{
		PlayerID:    string(m.Player.ID),
		DisplayName: m.Player.DisplayName,
		Role:        string(m.Role),
		IsHost:      m.IsHost,
		IsBot:       m.Player.IsBot,
	}
}

// GameSummary represents a completed game summary
type GameSummary struct {
	ID          string         `json:"id"`
	FinalScores map[string]int `json:"final_scores"`
	Winner      *string        `json:"winner"`
	CompletedAt time.Time      `json:"completed_at"`
}

// GameSummaryFromModel converts model.GameSummary
func GameSummaryFromModel(g model.GameSummary) GameSummary {
	scores := make(map[string]int, len(g.FinalScores))
	for pid, score := range g.FinalScores {
		scores[string(pid)] = score
	}
	var winner *string
	if g.Winner != "" {
		w := string(g.Winner)
		winner = &w
	}
	return GameSummary{
		ID:          string(g.ID),
		FinalScores: scores,
		Winner:      winner,
		CompletedAt: g.CompletedAt,
	}
}

// Lobby represents a lobby in API responses
type Lobby struct {
	Code        string        `json:"code"`
	State       string        `json:"state"`
	Config      LobbyConfig   `json:"config"`
	Members     []LobbyMember `json:"members"`
	CurrentGame *string       `json:"current_game"`
	GameHistory []GameSummary `json:"game_history,omitempty"`
}

// LobbyFromModel converts model.Lobby
func LobbyFromModel(l *model.Lobby) Lobby {
	members := make([]LobbyMember, len(l.Members))
	for i, m := range l.Members {
		members[i] = LobbyMemberFromModel(m)
	}

	history := make([]GameSummary, len(l.GameHistory))
	for i, g := range l.GameHistory {
		history[i] = GameSummaryFromModel(g)
	}

	var currentGame *string
	if l.CurrentGame != nil {
		g := string(*l.CurrentGame)
		currentGame = &g
	}

	return Lobby{
		Code:        string(l.Code),
		State:       string(l.State),
		Config:      LobbyConfigFromModel(l.Config),
		Members:     members,
		CurrentGame: currentGame,
		GameHistory: history,
	}
}

// Board is the wire form of a board: 8 rows of 8 symbols
type Board struct {
	Cells []string `json:"cells"`
}

// BoardFromModel converts model.Board to response Board
func BoardFromModel(b *model.Board) Board {
	return Board{Cells: b.Rows()}
}

// Position is a board coordinate
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PositionFromModel converts model.Position
func PositionFromModel(p model.Position) Position {
	return Position{Row: p.Row, Col: p.Col}
}

// PositionsFromModel converts a slice of positions, never returning nil
func PositionsFromModel(ps []model.Position) []Position {
	out := make([]Position, len(ps))
	for i, p := range ps {
		out[i] = PositionFromModel(p)
	}
	return out
}

// Move is one entry of a game's history
type Move struct {
	Side     string    `json:"side"`
	Position *Position `json:"position,omitempty"`
	Pass     bool      `json:"pass,omitempty"`
	Flipped  int       `json:"flipped"`
}

// MoveFromModel converts model.MoveRecord
func MoveFromModel(m model.MoveRecord) Move {
	mv := Move{
		Side:    m.Side.String(),
		Pass:    m.Pass,
		Flipped: m.Flipped,
	}
	if m.Position != nil {
		p := PositionFromModel(*m.Position)
		mv.Position = &p
	}
	return mv
}

// Counts holds the number of pieces per side
type Counts struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
}

// GameState represents the current game state
type GameState struct {
	ID            string  `json:"id"`
	LobbyCode     string  `json:"lobby_code"`
	State         string  `json:"state"`
	Board         Board   `json:"board"`
	Player1       string  `json:"player1"`
	Player2       string  `json:"player2"`
	Turn          string  `json:"turn,omitempty"`
	CurrentPlayer string  `json:"current_player,omitempty"`
	SearchDepth   int     `json:"search_depth"`
	Counts        Counts  `json:"counts"`
	History       []Move  `json:"history"`
	Winner        *string `json:"winner,omitempty"`
	WinnerSide    string  `json:"winner_side,omitempty"`
}

// GameStateFromModel converts model.Game to response GameState.
// result is only set for completed games
func GameStateFromModel(g *model.Game, result *model.GameResult, winner model.PlayerID) GameState {
	history := make([]Move, len(g.History))
	for i, m := range g.History {
		history[i] = MoveFromModel(m)
	}

	resp := GameState{
		ID:            string(g.ID),
		LobbyCode:     string(g.LobbyCode),
		State:         string(g.State),
		Board:         BoardFromModel(&g.Board),
		Player1:       string(g.Player1),
		Player2:       string(g.Player2),
		CurrentPlayer: string(g.CurrentPlayer()),
		SearchDepth:   g.SearchDepth,
		Counts: Counts{
			Player1: g.Board.Count(model.Player1),
			Player2: g.Board.Count(model.Player2),
		},
		History: history,
	}
	if g.State == model.GameStateInProgress {
		resp.Turn = g.Turn.String()
	}

	if result != nil {
		resp.WinnerSide = "draw"
		if result.Winner.IsPlayer() {
			resp.WinnerSide = result.Winner.String()
		}
		if winner != "" {
			w := string(winner)
			resp.Winner = &w
		}
	}

	return resp
}

// BotAction describes a move or pass made by a bot
type BotAction struct {
	Type     string    `json:"type"`
	PlayerID string    `json:"player_id,omitempty"`
	Side     string    `json:"side,omitempty"`
	Position *Position `json:"position,omitempty"`
}

// BotActionsFromService converts bot.BotAction values
func BotActionsFromService(actions []bot.BotAction) []BotAction {
	out := make([]BotAction, len(actions))
	for i, a := range actions {
		out[i] = BotAction{
			Type:     string(a.Type),
			PlayerID: string(a.PlayerID),
		}
		if a.Side.IsPlayer() {
			out[i].Side = a.Side.String()
		}
		if a.Position != nil {
			p := PositionFromModel(*a.Position)
			out[i].Position = &p
		}
	}
	return out
}

// MoveResponse is the response after playing a move
type MoveResponse struct {
	Game       GameState   `json:"game"`
	BotActions []BotAction `json:"bot_actions,omitempty"`
}

// LegalMovesResponse lists the moves available to the side to move
type LegalMovesResponse struct {
	Side  string     `json:"side,omitempty"`
	Moves []Position `json:"moves"`
}

// HintResponse is the search suggestion for the side to move
type HintResponse struct {
	Side  string    `json:"side"`
	Depth int       `json:"depth"`
	Move  *Position `json:"move"`
	Score int       `json:"score"`
	Nodes int       `json:"nodes"`
}

// HintResponseFromResult converts a search.Result
func HintResponseFromResult(side model.Cell, depth int, r search.Result) HintResponse {
	resp := HintResponse{
		Side:  side.String(),
		Depth: depth,
		Score: r.Score,
		Nodes: r.Nodes,
	}
	if r.Move != nil {
		p := PositionFromModel(*r.Move)
		resp.Move = &p
	}
	return resp
}

// Health is returned by the health endpoint
type Health struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

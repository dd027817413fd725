package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/mcoot/othello/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	term   *termenv.Output
}

// NewOutput creates a new Output writing to w.
// color is one of ColorAuto, ColorAlways or ColorNever
func NewOutput(format, color string, w io.Writer) *Output {
	var opts []termenv.OutputOption
	switch color {
	case ColorNever:
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	case ColorAlways:
		opts = append(opts, termenv.WithProfile(termenv.ANSI))
	}
	return &Output{
		format: format,
		w:      w,
		term:   termenv.NewOutput(w, opts...),
	}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case response.AuthResponse:
		o.printPlayer(v.Player)
		fmt.Fprintf(o.w, "Token: %s\n", v.SessionToken)
	case response.Lobby:
		o.printLobby(v)
	case response.LobbyConfig:
		o.printLobbyConfig(v)
	case response.GameState:
		o.printGameState(v)
	case []response.GameState:
		o.printGameList(v)
	case response.MoveResponse:
		o.printBotActions(v.BotActions)
		o.printGameState(v.Game)
	case response.LegalMovesResponse:
		o.printLegalMoves(v)
	case response.HintResponse:
		o.printHint(v)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\nStorage: %s\n", v.Status, v.Storage)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printPlayer(p response.Player) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Fprintf(o.w, "Kind: %s\n", p.Kind)
}

func (o *Output) printLobby(l response.Lobby) {
	fmt.Fprintf(o.w, "Lobby: %s\n", l.Code)
	fmt.Fprintf(o.w, "State: %s\n", l.State)
	o.printLobbyConfig(l.Config)
	if l.CurrentGame != nil {
		fmt.Fprintf(o.w, "Current Game: %s\n", *l.CurrentGame)
	}
	fmt.Fprintf(o.w, "Members (%d):\n", len(l.Members))
	for _, m := range l.Members {
		var tags []string
		if m.IsHost {
			tags = append(tags, "host")
		}
		if m.IsBot {
			tags = append(tags, "bot")
		}
		tagStr := ""
		if len(tags) > 0 {
			tagStr = " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Fprintf(o.w, "  - %s (%s) - %s%s\n", m.DisplayName, m.PlayerID, m.Role, tagStr)
	}
	if len(l.GameHistory) > 0 {
		fmt.Fprintf(o.w, "Games played: %d\n", len(l.GameHistory))
	}
}

func (o *Output) printLobbyConfig(c response.LobbyConfig) {
	fmt.Fprintf(o.w, "Search Depth: %d\n", c.SearchDepth)
	fmt.Fprintf(o.w, "Host Side: %s\n", c.HostSide)
}

func (o *Output) printGameState(g response.GameState) {
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "State: %s\n", g.State)
	fmt.Fprintf(o.w, "%s %s vs %s %s\n", o.piece('X'), g.Player1, o.piece('O'), g.Player2)
	if g.Turn != "" {
		fmt.Fprintf(o.w, "Turn: %s (%s)\n", g.Turn, g.CurrentPlayer)
	}

	fmt.Fprintln(o.w)
	o.printBoard(g.Board)
	fmt.Fprintf(o.w, "%s: %d  %s: %d\n", o.piece('X'), g.Counts.Player1, o.piece('O'), g.Counts.Player2)

	if n := len(g.History); n > 0 {
		fmt.Fprintf(o.w, "Last move: %s\n", describeMove(g.History[n-1]))
	}

	switch {
	case g.Winner != nil:
		fmt.Fprintf(o.w, "Winner: %s (%s)\n", *g.Winner, g.WinnerSide)
	case g.WinnerSide == "draw":
		fmt.Fprintln(o.w, "Result: draw")
	}
}

func (o *Output) printBoard(b response.Board) {
	fmt.Fprint(o.w, "    ")
	for col := range len(b.Cells) {
		fmt.Fprintf(o.w, "%d ", col)
	}
	fmt.Fprintln(o.w)

	border := "  +" + strings.Repeat("-", 2*len(b.Cells)+1) + "+"
	fmt.Fprintln(o.w, border)
	for row, cells := range b.Cells {
		fmt.Fprintf(o.w, "%d | ", row)
		for i := range len(cells) {
			fmt.Fprintf(o.w, "%s ", o.piece(cells[i]))
		}
		fmt.Fprintln(o.w, "|")
	}
	fmt.Fprintln(o.w, border)
}

// piece renders a board symbol, coloured when the terminal supports it
func (o *Output) piece(symbol byte) string {
	s := o.term.String(string(symbol))
	switch symbol {
	case 'X':
		return s.Foreground(termenv.ANSIBrightRed).Bold().String()
	case 'O':
		return s.Foreground(termenv.ANSIBrightCyan).Bold().String()
	default:
		return s.Faint().String()
	}
}

func describeMove(m response.Move) string {
	if m.Pass || m.Position == nil {
		return m.Side + " passed"
	}
	return fmt.Sprintf("%s at (%d,%d) flipping %d", m.Side, m.Position.Row, m.Position.Col, m.Flipped)
}

func (o *Output) printBotActions(actions []response.BotAction) {
	for _, a := range actions {
		switch a.Type {
		case "move":
			fmt.Fprintf(o.w, "Bot %s (%s) played (%d,%d)\n", a.PlayerID, a.Side, a.Position.Row, a.Position.Col)
		case "pass":
			fmt.Fprintf(o.w, "%s (%s) had no move and passed\n", a.PlayerID, a.Side)
		case "game_complete":
			fmt.Fprintln(o.w, "Game complete!")
		}
	}
}

func (o *Output) printLegalMoves(m response.LegalMovesResponse) {
	if len(m.Moves) == 0 {
		fmt.Fprintln(o.w, "No legal moves")
		return
	}
	coords := make([]string, len(m.Moves))
	for i, p := range m.Moves {
		coords[i] = fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	fmt.Fprintf(o.w, "Legal moves for %s: %s\n", m.Side, strings.Join(coords, " "))
}

func (o *Output) printHint(h response.HintResponse) {
	if h.Move == nil {
		fmt.Fprintf(o.w, "No move for %s (score %d)\n", h.Side, h.Score)
		return
	}
	fmt.Fprintf(o.w, "Hint for %s at depth %d: (%d,%d) score %d, %d nodes searched\n",
		h.Side, h.Depth, h.Move.Row, h.Move.Col, h.Score, h.Nodes)
}

func (o *Output) printGameList(games []response.GameState) {
	if len(games) == 0 {
		fmt.Fprintln(o.w, "No games yet")
		return
	}
	for _, g := range games {
		result := g.State
		if g.WinnerSide != "" {
			result += ", " + g.WinnerSide
		}
		fmt.Fprintf(o.w, "%s  %s  X %d - O %d\n", g.ID, result, g.Counts.Player1, g.Counts.Player2)
	}
}

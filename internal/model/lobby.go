package model

import "time"

// LobbyCode is the short code players share to join a lobby
type LobbyCode string

// LobbyState is either waiting for a game or running one
type LobbyState string

const (
	LobbyStateWaiting LobbyState = "waiting"
	LobbyStateInGame  LobbyState = "in_game"
)

// LobbyMemberRole decides whether a member sits at the board or watches
type LobbyMemberRole string

const (
	RolePlayer    LobbyMemberRole = "player"
	RoleSpectator LobbyMemberRole = "spectator"
)

// LobbyMember is one player's seat (or spectator slot) in a lobby
type LobbyMember struct {
	Player   Player
	Role     LobbyMemberRole
	IsHost   bool
	JoinedAt time.Time
}

// MaxPlayers is the number of seats at an othello board
const MaxPlayers = 2

// Bounds on how many plies a bot looks ahead
const (
	DefaultSearchDepth = 5
	MinSearchDepth     = 1
	MaxSearchDepth     = 8
)

// LobbyConfig is applied to every game started from the lobby
type LobbyConfig struct {
	SearchDepth int
	// HostSide is the colour a seated host plays
	HostSide Cell
}

func DefaultLobbyConfig() LobbyConfig {
	return LobbyConfig{
		SearchDepth: DefaultSearchDepth,
		HostSide:    Player1,
	}
}

// Validate returns ErrInvalidConfig for an out-of-range depth or a non-player side
func (c LobbyConfig) Validate() error {
	switch {
	case c.SearchDepth < MinSearchDepth, c.SearchDepth > MaxSearchDepth:
		return ErrInvalidConfig
	case !c.HostSide.IsPlayer():
		return ErrInvalidConfig
	}
	return nil
}

// Lobby groups players and spectators across a series of games
type Lobby struct {
	Code        LobbyCode
	State       LobbyState
	Members     []LobbyMember
	Config      LobbyConfig
	GameHistory []GameSummary
	CurrentGame *GameID // set only while State is in_game
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (l *Lobby) find(match func(*LobbyMember) bool) *LobbyMember {
	for i := range l.Members {
		if match(&l.Members[i]) {
			return &l.Members[i]
		}
	}
	return nil
}

func (l *Lobby) withRole(role LobbyMemberRole) []LobbyMember {
	var out []LobbyMember
	for _, m := range l.Members {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

// GetHost returns the host, or nil for an empty lobby
func (l *Lobby) GetHost() *LobbyMember {
	return l.find(func(m *LobbyMember) bool { return m.IsHost })
}

// GetMember returns a pointer into Members so callers can edit in place
func (l *Lobby) GetMember(playerID PlayerID) *LobbyMember {
	return l.find(func(m *LobbyMember) bool { return m.Player.ID == playerID })
}

// GetPlayers returns seated members in join order
func (l *Lobby) GetPlayers() []LobbyMember {
	return l.withRole(RolePlayer)
}

func (l *Lobby) GetSpectators() []LobbyMember {
	return l.withRole(RoleSpectator)
}

func (l *Lobby) HasOpenSeat() bool {
	return len(l.GetPlayers()) < MaxPlayers
}

// RequireHost returns ErrNotHost unless playerID hosts the lobby
func (l *Lobby) RequireHost(playerID PlayerID) error {
	if host := l.GetHost(); host == nil || host.Player.ID != playerID {
		return ErrNotHost
	}
	return nil
}

// Seating decides who plays player1 and player2 for the next game. A seated
// host gets Config.HostSide; otherwise seats follow join order
func (l *Lobby) Seating() (player1, player2 PlayerID, err error) {
	players := l.GetPlayers()
	if len(players) != MaxPlayers {
		return "", "", ErrInsufficientPlayers
	}

	player1, player2 = players[0].Player.ID, players[1].Player.ID

	host := l.GetHost()
	if host == nil || host.Role != RolePlayer {
		return player1, player2, nil
	}
	if player1 != host.Player.ID {
		player1, player2 = player2, player1
	}
	if l.Config.HostSide == Player2 {
		player1, player2 = player2, player1
	}
	return player1, player2, nil
}

// RemoveMember drops a member, handing the host role to the longest-standing
// remaining member when needed
func (l *Lobby) RemoveMember(playerID PlayerID) (LobbyMember, bool) {
	for i, m := range l.Members {
		if m.Player.ID != playerID {
			continue
		}
		l.Members = append(l.Members[:i], l.Members[i+1:]...)
		if m.IsHost && len(l.Members) > 0 {
			l.Members[0].IsHost = true
		}
		return m, true
	}
	return LobbyMember{}, false
}

// PromoteSpectator seats the longest-waiting human spectator if a seat is free
func (l *Lobby) PromoteSpectator() bool {
	if !l.HasOpenSeat() {
		return false
	}
	m := l.find(func(m *LobbyMember) bool { return m.Role == RoleSpectator && !m.Player.IsBot })
	if m == nil {
		return false
	}
	m.Role = RolePlayer
	return true
}

// EndGame returns the lobby to waiting, recording summary when the game finished
func (l *Lobby) EndGame(summary *GameSummary) {
	if summary != nil {
		l.GameHistory = append(l.GameHistory, *summary)
	}
	l.State = LobbyStateWaiting
	l.CurrentGame = nil
}

// BotCount is the number of bot members, seated or not
func (l *Lobby) BotCount() int {
	n := 0
	for _, m := range l.Members {
		if m.Player.IsBot {
			n++
		}
	}
	return n
}

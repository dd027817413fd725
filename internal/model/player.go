package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// PlayerKind says how a player came to exist
type PlayerKind string

const (
	PlayerKindRegistered PlayerKind = "registered"
	PlayerKindGuest      PlayerKind = "guest"
	PlayerKindBot        PlayerKind = "bot"
)

// Player is anyone who can sit in a lobby: a person or a bot
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool
	IsBot       bool   // moves are chosen by BotStrategy, never by a session
	BotStrategy string // only set for bots
	CreatedAt   time.Time
}

// Kind classifies the player. Bots are also guests but report PlayerKindBot
func (p Player) Kind() PlayerKind {
	switch {
	case p.IsBot:
		return PlayerKindBot
	case p.IsGuest:
		return PlayerKindGuest
	default:
		return PlayerKindRegistered
	}
}

// RegisteredPlayer holds login credentials for a non-guest Player.
// It is stored apart from Player so sessions never carry the hash
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // lower-cased, immutable
	PasswordHash string // bcrypt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

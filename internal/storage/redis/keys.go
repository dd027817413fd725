package redis

import (
	"strings"

	"github.com/mcoot/othello/internal/model"
)

// Every key is namespaced under this prefix
const keyPrefix = "othello"

// Key kinds. Index keys sit under "idx" and never hold JSON
const (
	kindPlayer      = "player"
	kindRegistered  = "registered_player"
	kindLobby       = "lobby"
	kindGame        = "game"
	kindIndex       = "idx"
	indexUsername   = "username"
	indexLobbyGames = "games_for_lobby"
)

func key(parts ...string) string {
	return keyPrefix + ":" + strings.Join(parts, ":")
}

func playerKey(id model.PlayerID) string {
	return key(kindPlayer, string(id))
}

func registeredPlayerKey(id model.PlayerID) string {
	return key(kindRegistered, string(id))
}

// usernameIndexKey maps a lowercased username to its player id
func usernameIndexKey(username string) string {
	return key(kindIndex, indexUsername, username)
}

func lobbyKey(code model.LobbyCode) string {
	return key(kindLobby, string(code))
}

func gameKey(id model.GameID) string {
	return key(kindGame, string(id))
}

// gamesForLobbyIndexKey is a sorted set of game ids scored by creation time
func gamesForLobbyIndexKey(code model.LobbyCode) string {
	return key(kindIndex, indexLobbyGames, string(code))
}

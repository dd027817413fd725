package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotBot         = errors.New("player is not a bot")

	// Bot errors
	ErrUnknownBotStrategy = errors.New("unknown bot strategy")

	// Lobby errors
	ErrLobbyNotFound       = errors.New("lobby not found")
	ErrLobbyFull           = errors.New("both seats are taken")
	ErrInvalidRole         = errors.New("invalid lobby role")
	ErrAlreadyInLobby      = errors.New("player is already in lobby")
	ErrNotInLobby          = errors.New("player is not in lobby")
	ErrNotHost             = errors.New("player is not the host")
	ErrGameInProgress      = errors.New("game is in progress")
	ErrNoGameInProgress    = errors.New("no game in progress")
	ErrInsufficientPlayers = errors.New("two players are required to start a game")
	ErrInvalidConfig       = errors.New("invalid lobby configuration")

	// Game errors
	ErrGameNotFound    = errors.New("game not found")
	ErrNotPlayerTurn   = errors.New("not this player's turn")
	ErrInvalidPosition = errors.New("invalid board position")
	ErrInvalidSide     = errors.New("invalid side")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrIllegalMove     = errors.New("move does not capture any pieces")
	ErrNoLegalMoves    = errors.New("no legal moves available")
	ErrGameComplete    = errors.New("game is already complete")
	ErrGameAbandoned   = errors.New("game has been abandoned")

	// Board errors
	ErrInvalidBoard = errors.New("invalid board encoding")
)

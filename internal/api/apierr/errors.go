package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/othello/internal/model"
	"github.com/mcoot/othello/internal/services/auth"
)

// APIError is the body of every error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidPosition     = "INVALID_POSITION"
	CodeInvalidConfig       = "INVALID_CONFIG"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeNotHost             = "NOT_HOST"
	CodeNotYourTurn         = "NOT_YOUR_TURN"
	CodeIllegalMove         = "ILLEGAL_MOVE"
	CodeGameOver            = "GAME_OVER"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeLobbyNotFound       = "LOBBY_NOT_FOUND"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeAlreadyInLobby      = "ALREADY_IN_LOBBY"
	CodeNotInLobby          = "NOT_IN_LOBBY"
	CodeLobbyFull           = "LOBBY_FULL"
	CodeInvalidRole         = "INVALID_ROLE"
	CodeNotBot              = "NOT_BOT"
	CodeUnknownStrategy     = "UNKNOWN_STRATEGY"
	CodeGameInProgress      = "GAME_IN_PROGRESS"
	CodeNoGameInProgress    = "NO_GAME_IN_PROGRESS"
	CodeCellOccupied        = "CELL_OCCUPIED"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeUnavailable         = "UNAVAILABLE"
)

// httpError pairs an APIError with its status
type httpError struct {
	status   int
	apiError APIError
}

func (e *httpError) Error() string {
	return e.apiError.Message
}

// mapping ties a sentinel to its response. When detail is set the wrapped
// error text is sent instead of message, so clients see which value was wrong
type mapping struct {
	target  error
	status  int
	code    string
	message string
	detail  bool
}

// mappings is checked in order with errors.Is
var mappings = []mapping{
	// Lookups
	{model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound, "Player not found", false},
	{model.ErrLobbyNotFound, http.StatusNotFound, CodeLobbyNotFound, "Lobby not found", false},
	{model.ErrGameNotFound, http.StatusNotFound, CodeGameNotFound, "Game not found", false},
	{model.ErrNoGameInProgress, http.StatusNotFound, CodeNoGameInProgress, "No game in progress", false},

	// Lobby membership and seating
	{model.ErrAlreadyInLobby, http.StatusConflict, CodeAlreadyInLobby, "Already in this lobby", false},
	{model.ErrNotInLobby, http.StatusNotFound, CodeNotInLobby, "Not in this lobby", false},
	{model.ErrNotHost, http.StatusForbidden, CodeNotHost, "Only the host can perform this action", false},
	{model.ErrGameInProgress, http.StatusConflict, CodeGameInProgress, "Game is in progress", false},
	{model.ErrInsufficientPlayers, http.StatusConflict, CodeInsufficientPlayers, "Two seated players are needed to start", false},
	{model.ErrLobbyFull, http.StatusConflict, CodeLobbyFull, "Both seats are taken", false},
	{model.ErrInvalidRole, http.StatusBadRequest, CodeInvalidRole, "Role must be player or spectator", false},
	{model.ErrInvalidConfig, http.StatusBadRequest, CodeInvalidConfig, "Search depth must be 1-8 and host side player1 or player2", false},
	{model.ErrNotBot, http.StatusBadRequest, CodeNotBot, "Player is not a bot", false},
	{model.ErrUnknownBotStrategy, http.StatusBadRequest, CodeUnknownStrategy, "Unknown bot strategy", true},

	// Moves
	{model.ErrNotPlayerTurn, http.StatusForbidden, CodeNotYourTurn, "Not your turn", false},
	{model.ErrInvalidPosition, http.StatusBadRequest, CodeInvalidPosition, "Position must be within the 8x8 board", false},
	{model.ErrCellOccupied, http.StatusConflict, CodeCellOccupied, "Cell is already occupied", false},
	{model.ErrIllegalMove, http.StatusUnprocessableEntity, CodeIllegalMove, "Move does not capture any pieces", false},
	{model.ErrGameComplete, http.StatusConflict, CodeGameOver, "Game is over", false},
	{model.ErrGameAbandoned, http.StatusConflict, CodeGameOver, "Game is over", false},

	// Auth
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid username or password", false},
	{auth.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired session", false},
	{auth.ErrUsernameExists, http.StatusConflict, CodeUsernameExists, "Username already exists", false},
	{auth.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput, "Invalid input", true},
}

// WriteError writes the JSON error response for err.
// Unrecognised errors become a 500 INTERNAL_ERROR
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// StatusCode returns the HTTP status WriteError would use for err
func StatusCode(err error) int {
	return toHTTPError(err).status
}

func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	for _, m := range mappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if m.detail {
			msg = err.Error()
		}
		return &httpError{m.status, APIError{m.code, msg}}
	}

	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInvalidRequestError creates a 400 INVALID_REQUEST
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates a 401 for requests without a token
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewUnavailableError creates a 503 for when a backing service is down
func NewUnavailableError(message string) error {
	return &httpError{http.StatusServiceUnavailable, APIError{CodeUnavailable, message}}
}

// NewInternalError creates a 500 INTERNAL_ERROR
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

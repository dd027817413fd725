package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/othello/internal/api/handler"
	"github.com/mcoot/othello/internal/api/middleware"
	"github.com/mcoot/othello/internal/services/auth"
	"github.com/mcoot/othello/internal/services/bot"
	"github.com/mcoot/othello/internal/services/game"
	"github.com/mcoot/othello/internal/services/lobby"
	"github.com/mcoot/othello/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	LobbyController *lobby.Controller
	GameController  *game.Controller
	BotService      *bot.Service
	// Storage is pinged by the health check; optional
	Storage storage.Storage
}

type route struct {
	method  string
	path    string
	handler http.HandlerFunc
}

func mount(r *mux.Router, routes []route) {
	for _, rt := range routes {
		r.HandleFunc(rt.path, rt.handler).Methods(rt.method)
	}
}

// NewRouter builds the /api/v1 routes. Everything under /lobbies needs a session
func NewRouter(cfg RouterConfig) http.Handler {
	players := handler.NewPlayerHandler(cfg.AuthService)
	lobbies := handler.NewLobbyHandler(cfg.LobbyController, cfg.BotService)
	games := handler.NewGameHandler(cfg.LobbyController, cfg.GameController, cfg.BotService, cfg.Logger)
	health := handler.NewHealthHandler(cfg.Storage, cfg.Logger)

	requireAuth := middleware.Auth(cfg.AuthService)
	optionalAuth := middleware.OptionalAuth(cfg.AuthService)

	r := mux.NewRouter()
	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Use(middleware.Recovery(cfg.Logger), middleware.Logging(cfg.Logger))

	mount(v1, []route{
		{http.MethodGet, "/health", health.Get},
		{http.MethodPost, "/players/guest", players.CreateGuest},
		{http.MethodPost, "/players/register", players.Register},
		{http.MethodPost, "/players/login", players.Login},
	})
	v1.Handle("/players/logout", optionalAuth(http.HandlerFunc(players.Logout))).Methods(http.MethodPost)

	me := v1.PathPrefix("/players").Subrouter()
	me.Use(requireAuth)
	me.HandleFunc("/me", players.GetMe).Methods(http.MethodGet)

	lobbyRoutes := v1.PathPrefix("/lobbies").Subrouter()
	lobbyRoutes.Use(requireAuth)
	mount(lobbyRoutes, []route{
		{http.MethodPost, "", lobbies.Create},
		{http.MethodGet, "/{code}", lobbies.Get},
		{http.MethodPost, "/{code}/join", lobbies.Join},
		{http.MethodPost, "/{code}/leave", lobbies.Leave},
		{http.MethodPatch, "/{code}/config", lobbies.UpdateConfig},
		{http.MethodPatch, "/{code}/members/{player_id}/role", lobbies.SetRole},
		{http.MethodPost, "/{code}/transfer-host", lobbies.TransferHost},
		{http.MethodPost, "/{code}/bots", lobbies.AddBot},
		{http.MethodDelete, "/{code}/bots/{player_id}", lobbies.RemoveBot},

		{http.MethodPost, "/{code}/game", games.Start},
		{http.MethodGet, "/{code}/game", games.Get},
		{http.MethodDelete, "/{code}/game", games.Abandon},
		{http.MethodPost, "/{code}/game/move", games.Move},
		{http.MethodGet, "/{code}/game/moves", games.LegalMoves},
		{http.MethodGet, "/{code}/game/hint", games.Hint},
		{http.MethodGet, "/{code}/games", games.List},
	})

	return r
}

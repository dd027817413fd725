package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/othello/internal/api/apierr"
	"github.com/mcoot/othello/internal/middleware"
)

// Logging logs every API request with its mux route template, so lobby
// codes in paths can be grouped
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger.With(slog.String("component", "api")), routeAttr)
}

// Recovery answers a panic with a JSON INTERNAL_ERROR
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ error) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}

func routeAttr(r *http.Request) slog.Attr {
	route := mux.CurrentRoute(r)
	if route == nil {
		return slog.Attr{}
	}
	tmpl, err := route.GetPathTemplate()
	if err != nil {
		return slog.Attr{}
	}
	return slog.String("route", tmpl)
}

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/othello/internal/api/apierr"
	"github.com/mcoot/othello/internal/api/response"
	"github.com/mcoot/othello/internal/storage"
)

const pingTimeout = 2 * time.Second

// HealthHandler reports whether the server and its storage are usable
type HealthHandler struct {
	store  storage.Storage
	logger *slog.Logger
}

// NewHealthHandler creates a health handler. A nil store skips the storage check
func NewHealthHandler(store storage.Storage, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger.With(slog.String("component", "health-handler")),
	}
}

// Get handles GET /api/v1/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	status := "skipped"
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			h.logger.WarnContext(r.Context(), "storage ping failed", "error", err)
			writeError(w, apierr.NewUnavailableError("Storage is unreachable"))
			return
		}
		status = "ok"
	}

	response.JSON(w, http.StatusOK, response.Health{Status: "ok", Storage: status})
}

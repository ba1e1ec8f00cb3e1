package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/tmcorreia/go-auth-api/internal/api"
)

// Pinger is the database dependency: a connectivity check, nothing more.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HandlerImpl struct {
	db     Pinger
	logger *slog.Logger
}

func NewHealthHandlerImpl(db Pinger, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		db:     db,
		logger: logger,
	}
}

// CheckDatabase handles GET /health and reports database connectivity.
func (h *HandlerImpl) CheckDatabase(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "Database health check failed", slog.Any("error", err))
		api.WriteJSONResponse(w, r, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Database connection failed.",
		})
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Database connected successfully.",
	})
}

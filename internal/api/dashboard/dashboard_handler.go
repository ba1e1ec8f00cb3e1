package dashboard

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tmcorreia/go-auth-api/internal/api"
	"github.com/tmcorreia/go-auth-api/internal/api/auth"
)

// HandlerImpl serves the sample protected resource. It exists so the bearer
// middleware has something real to guard.
type HandlerImpl struct {
	logger *slog.Logger
}

func NewDashboardHandlerImpl(logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{logger: logger}
}

type stat struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Value string `json:"value"`
}

type activity struct {
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

type notification struct {
	Message string `json:"message"`
	Time    string `json:"time"`
}

// GetDashboard handles GET /dashboard for authenticated users.
func (h *HandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username, _ := auth.GetUsernameFromContext(ctx)
	h.logger.DebugContext(ctx, "Dashboard requested", slog.String("username", username))

	data := map[string]interface{}{
		"stats": []stat{
			{Icon: "📊", Title: "Test Stat", Value: "123"},
		},
		"recentActivity": []activity{
			{Action: "Dashboard loaded", Timestamp: time.Now().Format(time.RFC3339)},
		},
		"notifications": []notification{
			{Message: "Dashboard working!", Time: "now"},
		},
	}

	api.WriteJSONResponse(w, r, http.StatusOK, data)
}

package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmcorreia/go-auth-api/internal/api/auth"
)

func TestGetDashboard(t *testing.T) {
	handler := NewDashboardHandlerImpl(slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	ctx := context.WithValue(req.Context(), auth.UsernameKey, "alice")
	ctx = context.WithValue(ctx, auth.UserIDKey, "user-1")
	req = req.WithContext(ctx)

	w := httptest.NewRecorder()
	handler.GetDashboard(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Contains(t, data, "stats")
	assert.Contains(t, data, "recentActivity")
	assert.Contains(t, data, "notifications")
}

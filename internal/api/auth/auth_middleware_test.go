package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nextCapture records whether the wrapped handler ran and what identity
// the middleware placed in the request context.
type nextCapture struct {
	called   bool
	userID   string
	username string
}

func (n *nextCapture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.called = true
		n.userID, _ = GetUserIDFromContext(r.Context())
		n.username, _ = GetUsernameFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func doAuthenticated(t *testing.T, issuer *TokenIssuer, authHeader string) (*httptest.ResponseRecorder, *nextCapture) {
	t.Helper()
	capture := &nextCapture{}
	mw := Authenticate(slog.Default(), issuer)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	mw(capture.handler()).ServeHTTP(w, req)
	return w, capture
}

func TestAuthenticateMiddleware(t *testing.T) {
	issuer, err := NewTokenIssuer(testJWTConfig())
	require.NoError(t, err)

	t.Run("ValidToken", func(t *testing.T) {
		user := testUser()
		token, _, err := issuer.Issue(user)
		require.NoError(t, err)

		w, capture := doAuthenticated(t, issuer, "Bearer "+token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, capture.called)
		assert.Equal(t, user.ID, capture.userID)
		assert.Equal(t, user.Username, capture.username)
	})

	t.Run("BearerIsCaseInsensitive", func(t *testing.T) {
		token, _, err := issuer.Issue(testUser())
		require.NoError(t, err)

		w, capture := doAuthenticated(t, issuer, "bearer "+token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, capture.called)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		w, capture := doAuthenticated(t, issuer, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, capture.called)
		assert.Contains(t, w.Body.String(), "Authorization header required")
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		for _, header := range []string{"Basic abc123", "Bearer", "Bearertoken"} {
			w, capture := doAuthenticated(t, issuer, header)
			assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
			assert.False(t, capture.called, "header %q", header)
		}
	})

	t.Run("MalformedToken", func(t *testing.T) {
		w, capture := doAuthenticated(t, issuer, "Bearer not-a-jwt")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, capture.called)
		assert.Contains(t, w.Body.String(), "Invalid or expired token")
	})

	t.Run("TamperedToken", func(t *testing.T) {
		token, _, err := issuer.Issue(testUser())
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(sig)

		w, capture := doAuthenticated(t, issuer, "Bearer "+tampered)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, capture.called)
		assert.Contains(t, w.Body.String(), "Invalid or expired token")
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.AccessTokenTTL = -time.Minute
		expiredIssuer, err := NewTokenIssuer(cfg)
		require.NoError(t, err)

		token, _, err := expiredIssuer.Issue(testUser())
		require.NoError(t, err)

		w, capture := doAuthenticated(t, issuer, "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, capture.called)
		assert.Contains(t, w.Body.String(), "Invalid or expired token")
	})

	t.Run("FailureBodiesDoNotRevealCause", func(t *testing.T) {
		// Expired, malformed and tampered tokens must all produce the same
		// response body so callers cannot probe token state.
		expiredCfg := testJWTConfig()
		expiredCfg.AccessTokenTTL = -time.Minute
		expiredIssuer, err := NewTokenIssuer(expiredCfg)
		require.NoError(t, err)
		expiredToken, _, err := expiredIssuer.Issue(testUser())
		require.NoError(t, err)

		valid, _, err := issuer.Issue(testUser())
		require.NoError(t, err)
		parts := strings.Split(valid, ".")
		require.Len(t, parts, 3)
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(sig)

		bodies := make(map[string]struct{})
		for _, token := range []string{expiredToken, "not-a-jwt", tampered} {
			w, _ := doAuthenticated(t, issuer, "Bearer "+token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			bodies[w.Body.String()] = struct{}{}
		}
		assert.Len(t, bodies, 1)
	})
}

func TestGetUserIDFromContext_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	userID, ok := GetUserIDFromContext(req.Context())
	assert.False(t, ok)
	assert.Empty(t, userID)

	username, ok := GetUsernameFromContext(req.Context())
	assert.False(t, ok)
	assert.Empty(t, username)
}

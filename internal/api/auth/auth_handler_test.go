package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tmcorreia/go-auth-api/internal/api"
)

// MockAuthService is a mock implementation of the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.AuthResponse), args.Error(1)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestRegisterHandler(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandlerImpl(mockService, slog.Default())

	t.Run("Success", func(t *testing.T) {
		reqBody := api.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "secret1"}
		body, _ := json.Marshal(reqBody)

		expiresAt := time.Now().Add(24 * time.Hour).UTC()
		mockService.On("Register", mock.Anything, reqBody).
			Return(&api.AuthResponse{Token: "signed-token", Username: "alice", Email: "alice@x.com", ExpiresAt: expiresAt}, nil).Once()

		w := postJSON(t, handler.Register, "/api/v1/auth/register", body)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp api.AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.Token)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, "alice@x.com", resp.Email)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidRequestBody", func(t *testing.T) {
		w := postJSON(t, handler.Register, "/api/v1/auth/register", []byte(`{"username":}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ValidationError", func(t *testing.T) {
		reqBody := api.RegisterRequest{Username: "al", Email: "alice@x.com", Password: "secret1"}
		body, _ := json.Marshal(reqBody)

		mockService.On("Register", mock.Anything, reqBody).
			Return(nil, errors.Join(api.ErrBadRequest, errors.New("username: the length must be between 3 and 50"))).Once()

		w := postJSON(t, handler.Register, "/api/v1/auth/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("UsernameTaken", func(t *testing.T) {
		reqBody := api.RegisterRequest{Username: "alice", Email: "other@x.com", Password: "secret1"}
		body, _ := json.Marshal(reqBody)

		mockService.On("Register", mock.Anything, reqBody).Return(nil, api.ErrUsernameTaken).Once()

		w := postJSON(t, handler.Register, "/api/v1/auth/register", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Username already exists", resp["message"])
		mockService.AssertExpectations(t)
	})

	t.Run("EmailTaken", func(t *testing.T) {
		reqBody := api.RegisterRequest{Username: "bob", Email: "alice@x.com", Password: "secret1"}
		body, _ := json.Marshal(reqBody)

		mockService.On("Register", mock.Anything, reqBody).Return(nil, api.ErrEmailTaken).Once()

		w := postJSON(t, handler.Register, "/api/v1/auth/register", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Email already exists", resp["message"])
		mockService.AssertExpectations(t)
	})

	t.Run("InternalServerError", func(t *testing.T) {
		reqBody := api.RegisterRequest{Username: "alice", Email: "alice@x.com", Password: "secret1"}
		body, _ := json.Marshal(reqBody)

		mockService.On("Register", mock.Anything, reqBody).
			Return(nil, errors.New("connection refused")).Once()

		w := postJSON(t, handler.Register, "/api/v1/auth/register", body)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		// No internal detail leaks to the client.
		assert.NotContains(t, w.Body.String(), "connection refused")
		mockService.AssertExpectations(t)
	})
}

func TestLoginHandler(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandlerImpl(mockService, slog.Default())

	t.Run("Success", func(t *testing.T) {
		reqBody := api.LoginRequest{Email: "alice@x.com", Password: "secret1"}
		body, _ := json.Marshal(reqBody)

		expiresAt := time.Now().Add(24 * time.Hour).UTC()
		mockService.On("Login", mock.Anything, reqBody).
			Return(&api.AuthResponse{Token: "signed-token", Username: "alice", Email: "alice@x.com", ExpiresAt: expiresAt}, nil).Once()

		w := postJSON(t, handler.Login, "/api/v1/auth/login", body)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp api.AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.Token)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidRequestBody", func(t *testing.T) {
		w := postJSON(t, handler.Login, "/api/v1/auth/login", []byte(`{"email": "a@x.com", "password":}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		reqBody := api.LoginRequest{Email: "alice@x.com", Password: "wrong"}
		body, _ := json.Marshal(reqBody)

		mockService.On("Login", mock.Anything, reqBody).Return(nil, api.ErrUnauthenticated).Once()

		w := postJSON(t, handler.Login, "/api/v1/auth/login", body)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid credentials", resp["message"])
		mockService.AssertExpectations(t)
	})

	t.Run("IdenticalResponseForUnknownEmailAndWrongPassword", func(t *testing.T) {
		// Both failure causes reach the handler as the same sentinel, so
		// the serialized responses must match byte for byte.
		unknown := api.LoginRequest{Email: "ghost@x.com", Password: "secret1"}
		wrongPwd := api.LoginRequest{Email: "alice@x.com", Password: "wrong"}

		mockService.On("Login", mock.Anything, unknown).Return(nil, api.ErrUnauthenticated).Once()
		mockService.On("Login", mock.Anything, wrongPwd).Return(nil, api.ErrUnauthenticated).Once()

		bodyA, _ := json.Marshal(unknown)
		bodyB, _ := json.Marshal(wrongPwd)
		wA := postJSON(t, handler.Login, "/api/v1/auth/login", bodyA)
		wB := postJSON(t, handler.Login, "/api/v1/auth/login", bodyB)

		assert.Equal(t, wA.Code, wB.Code)
		assert.Equal(t, wA.Body.String(), wB.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("InternalServerError", func(t *testing.T) {
		reqBody := api.LoginRequest{Email: "alice@x.com", Password: "secret1"}
		body, _ := json.Marshal(reqBody)

		mockService.On("Login", mock.Anything, reqBody).
			Return(nil, errors.New("connection refused")).Once()

		w := postJSON(t, handler.Login, "/api/v1/auth/login", body)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
		mockService.AssertExpectations(t)
	})
}

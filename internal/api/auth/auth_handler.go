package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tmcorreia/go-auth-api/internal/api"
)

// HandlerImpl is the HTTP boundary for the auth flows. It maps service
// errors onto statuses and never leaks internal detail to clients.
type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Register handles POST /auth/register.
func (h *HandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req api.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authService.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, api.ErrUsernameTaken):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Username already exists")
		case errors.Is(err, api.ErrEmailTaken):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Email already exists")
		default:
			l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
			api.WriteJSONResponse(w, r, http.StatusInternalServerError, api.Response{
				Success: false,
				Message: "An error occurred during registration",
				Error:   api.ErrInternal.Error(),
			})
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// Login handles POST /auth/login.
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req api.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authService.Login(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, api.ErrUnauthenticated):
			// Same message and shape whether the email was unknown or the
			// password was wrong.
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid credentials")
		default:
			l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
			api.WriteJSONResponse(w, r, http.StatusInternalServerError, api.Response{
				Success: false,
				Message: "An error occurred during login",
				Error:   api.ErrInternal.Error(),
			})
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

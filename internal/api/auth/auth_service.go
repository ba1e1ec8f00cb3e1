package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tmcorreia/go-auth-api/internal/api"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService orchestrates the registration and login flows.
type AuthService interface {
	// Register validates the payload, enforces username/email uniqueness,
	// hashes the password, persists the user and issues a session token.
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)

	// Login validates the payload, verifies credentials and issues a
	// session token. Unknown email and wrong password both come back as
	// api.ErrUnauthenticated so callers cannot tell which one happened.
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
}

// AuthServiceImpl implements AuthService on top of the user store and the
// token issuer.
type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	issuer *TokenIssuer
}

func NewAuthService(repo AuthRepo, issuer *TokenIssuer, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		issuer: issuer,
	}
}

// dummyHash keeps the unknown-email path doing a bcrypt comparison so its
// timing profile stays close to the wrong-password path.
var dummyHash = func() string {
	h, err := HashPassword("timing-equalizer")
	if err != nil {
		panic(err)
	}
	return h
}()

// Register runs the registration flow as a single pass: shape validation,
// uniqueness pre-checks, hash, insert, token. The store's uniqueness
// constraint remains the final authority for concurrent registrations.
func (s *AuthServiceImpl) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	l := s.logger.With(slog.String("method", "Register"), slog.String("username", req.Username))

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", api.ErrBadRequest, err)
	}

	if _, err := s.repo.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, api.ErrUsernameTaken
	} else if !errors.Is(err, api.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, api.ErrEmailTaken
	} else if !errors.Is(err, api.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, req.Username, req.Email, passwordHash)
	if err != nil {
		// A lost insert race surfaces here as ErrUsernameTaken/ErrEmailTaken.
		return nil, err
	}

	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	l.InfoContext(ctx, "User registered successfully", slog.String("userID", user.ID))
	return &api.AuthResponse{
		Token:     token,
		Username:  user.Username,
		Email:     user.Email,
		ExpiresAt: expiresAt,
	}, nil
}

// Login runs the login flow: lookup by email, bcrypt verification, token
// issuance.
func (s *AuthServiceImpl) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	l := s.logger.With(slog.String("method", "Login"))

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", api.ErrBadRequest, err)
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			VerifyPassword(req.Password, dummyHash)
			l.WarnContext(ctx, "Login failed: unknown email", slog.String("email", req.Email))
			return nil, api.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if !VerifyPassword(req.Password, user.PasswordHash) {
		l.WarnContext(ctx, "Login failed: wrong password", slog.String("email", req.Email))
		return nil, api.ErrUnauthenticated
	}

	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	l.InfoContext(ctx, "User logged in successfully", slog.String("username", user.Username))
	return &api.AuthResponse{
		Token:     token,
		Username:  user.Username,
		Email:     user.Email,
		ExpiresAt: expiresAt,
	}, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tmcorreia/go-auth-api/internal/api"
	"github.com/tmcorreia/go-auth-api/internal/types"
)

// DBPool is the subset of pgxpool.Pool the repository uses. pgxmock
// satisfies it in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo is the durable user store: lookup by unique identifier and
// insert under a uniqueness constraint on both username and email.
type AuthRepo interface {
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
	CreateUser(ctx context.Context, username, email, passwordHash string) (*types.User, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool DBPool
}

func NewPostgresAuthRepo(pgpool DBPool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const userColumns = "id, username, email, password_hash, created_at, updated_at"

func (r *PostgresAuthRepo) scanUser(row pgx.Row) (*types.User, error) {
	var user types.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, api.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail fetches a user by email, case-insensitively.
func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByEmail", trace.WithAttributes(
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	row := r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE lower(email) = lower($1)", email)
	user, err := r.scanUser(row)
	if err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			r.logger.ErrorContext(ctx, "Failed to fetch user by email", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB SELECT failed")
		}
		return nil, err
	}
	return user, nil
}

// GetUserByUsername fetches a user by username, case-insensitively.
func (r *PostgresAuthRepo) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "GetUserByUsername", trace.WithAttributes(
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	row := r.pgpool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE lower(username) = lower($1)", username)
	user, err := r.scanUser(row)
	if err != nil {
		if !errors.Is(err, api.ErrNotFound) {
			r.logger.ErrorContext(ctx, "Failed to fetch user by username", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB SELECT failed")
		}
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user. The unique indexes on lower(username) and
// lower(email) are the final authority on duplicates: a 23505 from the
// insert is mapped back to the matching taken error so check-then-insert
// races never produce two users with the same identifier.
func (r *PostgresAuthRepo) CreateUser(ctx context.Context, username, email, passwordHash string) (*types.User, error) {
	ctx, span := otel.Tracer("AuthRepo").Start(ctx, "CreateUser", trace.WithAttributes(
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateUser"), slog.String("username", username))

	var user types.User
	err := r.pgpool.QueryRow(ctx,
		`INSERT INTO users (id, username, email, password_hash)
         VALUES ($1, $2, $3, $4)
         RETURNING `+userColumns,
		uuid.NewString(), username, email, passwordHash).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			l.WarnContext(ctx, "Attempted to create user with duplicate identifier",
				slog.String("constraint", pgErr.ConstraintName))
			span.SetStatus(codes.Error, "Duplicate user identifier")
			if strings.Contains(pgErr.ConstraintName, "email") {
				return nil, fmt.Errorf("user with email already exists: %w", api.ErrEmailTaken)
			}
			return nil, fmt.Errorf("user with username already exists: %w", api.ErrUsernameTaken)
		}
		l.ErrorContext(ctx, "Failed to insert new user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	l.InfoContext(ctx, "User created successfully", slog.String("userID", user.ID))
	span.SetAttributes(attribute.String("db.user.id", user.ID))
	span.SetStatus(codes.Ok, "User created")
	return &user, nil
}

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tmcorreia/go-auth-api/config"
	"github.com/tmcorreia/go-auth-api/internal/types"
)

// Token validation failures. All of them surface to HTTP clients as a
// generic 401; the distinction exists for logging and tests.
var (
	ErrTokenExpired           = errors.New("token has expired")
	ErrTokenMalformed         = errors.New("malformed token")
	ErrInvalidSignature       = errors.New("invalid token signature")
	ErrIssuerAudienceMismatch = errors.New("token issuer or audience mismatch")
)

// TokenIssuer is the single source of truth for signing and validating
// session tokens: one secret, one TTL, one issuer/audience pair.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewTokenIssuer builds an issuer from validated JWT config. There is no
// fallback secret; construction fails if the config is incomplete.
func NewTokenIssuer(cfg config.JWTConfig) (*TokenIssuer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &TokenIssuer{
		secret:   []byte(cfg.SecretKey),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.AccessTokenTTL,
	}, nil
}

// TTL returns the configured access-token lifetime.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue signs an HS256 JWT for the given user with a fresh jti. The token
// carries subject id, username, email, iat and exp=now+TTL.
func (t *TokenIssuer) Issue(user *types.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(t.ttl)

	claims := types.Claims{
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if t.audience != "" {
		claims.Audience = jwt.ClaimStrings{t.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate verifies signature, expiry, issuer and audience, returning the
// embedded claims on success.
func (t *TokenIssuer) Validate(tokenString string) (*types.Claims, error) {
	claims := &types.Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
	}
	if t.audience != "" {
		opts = append(opts, jwt.WithAudience(t.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, ErrIssuerAudienceMismatch
		default:
			return nil, fmt.Errorf("token validation failed: %w", err)
		}
	}
	if !token.Valid {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/telemetry"
)

var (
	// ErrTokenExpired means the access token expired and no refresh succeeded.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid means the token was malformed or its signature did not verify.
	ErrTokenInvalid = errors.New("invalid token")
)

// Identity is the decoded caller, passed by value through the pipeline and
// never persisted.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	UserID   string `json:"user_id"`
}

// Refresher exchanges a refresh credential for a new access token.
// Implemented by the ledger client.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// Validator decodes HS256 bearer tokens, transparently refreshing once
// when the access token has expired.
type Validator struct {
	secret    []byte
	refresher Refresher
}

// NewValidator constructs a Validator. refresher may be nil, in which case
// expired tokens fail immediately.
func NewValidator(secret []byte, refresher Refresher) *Validator {
	return &Validator{secret: secret, refresher: refresher}
}

// Validate decodes the access token and returns the caller's identity along
// with the token downstream calls should carry. On an expired token with a
// refresh token supplied, it performs exactly one refresh call and returns
// the new access token. Any refresh failure falls through to ErrTokenExpired.
func (v *Validator) Validate(ctx context.Context, token, refreshToken string) (Identity, string, error) {
	id, err := v.decode(token)
	if err == nil {
		return id, token, nil
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		return Identity{}, "", ErrTokenInvalid
	}

	if refreshToken == "" || v.refresher == nil {
		return Identity{}, "", ErrTokenExpired
	}

	newAccess, refreshErr := v.refresher.RefreshToken(ctx, refreshToken)
	if refreshErr != nil {
		telemetry.Error("auth.refresh.failed", map[string]any{"error": refreshErr.Error()})
		return Identity{}, "", ErrTokenExpired
	}

	id, err = v.decode(newAccess)
	if err != nil {
		telemetry.Error("auth.refresh.decode_failed", map[string]any{"error": err.Error()})
		return Identity{}, "", ErrTokenExpired
	}
	return id, newAccess, nil
}

func (v *Validator) decode(token string) (Identity, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, err
	}
	if !parsed.Valid {
		return Identity{}, fmt.Errorf("invalid token")
	}
	return Identity{
		Username: claimString(claims, "username"),
		Email:    claimString(claims, "email"),
		UserID:   claimString(claims, "user_id"),
	}, nil
}

// claimString stringifies a claim value. The ledger backend issues numeric
// user ids, so numbers are accepted alongside strings.
func claimString(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/parentchild/account-service/internal/domain"
)

// Default lifetimes per token type.
const (
	DefaultAccessTTL     = 30 * time.Minute
	DefaultRefreshTTL    = 30 * 24 * time.Hour
	DefaultActivationTTL = 24 * time.Hour
)

// Verification failures. All of them wrap ErrTokenInvalid.
var (
	ErrTokenInvalid      = errors.New("invalid token")
	ErrTokenMalformed    = fmt.Errorf("%w: malformed", ErrTokenInvalid)
	ErrTokenSignature    = fmt.Errorf("%w: bad signature", ErrTokenInvalid)
	ErrTokenExpired      = fmt.Errorf("%w: expired", ErrTokenInvalid)
	ErrTokenTypeMismatch = fmt.Errorf("%w: unexpected token type", ErrTokenInvalid)
)

// TokenManager handles issuing and validating typed JWT tokens.
type TokenManager struct {
	secret []byte
	ttls   map[domain.TokenType]time.Duration
	now    func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithLifetimes overrides the default lifetimes. Non-positive values keep the default.
func WithLifetimes(access, refresh, activation time.Duration) TokenOption {
	return func(tm *TokenManager) {
		if access > 0 {
			tm.ttls[domain.TokenTypeAccess] = access
		}
		if refresh > 0 {
			tm.ttls[domain.TokenTypeRefresh] = refresh
		}
		if activation > 0 {
			tm.ttls[domain.TokenTypeActivation] = activation
		}
	}
}

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// NewTokenManager builds a new manager signing with secret.
func NewTokenManager(secret string, opts ...TokenOption) *TokenManager {
	tm := &TokenManager{
		secret: []byte(secret),
		ttls: map[domain.TokenType]time.Duration{
			domain.TokenTypeAccess:     DefaultAccessTTL,
			domain.TokenTypeRefresh:    DefaultRefreshTTL,
			domain.TokenTypeActivation: DefaultActivationTTL,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// Claims describes the JWT payload.
type Claims struct {
	TokenType domain.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// UserID parses the subject as a numeric account id.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: subject %q", ErrTokenMalformed, c.Subject)
	}
	return id, nil
}

// Lifetime returns the configured default lifetime for tokenType.
func (tm *TokenManager) Lifetime(tokenType domain.TokenType) time.Duration {
	return tm.ttls[tokenType]
}

// IssueAccess mints an access token. A non-positive lifetime selects the default.
func (tm *TokenManager) IssueAccess(subject string, lifetime time.Duration) (string, time.Time, error) {
	return tm.issue(domain.TokenTypeAccess, subject, lifetime)
}

// IssueRefresh mints a refresh token. A non-positive lifetime selects the default.
func (tm *TokenManager) IssueRefresh(subject string, lifetime time.Duration) (string, time.Time, error) {
	return tm.issue(domain.TokenTypeRefresh, subject, lifetime)
}

// IssueActivation mints an activation token. A non-positive lifetime selects the default.
func (tm *TokenManager) IssueActivation(subject string, lifetime time.Duration) (string, time.Time, error) {
	return tm.issue(domain.TokenTypeActivation, subject, lifetime)
}

func (tm *TokenManager) issue(tokenType domain.TokenType, subject string, lifetime time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("token subject is required")
	}
	if lifetime <= 0 {
		lifetime = tm.ttls[tokenType]
	}

	now := tm.now()
	claims := &Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, claims.ExpiresAt.Time, nil
}

// Verify validates the signature, the token type and the expiry, in that order.
func (tm *TokenManager) Verify(tokenStr string, expected domain.TokenType) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}

	if !claims.TokenType.Valid() {
		return nil, ErrTokenMalformed
	}
	if claims.TokenType != expected {
		return nil, ErrTokenTypeMismatch
	}
	if claims.ExpiresAt == nil || claims.Subject == "" {
		return nil, ErrTokenMalformed
	}
	if !tm.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}
	return claims, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// SessionStore keeps the allowlist of issued token ids.
type SessionStore interface {
	Save(ctx context.Context, tokenID, identityID string, ttl time.Duration) error
	Lookup(ctx context.Context, tokenID string) (identityID string, ok bool, err error)
	Delete(ctx context.Context, tokenID string) error
}

// Claims is the payload of a session token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 tokens and tracks them in a SessionStore so they can
// be revoked before they expire.
type JWTIssuer struct {
	secret   []byte
	ttl      time.Duration
	sessions SessionStore
	now      func() time.Time
}

func NewJWTIssuer(secret string, ttl time.Duration, sessions SessionStore) *JWTIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTIssuer{
		secret:   []byte(secret),
		ttl:      ttl,
		sessions: sessions,
		now:      time.Now,
	}
}

func (i *JWTIssuer) Issue(ctx context.Context, identity *domain.Identity) (string, error) {
	now := i.now()
	tokenID := uuid.NewString()
	claims := Claims{
		Role: string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if err := i.sessions.Save(ctx, tokenID, identity.ID, i.ttl); err != nil {
		return "", err
	}
	return signed, nil
}

// Resolve checks signature and expiry, then the session allowlist.
func (i *JWTIssuer) Resolve(ctx context.Context, token string) (*ports.Session, error) {
	claims, err := i.parse(token, jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	identityID, ok, err := i.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !ok || identityID != claims.Subject {
		return nil, domain.ErrInvalidCredentials
	}

	return &ports.Session{
		IdentityID: claims.Subject,
		Role:       domain.Role(claims.Role),
		TokenID:    claims.ID,
	}, nil
}

// Revoke drops the session. Tokens that do not parse are ignored; expired
// ones are still revoked.
func (i *JWTIssuer) Revoke(ctx context.Context, token string) error {
	claims, err := i.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	return i.sessions.Delete(ctx, claims.ID)
}

func (i *JWTIssuer) parse(token string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

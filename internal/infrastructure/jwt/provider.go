package jwtinfra

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-finlink-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload fields. Email is the identity key used by
// every protected handler.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a process-wide key.
// The key is established once at startup and injected here, never read from
// ambient globals, so tests can use fixed keys.
type Provider struct {
	key    []byte
	expiry time.Duration // 0 means tokens never expire
}

// NewProvider builds a Provider from configuration. When no signing key is
// configured a random per-process key is generated; tokens issued before a
// restart are then no longer verifiable.
func NewProvider(cfg *config.Config) (*Provider, error) {
	key := []byte(cfg.JWTSigningKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
		slog.Warn("JWT_SIGNING_KEY not set; generated a random key, sessions will not survive a restart")
	}
	return NewProviderWithKey(key, time.Duration(cfg.JWTExpiryDays)*24*time.Hour), nil
}

// NewProviderWithKey builds a Provider with an explicit key and expiry.
func NewProviderWithKey(key []byte, expiry time.Duration) *Provider {
	return &Provider{key: key, expiry: expiry}
}

// Sign issues a token for the given email. ExpiresAt is only set when an
// expiry is configured.
func (p *Provider) Sign(email string) (string, error) {
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if p.expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(p.expiry))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.key)
}

// Verify parses and validates a token, returning its claims.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

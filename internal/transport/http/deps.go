package http

import (
	"context"
	"encoding/json"

	"github.com/go-finlink-api/internal/domain"
	jwtinfra "github.com/go-finlink-api/internal/infrastructure/jwt"
	"github.com/go-finlink-api/internal/infrastructure/plaid"
	"github.com/go-finlink-api/internal/pkg/password"
)

// UserRepository is the minimal interface the router requires from the
// credential store.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	SetAccessToken(ctx context.Context, userID, accessToken, itemID string) error
}

// Aggregator is the minimal interface the router requires from the
// financial-data aggregation API client.
type Aggregator interface {
	CreateLinkToken(ctx context.Context, clientUserID string) (json.RawMessage, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*plaid.ExchangeResult, error)
	GetTransactions(ctx context.Context, accessToken, startDate, endDate string) (json.RawMessage, error)
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    UserRepository
	Aggregator  Aggregator
	JWTProvider *jwtinfra.Provider
	Hasher      *password.Hasher
}

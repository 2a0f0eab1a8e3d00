package link

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-finlink-api/internal/domain"
	"github.com/go-finlink-api/internal/infrastructure/plaid"
)

const dateLayout = "2006-01-02"

type Service interface {
	CreateLinkToken(ctx context.Context, email string) (json.RawMessage, error)
	ExchangePublicToken(ctx context.Context, email, publicToken string) error
	FetchTransactions(ctx context.Context, email string) (json.RawMessage, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetAccessToken(ctx context.Context, userID, accessToken, itemID string) error
}

type aggregator interface {
	CreateLinkToken(ctx context.Context, clientUserID string) (json.RawMessage, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*plaid.ExchangeResult, error)
	GetTransactions(ctx context.Context, accessToken, startDate, endDate string) (json.RawMessage, error)
}

type service struct {
	repo      userStore
	agg       aggregator
	startDate string // fixed start of the transaction fetch window
}

func NewService(repo userStore, agg aggregator, startDate string) Service {
	return &service{repo: repo, agg: agg, startDate: startDate}
}

// CreateLinkToken proxies a link-token request, using the authenticated
// user's email as the aggregator-side user identifier.
func (s *service) CreateLinkToken(ctx context.Context, email string) (json.RawMessage, error) {
	return s.agg.CreateLinkToken(ctx, email)
}

// ExchangePublicToken trades the public token for a long-lived access token
// and persists it onto the user record. The access token is never returned
// to the caller.
func (s *service) ExchangePublicToken(ctx context.Context, email, publicToken string) error {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	res, err := s.agg.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return err
	}
	return s.repo.SetAccessToken(ctx, u.UserID, res.AccessToken, res.ItemID)
}

// FetchTransactions re-fetches the full window from the fixed start date to
// today on every call. No pagination or caching.
func (s *service) FetchTransactions(ctx context.Context, email string) (json.RawMessage, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if !u.Linked() {
		return nil, fmt.Errorf("no linked account: %w", domain.ErrNoAccessToken)
	}
	endDate := time.Now().UTC().Format(dateLayout)
	return s.agg.GetTransactions(ctx, *u.AccessToken, s.startDate, endDate)
}

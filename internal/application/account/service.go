package account

import (
	"context"
	"fmt"
	"time"

	"github.com/go-finlink-api/internal/domain"
	"github.com/go-finlink-api/internal/pkg/id"
	"github.com/go-finlink-api/internal/pkg/password"
)

// invalidCredentials is returned for both unknown-email and wrong-password
// logins so callers can't probe which emails are registered.
const invalidCredentials = "invalid email or password"

type Service interface {
	Register(ctx context.Context, req domain.SignupRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (string, error)
	Profile(ctx context.Context, email string) (*domain.Profile, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type tokenSigner interface {
	Sign(email string) (string, error)
}

type service struct {
	repo   userStore
	signer tokenSigner
	hasher *password.Hasher
}

func NewService(repo userStore, signer tokenSigner, hasher *password.Hasher) Service {
	return &service{repo: repo, signer: signer, hasher: hasher}
}

func (s *service) Register(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user already exists: %w", domain.ErrConflict)
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", invalidCredentials, domain.ErrUnauthorized)
	}
	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		return "", fmt.Errorf("%s: %w", invalidCredentials, domain.ErrUnauthorized)
	}
	return s.signer.Sign(u.Email)
}

func (s *service) Profile(ctx context.Context, email string) (*domain.Profile, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return &domain.Profile{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}, nil
}

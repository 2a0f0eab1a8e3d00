package link

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-finlink-api/internal/domain"
	"github.com/go-finlink-api/internal/infrastructure/plaid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) SetAccessToken(ctx context.Context, userID, accessToken, itemID string) error {
	return m.Called(ctx, userID, accessToken, itemID).Error(0)
}

type mockAggregator struct{ mock.Mock }

func (m *mockAggregator) CreateLinkToken(ctx context.Context, clientUserID string) (json.RawMessage, error) {
	args := m.Called(ctx, clientUserID)
	if raw, _ := args.Get(0).(json.RawMessage); raw != nil {
		return raw, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAggregator) ExchangePublicToken(ctx context.Context, publicToken string) (*plaid.ExchangeResult, error) {
	args := m.Called(ctx, publicToken)
	if r, _ := args.Get(0).(*plaid.ExchangeResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAggregator) GetTransactions(ctx context.Context, accessToken, startDate, endDate string) (json.RawMessage, error) {
	args := m.Called(ctx, accessToken, startDate, endDate)
	if raw, _ := args.Get(0).(json.RawMessage); raw != nil {
		return raw, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func unlinkedUser() *domain.User {
	return &domain.User{UserID: "u1", Email: "alice@example.com"}
}

func linkedUser() *domain.User {
	token := "access-sandbox-xyz"
	u := unlinkedUser()
	u.AccessToken = &token
	return u
}

// --- CreateLinkToken tests ---

func TestCreateLinkToken_UsesEmailAsClientUserID(t *testing.T) {
	agg := &mockAggregator{}
	agg.On("CreateLinkToken", mock.Anything, "alice@example.com").
		Return(json.RawMessage(`{"link_token":"lt-1"}`), nil)

	svc := NewService(&mockUserStore{}, agg, "2018-01-01")
	body, err := svc.CreateLinkToken(context.Background(), "alice@example.com")

	require.NoError(t, err)
	assert.JSONEq(t, `{"link_token":"lt-1"}`, string(body))
	agg.AssertExpectations(t)
}

func TestCreateLinkToken_PropagatesUpstreamError(t *testing.T) {
	agg := &mockAggregator{}
	apiErr := &plaid.APIError{StatusCode: 400, Body: []byte(`{"error_code":"X"}`)}
	agg.On("CreateLinkToken", mock.Anything, "alice@example.com").Return(nil, apiErr)

	svc := NewService(&mockUserStore{}, agg, "2018-01-01")
	_, err := svc.CreateLinkToken(context.Background(), "alice@example.com")

	var got *plaid.APIError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, 400, got.StatusCode)
}

// --- ExchangePublicToken tests ---

func TestExchangePublicToken_UserNotFound(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

	svc := NewService(us, &mockAggregator{}, "2018-01-01")
	err := svc.ExchangePublicToken(context.Background(), "ghost@example.com", "public-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestExchangePublicToken_PersistsAccessToken(t *testing.T) {
	us := &mockUserStore{}
	agg := &mockAggregator{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(unlinkedUser(), nil)
	agg.On("ExchangePublicToken", mock.Anything, "public-1").
		Return(&plaid.ExchangeResult{AccessToken: "access-1", ItemID: "item-1"}, nil)
	us.On("SetAccessToken", mock.Anything, "u1", "access-1", "item-1").Return(nil)

	svc := NewService(us, agg, "2018-01-01")
	err := svc.ExchangePublicToken(context.Background(), "alice@example.com", "public-1")

	require.NoError(t, err)
	us.AssertExpectations(t)
	agg.AssertExpectations(t)
}

func TestExchangePublicToken_UpstreamFailure_NothingPersisted(t *testing.T) {
	us := &mockUserStore{}
	agg := &mockAggregator{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(unlinkedUser(), nil)
	agg.On("ExchangePublicToken", mock.Anything, "public-1").
		Return(nil, &plaid.APIError{StatusCode: 400, Body: []byte(`{}`)})

	svc := NewService(us, agg, "2018-01-01")
	err := svc.ExchangePublicToken(context.Background(), "alice@example.com", "public-1")

	require.Error(t, err)
	us.AssertNotCalled(t, "SetAccessToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- FetchTransactions tests ---

func TestFetchTransactions_Unlinked_NoAccessToken(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(unlinkedUser(), nil)

	svc := NewService(us, &mockAggregator{}, "2018-01-01")
	_, err := svc.FetchTransactions(context.Background(), "alice@example.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoAccessToken))
}

func TestFetchTransactions_Linked_FetchesFullWindow(t *testing.T) {
	us := &mockUserStore{}
	agg := &mockAggregator{}
	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(linkedUser(), nil)
	today := time.Now().UTC().Format("2006-01-02")
	agg.On("GetTransactions", mock.Anything, "access-sandbox-xyz", "2018-01-01", today).
		Return(json.RawMessage(`[{"amount":1}]`), nil)

	svc := NewService(us, agg, "2018-01-01")
	txns, err := svc.FetchTransactions(context.Background(), "alice@example.com")

	require.NoError(t, err)
	assert.JSONEq(t, `[{"amount":1}]`, string(txns))
	agg.AssertExpectations(t)
}

func TestFetchTransactions_LinkedThenUnlinkedStateMachine(t *testing.T) {
	// Unlinked → exchange → Linked: the same service instance moves a user
	// through the state machine once the store reflects the persisted token.
	us := &mockUserStore{}
	agg := &mockAggregator{}
	svc := NewService(us, agg, "2018-01-01")

	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(unlinkedUser(), nil).Once()
	_, err := svc.FetchTransactions(context.Background(), "alice@example.com")
	require.True(t, errors.Is(err, domain.ErrNoAccessToken))

	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(unlinkedUser(), nil).Once()
	agg.On("ExchangePublicToken", mock.Anything, "public-1").
		Return(&plaid.ExchangeResult{AccessToken: "access-sandbox-xyz", ItemID: "item-1"}, nil)
	us.On("SetAccessToken", mock.Anything, "u1", "access-sandbox-xyz", "item-1").Return(nil)
	require.NoError(t, svc.ExchangePublicToken(context.Background(), "alice@example.com", "public-1"))

	us.On("GetByEmail", mock.Anything, "alice@example.com").Return(linkedUser(), nil).Once()
	agg.On("GetTransactions", mock.Anything, "access-sandbox-xyz", "2018-01-01", mock.Anything).
		Return(json.RawMessage(`[]`), nil)
	txns, err := svc.FetchTransactions(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(txns))
}

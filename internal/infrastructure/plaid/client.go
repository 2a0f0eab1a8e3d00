package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-finlink-api/internal/config"
)

// APIError carries a non-success response from the aggregator so handlers
// can pass the upstream status and body through to the caller.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("aggregator returned status %d", e.StatusCode)
}

// ExchangeResult is the useful portion of the public-token exchange response.
type ExchangeResult struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

// Client is a thin HTTP client for the financial-data aggregation API.
// Server credentials are injected into every request body; the access token
// itself never reaches this process's callers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
	clientName string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    cfg.PlaidBaseURL,
		clientID:   cfg.PlaidClientID,
		secret:     cfg.PlaidSecret,
		clientName: cfg.PlaidClientName,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a local server.
func NewClientWithBaseURL(baseURL, clientID, secret, clientName string) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		clientID:   clientID,
		secret:     secret,
		clientName: clientName,
	}
}

// CreateLinkToken asks the aggregator for a link token bound to the given
// end user. The response body is returned unmodified.
func (c *Client) CreateLinkToken(ctx context.Context, clientUserID string) (json.RawMessage, error) {
	payload := map[string]interface{}{
		"client_id":     c.clientID,
		"secret":        c.secret,
		"client_name":   c.clientName,
		"user":          map[string]string{"client_user_id": clientUserID},
		"products":      []string{"auth", "transactions"},
		"country_codes": []string{"US"},
		"language":      "en",
	}
	return c.post(ctx, "/link/token/create", payload)
}

// ExchangePublicToken trades a short-lived public token for the long-lived
// access token that identifies the linked item.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error) {
	payload := map[string]interface{}{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"public_token": publicToken,
	}
	body, err := c.post(ctx, "/item/public_token/exchange", payload)
	if err != nil {
		return nil, err
	}
	var res ExchangeResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode exchange response: %w", err)
	}
	if res.AccessToken == "" {
		return nil, fmt.Errorf("exchange response missing access_token")
	}
	return &res, nil
}

// GetTransactions fetches the transaction list for the [start, end] window
// (YYYY-MM-DD dates) and returns the raw transactions array.
func (c *Client) GetTransactions(ctx context.Context, accessToken, startDate, endDate string) (json.RawMessage, error) {
	payload := map[string]interface{}{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"access_token": accessToken,
		"start_date":   startDate,
		"end_date":     endDate,
	}
	body, err := c.post(ctx, "/transactions/get", payload)
	if err != nil {
		return nil, err
	}
	var res struct {
		Transactions json.RawMessage `json:"transactions"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode transactions response: %w", err)
	}
	if res.Transactions == nil {
		return nil, fmt.Errorf("transactions response missing transactions field")
	}
	return res.Transactions, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call aggregator %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read aggregator response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

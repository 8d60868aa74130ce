// Package uptycs is a minimal client for the Uptycs public REST API: global
// SQL queries and the cloudAccounts resource.
//
// Every request is authenticated with a short-lived HS256 JWT signed with the
// API secret from the customer's key file.
package uptycs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blackwell-systems/gcp-ingest/internal/account"
	"github.com/blackwell-systems/gcp-ingest/internal/keyfile"
)

const tokenTTL = time.Hour

// APIError is returned for non-2xx responses
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client talks to a single Uptycs customer tenant
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	secret     string
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a client rooted at baseURL (the customer-scoped API root)
func New(baseURL, apiKey, secret string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		secret:     secret,
		logger:     logger.With(slog.String("component", "uptycs")),
		now:        time.Now,
	}
}

// NewFromKey creates a client for the tenant described by an API key file
func NewFromKey(key *keyfile.Key, timeout time.Duration, logger *slog.Logger) *Client {
	return New(key.BaseURL(), key.Key, key.Secret, timeout, logger)
}

// QueryRow is a single row of a global query result
type QueryRow map[string]any

type itemsResponse[T any] struct {
	Items []T `json:"items"`
}

// QueryGlobal runs sql against the global (cross-asset) inventory
func (c *Client) QueryGlobal(ctx context.Context, sql string) ([]QueryRow, error) {
	var resp itemsResponse[QueryRow]
	if err := c.do(ctx, http.MethodPost, "/query", map[string]string{"query": sql}, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ListCloudAccounts returns every registered cloud account, all providers
func (c *Client) ListCloudAccounts(ctx context.Context) ([]account.CloudAccount, error) {
	var resp itemsResponse[account.CloudAccount]
	if err := c.do(ctx, http.MethodGet, "/cloudAccounts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// UpdateCloudAccount replaces the editable fields of account id
func (c *Client) UpdateCloudAccount(ctx context.Context, id string, payload account.CloudAccount) error {
	return c.do(ctx, http.MethodPut, CloudAccountPath(id), payload, nil)
}

// CloudAccountPath is the resource path of a single cloud account
func CloudAccountPath(id string) string {
	return "/cloudAccounts/" + id
}

func (c *Client) token() (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Issuer:    c.apiKey,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign API token: %w", err)
	}
	return signed, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s %s request: %w", method, path, err)
	}

	token, err := c.token()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", c.now().Sub(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

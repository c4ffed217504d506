// Package remote talks to the hosted wallet REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"moneyguard/internal/models"
)

// StatusError is returned when the wallet API answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Message)
}

// HTTPStatus returns the status code the API answered with.
func (e *StatusError) HTTPStatus() int { return e.StatusCode }

// Client communicates with the wallet API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new wallet API client.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ListTransactions fetches all transactions of the token's user.
func (c *Client) ListTransactions(ctx context.Context, token string) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := c.do(ctx, "fetching transactions", http.MethodGet, "/transactions", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCategories fetches the transaction categories.
func (c *Client) ListCategories(ctx context.Context, token string) ([]models.Category, error) {
	var out []models.Category
	if err := c.do(ctx, "fetching categories", http.MethodGet, "/transaction-categories", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTransaction posts a new transaction and returns the stored entry.
func (c *Client) CreateTransaction(ctx context.Context, token string, payload models.CreateTransactionPayload) (models.Transaction, error) {
	var out models.Transaction
	err := c.do(ctx, "creating transaction", http.MethodPost, "/transactions", token, payload, &out)
	return out, err
}

// UpdateTransaction patches transaction id and returns the stored entry.
func (c *Client) UpdateTransaction(ctx context.Context, token, id string, payload models.UpdateTransactionPayload) (models.Transaction, error) {
	var out models.Transaction
	err := c.do(ctx, "updating transaction", http.MethodPatch, "/transactions/"+url.PathEscape(id), token, payload, &out)
	return out, err
}

// DeleteTransaction deletes transaction id.
func (c *Client) DeleteTransaction(ctx context.Context, token, id string) error {
	return c.do(ctx, "deleting transaction", http.MethodDelete, "/transactions/"+url.PathEscape(id), token, nil, nil)
}

// SignUp registers a user and returns its token.
func (c *Client) SignUp(ctx context.Context, req models.SignUpRequest) (models.AuthResult, error) {
	var out models.AuthResult
	err := c.do(ctx, "signing up", http.MethodPost, "/auth/sign-up", "", req, &out)
	return out, err
}

// SignIn exchanges credentials for a token.
func (c *Client) SignIn(ctx context.Context, req models.SignInRequest) (models.AuthResult, error) {
	var out models.AuthResult
	err := c.do(ctx, "signing in", http.MethodPost, "/auth/sign-in", "", req, &out)
	return out, err
}

// SignOut revokes token.
func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.do(ctx, "signing out", http.MethodDelete, "/auth/sign-out", token, nil, nil)
}

// CurrentUser returns the user the token belongs to.
func (c *Client) CurrentUser(ctx context.Context, token string) (models.User, error) {
	var out models.User
	err := c.do(ctx, "fetching current user", http.MethodGet, "/users/current", token, nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshaling request: %w", op, err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: empty response body", op)
		}
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

// errorMessage extracts the "message" field the API puts in error bodies.
func errorMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&body); err != nil {
		return ""
	}
	return body.Message
}

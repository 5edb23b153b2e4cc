package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TokenSource provides the persisted bearer token. Implemented by the
// settings store; injected so the HTTP layer never owns auth state.
type TokenSource interface {
	Token() string
	SetToken(token string) error
	ClearToken() error
}

// Client talks to the project-management REST API. All entity calls go
// through do, which attaches the bearer token and maps error responses.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
	log            *zap.Logger
}

// New creates an API client for the given base URL.
func New(baseURL string, timeout time.Duration, tokens TokenSource, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// OnUnauthorized registers the callback fired when a protected call comes
// back 401/403. Registered once at startup by the UI layer.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// APIError is an error response the server answered with a body for.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// UserMessage converts any error from the client into text fit for a
// notification: the server-provided message when there is one, otherwise
// a generic transport message.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "network error, request did not complete"
}

// errorBody is the error shape the server responds with
type errorBody struct {
	Message string          `json:"message"`
	Err     json.RawMessage `json:"error"`
}

// do performs a JSON request. Public requests (login) carry no bearer
// token and never trigger the unauthorized callback.
func (c *Client) do(ctx context.Context, method, path string, public bool, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !public {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.handleErrorResponse(resp, method, path, public)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) handleErrorResponse(resp *http.Response, method, path string, public bool) error {
	raw, _ := io.ReadAll(resp.Body)

	var eb errorBody
	message := ""
	if err := json.Unmarshal(raw, &eb); err == nil {
		message = eb.Message
		if message == "" && len(eb.Err) > 0 {
			message = strings.Trim(string(eb.Err), `"`)
		}
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	// Expired or revoked session on a protected endpoint forces a logout.
	// The error still propagates so the caller can notify the user.
	if (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) && !public {
		c.log.Info("session rejected, logging out",
			zap.Int("status", resp.StatusCode), zap.String("path", path))
		if err := c.tokens.ClearToken(); err != nil {
			c.log.Error("clear token", zap.Error(err))
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}

	c.log.Warn("api error", zap.String("method", method), zap.String("path", path),
		zap.Int("status", resp.StatusCode), zap.String("message", message))
	return &APIError{Status: resp.StatusCode, Message: message}
}

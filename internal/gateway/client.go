// Package gateway es el cliente HTTP del Remote Sync Gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"storefront/internal/api"
	"storefront/internal/models"
)

// StatusError es una respuesta no 2xx del gateway
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway responded %d: %s", e.Code, e.Body)
}

// Permanent indica que reintentar no cambiaría el resultado
func (e *StatusError) Permanent() bool {
	if e.Unauthorized() {
		return false
	}
	switch e.Code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return e.Code >= 400 && e.Code < 500
}

// Unauthorized es un rechazo por sesión ausente o vencida; con otro token puede pasar
func (e *StatusError) Unauthorized() bool {
	return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
}

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token func() string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource define de dónde sale el bearer token del admin
func WithTokenSource(fn func() string) Option {
	return func(c *Client) { c.token = fn }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UseTokenSource reemplaza la fuente del token (el store se crea después del cliente)
func (c *Client) UseTokenSource(fn func() string) {
	c.mu.Lock()
	c.token = fn
	c.mu.Unlock()
}

func (c *Client) FetchProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := c.get(ctx, api.CollectionProducts, &out)
	return out, err
}

func (c *Client) FetchOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := c.get(ctx, api.CollectionOrders, &out)
	return out, err
}

func (c *Client) FetchUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := c.get(ctx, api.CollectionUsers, &out)
	return out, err
}

func (c *Client) FetchSettings(ctx context.Context) (models.Settings, error) {
	var out models.Settings
	err := c.get(ctx, api.CollectionSettings, &out)
	return out, err
}

// Send publica una petición con discriminador action en /api/<collection>
func (c *Client) Send(ctx context.Context, collection string, payload json.RawMessage) error {
	return c.do(ctx, http.MethodPost, "/api/"+collection, payload, nil)
}

// AdminSession intercambia credenciales de admin por un token
func (c *Client) AdminSession(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(api.AdminSessionRequest{Username: username, Password: password})
	if err != nil {
		return "", err
	}
	var resp api.AdminSessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/admin/session", body, &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.Token == "" {
		return "", fmt.Errorf("admin session rejected: %s", resp.Message)
	}
	return resp.Token, nil
}

func (c *Client) get(ctx context.Context, collection string, out any) error {
	if err := c.do(ctx, http.MethodGet, "/api/"+collection, nil, out); err != nil {
		return fmt.Errorf("fetch %s: %w", collection, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) bearer() string {
	c.mu.RLock()
	fn := c.token
	c.mu.RUnlock()
	if fn == nil {
		return ""
	}
	return fn()
}

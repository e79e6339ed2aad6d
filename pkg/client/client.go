// Package client is the Go SDK for the minflow HTTP API. It speaks the
// pkg/api/v1 wire types and decodes error envelopes back into
// apperror codes, so callers can switch on them with apperror.Is.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"minflow/pkg/apperror"
)

// Config конфигурация клиента
type Config struct {
	// BaseURL адрес сервиса, например http://localhost:8080
	BaseURL string

	// Timeout на весь HTTP запрос
	Timeout time.Duration

	// Token статический bearer токен; Token() перезаписывает его
	Token string

	// MaxRetries повторы при недоступности сервиса
	MaxRetries int

	// RetryBackoff линейная пауза между повторами
	RetryBackoff time.Duration

	// HTTPClient переопределяет транспорт (для тестов)
	HTTPClient *http.Client
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "http://localhost:8080",
		Timeout:      30 * time.Second,
		MaxRetries:   3,
		RetryBackoff: 500 * time.Millisecond,
	}
}

// Client типизированный клиент API
type Client struct {
	baseURL      string
	httpClient   *http.Client
	maxRetries   int
	retryBackoff time.Duration

	mu    sync.RWMutex
	token string
}

// New создаёт нового клиента
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("client: base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:   httpClient,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
		token:        cfg.Token,
	}, nil
}

// SetToken устанавливает bearer токен для последующих запросов
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearerToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do выполняет запрос с JSON телом и декодирует JSON ответ в out.
// Повторяет запрос при сетевых ошибках и 502/503/504 с линейным
// backoff, как делал gRPC клиент с codes.Unavailable.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
	}

	data, _, err := c.doRaw(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

// doRaw выполняет запрос и возвращает сырое тело ответа и Content-Type.
func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, string, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	attempts := c.maxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(c.retryBackoff * time.Duration(attempt-1)):
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return nil, "", fmt.Errorf("client: build request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		if token := c.bearerToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("client: %s %s: %w", method, path, err)
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("client: read response: %w", readErr)
			continue
		}

		if resp.StatusCode >= 400 {
			appErr := decodeError(resp.StatusCode, data)
			if retryableStatus(resp.StatusCode) {
				lastErr = appErr
				continue
			}
			return nil, "", appErr
		}

		return data, resp.Header.Get("Content-Type"), nil
	}

	return nil, "", lastErr
}

// decodeError восстанавливает apperror из ответа сервиса
func decodeError(status int, body []byte) error {
	var envelope apperror.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil && envelope.Error.Code != "" {
		return envelope.Error
	}

	message := strings.TrimSpace(string(body))
	if message == "" {
		message = http.StatusText(status)
	}
	return apperror.FromHTTPStatus(status, message)
}

func retryableStatus(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

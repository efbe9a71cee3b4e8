package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/polyreview/internal/common"
)

// Task names understood by the backend.
const (
	TaskLanguageID  = "language-identification"
	TaskTranslation = "translation"
	TaskSentiment   = "sentiment-analysis"
)

// ErrBackend wraps any non-success response from the backend.
var ErrBackend = errors.New("inference backend error")

// Config holds configuration for the backend client.
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
	Retry    common.RetryOptions
}

// Client talks to the model-serving backend.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
	apiKey     string
	retry      common.RetryOptions
}

// NewClient creates a new backend client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: inference endpoint", common.ErrMissingConfig)
	}
	if _, err := url.ParseRequestURI(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("%w: inference endpoint: %v", common.ErrInvalidConfig, err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}

	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = common.DefaultRetryOptions()
	}

	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		logger:   common.OrDefault(logger),
		retry:    retry,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// HealthResponse reports backend status.
type HealthResponse struct {
	Status string `json:"status"`
	Device string `json:"device"`
}

// Health checks that the backend is reachable.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return HealthResponse{}, err
	}
	return resp, nil
}

// LoadRequest asks the backend to bring a model into memory.
// Path is set for artifacts that live on local disk, Model for hub identifiers.
type LoadRequest struct {
	Task  string `json:"task"`
	Model string `json:"model,omitempty"`
	Path  string `json:"path,omitempty"`
}

type loadResponse struct {
	Handle string `json:"handle"`
	Device string `json:"device"`
}

// Load asks the backend to load a model and returns a handle bound to it.
// Loading is retried on transient failures.
func (c *Client) Load(ctx context.Context, req LoadRequest) (*Model, error) {
	if req.Task == "" {
		return nil, fmt.Errorf("%w: load task", common.ErrMissingConfig)
	}
	if req.Model == "" && req.Path == "" {
		return nil, fmt.Errorf("%w: load needs a model id or a path", common.ErrMissingConfig)
	}

	var resp loadResponse
	err := common.WithRetry(ctx, func() error {
		return c.do(ctx, http.MethodPost, "/v1/models", req, &resp)
	}, c.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s model %s: %w", req.Task, req.name(), err)
	}
	if resp.Handle == "" {
		return nil, fmt.Errorf("%w: backend returned no handle for %s", ErrBackend, req.name())
	}

	c.logger.Info("Model loaded",
		"task", req.Task,
		"model", req.name(),
		"device", resp.Device)

	return &Model{
		client: c,
		handle: resp.Handle,
		name:   req.name(),
		device: resp.Device,
	}, nil
}

func (r LoadRequest) name() string {
	if r.Model != "" {
		return r.Model
	}
	return r.Path
}

func (c *Client) do(ctx context.Context, method, path string, payload, v any) error {
	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return common.Permanent(fmt.Errorf("failed to marshal request: %w", err))
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return common.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return common.Permanent(ctx.Err())
		}
		return common.Transient(fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return common.Transient(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		backendErr := fmt.Errorf("%w (status %d): %s", ErrBackend, resp.StatusCode, errorMessage(respBody))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return common.Transient(backendErr)
		}
		return common.Permanent(backendErr)
	}

	if v == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, v); err != nil {
		return common.Permanent(fmt.Errorf("failed to parse response: %w", err))
	}
	return nil
}

// errorMessage extracts {"error": "..."} from a backend error body, falling
// back to the raw body.
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}

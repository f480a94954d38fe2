// Package remote is the HTTP client shared by the insight and news
// integrations: JSON POST with retries, a circuit breaker and metrics.
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
	"path"
	"time"

	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/logging"
	"github.com/brandonnguyen11/rosterAI/pkg/metrics"
	"github.com/brandonnguyen11/rosterAI/pkg/retry"
)

// DefaultTimeout bounds a single HTTP attempt.
const DefaultTimeout = 15 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

var errNotConfigured = errors.New("base URL not configured")

// ClientConfig describes one remote service.
type ClientConfig struct {
	Service string // label for logs and metrics, e.g. "insights"
	BaseURL string // empty disables the client
	Timeout time.Duration
	Breaker CircuitBreakerConfig
	Retry   *retry.Config
}

// Client posts JSON to a single remote service.
type Client struct {
	service    string
	baseURL    string
	httpClient *http.Client
	breaker    *CircuitBreaker
	retryCfg   *retry.Config
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewClient creates a client. m may be nil.
func NewClient(cfg ClientConfig, m *metrics.Metrics, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Breaker.Threshold == 0 {
		cfg.Breaker = DefaultCircuitBreakerConfig()
	}
	if cfg.Retry == nil {
		cfg.Retry = retry.RemoteConfig()
	}

	return &Client{
		service:    cfg.Service,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    NewCircuitBreaker(cfg.Service, cfg.Breaker),
		retryCfg:   cfg.Retry,
		metrics:    m,
		logger:     logger.Named(cfg.Service),
	}
}

// Enabled returns true if a base URL is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Service returns the service label.
func (c *Client) Service() string {
	return c.service
}

// Breaker exposes the circuit breaker for health reporting.
func (c *Client) Breaker() *CircuitBreaker {
	return c.breaker
}

// PostJSON sends payload as JSON to baseURL/endpoint and returns the raw body
// of a 2xx response. Every failure is an *Error and matches
// apperrors.ErrRemoteUnavailable.
func (c *Client) PostJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	if !c.Enabled() {
		return nil, &Error{Service: c.service, Cause: errNotConfigured}
	}

	target, err := buildURL(c.baseURL, endpoint)
	if err != nil {
		return nil, &Error{Service: c.service, Cause: err}
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Service: c.service, Cause: fmt.Errorf("failed to marshal request: %w", err)}
	}

	if err := c.breaker.Allow(); err != nil {
		c.metrics.RemoteRejected(c.service)
		c.logger.Debug("Request refused by circuit breaker", zap.Error(err))
		return nil, &Error{Service: c.service, Cause: err}
	}

	start := time.Now()
	var body []byte
	attempt := 0
	err = retry.DoIfRetryable(ctx, c.retryCfg, func() error {
		attempt++
		var doErr error
		body, doErr = c.do(ctx, target, reqBody)
		if doErr != nil {
			c.logger.Warn("Remote request failed",
				zap.String("url", logging.SanitizeURL(target)),
				zap.Int("attempt", attempt),
				zap.String("error", logging.SanitizeError(doErr)))
		}
		return doErr
	})
	c.metrics.RemoteRequest(c.service, time.Since(start), err)

	if err != nil {
		if ctx.Err() == nil {
			c.breaker.RecordFailure()
		} else {
			c.breaker.CancelProbe()
		}
		c.metrics.SetCircuitBreakerState(c.service, float64(c.breaker.State()))

		var remoteErr *Error
		if errors.As(err, &remoteErr) {
			return nil, err
		}
		return nil, &Error{Service: c.service, Cause: err}
	}

	c.breaker.RecordSuccess()
	c.metrics.SetCircuitBreakerState(c.service, float64(CircuitClosed))

	c.logger.Debug("Remote request succeeded",
		zap.String("url", logging.SanitizeURL(target)),
		zap.Int("attempts", attempt),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	return body, nil
}

func (c *Client) do(ctx context.Context, target string, reqBody []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(reqBody))
	if err != nil {
		return nil, &Error{Service: c.service, Cause: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Service: c.service, Cause: err, Retryable: ctx.Err() == nil}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Service: c.service, Cause: fmt.Errorf("failed to read response: %w", err), Retryable: true}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Remote service returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", logging.SanitizeBody(body)))
		return nil, &Error{
			Service:    c.service,
			StatusCode: resp.StatusCode,
			Retryable:  retryableStatus(resp.StatusCode),
		}
	}

	return body, nil
}

// buildURL joins endpoint onto the base URL path.
func buildURL(baseURL, endpoint string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = path.Join("/", u.Path, endpoint)
	return u.String(), nil
}

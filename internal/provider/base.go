// file: internal/provider/base.go
// version: 1.0.0
// guid: 6c3f8e21-9a4d-4b70-8e15-2f7b0a9d4c38

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jdfalk/asset-store/internal/logger"
	"github.com/jdfalk/asset-store/internal/metrics"
	"github.com/jdfalk/asset-store/internal/models"
	"github.com/rs/zerolog"
)

// DefaultMaxRetries keeps interactive searches under a few seconds.
const DefaultMaxRetries = 1

// DefaultTimeout bounds each individual HTTP attempt.
const DefaultTimeout = 15 * time.Second

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleep is the production Sleeper.
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Option customizes an adapter at construction.
type Option func(*BaseProvider)

// WithBaseURL points the adapter at a different API host (tests, proxies).
func WithBaseURL(baseURL string) Option {
	return func(b *BaseProvider) {
		if baseURL != "" {
			b.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(b *BaseProvider) {
		if c != nil {
			b.httpClient = c
		}
	}
}

// WithSleeper replaces the sleeper used for pacing and backoff.
func WithSleeper(s Sleeper) Option {
	return func(b *BaseProvider) {
		if s != nil {
			b.sleep = s
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(b *BaseProvider) {
		b.log = l
	}
}

// authorizer attaches a provider's credential to an outgoing request.
type authorizer func(req *http.Request, apiKey string)

// BaseProvider carries the shared HTTP, retry, and pacing machinery. Adapters
// embed it and contribute only schema translation.
type BaseProvider struct {
	name        models.ProviderName
	displayName string
	config      models.AssetProviderConfig
	baseURL     string
	httpClient  *http.Client
	authorize   authorizer
	sleep       Sleeper
	log         zerolog.Logger
}

func newBaseProvider(name models.ProviderName, display string, cfg models.AssetProviderConfig, baseURL string, auth authorizer, opts []Option) BaseProvider {
	b := BaseProvider{
		name:        name,
		displayName: display,
		config:      cfg,
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		authorize:   auth,
		sleep:       ContextSleep,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	b.log = b.log.With().Str("provider", string(name)).Logger()
	return b
}

// envBaseURL returns the env override for key, or fallback.
func envBaseURL(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Name returns the provider identifier.
func (b *BaseProvider) Name() models.ProviderName {
	return b.name
}

// DisplayName returns the human-facing provider name.
func (b *BaseProvider) DisplayName() string {
	return b.displayName
}

// IsEnabled is true iff the provider is enabled and has a credential.
func (b *BaseProvider) IsEnabled() bool {
	return b.config.Enabled && b.config.HasKey()
}

// paceDelay converts the hourly rate limit into the advisory inter-request
// delay of 1000/rateLimit milliseconds. Zero disables pacing.
func (b *BaseProvider) paceDelay() time.Duration {
	if b.config.RateLimit <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(b.config.RateLimit))
}

// backoffDelay is the wait before retry attempt n (0-indexed): 2^n seconds.
func backoffDelay(n int) time.Duration {
	return time.Duration(math.Pow(2, float64(n))) * time.Second
}

// makeRequest issues a GET to endpoint with params and decodes the JSON body
// into out. Rate-limited (429) and 5xx responses other than 522, and network
// timeouts, are retried up to maxRetries times with exponential backoff.
func (b *BaseProvider) makeRequest(ctx context.Context, endpoint string, params url.Values, maxRetries int, out any) error {
	if !b.IsEnabled() {
		return disabledError(b.name, b.displayName)
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	target := b.baseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	start := time.Now()
	defer func() {
		metrics.ObserveProviderDuration(string(b.name), time.Since(start))
	}()

	var lastErr *ProviderError
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt - 1)
			metrics.IncProviderRetry(string(b.name))
			b.log.Debug().
				Int("attempt", attempt).
				Dur("delay", delay).
				Int("status", lastErr.StatusCode).
				Msg("retrying provider request")
			if err := b.sleep(ctx, delay); err != nil {
				return networkError(b.name, b.displayName, err, false)
			}
		}
		if pace := b.paceDelay(); pace > 0 {
			if err := b.sleep(ctx, pace); err != nil {
				return networkError(b.name, b.displayName, err, false)
			}
		}

		perr := b.doOnce(ctx, target, out)
		if perr == nil {
			return nil
		}
		lastErr = perr
		if !perr.Retryable() {
			break
		}
	}

	metrics.IncProviderFailure(string(b.name), string(lastErr.Kind))
	b.log.Warn().
		Str("kind", string(lastErr.Kind)).
		Int("status", lastErr.StatusCode).
		Str("endpoint", endpoint).
		Msg(lastErr.Message)
	return lastErr
}

func (b *BaseProvider) doOnce(ctx context.Context, target string, out any) *ProviderError {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return networkError(b.name, b.displayName, err, false)
	}
	req.Header.Set("Accept", "application/json")
	if b.authorize != nil {
		b.authorize(req, strings.TrimSpace(b.config.APIKey))
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		metrics.IncProviderRequest(string(b.name), 0)
		return networkError(b.name, b.displayName, err, isNetworkTransient(ctx, err))
	}
	defer resp.Body.Close()
	metrics.IncProviderRequest(string(b.name), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return classifyStatus(b.name, b.displayName, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return transformError(b.name, b.displayName, fmt.Errorf("decode: %w", err))
	}
	return nil
}

// isNetworkTransient reports whether a transport error is worth retrying.
// Cancellation by the caller never is.
func isNetworkTransient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout() || isConnReset(err)
	}
	return false
}

func isConnReset(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") || strings.Contains(msg, "broken pipe")
}

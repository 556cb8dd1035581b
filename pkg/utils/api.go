package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HTTPError is returned for non-2xx responses. The body has still been decoded
// into the caller's value when it was valid JSON.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("bad status: %s", e.Status)
}

type API struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	logger  *zap.Logger
}

type Option func(*API)

func WithHTTPClient(c *http.Client) Option {
	return func(a *API) { a.client = c }
}

func WithRateLimit(rps float64, burst int) Option {
	return func(a *API) { a.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *API) { a.logger = l }
}

func WithTimeout(d time.Duration) Option {
	return func(a *API) {
		if d > 0 {
			a.client = &http.Client{Timeout: d, Transport: a.client.Transport}
		}
	}
}

// Logger returns the logger requests are reported to.
func (a *API) Logger() *zap.Logger {
	return a.logger
}

// NewAPI creates a JSON GET client. apiKey, when set, is sent as the apiKey query parameter.
func NewAPI(baseURL, apiKey string, opts ...Option) *API {
	a := &API{
		client:  http.DefaultClient,
		baseURL: baseURL,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *API) Get(ctx context.Context, path string, params url.Values, v any) error {
	if params == nil {
		params = url.Values{}
	}
	if a.apiKey != "" {
		params.Set("apiKey", a.apiKey)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s%s", a.baseURL, path), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	a.logger.Debug("api request",
		zap.String("path", redact(path)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	decodeErr := json.Unmarshal(body, v)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	return nil
}

// redact strips the API key from a logged request path.
func redact(path string) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	if q.Has("apiKey") {
		q.Set("apiKey", "***")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

package statsfeed

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/weekly-picks/internal/domain/scoring"
	"github.com/riskibarqy/weekly-picks/internal/platform/logging"
	"github.com/riskibarqy/weekly-picks/internal/platform/resilience"
	"github.com/riskibarqy/weekly-picks/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout      = 10 * time.Second
	maxResponseBodySize = 2 << 20
)

var errStatsFeedTransient = crerr.New("stats feed transient failure")

var apiKeyParamRegex = regexp.MustCompile(`api_key=[^&\s"']+`)

type ClientConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pulls per-player weekly stat lines from the upstream stats feed.
type Client struct {
	http       *fasthttp.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                "weekly-picks-statsfeed",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBodySize,
		},
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		timeout:    timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger.Named("statsfeed"),
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

// FetchPlayerPeriodStats returns the provider's current stat line. found is
// false when the provider answers 404 or reports no line yet.
func (c *Client) FetchPlayerPeriodStats(ctx context.Context, season string, periodNumber int, playerID string) (map[scoring.Category]float64, bool, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, false, crerr.New("player id is required")
	}
	if c.baseURL == "" {
		return nil, false, fmt.Errorf("%w: stats feed base url is not configured", usecase.ErrDependencyUnavailable)
	}

	path := fmt.Sprintf("/seasons/%s/weeks/%d/players/%s/stats",
		url.PathEscape(season), periodNumber, url.PathEscape(playerID))

	var (
		raw      []byte
		notFound bool
	)
	err := c.breaker.Execute(func() error {
		body, status, reqErr := c.executeRequest(ctx, path)
		if reqErr != nil {
			return reqErr
		}
		if status == fasthttp.StatusNotFound {
			notFound = true
			return nil
		}
		raw = body
		return nil
	}, isCircuitFailure)
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "stats feed circuit breaker rejected request", "state", c.breaker.State())
		return nil, false, fmt.Errorf("%w: stats feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		return nil, false, err
	}
	if notFound {
		return nil, false, nil
	}

	var decoded playerStatEnvelope
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return nil, false, crerr.Wrap(err, "decode stats feed payload")
	}
	if decoded.Data == nil || len(decoded.Data.Stats) == 0 {
		return nil, false, nil
	}

	out := make(map[scoring.Category]float64, len(decoded.Data.Stats))
	for key, value := range decoded.Data.Stats {
		out[scoring.Category(key)] = value
	}
	return out, true, nil
}

func (c *Client) executeRequest(ctx context.Context, path string) ([]byte, int, error) {
	fullURL := c.baseURL + path
	if c.apiKey != "" {
		fullURL += "?api_key=" + url.QueryEscape(c.apiKey)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		body, status, err := c.do(ctx, fullURL)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("%w: send request: %s", errStatsFeedTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		case status >= 200 && status < 300, status == fasthttp.StatusNotFound:
			return body, status, nil
		case isRetryableStatus(status):
			lastErr = fmt.Errorf("%w: provider status=%d body=%s", errStatsFeedTransient, status, abbreviateBody(body))
		default:
			return nil, status, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(body))
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * 200 * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, 0, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "stats feed request failed", "path", path, "error", lastErr)
	return nil, 0, lastErr
}

func (c *Client) do(ctx context.Context, fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if !ok || time.Until(deadline) > c.timeout {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, err
	}

	body := append([]byte(nil), resp.Body()...)
	return body, resp.StatusCode(), nil
}

type playerStatEnvelope struct {
	Data *playerStatLine `json:"data"`
}

type playerStatLine struct {
	PlayerID string             `json:"playerId"`
	Season   string             `json:"season"`
	Week     int                `json:"week"`
	Stats    map[string]float64 `json:"stats"`
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errStatsFeedTransient)
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "...(" + strconv.Itoa(len(text)) + " bytes)"
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "api_key=REDACTED")
}

package introspect

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/weekly-picks/internal/domain/participant"
	"github.com/riskibarqy/weekly-picks/internal/platform/logging"
	"github.com/riskibarqy/weekly-picks/internal/platform/resilience"
	"github.com/riskibarqy/weekly-picks/internal/usecase"
	"golang.org/x/sync/singleflight"
)

// OperatorRole marks principals allowed to run contest operations.
const OperatorRole = "operator"

var errIntrospectTransient = crerr.New("token introspection transient failure")

type Config struct {
	HTTPClient     *http.Client
	BaseURL        string
	IntrospectPath string
	AdminKey       string
	CacheTTL       time.Duration
	CacheMaxItems  int
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

// Client verifies bearer tokens against the account service and maps them
// to contest principals.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminKey      string
	logger        *logging.Logger
	breaker       *resilience.CircuitBreaker
	cache         *principalCache
	flight        singleflight.Group
}

func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(cfg.BaseURL, cfg.IntrospectPath),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		logger:        logger.Named("introspect"),
		breaker:       resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		cache:         newPrincipalCache(cfg.CacheTTL, cfg.CacheMaxItems),
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (participant.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return participant.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	key := hashToken(token)
	if principal, ok := c.cache.Get(key); ok {
		return principal, nil
	}

	out, err, _ := c.flight.Do(key, func() (any, error) {
		var principal participant.Principal
		err := c.breaker.Execute(func() error {
			p, callErr := c.introspect(ctx, token)
			principal = p
			return callErr
		}, isCircuitFailure)
		if err != nil {
			return participant.Principal{}, err
		}
		c.cache.Set(key, principal)
		return principal, nil
	})
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "introspection circuit breaker rejected request", "state", c.breaker.State())
			return participant.Principal{}, fmt.Errorf("%w: account service is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		if crerr.Is(err, errIntrospectTransient) {
			return participant.Principal{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
		return participant.Principal{}, err
	}

	principal, ok := out.(participant.Principal)
	if !ok {
		return participant.Principal{}, fmt.Errorf("unexpected introspection result type %T", out)
	}
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (participant.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return participant.Principal{}, crerr.Wrap(err, "marshal introspect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return participant.Principal{}, crerr.Wrap(err, "create introspect request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return participant.Principal{}, fmt.Errorf("%w: request introspection: %v", errIntrospectTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return participant.Principal{}, fmt.Errorf("%w: read introspect response: %v", errIntrospectTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return participant.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	case resp.StatusCode == http.StatusForbidden:
		c.logger.ErrorContext(ctx, "account service rejected admin key", "status_code", resp.StatusCode)
		return participant.Principal{}, fmt.Errorf("%w: account service rejected introspection credentials", usecase.ErrDependencyUnavailable)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		c.logger.WarnContext(ctx, "introspection non-200", "status_code", resp.StatusCode)
		return participant.Principal{}, fmt.Errorf("%w: introspection status %d", errIntrospectTransient, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return participant.Principal{}, fmt.Errorf("introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return participant.Principal{}, crerr.Wrap(err, "unmarshal introspect response")
	}
	if !decoded.Active {
		return participant.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return participant.Principal{}, crerr.New("invalid introspect response: user_id is empty")
	}

	return principalFromResponse(decoded), nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active      bool     `json:"active"`
	UserID      string   `json:"user_id"`
	DisplayName string   `json:"display_name"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
}

func principalFromResponse(resp introspectResponse) participant.Principal {
	label := strings.TrimSpace(resp.DisplayName)
	if label == "" {
		label = strings.TrimSpace(resp.Username)
	}
	if label == "" {
		label = resp.UserID
	}

	out := participant.Principal{
		ParticipantID: strings.TrimSpace(resp.UserID),
		Label:         label,
	}
	for _, role := range resp.Roles {
		if strings.EqualFold(strings.TrimSpace(role), OperatorRole) {
			out.IsOperator = true
			break
		}
	}
	return out
}

package identity

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/scrim-matchmaker/internal/platform/cache"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/logging"
	"github.com/riskibarqy/scrim-matchmaker/internal/platform/resilience"
	"github.com/riskibarqy/scrim-matchmaker/internal/usecase"
)

var errRegistryTransient = crerr.New("identity registry transient failure")

type HTTPRegistryConfig struct {
	BaseURL        string
	VerifyPath     string
	AdminKey       string
	Timeout        time.Duration
	CacheTTL       time.Duration
	CacheMax       int
	CircuitBreaker resilience.CircuitBreakerConfig
}

// HTTPRegistry asks a remote competitor registry whether a Discord account is
// registered. Positive and negative answers are cached; failures are not.
type HTTPRegistry struct {
	httpClient *http.Client
	verifyURL  string
	adminKey   string
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	cache      *cache.Store[bool]
}

func NewHTTPRegistry(httpClient *http.Client, cfg HTTPRegistryConfig, logger *logging.Logger) *HTTPRegistry {
	if logger == nil {
		logger = logging.Default()
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var store *cache.Store[bool]
	if cfg.CacheTTL > 0 {
		store = cache.NewStore[bool](cfg.CacheTTL, cfg.CacheMax)
	}

	return &HTTPRegistry{
		httpClient: httpClient,
		verifyURL:  buildURL(cfg.BaseURL, cfg.VerifyPath),
		adminKey:   strings.TrimSpace(cfg.AdminKey),
		logger:     logger.Named("identity_http"),
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		cache:      store,
	}
}

func (c *HTTPRegistry) IsValidIdentity(ctx context.Context, discordID string) (bool, error) {
	discordID = strings.TrimSpace(discordID)
	if discordID == "" {
		return false, fmt.Errorf("%w: discord id is required", usecase.ErrInvalidInput)
	}

	if c.cache == nil {
		return c.verifyWithBreaker(ctx, discordID)
	}
	return c.cache.GetOrLoad(ctx, "identity:"+discordID, func(ctx context.Context) (bool, error) {
		return c.verifyWithBreaker(ctx, discordID)
	})
}

func (c *HTTPRegistry) verifyWithBreaker(ctx context.Context, discordID string) (bool, error) {
	var valid bool
	err := c.breaker.Execute(func() error {
		var callErr error
		valid, callErr = c.verify(ctx, discordID)
		return callErr
	}, isCircuitFailure)
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "identity registry circuit breaker rejected request", "state", c.breaker.State())
		return false, fmt.Errorf("%w: identity registry is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		return false, err
	}
	return valid, nil
}

func (c *HTTPRegistry) verify(ctx context.Context, discordID string) (bool, error) {
	encoded, err := sonic.Marshal(verifyRequest{DiscordID: discordID})
	if err != nil {
		return false, crerr.Wrap(err, "marshal verify request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, bytes.NewReader(encoded))
	if err != nil {
		return false, crerr.Wrap(err, "create verify request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %w: request identity registry: %v", usecase.ErrDependencyUnavailable, errRegistryTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, fmt.Errorf("%w: %w: read verify response: %v", usecase.ErrDependencyUnavailable, errRegistryTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.logger.ErrorContext(ctx, "identity registry rejected credentials", "status_code", resp.StatusCode)
		return false, fmt.Errorf("%w: identity registry rejected credentials", usecase.ErrDependencyUnavailable)
	case isRetryableStatus(resp.StatusCode):
		c.logger.WarnContext(ctx, "identity registry transient status", "status_code", resp.StatusCode)
		return false, fmt.Errorf("%w: %w: status %d", usecase.ErrDependencyUnavailable, errRegistryTransient, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return false, crerr.Newf("identity registry failed with status %d", resp.StatusCode)
	}

	var decoded verifyResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return false, crerr.Wrap(err, "unmarshal verify response")
	}
	return decoded.Valid, nil
}

type verifyRequest struct {
	DiscordID string `json:"discord_id"`
}

type verifyResponse struct {
	Valid bool `json:"valid"`
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errRegistryTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}

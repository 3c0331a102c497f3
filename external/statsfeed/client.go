// Package statsfeed fetches the external read-only feed of historical
// batting records used to seed an empty collection.
package statsfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/dugoutlabs/ballstats/internal/domain/player"
	"github.com/dugoutlabs/ballstats/internal/platform/logging"
	"github.com/dugoutlabs/ballstats/internal/platform/resilience"
	"github.com/dugoutlabs/ballstats/internal/usecase"
)

const maxResponseBytes = 8 << 20

var errFeedTransient = crerr.New("feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	URL            string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	url            string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		url:            strings.TrimSpace(cfg.URL),
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchPlayers downloads and decodes the full feed. Transport-level problems
// surface as usecase.ErrUpstreamUnavailable, payloads that are not an ordered
// list of record-shaped entries as usecase.ErrInvalidUpstreamData. Entries
// arriving without an id are assigned their one-based feed position so every
// seeded record stays addressable through the keyed API.
func (c *Client) FetchPlayers(ctx context.Context) ([]player.Player, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "feed circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: %v", usecase.ErrUpstreamUnavailable, err)
		}
	}

	body, err := c.fetchWithRetries(ctx)
	c.recordCircuitResult(err)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", usecase.ErrUpstreamUnavailable, err)
	}

	var entries []feedEntry
	if err := sonic.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode feed payload: %v", usecase.ErrInvalidUpstreamData, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: feed returned an empty list", usecase.ErrInvalidUpstreamData)
	}

	out := make([]player.Player, 0, len(entries))
	for i, entry := range entries {
		record := entry.toPlayer()
		if record.ID <= 0 {
			record.ID = i + 1
		}
		out = append(out, record)
	}

	return out, nil
}

func (c *Client) fetchWithRetries(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WarnContext(ctx, "retrying feed fetch",
				"attempt", attempt,
				"max_retries", c.maxRetries,
				"error", lastErr,
			)
		}

		body, err := c.fetchOnce(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil || !crerr.Is(err, errFeedTransient) {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "create feed request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request feed: %v", errFeedTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read feed response: %v", errFeedTransient, err)
	}

	if resp.StatusCode/100 != 2 {
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: feed responded with status %d", errFeedTransient, resp.StatusCode)
		}
		return nil, crerr.Newf("feed responded with status %d", resp.StatusCode)
	}

	return body, nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled {
		return
	}
	if err != nil && crerr.Is(err, errFeedTransient) {
		c.breaker.RecordFailure()
		return
	}
	if err == nil {
		c.breaker.RecordSuccess()
	}
}

// feedEntry tolerates the feed's loose typing: numeric fields arrive as
// numbers or digit strings depending on the row.
type feedEntry struct {
	ID          any `json:"id"`
	Name        any `json:"Player"`
	AgeThatYear any `json:"AgeThatYear"`
	Hits        any `json:"Hits"`
	Year        any `json:"Year"`
	Bats        any `json:"Bats"`
	Rank        any `json:"Rank"`
}

func (e feedEntry) toPlayer() player.Player {
	return player.Player{
		ID:          asInt(e.ID),
		Name:        asString(e.Name),
		AgeThatYear: asString(e.AgeThatYear),
		Hits:        asInt(e.Hits),
		Year:        asInt(e.Year),
		Bats:        asString(e.Bats),
		Rank:        asString(e.Rank),
	}
}

func asInt(v any) int {
	switch value := v.(type) {
	case float64:
		return int(value)
	case int:
		return value
	case int64:
		return int(value)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func asString(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}

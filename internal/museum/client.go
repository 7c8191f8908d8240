package museum

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"musegate/internal/metrics"
)

// ClientConfig tunes the shared outbound HTTP client.
type ClientConfig struct {
	Timeout      time.Duration
	RateLimitRPS float64
	Burst        int
}

// Client is the outbound HTTP client shared by the adapters and the relay.
// It carries a per-client rate limiter: the museum open-data APIs are
// public and throttle aggressive callers.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	log     *logrus.Logger
}

func NewClient(cfg ClientConfig, log *logrus.Logger) *Client {
	t := &http.Transport{
		MaxIdleConns:      100,
		IdleConnTimeout:   90 * time.Second,
		ForceAttemptHTTP2: true,
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimitRPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		http:    &http.Client{Transport: t, Timeout: timeout},
		limiter: limiter,
		log:     log,
	}
}

// GetJSON performs a rate-limited GET and returns the body and status.
// A non-nil error means no usable response exists (transport failure,
// context cancellation, unreadable body); status-code handling is the
// caller's business.
func (c *Client) GetJSON(ctx context.Context, url string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if c.log.IsLevelEnabled(logrus.DebugLevel) {
		c.log.WithField("url", url).Debug("upstream.request")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("upstream do: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}

	if c.log.IsLevelEnabled(logrus.DebugLevel) {
		c.log.WithFields(logrus.Fields{
			"url":    url,
			"status": res.StatusCode,
			"bytes":  len(data),
		}).Debug("upstream.response")
	}
	return data, res.StatusCode, nil
}

// CountUpstream records the outcome of one adapter call.
func CountUpstream(source SourceID, op string, status int) {
	metrics.UpstreamRequestsTotal.WithLabelValues(string(source), op, fmt.Sprintf("%d", status)).Inc()
}

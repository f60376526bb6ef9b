// Package sources contains one adapter per upstream medication data API
// (RxNorm, openFDA, CMS NADAC, Cost Plus Drugs, RxClass). Every adapter
// follows the same contract: build the provider URL, make a single request
// attempt, decode into a typed response struct, and map the result into a
// normalized internal shape. Transport errors, non-2xx statuses and decode
// failures never propagate past the adapter boundary; the adapter logs and
// returns its empty value instead.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rxcompare/rxcompare-api/logging"
	"github.com/rxcompare/rxcompare-api/metrics"
)

// DefaultTimeout bounds every upstream request attempt.
const DefaultTimeout = 10 * time.Second

// Cap decoded payloads so a misbehaving upstream cannot exhaust memory.
const maxResponseBytes = 4 << 20

// apiClient is the shared plumbing embedded by every adapter.
type apiClient struct {
	source     string
	httpClient *http.Client
	headers    map[string]string
}

func newAPIClient(source string, timeout time.Duration) apiClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return apiClient{
		source:     source,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// getJSON performs one GET and decodes the body into out. The returned error
// is for adapter-internal use only; adapters translate it into their empty
// value before returning to callers.
func (c *apiClient) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		metrics.UpstreamRequestTotal.WithLabelValues(c.source, "error").Inc()
		return fmt.Errorf("building %s request: %w", c.source, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestTotal.WithLabelValues(c.source, "error").Inc()
		return fmt.Errorf("%s request failed: %w", c.source, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestDuration.WithLabelValues(c.source).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 404 on a point lookup is an ordinary no-match, not a failure.
		outcome := "upstream_error"
		if resp.StatusCode == http.StatusNotFound {
			outcome = "not_found"
		}
		metrics.UpstreamRequestTotal.WithLabelValues(c.source, outcome).Inc()
		return fmt.Errorf("%s returned status %d", c.source, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxResponseBytes)
	if err := json.NewDecoder(body).Decode(out); err != nil {
		metrics.UpstreamRequestTotal.WithLabelValues(c.source, "decode_error").Inc()
		return fmt.Errorf("decoding %s response: %w", c.source, err)
	}

	metrics.UpstreamRequestTotal.WithLabelValues(c.source, "ok").Inc()
	return nil
}

// logDegraded records an adapter falling back to its empty value.
func (c *apiClient) logDegraded(op string, err error) {
	logging.Warn("Upstream call degraded to empty result",
		"source", c.source,
		"operation", op,
		"error", err)
}

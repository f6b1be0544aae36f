// Package oracle provides the HTTP adapter for the external decision
// service consulted by the payment saga.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrExternalAPI is returned for any failure talking to the decision
// service: transport errors, non-2xx responses, and empty or null bodies.
// Callers treat it as transient and rely on event redelivery to retry.
var ErrExternalAPI = errors.New("external API failure")

// DecisionFetcher is the interface consumed by the payment saga.
type DecisionFetcher interface {
	// FetchDecision obtains an integer from the decision service.
	// Returns an error wrapping ErrExternalAPI on any failure.
	FetchDecision(ctx context.Context) (int, error)
}

// Client fetches decisions over HTTP. The endpoint returns a JSON array of
// integers; the first element is the decision.
type Client struct {
	httpClient *http.Client
	url        string
}

// Ensure Client implements DecisionFetcher
var _ DecisionFetcher = (*Client)(nil)

// NewClient creates a Client for the given endpoint with a bounded
// per-request timeout.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
	}
}

// FetchDecision implements DecisionFetcher.
func (c *Client) FetchDecision(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to build request: %v", ErrExternalAPI, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExternalAPI, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: unexpected status %d", ErrExternalAPI, resp.StatusCode)
	}

	var decisions []int
	if err := json.NewDecoder(resp.Body).Decode(&decisions); err != nil {
		return 0, fmt.Errorf("%w: malformed response body: %v", ErrExternalAPI, err)
	}

	// A JSON null decodes to a nil slice, so null and [] land here together.
	if len(decisions) == 0 {
		return 0, fmt.Errorf("%w: empty response", ErrExternalAPI)
	}

	return decisions[0], nil
}

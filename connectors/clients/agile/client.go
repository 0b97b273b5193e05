// Package agile fetches half-hourly day-ahead unit rates from the
// Octopus Agile tariff API.
package agile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pjaos/chargeplan/connectors"
)

var agileBaseURL = "https://api.octopus.energy/v1/products/AGILE-FLEX-22-11-25/electricity-tariffs/E-1R-AGILE-FLEX-22-11-25-%s/standard-unit-rates/?period_from=%s"

// ValidRegions lists the DNO region codes the API accepts. I and O are
// not assigned.
var ValidRegions = []string{"A", "B", "C", "D", "E", "F", "G", "H", "J", "K", "L", "M", "N", "P"}

// Client retrieves Agile unit rates for one distribution region.
type Client struct {
	region     string
	periodFrom time.Time
	httpClient *http.Client
}

// Fetch retrieves the published unit rates. It requires at least the
// WithRegion option; WithPeriodFrom limits the response to rates ending
// after the given instant. Options apply to a per-call copy, so one
// Client may serve concurrent fetches.
func (c *Client) Fetch(ctx context.Context, opts ...connectors.Option) (connectors.TariffResponse, error) {
	call := *c
	for _, opt := range opts {
		if err := opt(&call); err != nil {
			return nil, err
		}
	}
	if !validRegion(call.region) {
		return nil, fmt.Errorf("invalid region code %q", call.region)
	}
	if call.periodFrom.IsZero() {
		call.periodFrom = time.Now().UTC()
	}
	httpClient := call.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	url := fmt.Sprintf(agileBaseURL, call.region, call.periodFrom.UTC().Format("2006-01-02T15:04:05Z"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var rates Response
	if err := json.Unmarshal(body, &rates); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &rates, nil
}

func validRegion(code string) bool {
	for _, r := range ValidRegions {
		if r == code {
			return true
		}
	}
	return false
}

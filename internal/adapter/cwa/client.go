// Package cwa talks to the Central Weather Administration open-data API and
// normalizes its F-C0032-001 forecast payloads.
package cwa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/vulbon/Raining-Day-Map/internal/domain"
)

const popElementName = "PoP"

// Client fetches regional precipitation forecasts. Outbound calls run through
// a circuit breaker; after repeated upstream failures the breaker opens and
// calls fail fast until the upstream recovers.
type Client struct {
	apiKey     string
	dataset    string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]domain.ForecastSlot]
	logger     *slog.Logger
}

// NewClient creates a CWA forecast client.
func NewClient(apiKey, baseURL, dataset string, timeout time.Duration, logger *slog.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[[]domain.ForecastSlot](gobreaker.Settings{
		Name:        "cwa-forecast",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		apiKey:  apiKey,
		dataset: dataset,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: breaker,
		logger:  logger,
	}
}

// Forecast returns the ordered precipitation-probability slots for a region.
func (c *Client) Forecast(ctx context.Context, regionName string) ([]domain.ForecastSlot, error) {
	return c.breaker.Execute(func() ([]domain.ForecastSlot, error) {
		return c.doRequest(ctx, regionName)
	})
}

func (c *Client) doRequest(ctx context.Context, regionName string) ([]domain.ForecastSlot, error) {
	params := url.Values{
		"Authorization": {c.apiKey},
		"format":        {"JSON"},
		"locationName":  {regionName},
		"elementName":   {popElementName},
	}
	fullURL := fmt.Sprintf("%s/%s?%s", c.baseURL, c.dataset, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cwa API error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if payload.Success == "false" {
		return nil, fmt.Errorf("cwa API reported failure for %q", regionName)
	}

	return normalize(payload)
}

// normalize extracts the PoP time series into forecast slots. Timestamps are
// carried verbatim: display collaborators slice them positionally. Slot order
// equals provider order, which is chronological.
func normalize(payload response) ([]domain.ForecastSlot, error) {
	if len(payload.Records.Location) == 0 {
		return nil, fmt.Errorf("no location record: %w", domain.ErrMalformedPayload)
	}

	location := payload.Records.Location[0]
	var pop *weatherElement
	for i := range location.WeatherElement {
		if location.WeatherElement[i].ElementName == popElementName {
			pop = &location.WeatherElement[i]
			break
		}
	}
	if pop == nil {
		return nil, fmt.Errorf("no %s element: %w", popElementName, domain.ErrMalformedPayload)
	}
	if len(pop.Time) == 0 {
		return nil, fmt.Errorf("%s element has no time series: %w", popElementName, domain.ErrMalformedPayload)
	}

	slots := make([]domain.ForecastSlot, len(pop.Time))
	for i, entry := range pop.Time {
		slots[i] = domain.ForecastSlot{
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
			PoP:       parsePercentOrZero(entry.Parameter.ParameterName),
		}
	}
	return slots, nil
}

// parsePercentOrZero parses the leading integer of a probability string,
// tolerating a trailing "%" and other junk. Anything non-numeric or negative
// becomes 0.
func parsePercentOrZero(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	value := 0
	for _, c := range s[:end] {
		value = value*10 + int(c-'0')
		if value > 100 {
			return 100
		}
	}
	return value
}

// CWA API response types.

type response struct {
	Success string  `json:"success"`
	Records records `json:"records"`
}

type records struct {
	Location []location `json:"location"`
}

type location struct {
	LocationName   string           `json:"locationName"`
	WeatherElement []weatherElement `json:"weatherElement"`
}

type weatherElement struct {
	ElementName string      `json:"elementName"`
	Time        []timeEntry `json:"time"`
}

type timeEntry struct {
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Parameter parameter `json:"parameter"`
}

type parameter struct {
	ParameterName string `json:"parameterName"`
	ParameterUnit string `json:"parameterUnit"`
}

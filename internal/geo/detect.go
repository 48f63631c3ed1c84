// Package geo resolves the user's approximate position from their public IP.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/smokyabdulrahman/prayer-engine/internal/logging"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

// DefaultURL is the ip-api.com endpoint, limited to the fields we read.
const DefaultURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// Location holds geographic coordinates detected from the user's IP.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

// Coordinates returns the position as an engine location.
func (l Location) Coordinates() prayer.Location {
	return prayer.Location{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Zone loads the detected IANA timezone. It returns nil when the name is
// empty or unknown to the local tz database.
func (l Location) Zone() *time.Location {
	if l.Timezone == "" {
		return nil
	}
	zone, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil
	}
	return zone
}

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
}

// Client talks to ip-api.com. This is a free service that requires no API key.
type Client struct {
	httpClient *http.Client

	// URL is the geolocation endpoint. Exported for testing with httptest.
	URL string
	// Attempts bounds the number of tries for transient failures.
	Attempts uint
	// Delay is the base backoff between tries.
	Delay time.Duration
}

// NewClient creates a geolocation client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		URL:        DefaultURL,
		Attempts:   3,
		Delay:      500 * time.Millisecond,
	}
}

// DetectLocation determines the user's location from their public IP address.
func DetectLocation(ctx context.Context) (*Location, error) {
	return NewClient().Detect(ctx)
}

// Detect queries the endpoint, retrying network errors and 5xx responses.
// A "fail" status from the service is final.
func (c *Client) Detect(ctx context.Context) (*Location, error) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	var result ipAPIResponse
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("building geolocation request: %w", err))
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("geolocation request failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode >= http.StatusInternalServerError {
				return fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("geolocation API returned status %d", resp.StatusCode))
			}

			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to decode geolocation response: %w", err))
			}
			if result.Status != "success" {
				return retry.Unrecoverable(fmt.Errorf("geolocation failed: %s", result.Message))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.Attempts),
		retry.Delay(c.Delay),
		retry.MaxDelay(5*time.Second),
		retry.MaxJitter(c.Delay),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug().Uint("attempt", n+1).Err(err).Msg("retrying geolocation")
		}),
	)
	logging.LogRequest(logger, "ip-api", c.URL, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return &Location{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Country:   result.Country,
		Timezone:  result.Timezone,
	}, nil
}

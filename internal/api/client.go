// Package api is a client for the Al Adhan prayer times API. The CLI uses it
// as an independent reference to cross-check locally computed times.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/smokyabdulrahman/prayer-engine/internal/logging"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// methodIDs maps engine methods to Al Adhan method numbers.
var methodIDs = map[prayer.Method]int{
	prayer.Karachi: 1,
	prayer.ISNA:    2,
	prayer.MWL:     3,
	prayer.Makkah:  4,
	prayer.Egypt:   5,
}

// MethodID returns the Al Adhan method number for m, or -1 if it has none.
func MethodID(m prayer.Method) int {
	if id, ok := methodIDs[m]; ok {
		return id
	}
	return -1
}

// SchoolID returns the Al Adhan school for an Asr method: 0 Shafi, 1 Hanafi.
func SchoolID(a prayer.AsrMethod) int {
	if a == prayer.Hanafi {
		return 1
	}
	return 0
}

// LatitudeAdjustmentID returns the Al Adhan latitudeAdjustmentMethod for r.
func LatitudeAdjustmentID(r prayer.HighLatitudeRule) int {
	switch r {
	case prayer.OneSeventh:
		return 2
	case prayer.AngleBased:
		return 3
	default:
		return 1
	}
}

// Query describes one reference request.
type Query struct {
	Location prayer.Location
	Settings prayer.Settings
	// Timezone is an IANA name; empty lets the API pick from the coordinates.
	Timezone string
}

func (q Query) values() url.Values {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(q.Location.Latitude, 'f', 6, 64))
	params.Set("longitude", strconv.FormatFloat(q.Location.Longitude, 'f', 6, 64))
	if id := MethodID(q.Settings.Method); id >= 0 {
		params.Set("method", strconv.Itoa(id))
	}
	params.Set("school", strconv.Itoa(SchoolID(q.Settings.Asr)))
	params.Set("latitudeAdjustmentMethod", strconv.Itoa(LatitudeAdjustmentID(q.Settings.HighLatitude)))
	if tune := tuneParam(q.Settings.Adjustments); tune != "" {
		params.Set("tune", tune)
	}
	if q.Timezone != "" {
		params.Set("timezonestring", q.Timezone)
	}
	return params
}

// tuneParam encodes adjustments in the API's order:
// Imsak,Fajr,Sunrise,Dhuhr,Asr,Maghrib,Sunset,Isha,Midnight.
func tuneParam(a prayer.Adjustments) string {
	if a == (prayer.Adjustments{}) {
		return ""
	}
	vals := []int{0, a.Fajr, a.Sunrise, a.Dhuhr, a.Asr, a.Maghrib, 0, a.Isha, 0}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
	// Attempts bounds the number of tries for transient failures.
	Attempts uint
	// Delay is the base backoff between tries.
	Delay time.Duration
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL:  defaultBaseURL,
		Attempts: 3,
		Delay:    time.Second,
	}
}

// FetchTimings fetches the reference times for a single date.
func (c *Client) FetchTimings(ctx context.Context, date prayer.Date, q Query) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timings/%02d-%02d-%04d", c.BaseURL, date.Day, int(date.Month), date.Year)

	var resp Response
	if err := c.doRequest(ctx, endpoint, q.values(), &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)
	}
	return &resp, nil
}

// FetchCalendar fetches the reference times for every day of a month.
func (c *Client) FetchCalendar(ctx context.Context, year int, month time.Month, q Query) (*CalendarResponse, error) {
	endpoint := fmt.Sprintf("%s/calendar/%d/%d", c.BaseURL, year, int(month))

	var resp CalendarResponse
	if err := c.doRequest(ctx, endpoint, q.values(), &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)
	}
	return &resp, nil
}

// doRequest GETs endpoint and decodes the body into out. Network errors,
// 429 and 5xx responses are retried with jittered backoff.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	logger := logging.FromContext(ctx)
	start := time.Now()

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("building API request: %w", err))
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("API request failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
				err := fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
				if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
					return err
				}
				return retry.Unrecoverable(err)
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to decode API response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.Attempts),
		retry.Delay(c.Delay),
		retry.MaxDelay(10*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug().Uint("attempt", n+1).Err(err).Str("endpoint", endpoint).Msg("retrying reference request")
		}),
	)
	logging.LogRequest(logger, "aladhan", endpoint, time.Since(start), err)
	return err
}

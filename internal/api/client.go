// Package api is a client for the Al Adhan prayer times API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// MethodMorocco is the Al Adhan calculation method id of the Moroccan
// Ministry of Habous and Islamic Affairs.
const MethodMorocco = 21

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		BaseURL: defaultBaseURL,
	}
}

// FetchByCoordinates fetches prayer times for the given date and coordinates.
// A negative method or school leaves the API default.
func (c *Client) FetchByCoordinates(ctx context.Context, date time.Time, lat, lon float64, method, school int) (*Response, error) {
	endpoint := fmt.Sprintf("%s/timings/%s", c.BaseURL, date.Format("02-01-2006"))

	params := coordParams(lat, lon, method, school)

	var out Response
	if err := c.doRequest(ctx, endpoint, params, &out); err != nil {
		return nil, err
	}
	if err := checkCode(out.Code, out.Status); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchCalendarByCoordinates fetches a whole month of prayer times.
func (c *Client) FetchCalendarByCoordinates(ctx context.Context, year int, month time.Month, lat, lon float64, method, school int) (*CalendarResponse, error) {
	endpoint := fmt.Sprintf("%s/calendar/%d/%d", c.BaseURL, year, int(month))

	var out CalendarResponse
	if err := c.doRequest(ctx, endpoint, coordParams(lat, lon, method, school), &out); err != nil {
		return nil, err
	}
	if err := checkCode(out.Code, out.Status); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchHijri converts a Gregorian date to the Hijri calendar.
func (c *Client) FetchHijri(ctx context.Context, date time.Time) (*HijriDate, error) {
	endpoint := fmt.Sprintf("%s/gToH/%s", c.BaseURL, date.Format("02-01-2006"))

	var out ConversionResponse
	if err := c.doRequest(ctx, endpoint, nil, &out); err != nil {
		return nil, err
	}
	if err := checkCode(out.Code, out.Status); err != nil {
		return nil, err
	}
	return &out.Data.Hijri, nil
}

func coordParams(lat, lon float64, method, school int) url.Values {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", lat))
	params.Set("longitude", fmt.Sprintf("%f", lon))
	setMethod(params, method, school)
	return params
}

func setMethod(params url.Values, method, school int) {
	if method >= 0 {
		params.Set("method", fmt.Sprintf("%d", method))
	}
	if school >= 0 {
		params.Set("school", fmt.Sprintf("%d", school))
	}
}

func checkCode(code int, status string) error {
	if code != 200 {
		return fmt.Errorf("API error: code=%d status=%s", code, status)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	reqURL := endpoint
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}
	return nil
}

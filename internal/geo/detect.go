// Package geo detects the approximate location of the machine from its
// public IP address.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/smokyabdulrahman/salah-times/internal/cities"
)

// Location holds geographic coordinates detected from the user's IP.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
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

// DefaultURL is the ip-api.com endpoint. It requires no API key.
const DefaultURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// Detector queries a geolocation endpoint.
type Detector struct {
	URL    string
	Client *http.Client
}

// NewDetector returns a Detector for ip-api.com with a short timeout.
func NewDetector() *Detector {
	return &Detector{
		URL:    DefaultURL,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Detect determines the location of the public IP address.
func (d *Detector) Detect(ctx context.Context) (*Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("geolocation request: %w", err)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if result.Status != "success" {
		return nil, fmt.Errorf("geolocation failed: %s", result.Message)
	}

	return &Location{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Country:   result.Country,
		Timezone:  result.Timezone,
	}, nil
}

// NearestCity maps a detected location onto the supported city list.
// A city whose name matches exactly wins over the geometric nearest.
func NearestCity(loc *Location) (cities.City, float64) {
	if c, err := cities.Lookup(loc.City); err == nil {
		return c, cities.DistanceKm(loc.Latitude, loc.Longitude, c.Lat, c.Lon)
	}
	return cities.Nearest(loc.Latitude, loc.Longitude)
}

// internal/places/services.go
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"health-assistant/internal/common/httpclient"
	"health-assistant/internal/common/logger"
	"health-assistant/internal/common/metrics"
	"health-assistant/internal/geo"
)

// categories searched around the user's coordinates, in report order.
var categories = []string{"hospital", "pharmacy"}

// Place is one nearby medical facility returned by the discover API.
type Place struct {
	Title    string `json:"title"`
	Address  string `json:"address"`
	Distance int    `json:"distance"` // meters
}

// Finder locates nearby medical services through the HERE discover API and
// writes a human-readable report. The report is the whole product; callers
// consume no return value beyond the error.
type Finder struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewFinder(config *Config, log logger.Logger) *Finder {
	return &Finder{
		config: config,
		client: httpclient.NewClient(config.Timeout),
		logger: log.WithFields(map[string]interface{}{
			"component": "places",
		}),
	}
}

// ReportNearby writes the nearby hospitals and pharmacies around the
// coordinates to w. A category that fails or comes back empty reports a
// single line and the remaining categories still run.
func (f *Finder) ReportNearby(ctx context.Context, coords *geo.Coordinates, w io.Writer) error {
	var lastErr error
	for _, category := range categories {
		found, err := f.search(ctx, coords, category)
		if err != nil {
			metrics.PlacesRequests.WithLabelValues("error").Inc()
			f.logger.Error("nearby search failed", map[string]interface{}{
				"category": category,
				"error":    err.Error(),
			})
			fmt.Fprintf(w, "Could not fetch nearby %s services right now.\n", category)
			lastErr = err
			continue
		}
		metrics.PlacesRequests.WithLabelValues("ok").Inc()

		if len(found) == 0 {
			fmt.Fprintf(w, "No %s found nearby.\n", category)
			continue
		}

		fmt.Fprintf(w, "Nearby %s services:\n", category)
		for _, place := range found {
			if place.Address != "" {
				fmt.Fprintf(w, "- %s (%s, %.1f km away)\n", place.Title, place.Address, float64(place.Distance)/1000)
			} else {
				fmt.Fprintf(w, "- %s\n", place.Title)
			}
		}
	}
	return lastErr
}

func (f *Finder) search(ctx context.Context, coords *geo.Coordinates, category string) ([]Place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.buildURL(coords, category), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discover API returned %d", resp.StatusCode)
	}

	var apiResponse struct {
		Items []struct {
			Title   string `json:"title"`
			Address struct {
				Label string `json:"label"`
			} `json:"address"`
			Distance int `json:"distance"`
		} `json:"items"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, err
	}

	found := make([]Place, 0, len(apiResponse.Items))
	for _, item := range apiResponse.Items {
		found = append(found, Place{
			Title:    item.Title,
			Address:  item.Address.Label,
			Distance: item.Distance,
		})
	}

	return found, nil
}

func (f *Finder) buildURL(coords *geo.Coordinates, category string) string {
	baseURL, _ := url.Parse(f.config.BaseURL)
	baseURL.Path = "/v1/discover"
	params := url.Values{}
	params.Add("at", fmt.Sprintf("%f,%f", coords.Lat, coords.Lng))
	params.Add("q", category)
	params.Add("limit", fmt.Sprintf("%d", f.config.ResultLimit))
	params.Add("apiKey", f.config.APIKey)
	baseURL.RawQuery = params.Encode()
	return baseURL.String()
}

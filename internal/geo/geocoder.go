// internal/geo/geocoder.go
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"health-assistant/internal/common/httpclient"
	"health-assistant/internal/common/logger"
	"health-assistant/internal/common/metrics"
)

// ErrNoResults means the address resolved to no coordinates. The
// conversation prints the apology and never calls nearby services.
var ErrNoResults = errors.New("GEOCODE_NO_RESULTS")

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Cache is the subset of the Redis wrapper the geocoder uses. A nil cache
// disables caching entirely.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Geocoder resolves free-text addresses through the HERE geocoding API.
type Geocoder struct {
	config *Config
	client *httpclient.Client
	cache  Cache
	logger logger.Logger
}

func NewGeocoder(config *Config, cache Cache, log logger.Logger) *Geocoder {
	return &Geocoder{
		config: config,
		client: httpclient.NewClient(config.Timeout),
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{
			"component": "geocoder",
		}),
	}
}

// Geocode resolves an address or city string to coordinates. Cache failures
// degrade to a direct API call and are never surfaced to the caller.
func (g *Geocoder) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	cacheKey := "geocode:" + strings.ToLower(strings.TrimSpace(address))

	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, cacheKey); err == nil {
			var coords Coordinates
			if err := json.Unmarshal([]byte(cached), &coords); err == nil {
				metrics.GeocodeRequests.WithLabelValues("cache_hit").Inc()
				return &coords, nil
			}
		}
	}

	coords, err := g.lookup(ctx, address)
	if err != nil {
		if errors.Is(err, ErrNoResults) {
			metrics.GeocodeRequests.WithLabelValues("no_results").Inc()
		} else {
			metrics.GeocodeRequests.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	metrics.GeocodeRequests.WithLabelValues("ok").Inc()

	if g.cache != nil {
		if data, err := json.Marshal(coords); err == nil {
			if err := g.cache.Set(ctx, cacheKey, string(data), g.config.CacheTTL); err != nil {
				g.logger.Warn("geocode cache write failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	return coords, nil
}

func (g *Geocoder) lookup(ctx context.Context, address string) (*Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.buildURL(address), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode API returned %d", resp.StatusCode)
	}

	var apiResponse struct {
		Items []struct {
			Title    string `json:"title"`
			Position struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"position"`
		} `json:"items"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, err
	}

	if len(apiResponse.Items) == 0 {
		return nil, ErrNoResults
	}

	// First match wins, same as the geocoding collaborator contract.
	item := apiResponse.Items[0]
	g.logger.Info("address resolved", map[string]interface{}{
		"match": item.Title,
		"lat":   item.Position.Lat,
		"lng":   item.Position.Lng,
	})

	return &Coordinates{Lat: item.Position.Lat, Lng: item.Position.Lng}, nil
}

func (g *Geocoder) buildURL(address string) string {
	baseURL, _ := url.Parse(g.config.BaseURL)
	baseURL.Path = "/v1/geocode"
	params := url.Values{}
	params.Add("q", address)
	params.Add("apiKey", g.config.APIKey)
	baseURL.RawQuery = params.Encode()
	return baseURL.String()
}

// internal/places/services_test.go
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-assistant/internal/common/logger"
	"health-assistant/internal/geo"
)

func discoverResponse(items []map[string]interface{}) string {
	data, _ := json.Marshal(map[string]interface{}{"items": items})
	return string(data)
}

func newTestFinder(t *testing.T, serverURL string) *Finder {
	t.Helper()
	return NewFinder(&Config{
		BaseURL:     serverURL,
		APIKey:      "test-api-key",
		Timeout:     3 * time.Second,
		ResultLimit: 5,
	}, logger.NewTestLogger(t))
}

func TestReportNearby_ListsHospitalsAndPharmacies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/discover", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-api-key", r.URL.Query().Get("apiKey"))

		var items []map[string]interface{}
		switch r.URL.Query().Get("q") {
		case "hospital":
			items = []map[string]interface{}{
				{"title": "City General Hospital", "address": map[string]string{"label": "1 Main St"}, "distance": 1200},
			}
		case "pharmacy":
			items = []map[string]interface{}{
				{"title": "Corner Pharmacy", "address": map[string]string{"label": "5 High St"}, "distance": 300},
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(discoverResponse(items)))
	}))
	defer server.Close()

	finder := newTestFinder(t, server.URL)
	var out bytes.Buffer

	err := finder.ReportNearby(context.Background(), &geo.Coordinates{Lat: 40.7, Lng: -74.0}, &out)

	require.NoError(t, err)
	report := out.String()
	assert.Contains(t, report, "Nearby hospital services:")
	assert.Contains(t, report, "- City General Hospital (1 Main St, 1.2 km away)")
	assert.Contains(t, report, "Nearby pharmacy services:")
	assert.Contains(t, report, "- Corner Pharmacy (5 High St, 0.3 km away)")
}

func TestReportNearby_EmptyCategoryStillReports(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	finder := newTestFinder(t, server.URL)
	var out bytes.Buffer

	err := finder.ReportNearby(context.Background(), &geo.Coordinates{Lat: 40.7, Lng: -74.0}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "No hospital found nearby.")
	assert.Contains(t, out.String(), "No pharmacy found nearby.")
}

func TestReportNearby_APIFailureWritesFailureLineAndContinues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "hospital" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(discoverResponse([]map[string]interface{}{
			{"title": "Corner Pharmacy", "address": map[string]string{"label": "5 High St"}, "distance": 300},
		})))
	}))
	defer server.Close()

	finder := newTestFinder(t, server.URL)
	var out bytes.Buffer

	err := finder.ReportNearby(context.Background(), &geo.Coordinates{Lat: 40.7, Lng: -74.0}, &out)

	assert.Error(t, err)
	assert.Contains(t, out.String(), "Could not fetch nearby hospital services right now.")
	assert.Contains(t, out.String(), "Corner Pharmacy")
}

func TestReportNearby_MissingAddressOmitsParenthetical(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(discoverResponse([]map[string]interface{}{
			{"title": "Mobile Clinic", "distance": 100},
		})))
	}))
	defer server.Close()

	finder := newTestFinder(t, server.URL)
	var out bytes.Buffer

	err := finder.ReportNearby(context.Background(), &geo.Coordinates{Lat: 40.7, Lng: -74.0}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "- Mobile Clinic\n")
}

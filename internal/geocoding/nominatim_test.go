package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "3511 AA, Netherlands", r.URL.Query().Get("q"))
		assert.Equal(t, "nl", r.URL.Query().Get("countrycodes"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, USER_AGENT, r.Header.Get("User-Agent"))

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func geocoder(server *httptest.Server, cacheTTL time.Duration) Geocoder {
	config := DefaultConfig()
	config.BaseURL = server.URL
	config.Timeout = 2 * time.Second
	config.CacheTTL = cacheTTL
	return NewNominatim(config)
}

const utrechtJSON = `[{
	"lat": "52.0893",
	"lon": "5.1101",
	"display_name": "3511 AA, Utrecht, Nederland",
	"address": {"town": "Utrecht", "municipality": "Utrecht", "state": "Utrecht", "postcode": "3511 AA"}
}]`

func TestGeocode(t *testing.T) {
	server, _ := fixtureServer(t, http.StatusOK, utrechtJSON)

	result, err := geocoder(server, 0).Geocode(context.Background(), "3511aa")
	require.NoError(t, err)

	assert.Equal(t, 52.0893, result.Latitude)
	assert.Equal(t, 5.1101, result.Longitude)
	assert.Equal(t, "3511 AA", result.Postcode)
	assert.Equal(t, "Utrecht", result.City)
	assert.Equal(t, "Utrecht", result.Province)
	assert.Equal(t, "3511 AA, Utrecht, Nederland", result.DisplayName)
}

func TestGeocodeIsMemoized(t *testing.T) {
	server, hits := fixtureServer(t, http.StatusOK, utrechtJSON)
	g := geocoder(server, time.Hour)

	for _, postcode := range []string{"3511 AA", "3511aa", " 3511 Aa "} {
		_, err := g.Geocode(context.Background(), postcode)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, hits.Load())
}

func TestGeocodeFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"no results", http.StatusOK, `[]`, ErrNotFound},
		{"server error", http.StatusInternalServerError, ``, ErrUnavailable},
		{"malformed", http.StatusOK, `[{"lat": `, ErrUnavailable},
		{"bad coordinates", http.StatusOK, `[{"lat": "north", "lon": "5.1"}]`, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := fixtureServer(t, tt.status, tt.body)

			result, err := geocoder(server, time.Hour).Geocode(context.Background(), "3511 AA")
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestGeocodeRejectsInvalidPostcodeWithoutCalling(t *testing.T) {
	server, hits := fixtureServer(t, http.StatusOK, utrechtJSON)

	_, err := geocoder(server, 0).Geocode(context.Background(), "Utrecht")
	assert.True(t, errors.Is(err, ErrInvalidPostcode))
	assert.Zero(t, hits.Load())
}

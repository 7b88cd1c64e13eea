package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimClientGeocode(t *testing.T) {
	var gotQuery, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"-37.8136","lon":"144.9631"}]`))
	}))
	defer server.Close()

	client := NewNominatimClient(server.URL, "propintel_test", 5*time.Second)
	loc, err := client.Geocode(context.Background(), "42 Wallaby Way, Sydney, Australia")

	require.NoError(t, err)
	assert.InDelta(t, -37.8136, loc.Latitude, 1e-9)
	assert.InDelta(t, 144.9631, loc.Longitude, 1e-9)
	assert.Equal(t, "42 Wallaby Way, Sydney, Australia", gotQuery)
	assert.Equal(t, "propintel_test", gotAgent)
}

func TestNominatimClientNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewNominatimClient(server.URL, "propintel_test", 5*time.Second)
	_, err := client.Geocode(context.Background(), "nowhere")

	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNominatimClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewNominatimClient(server.URL, "propintel_test", 5*time.Second)
	_, err := client.Geocode(context.Background(), "42 Wallaby Way")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNominatimClientMalformedCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"not-a-number","lon":"144.9"}]`))
	}))
	defer server.Close()

	client := NewNominatimClient(server.URL, "propintel_test", 5*time.Second)
	_, err := client.Geocode(context.Background(), "42 Wallaby Way")

	require.Error(t, err)
}

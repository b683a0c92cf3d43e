package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bled, Slovenia", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeocode(t *testing.T) {
	ctx := context.Background()

	t.Run("first result", func(t *testing.T) {
		srv := newTestServer(t, `{"status":"OK","results":[
			{"geometry":{"location":{"lat":46.3683,"lng":14.1146}}},
			{"geometry":{"location":{"lat":0,"lng":0}}}]}`)
		g := NewGoogle("test-key", WithBaseURL(srv.URL), WithRateLimit(0))

		p, err := g.Geocode(ctx, "Bled, Slovenia")
		require.NoError(t, err)
		assert.InDelta(t, 14.1146, p.Lng, 1e-9)
		assert.InDelta(t, 46.3683, p.Lat, 1e-9)
	})

	t.Run("zero results", func(t *testing.T) {
		srv := newTestServer(t, `{"status":"ZERO_RESULTS","results":[]}`)
		g := NewGoogle("test-key", WithBaseURL(srv.URL))

		_, err := g.Geocode(ctx, "Bled, Slovenia")
		assert.ErrorIs(t, err, ErrNoResults)
	})

	t.Run("denied", func(t *testing.T) {
		srv := newTestServer(t, `{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid.","results":[]}`)
		g := NewGoogle("test-key", WithBaseURL(srv.URL))

		_, err := g.Geocode(ctx, "Bled, Slovenia")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoResults)
		assert.Contains(t, err.Error(), "The provided API key is invalid.")
	})
}

func TestGeocodeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewGoogle("k", WithBaseURL(srv.URL)).Geocode(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

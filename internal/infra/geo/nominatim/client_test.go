package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSearchFirstMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "Bogotá", r.URL.Query().Get("q"))
		require.Equal(t, "1", r.URL.Query().Get("limit"))
		require.Equal(t, "es", r.URL.Query().Get("accept-language"))
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`[{"lat":"4.60971","lon":"-74.08175","display_name":"Bogotá, Colombia"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	loc, found, err := client.Search(context.Background(), "Bogotá")
	require.NoError(t, err)
	require.True(t, found)
	require.InDelta(t, 4.60971, loc.Lat, 1e-9)
	require.InDelta(t, -74.08175, loc.Lon, 1e-9)
}

func TestSearchEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, found, err := client.Search(context.Background(), "Atlantis")
	require.NoError(t, err)
	require.False(t, found)
}

func TestSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, _, err := client.Search(context.Background(), "Bogotá")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=429")
}

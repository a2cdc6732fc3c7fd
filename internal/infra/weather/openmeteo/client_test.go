package openmeteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/climalab/clima-chat/internal/domain/weather"
	"github.com/stretchr/testify/require"
)

func TestForecastToday(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/forecast", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("current_weather"))
		require.Equal(t, "auto", r.URL.Query().Get("timezone"))
		w.Write([]byte(`{
			"current_weather": {"temperature": 22.5, "weathercode": 1},
			"daily": {"precipitation_sum": [0.0]}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	obs, err := client.Forecast(context.Background(), weather.Location{Lat: 4.6, Lon: -74.08}, false)
	require.NoError(t, err)
	require.Equal(t, 22.5, obs.Temperature)
	require.Equal(t, 1, obs.Code)
	require.Zero(t, obs.Precipitation)
}

func TestForecastTomorrowUsesSecondDay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "2", r.URL.Query().Get("forecast_days"))
		w.Write([]byte(`{
			"daily": {
				"temperature_2m_max": [21.0, 18.3],
				"weathercode": [2, 63],
				"precipitation_sum": [0.0, 6.4]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	obs, err := client.Forecast(context.Background(), weather.Location{Lat: 4.6, Lon: -74.08}, true)
	require.NoError(t, err)
	require.Equal(t, 18.3, obs.Temperature)
	require.Equal(t, 63, obs.Code)
	require.Equal(t, 6.4, obs.Precipitation)
}

func TestForecastMissingFieldsDefaultToZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"daily": {"temperature_2m_max": [21.0, 18.3]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	obs, err := client.Forecast(context.Background(), weather.Location{}, true)
	require.NoError(t, err)
	require.Equal(t, 18.3, obs.Temperature)
	require.Zero(t, obs.Code)
	require.Zero(t, obs.Precipitation)
}

func TestForecastServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Forecast(context.Background(), weather.Location{}, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=502")
}

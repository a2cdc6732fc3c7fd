package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/climalab/clima-chat/internal/domain/weather"
)

const defaultBaseURL = "https://api.open-meteo.com"

// Client fetches current and next-day conditions from Open-Meteo.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a forecast client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Forecast requests conditions for the coordinates in their local timezone.
// Today reads the current-weather block plus the daily precipitation total;
// tomorrow reads index 1 of a two-day daily forecast. Fields missing from
// the payload default to zero.
func (c *Client) Forecast(ctx context.Context, loc weather.Location, tomorrow bool) (weather.Observation, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	query.Set("timezone", "auto")
	if tomorrow {
		query.Set("daily", "temperature_2m_max,weathercode,precipitation_sum")
		query.Set("forecast_days", "2")
	} else {
		query.Set("current_weather", "true")
		query.Set("daily", "precipitation_sum")
		query.Set("forecast_days", "1")
	}

	raw, err := c.fetch(ctx, query)
	if err != nil {
		return weather.Observation{}, err
	}

	if tomorrow {
		return normalizeDaily(raw, 1)
	}
	return normalizeCurrent(raw)
}

func (c *Client) fetch(ctx context.Context, query url.Values) (apiResponse, error) {
	endpoint := fmt.Sprintf("%s/v1/forecast?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apiResponse{}, fmt.Errorf("build forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apiResponse{}, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return apiResponse{}, fmt.Errorf("forecast request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiResponse{}, fmt.Errorf("read forecast response: %w", err)
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiResponse{}, fmt.Errorf("decode forecast response: %w", err)
	}
	return raw, nil
}

type apiResponse struct {
	CurrentWeather *currentWeather `json:"current_weather"`
	Daily          *dailyBlock     `json:"daily"`
}

type currentWeather struct {
	Temperature float64 `json:"temperature"`
	WeatherCode int     `json:"weathercode"`
}

type dailyBlock struct {
	TemperatureMax   []float64 `json:"temperature_2m_max"`
	WeatherCode      []int     `json:"weathercode"`
	PrecipitationSum []float64 `json:"precipitation_sum"`
}

func normalizeCurrent(raw apiResponse) (weather.Observation, error) {
	if raw.CurrentWeather == nil {
		return weather.Observation{}, errors.New("forecast response missing current_weather block")
	}
	obs := weather.Observation{
		Temperature: raw.CurrentWeather.Temperature,
		Code:        raw.CurrentWeather.WeatherCode,
	}
	if raw.Daily != nil && len(raw.Daily.PrecipitationSum) > 0 {
		obs.Precipitation = raw.Daily.PrecipitationSum[0]
	}
	return obs, nil
}

func normalizeDaily(raw apiResponse, index int) (weather.Observation, error) {
	if raw.Daily == nil {
		return weather.Observation{}, errors.New("forecast response missing daily block")
	}
	var obs weather.Observation
	if len(raw.Daily.TemperatureMax) > index {
		obs.Temperature = raw.Daily.TemperatureMax[index]
	}
	if len(raw.Daily.WeatherCode) > index {
		obs.Code = raw.Daily.WeatherCode[index]
	}
	if len(raw.Daily.PrecipitationSum) > index {
		obs.Precipitation = raw.Daily.PrecipitationSum[index]
	}
	return obs, nil
}

var _ weather.Forecaster = (*Client)(nil)

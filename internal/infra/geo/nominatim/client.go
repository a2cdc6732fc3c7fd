package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/climalab/clima-chat/internal/domain/weather"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Nominatim's usage policy requires an identifying agent string.
const userAgent = "clima-chat/1.0"

// Client resolves free-text place names against the Nominatim search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a geocoding client.
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

// Search returns the first match for the place, localized to Spanish.
func (c *Client) Search(ctx context.Context, place string) (weather.Location, bool, error) {
	query := url.Values{}
	query.Set("q", place)
	query.Set("format", "json")
	query.Set("limit", "1")
	query.Set("accept-language", "es")
	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return weather.Location{}, false, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return weather.Location{}, false, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return weather.Location{}, false, fmt.Errorf("geocode request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return weather.Location{}, false, fmt.Errorf("read geocode response: %w", err)
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return weather.Location{}, false, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return weather.Location{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return weather.Location{}, false, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return weather.Location{}, false, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}

	return weather.Location{Lat: lat, Lon: lon}, true, nil
}

// Nominatim serializes coordinates as strings.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

var _ weather.Geocoder = (*Client)(nil)

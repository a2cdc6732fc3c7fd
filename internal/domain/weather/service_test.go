package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLookupSuccess(t *testing.T) {
	geocoder := &stubGeocoder{loc: Location{Lat: 4.6, Lon: -74.08}, found: true}
	forecaster := &stubForecaster{obs: Observation{Temperature: 18.4, Code: 3, Precipitation: 1.2}}
	cache := newStubCache()

	svc := NewService(geocoder, forecaster, cache, time.Hour, newTestLogger())
	obs, err := svc.Lookup(context.Background(), "Bogotá", false)
	require.NoError(t, err)
	require.NotNil(t, obs)
	require.Equal(t, "Bogotá", obs.Place)
	require.False(t, obs.Tomorrow)
	require.Equal(t, 18.4, obs.Temperature)
	require.Equal(t, 1, geocoder.calls)

	// second lookup for the same place hits the cache
	obs, err = svc.Lookup(context.Background(), "bogotá", true)
	require.NoError(t, err)
	require.NotNil(t, obs)
	require.True(t, obs.Tomorrow)
	require.Equal(t, 1, geocoder.calls)
}

func TestLookupUnknownPlace(t *testing.T) {
	svc := NewService(&stubGeocoder{}, &stubForecaster{}, newStubCache(), time.Hour, newTestLogger())

	obs, err := svc.Lookup(context.Background(), "Atlantis", false)
	require.NoError(t, err)
	require.Nil(t, obs)
}

func TestLookupGeocoderFailure(t *testing.T) {
	geocoder := &stubGeocoder{err: errors.New("boom")}
	svc := NewService(geocoder, &stubForecaster{}, newStubCache(), time.Hour, newTestLogger())

	obs, err := svc.Lookup(context.Background(), "Bogotá", false)
	require.NoError(t, err)
	require.Nil(t, obs)
}

func TestLookupForecastFailure(t *testing.T) {
	geocoder := &stubGeocoder{loc: Location{Lat: 1, Lon: 2}, found: true}
	forecaster := &stubForecaster{err: errors.New("status=500")}
	svc := NewService(geocoder, forecaster, newStubCache(), time.Hour, newTestLogger())

	obs, err := svc.Lookup(context.Background(), "Bogotá", false)
	require.NoError(t, err)
	require.Nil(t, obs)
}

func TestLookupEmptyPlace(t *testing.T) {
	geocoder := &stubGeocoder{}
	svc := NewService(geocoder, &stubForecaster{}, newStubCache(), time.Hour, newTestLogger())

	obs, err := svc.Lookup(context.Background(), "  ", false)
	require.NoError(t, err)
	require.Nil(t, obs)
	require.Zero(t, geocoder.calls)
}

type stubGeocoder struct {
	loc   Location
	found bool
	err   error
	calls int
}

func (s *stubGeocoder) Search(_ context.Context, _ string) (Location, bool, error) {
	s.calls++
	if s.err != nil {
		return Location{}, false, s.err
	}
	return s.loc, s.found, nil
}

type stubForecaster struct {
	obs Observation
	err error
}

func (s *stubForecaster) Forecast(_ context.Context, _ Location, _ bool) (Observation, error) {
	if s.err != nil {
		return Observation{}, s.err
	}
	return s.obs, nil
}

type stubCache struct {
	entries map[string]Location
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]Location)}
}

func (s *stubCache) Get(_ context.Context, place string) (Location, bool, error) {
	loc, ok := s.entries[place]
	return loc, ok, nil
}

func (s *stubCache) Put(_ context.Context, place string, loc Location, _ time.Duration) error {
	s.entries[place] = loc
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

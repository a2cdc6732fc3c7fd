package weather

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Geocoder resolves a free-text place name to coordinates. A miss is
// reported through the boolean, not an error.
type Geocoder interface {
	Search(ctx context.Context, place string) (Location, bool, error)
}

// Forecaster fetches conditions for a coordinate pair, either current or
// for tomorrow.
type Forecaster interface {
	Forecast(ctx context.Context, loc Location, tomorrow bool) (Observation, error)
}

// Cache stores geocoding results so repeated questions about the same city
// skip the geocoding round-trip.
type Cache interface {
	Get(ctx context.Context, place string) (Location, bool, error)
	Put(ctx context.Context, place string, loc Location, ttl time.Duration) error
}

// Service resolves a place and day to an observation. A nil observation
// with a nil error means the question cannot be answered deterministically
// and the caller should fall back to the language model.
type Service interface {
	Lookup(ctx context.Context, place string, tomorrow bool) (*Observation, error)
}

type service struct {
	geocoder   Geocoder
	forecaster Forecaster
	cache      Cache
	cacheTTL   time.Duration
	logger     *slog.Logger
}

// NewService wires up the weather lookup pipeline.
func NewService(geocoder Geocoder, forecaster Forecaster, cache Cache, cacheTTL time.Duration, logger *slog.Logger) Service {
	return &service{
		geocoder:   geocoder,
		forecaster: forecaster,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger.With("component", "weather.service"),
	}
}

func (s *service) Lookup(ctx context.Context, place string, tomorrow bool) (*Observation, error) {
	key := strings.ToLower(strings.TrimSpace(place))
	if key == "" {
		return nil, nil
	}

	loc, cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("geocode cache read failed", "place", place, "error", err)
		cached = false
	}
	if !cached {
		var found bool
		loc, found, err = s.geocoder.Search(ctx, place)
		if err != nil {
			s.logger.Error("geocoding failed", "place", place, "error", err)
			return nil, nil
		}
		if !found {
			s.logger.Info("place not found by geocoder", "place", place)
			return nil, nil
		}
		if err := s.cache.Put(ctx, key, loc, s.cacheTTL); err != nil {
			s.logger.Warn("geocode cache write failed", "place", place, "error", err)
		}
	}

	obs, err := s.forecaster.Forecast(ctx, loc, tomorrow)
	if err != nil {
		s.logger.Error("forecast failed", "place", place, "lat", loc.Lat, "lon", loc.Lon, "error", err)
		return nil, nil
	}
	obs.Place = place
	obs.Tomorrow = tomorrow
	return &obs, nil
}

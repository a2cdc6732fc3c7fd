package geocache

import (
	"context"
	"testing"
	"time"

	"github.com/climalab/clima-chat/internal/domain/weather"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	cache := NewMemoryCache()
	loc := weather.Location{Lat: 4.6, Lon: -74.08}

	_, found, err := cache.Get(context.Background(), "bogotá")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, cache.Put(context.Background(), "bogotá", loc, time.Hour))

	got, found, err := cache.Get(context.Background(), "bogotá")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, loc, got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()
	require.NoError(t, cache.Put(context.Background(), "cali", weather.Location{Lat: 3.4}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, found, err := cache.Get(context.Background(), "cali")
	require.NoError(t, err)
	require.False(t, found)
}

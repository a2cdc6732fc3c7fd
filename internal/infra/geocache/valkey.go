package geocache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/climalab/clima-chat/internal/domain/weather"
)

// ValkeyCache stores geocode results in a Valkey-compatible database so
// repeated questions about the same city survive restarts.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "geo"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

// Get implements weather.Cache.
func (c *ValkeyCache) Get(ctx context.Context, place string) (weather.Location, bool, error) {
	cmd := c.client.B().Get().Key(c.key(place)).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return weather.Location{}, false, nil
		}
		return weather.Location{}, false, err
	}
	var loc weather.Location
	if err := json.Unmarshal([]byte(payload), &loc); err != nil {
		return weather.Location{}, false, err
	}
	return loc, true, nil
}

// Put implements weather.Cache.
func (c *ValkeyCache) Put(ctx context.Context, place string, loc weather.Location, ttl time.Duration) error {
	payload, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.key(place)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) key(place string) string {
	return c.prefix + ":place:" + place
}

var _ weather.Cache = (*ValkeyCache)(nil)

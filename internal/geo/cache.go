package geo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bookadzone/launch-api/internal/domain"
)

const cacheKeyPrefix = "geo:ip:"

// CachedResolver memoizes resolved locations in Redis so repeat visits from
// the same address skip the provider chain. Cache failures are ignored; the
// lookup just falls through to the inner resolver.
type CachedResolver struct {
	inner  Resolver
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedResolver wraps inner with a Redis cache.
func NewCachedResolver(inner Resolver, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedResolver {
	return &CachedResolver{inner: inner, client: client, ttl: ttl, logger: logger}
}

// Resolve returns the cached location for ip when present, otherwise resolves
// and caches the result. Unresolved lookups are not cached so a transient
// provider outage does not pin the Unknown record.
func (r *CachedResolver) Resolve(ctx context.Context, ip string) domain.Location {
	if IsLocalIP(ip) {
		return domain.LocalLocation()
	}
	if ip == domain.IPUnknown {
		return r.inner.Resolve(ctx, ip)
	}

	key := cacheKeyPrefix + ip
	if r.client != nil {
		if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
			var loc domain.Location
			if err := json.Unmarshal(raw, &loc); err == nil {
				return loc
			}
		} else if err != redis.Nil {
			r.logger.Warn("geo cache read failed", zap.Error(err))
		}
	}

	loc := r.inner.Resolve(ctx, ip)

	if r.client != nil && loc.Usable() {
		if raw, err := json.Marshal(loc); err == nil {
			if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
				r.logger.Warn("geo cache write failed", zap.Error(err))
			}
		}
	}
	return loc
}

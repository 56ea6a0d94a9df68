package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"visit-route-service/internal/domain"
	"visit-route-service/internal/ports"
)

// Redis-backed store shared by the geocode and estimate caches, for
// deployments where planner instances share cache state.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisStore{client: client, prefix: "visitroute:", ttl: ttl}, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) key(kind, k string) string { return s.prefix + kind + ":" + k }

func (s *RedisStore) setJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

// getJSON reports false on a cache miss without error.
func (s *RedisStore) getJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("json unmarshal: %w", err)
	}
	return true, nil
}

// Redis implementation of the geocode cache port.
type RedisGeocodeCache struct {
	store *RedisStore
}

func NewRedisGeocodeCache(store *RedisStore) *RedisGeocodeCache {
	return &RedisGeocodeCache{store: store}
}

func (c *RedisGeocodeCache) GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	out := make(map[string]domain.Coordinates, len(addresses))
	for _, a := range addresses {
		if a == "" {
			continue
		}
		var coord domain.Coordinates
		ok, err := c.store.getJSON(ctx, c.store.key("geocode", a), &coord)
		if err != nil {
			return nil, fmt.Errorf("redis geocode cache get %q: %w", a, err)
		}
		if ok {
			out[a] = coord
		}
	}
	return out, nil
}

func (c *RedisGeocodeCache) PutMany(ctx context.Context, coords map[string]domain.Coordinates) error {
	for a, coord := range coords {
		if a == "" {
			continue
		}
		if err := c.store.setJSON(ctx, c.store.key("geocode", a), coord); err != nil {
			return fmt.Errorf("redis geocode cache put %q: %w", a, err)
		}
	}
	return nil
}

// Redis implementation of the estimate cache port.
type RedisEstimateCache struct {
	store *RedisStore
}

func NewRedisEstimateCache(store *RedisStore) *RedisEstimateCache {
	return &RedisEstimateCache{store: store}
}

func (c *RedisEstimateCache) GetMany(ctx context.Context, origin string, destinations []string) (map[string]ports.EstimateResult, error) {
	out := make(map[string]ports.EstimateResult, len(destinations))
	for _, d := range destinations {
		if d == "" {
			continue
		}
		var r ports.EstimateResult
		ok, err := c.store.getJSON(ctx, c.store.key("estimate", origin+"|"+d), &r)
		if err != nil {
			return nil, fmt.Errorf("redis estimate cache get %q -> %q: %w", origin, d, err)
		}
		if ok {
			out[d] = r
		}
	}
	return out, nil
}

func (c *RedisEstimateCache) PutMany(ctx context.Context, origin string, results map[string]ports.EstimateResult) error {
	for d, r := range results {
		if d == "" {
			continue
		}
		if err := c.store.setJSON(ctx, c.store.key("estimate", origin+"|"+d), r); err != nil {
			return fmt.Errorf("redis estimate cache put %q -> %q: %w", origin, d, err)
		}
	}
	return nil
}

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// OfferQuery identifies one fare re-search. Identical queries within the TTL
// window hit the cache instead of Amadeus, which matters when many trips share
// a route.
type OfferQuery struct {
	Origin      string
	Destination string
	DepartDate  string
}

// OfferCache stores the grand-total prices returned for a fare search.
type OfferCache interface {
	Get(ctx context.Context, q OfferQuery) ([]float64, bool)
	Set(ctx context.Context, q OfferQuery, prices []float64) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     "localhost",
		Port:     "6379",
		Password: "",
		DB:       0,
		TTL:      10 * time.Minute,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

// NewRedisCacheWithClient wraps an existing client. Used by tests with a mock
// connection.
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, q OfferQuery) ([]float64, bool) {
	data, err := c.client.Get(ctx, generateKey(q)).Bytes()
	if err != nil {
		return nil, false
	}

	var prices []float64
	if err := json.Unmarshal(data, &prices); err != nil {
		return nil, false
	}
	return prices, true
}

func (c *RedisCache) Set(ctx context.Context, q OfferQuery, prices []float64) error {
	data, err := json.Marshal(prices)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, generateKey(q), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, q OfferQuery) ([]float64, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, q OfferQuery, prices []float64) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

func generateKey(q OfferQuery) string {
	data, _ := json.Marshal(q)
	hash := sha256.Sum256(data)
	return "offers:" + hex.EncodeToString(hash[:])
}

package monitor_fx

import (
	"log"
	"os"
	"time"

	"go.uber.org/fx"

	"wayfarer/cmd/fx/modification_fx"
	"wayfarer/internal/cache"
	"wayfarer/internal/providers"
	"wayfarer/internal/ratelimit"
	"wayfarer/internal/services"
)

var Module = fx.Provide(
	provideOfferCache,
	provideEndpointLimiter,
	provideAmadeusClient,
	provideMonitorService)

func provideOfferCache() cache.OfferCache {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return cache.NewNoOpCache()
	}

	cfg := cache.DefaultRedisConfig()
	cfg.Host = host
	if port := os.Getenv("REDIS_PORT"); port != "" {
		cfg.Port = port
	}
	cfg.Password = os.Getenv("REDIS_PASSWORD")
	if ttl := os.Getenv("OFFER_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.TTL = d
		}
	}

	redisCache, err := cache.NewRedisCache(cfg)
	if err != nil {
		log.Printf("redis unavailable, offer caching disabled: %v", err)
		return cache.NewNoOpCache()
	}
	return redisCache
}

func provideEndpointLimiter() *ratelimit.EndpointLimiter {
	return ratelimit.NewEndpointLimiterWithDefaults()
}

func provideAmadeusClient(limiter *ratelimit.EndpointLimiter, offerCache cache.OfferCache) *providers.AmadeusClient {
	cfg := providers.AmadeusConfig{
		ClientID:     os.Getenv("AMADEUS_CLIENT_ID"),
		ClientSecret: os.Getenv("AMADEUS_CLIENT_SECRET"),
		Env:          os.Getenv("AMADEUS_ENV"),
	}
	return providers.NewAmadeusClient(cfg, limiter, offerCache)
}

func provideMonitorService(amadeus *providers.AmadeusClient) services.MonitorServiceInterface {
	return services.NewMonitorService(amadeus, modification_fx.MockMode())
}

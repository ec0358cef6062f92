// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package.
//
// The infrastructure package is organized by technical concern:
//
//   - cache/memory: in-memory cache on go-cache
//   - cache/redis: Redis cache
//   - cache/sqlite: SQLite cache with background expiry
//   - http/standard: HTTP client with retries and per-host rate limiting
//   - logger/standard: logrus logger with optional rotating file output
//   - metrics: Prometheus ingestion metrics
//   - semantic: entity and phrase extractors backed by an OpenAI-compatible model
//   - storage/sqlite: article and source store on SQLite
//   - storage/redis: article and source store on Redis with RedisJSON
//
// # Cache Implementations
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "key", []byte("value"), time.Hour)
//	value, err := cache.Get(ctx, "key")
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{Address: "localhost:6379"})
//
// # HTTP Client
//
//	client := standard.NewStandardHTTPClient(30*time.Second,
//	    standard.WithRetries(3),
//	    standard.WithHostLimiter(standard.NewHostLimiter(2, 4)),
//	)
//	resp, err := client.Get(ctx, "https://example.com/feed")
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
//	logger := standard.New(standard.Options{Level: "debug", Format: "json"})
//	logger.Info("Source processed", map[string]interface{}{
//	    "source":   "AWS",
//	    "articles": 12,
//	})
package infrastructure

package api

import (
	"log/slog"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"fixture-tracker-backend/config"
	"fixture-tracker-backend/internal/mw"
	"fixture-tracker-backend/internal/store"
)

// NewCacheStore builds the response cache selected by cfg.Cache. The returned
// close function releases the redis client, if any.
func NewCacheStore(cfg *config.Config) (mw.CacheStore, func() error) {
	if cfg.Cache.Backend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		return mw.NewRedisStore(client, "fixtured:cache:"), client.Close
	}
	return mw.NewMemoryStore(cfg.Server.CacheTTL), func() error { return nil }
}

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, cfg *config.Config, cacheStore mw.CacheStore, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.IdentityFromHeaders())
	r.Use(mw.RequestLogger(slog.With("component", "http")))

	handler := NewHandler(s, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	caching := mw.Cache(cacheStore, cfg.Server.CacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter, mw.Timeout(requestTimeout(cfg)))
	{
		fixtures := api.Group("/fixtures")
		fixtures.GET("", handler.ListFixtures)
		fixtures.GET("/available-parents", handler.AvailableParents)
		fixtures.GET("/b-testers", handler.ListBTesters)
		fixtures.GET("/:id", handler.GetFixture)
		fixtures.POST("", handler.CreateFixture)
		fixtures.PATCH("/:id", handler.UpdateFixture)
		fixtures.DELETE("/:id", handler.DeleteFixture)

		parts := api.Group("/fixture-parts")
		parts.GET("", handler.ListParts)
		parts.GET("/:id", handler.GetPart)
		parts.POST("", handler.CreatePart)
		parts.PATCH("/:id", handler.UpdatePart)
		parts.DELETE("/:id", handler.DeletePart)

		usage := api.Group("/usage")
		usage.GET("", handler.ListUsage)
		usage.GET("/summary", caching, handler.UsageSummary)
		usage.GET("/status", caching, handler.UsageStatus)
		usage.GET("/station-summary", caching, handler.StationSummary)
		usage.GET("/weekly-activity", caching, handler.WeeklyActivity)
		usage.GET("/:id", handler.GetUsage)
		usage.POST("", handler.CreateUsage)
		usage.PATCH("/:id", handler.UpdateUsage)
		usage.DELETE("/:id", handler.DeleteUsage)

		health := api.Group("/health")
		health.GET("", handler.ListHealth)
		health.GET("/summary", caching, handler.HealthSummary)
		health.GET("/summary/:fixtureId", caching, handler.HealthSummaryByFixture)
		health.GET("/:id", handler.GetHealth)
		health.POST("", handler.CreateHealth)
		health.PATCH("/:id", handler.UpdateHealth)
		health.DELETE("/:id", handler.DeleteHealth)

		maintenance := api.Group("/fixture-maintenance")
		maintenance.GET("", handler.ListMaintenance)
		maintenance.GET("/:id", handler.GetMaintenance)
		maintenance.POST("", handler.CreateMaintenance)
		maintenance.PATCH("/:id", handler.UpdateMaintenance)
		maintenance.DELETE("/:id", handler.DeleteMaintenance)

		users := api.Group("/users")
		users.GET("", handler.ListUsers)
		users.GET("/:id", handler.GetUser)
		users.POST("", handler.CreateUser)
		users.PATCH("/:id", handler.UpdateUser)
		users.DELETE("/:id", handler.DeleteUser)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}

func requestTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.RequestTimeout > 0 {
		return cfg.Server.RequestTimeout
	}
	return 10 * time.Second
}

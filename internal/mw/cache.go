package mw

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// CachedResponse is a stored GET response.
type CachedResponse struct {
	Status  int         `json:"status"`
	Headers http.Header `json:"headers"`
	Body    []byte      `json:"body"`
}

// CacheStore is a response cache backend.
type CacheStore interface {
	Get(ctx context.Context, key string) (CachedResponse, bool)
	Set(ctx context.Context, key string, resp CachedResponse, ttl time.Duration)
}

// MemoryStore keeps responses in process.
type MemoryStore struct {
	c *cache.Cache
}

// NewMemoryStore creates an in-process store with the given default expiration.
func NewMemoryStore(defaultExpiration time.Duration) *MemoryStore {
	return &MemoryStore{c: cache.New(defaultExpiration, 2*defaultExpiration)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (CachedResponse, bool) {
	v, found := m.c.Get(key)
	if !found {
		return CachedResponse{}, false
	}
	resp, ok := v.(CachedResponse)
	return resp, ok
}

func (m *MemoryStore) Set(_ context.Context, key string, resp CachedResponse, ttl time.Duration) {
	m.c.Set(key, resp, ttl)
}

// RedisStore shares cached responses between instances. Redis errors are
// logged and treated as cache misses.
type RedisStore struct {
	client *redis.Client
	prefix string
	log    *slog.Logger
}

// NewRedisStore wraps client; keys are namespaced with prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, log: slog.With("component", "cache")}
}

func (r *RedisStore) Get(ctx context.Context, key string) (CachedResponse, bool) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("redis get failed", "key", key, "err", err)
		}
		return CachedResponse{}, false
	}
	var resp CachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		r.log.Warn("discarding undecodable cache entry", "key", key, "err", err)
		return CachedResponse{}, false
	}
	return resp, true
}

func (r *RedisStore) Set(ctx context.Context, key string, resp CachedResponse, ttl time.Duration) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, raw, ttl).Err(); err != nil {
		r.log.Warn("redis set failed", "key", key, "err", err)
	}
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache is a middleware for caching successful GET responses.
func Cache(store CacheStore, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := c.Request.RequestURI
		if cached, found := store.Get(ctx, key); found {
			for k, v := range cached.Headers {
				c.Writer.Header()[k] = v
			}
			c.Writer.Header().Set("X-Cache", "HIT")
			c.Writer.WriteHeader(cached.Status)
			c.Writer.Write(cached.Body)
			c.Abort()
			return
		}

		blw := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only cache successful responses
		if blw.Status() >= 200 && blw.Status() < 300 {
			store.Set(ctx, key, CachedResponse{
				Status:  blw.Status(),
				Headers: blw.Header().Clone(),
				Body:    blw.body.Bytes(),
			}, duration)
		}
	}
}

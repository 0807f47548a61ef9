package capability

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"desksync/internal/model"
)

// Cache shares negotiated capabilities between sibling processes. A miss or
// any cache failure simply falls back to live probing.
type Cache interface {
	Get(ctx context.Context) (*model.SchemaCapabilities, bool)
	Put(ctx context.Context, caps *model.SchemaCapabilities)
}

// RedisCache stores capabilities as JSON under a single key with a TTL, so a
// schema migration is picked up by new sessions once the entry expires.
type RedisCache struct {
	rdb *goredis.Client
	key string
	ttl time.Duration
	log *slog.Logger
}

func NewRedisCache(rdb *goredis.Client, keyPrefix string, ttl time.Duration, log *slog.Logger) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = "desksync"
	}
	if log == nil {
		log = slog.Default()
	}
	return &RedisCache{
		rdb: rdb,
		key: keyPrefix + ":schema_capabilities",
		ttl: ttl,
		log: log,
	}
}

func (c *RedisCache) Get(ctx context.Context) (*model.SchemaCapabilities, bool) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Debug("capability cache read failed", "error", err)
		}
		return nil, false
	}

	var caps model.SchemaCapabilities
	if err := json.Unmarshal(raw, &caps); err != nil {
		c.log.Debug("capability cache entry malformed, ignoring", "error", err)
		return nil, false
	}
	return &caps, true
}

func (c *RedisCache) Put(ctx context.Context, caps *model.SchemaCapabilities) {
	raw, err := json.Marshal(caps)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		c.log.Debug("capability cache write failed", "error", err)
	}
}

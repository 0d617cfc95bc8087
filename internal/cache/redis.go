package cache

import (
	"context"
	"crypto/sha1"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Commander is the subset of redis.Cmdable the cache needs.
type Commander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Redis stores catalog responses under sha1-hashed keys. Every failure is
// logged and reported as a miss so callers fall back to the network.
type Redis struct {
	rdb    Commander
	prefix string
	log    *slog.Logger
}

func NewRedis(rdb Commander, prefix string, log *slog.Logger) *Redis {
	if prefix == "" {
		prefix = "daytrip"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Redis{rdb: rdb, prefix: prefix, log: log}
}

// Dial connects to addr and pings it. A nil client is returned when the
// server cannot be reached, and callers run without a cache.
func Dial(ctx context.Context, addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil
	}
	return client
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	bs, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		r.log.Warn("cache get failed", "key", key, "error", err)
		return nil, false
	}
	return bs, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if err := r.rdb.SetEx(ctx, r.key(key), value, ttl).Err(); err != nil {
		r.log.Warn("cache set failed", "key", key, "error", err)
	}
}

func (r *Redis) key(k string) string {
	sum := sha1.Sum([]byte(k))
	return fmt.Sprintf("%s:%x", r.prefix, sum[:])
}

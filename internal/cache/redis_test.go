package cache_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chrisdamba/daytrip/internal/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedis) SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = value.([]byte)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedis_GetSet(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	c := cache.NewRedis(rdb, "test", nil)

	_, ok := c.Get(ctx, "/api/mrts")
	assert.False(t, ok)

	c.Set(ctx, "/api/mrts", []byte(`{"data":["淡水"]}`), time.Minute)
	got, ok := c.Get(ctx, "/api/mrts")
	require.True(t, ok)
	assert.JSONEq(t, `{"data":["淡水"]}`, string(got))

	for k, ttl := range rdb.ttls {
		assert.True(t, strings.HasPrefix(k, "test:"))
		assert.NotContains(t, k, "/api/mrts")
		assert.Equal(t, time.Minute, ttl)
	}
}

func TestRedis_DefaultTTL(t *testing.T) {
	rdb := newFakeRedis()
	c := cache.NewRedis(rdb, "", nil)
	c.Set(context.Background(), "k", []byte("v"), 0)
	for _, ttl := range rdb.ttls {
		assert.Equal(t, 5*time.Minute, ttl)
	}
}

func TestRedis_FailuresDegradeToMiss(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	rdb.getErr = errors.New("connection refused")
	rdb.setErr = errors.New("connection refused")
	c := cache.NewRedis(rdb, "test", nil)

	assert.NotPanics(t, func() { c.Set(ctx, "k", []byte("v"), time.Minute) })
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

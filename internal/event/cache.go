package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	listCacheKey    = "events:all"
	eventCacheKeyFn = "event:%d"
)

// Stamp is the cache generation observed on a miss. A fill carrying a
// stamp older than the current generation is dropped, so a read that
// raced a write cannot repopulate the cache with the pre-write row.
type Stamp string

// Cache is a read-through cache for event views. Failures are logged and
// treated as misses; the database stays authoritative.
type Cache interface {
	GetEvent(ctx context.Context, id uint) (*Response, Stamp, bool)
	SetEvent(ctx context.Context, e *Response, stamp Stamp)
	GetList(ctx context.Context) ([]Response, Stamp, bool)
	SetList(ctx context.Context, events []Response, stamp Stamp)
	Invalidate(ctx context.Context, ids ...uint)
}

type noopCache struct{}

// NoopCache disables caching.
func NoopCache() Cache { return noopCache{} }

func (noopCache) GetEvent(context.Context, uint) (*Response, Stamp, bool) { return nil, "", false }
func (noopCache) SetEvent(context.Context, *Response, Stamp)              {}
func (noopCache) GetList(context.Context) ([]Response, Stamp, bool)       { return nil, "", false }
func (noopCache) SetList(context.Context, []Response, Stamp)              {}
func (noopCache) Invalidate(context.Context, ...uint)                     {}

// ===========================
// 🧠 Redis-backed cache
//
// Every value key has a sibling generation key. Invalidate deletes the
// value and bumps the generation in one script; a fill only lands when the
// generation still matches the one read on the miss.

// genTTL outlives any in-flight request that could still hold a stamp.
const genTTL = 24 * time.Hour

var fillScript = redis.NewScript(`
local gen = redis.call('GET', KEYS[2])
if not gen then gen = '0' end
if gen ~= ARGV[2] then return 0 end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

var invalidateScript = redis.NewScript(`
for i = 1, #KEYS, 2 do
  redis.call('DEL', KEYS[i])
  redis.call('INCR', KEYS[i + 1])
  redis.call('PEXPIRE', KEYS[i + 1], ARGV[1])
end
return 1
`)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

func eventKey(id uint) string { return fmt.Sprintf(eventCacheKeyFn, id) }

func genKey(key string) string { return key + ":gen" }

func (r *RedisCache) GetEvent(ctx context.Context, id uint) (*Response, Stamp, bool) {
	var e Response
	stamp, ok := r.get(ctx, eventKey(id), &e)
	if !ok {
		return nil, stamp, false
	}
	return &e, stamp, true
}

func (r *RedisCache) SetEvent(ctx context.Context, e *Response, stamp Stamp) {
	r.set(ctx, eventKey(e.ID), e, stamp)
}

func (r *RedisCache) GetList(ctx context.Context) ([]Response, Stamp, bool) {
	var events []Response
	stamp, ok := r.get(ctx, listCacheKey, &events)
	if !ok {
		return nil, stamp, false
	}
	return events, stamp, true
}

func (r *RedisCache) SetList(ctx context.Context, events []Response, stamp Stamp) {
	r.set(ctx, listCacheKey, events, stamp)
}

// Invalidate drops the list and the given events and moves their
// generations forward.
func (r *RedisCache) Invalidate(ctx context.Context, ids ...uint) {
	keys := []string{listCacheKey, genKey(listCacheKey)}
	for _, id := range ids {
		k := eventKey(id)
		keys = append(keys, k, genKey(k))
	}
	if err := invalidateScript.Run(ctx, r.client, keys, genTTL.Milliseconds()).Err(); err != nil {
		logrus.WithError(err).WithField("keys", keys).Warn("⚠️ event cache invalidation failed")
	}
}

// get reads the value and its generation together. The returned stamp is
// empty when redis could not be read, which disables the fill.
func (r *RedisCache) get(ctx context.Context, key string, dst any) (Stamp, bool) {
	vals, err := r.client.MGet(ctx, key, genKey(key)).Result()
	if err != nil || len(vals) != 2 {
		logrus.WithError(err).WithField("key", key).Warn("⚠️ event cache read failed")
		return "", false
	}

	stamp := Stamp("0")
	if g, ok := vals[1].(string); ok {
		stamp = Stamp(g)
	}

	data, ok := vals[0].(string)
	if !ok {
		return stamp, false
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("⚠️ event cache entry corrupt")
		return stamp, false
	}
	return stamp, true
}

func (r *RedisCache) set(ctx context.Context, key string, v any, stamp Stamp) {
	if stamp == "" {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	stored, err := fillScript.Run(ctx, r.client, []string{key, genKey(key)}, string(data), string(stamp), r.ttl.Milliseconds()).Int()
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("⚠️ event cache write failed")
		return
	}
	if stored == 0 {
		logrus.WithField("key", key).Debug("event cache fill skipped, entry changed since read")
	}
}

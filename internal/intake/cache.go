package intake

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"time"

	"termsheet-workers/internal/common/cache"
	"termsheet-workers/internal/common/logger"
	"termsheet-workers/internal/common/metrics"
)

const cacheKeyPrefix = "intake:text:"

// TextStore is the key/value store behind CachedExtractor. Get returns
// cache.ErrMiss for absent keys; *cache.RedisClient implements it.
type TextStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// CachedExtractor serves repeated documents from Redis. Cache failures are
// logged and the inner extractor is used instead.
type CachedExtractor struct {
	inner Extractor
	store TextStore
	ttl   time.Duration
	log   logger.Logger
}

func NewCachedExtractor(inner Extractor, store TextStore, ttl time.Duration, log logger.Logger) *CachedExtractor {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &CachedExtractor{inner: inner, store: store, ttl: ttl, log: log}
}

// CacheKey is sha256 over the name length (8 bytes, big endian), the name
// and the content, so no two (name, content) pairs share a key.
func CacheKey(doc Document) string {
	var size [8]byte
	binary.BigEndian.PutUint64(size[:], uint64(len(doc.Name)))

	h := sha256.New()
	h.Write(size[:])
	h.Write([]byte(doc.Name))
	h.Write(doc.Content)
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedExtractor) Extract(ctx context.Context, doc Document) (string, error) {
	key := CacheKey(doc)

	text, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		metrics.IntakeCacheLookups.WithLabelValues("hit").Inc()
		return text, nil
	case errors.Is(err, cache.ErrMiss):
		metrics.IntakeCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.IntakeCacheLookups.WithLabelValues("error").Inc()
		c.log.Warn("intake cache read failed", map[string]interface{}{
			"documentName": doc.Name,
			"error":        err.Error(),
		})
	}

	text, err = c.inner.Extract(ctx, doc)
	if err != nil {
		return "", err
	}

	if err := c.store.Set(ctx, key, text, c.ttl); err != nil {
		c.log.Warn("intake cache write failed", map[string]interface{}{
			"documentName": doc.Name,
			"error":        err.Error(),
		})
	}
	return text, nil
}

package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"termsheet-workers/internal/common/cache"
	"termsheet-workers/internal/common/config"
	"termsheet-workers/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	mock.Mock
}

func (m *stubExtractor) Extract(ctx context.Context, doc Document) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *cache.RedisClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := cache.NewRedis(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCacheKey(t *testing.T) {
	a := CacheKey(Document{Name: "a.pdf", Content: []byte("x")})
	assert.Equal(t, a, CacheKey(Document{Name: "a.pdf", Content: []byte("x")}))
	assert.NotEqual(t, a, CacheKey(Document{Name: "b.pdf", Content: []byte("x")}))
	assert.NotEqual(t, a, CacheKey(Document{Name: "a.pdf", Content: []byte("y")}))
	assert.Len(t, a, len(cacheKeyPrefix)+64)
}

func TestCacheKey_NameBoundaryIsFramed(t *testing.T) {
	first := Document{Name: "a.txt|", Content: []byte("x")}
	second := Document{Name: "a.txt", Content: []byte("|x")}
	require.Equal(t, first.Type(), second.Type())

	assert.NotEqual(t, CacheKey(first), CacheKey(second))
	assert.NotEqual(t,
		CacheKey(Document{Name: "ab", Content: []byte("c")}),
		CacheKey(Document{Name: "a", Content: []byte("bc")}),
	)
}

func TestCachedExtractor_DistinctDocumentsDoNotShareText(t *testing.T) {
	_, rdb := newTestRedis(t)
	c := NewCachedExtractor(NewMockExtractor(), rdb, time.Minute, nil)

	first, err := c.Extract(context.Background(), Document{Name: "a.txt|", Content: []byte("DEALER: X")})
	require.NoError(t, err)
	second, err := c.Extract(context.Background(), Document{Name: "a.txt", Content: []byte("|DEALER: X")})
	require.NoError(t, err)

	assert.Equal(t, "DEALER: X", first)
	assert.Equal(t, "|DEALER: X", second)
}

func TestCachedExtractor_HitSkipsInner(t *testing.T) {
	mr, rdb := newTestRedis(t)
	inner := new(stubExtractor)
	doc := Document{Name: "equity.pdf", Content: []byte("%PDF")}
	inner.On("Extract", mock.Anything, doc).Return("DEALER: X", nil).Once()

	c := NewCachedExtractor(inner, rdb, time.Hour, logger.NewTestLogger(t))

	first, err := c.Extract(context.Background(), doc)
	require.NoError(t, err)
	second, err := c.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "DEALER: X", first)
	assert.Equal(t, first, second)
	inner.AssertNumberOfCalls(t, "Extract", 1)
	assert.Equal(t, time.Hour, mr.TTL(CacheKey(doc)))
}

func TestCachedExtractor_InnerErrorNotCached(t *testing.T) {
	mr, rdb := newTestRedis(t)
	inner := new(stubExtractor)
	doc := Document{Name: "bad.txt", Content: []byte{0xff}}
	inner.On("Extract", mock.Anything, doc).Return("", ErrUnreadableDocument)

	c := NewCachedExtractor(inner, rdb, time.Minute, nil)
	_, err := c.Extract(context.Background(), doc)

	assert.ErrorIs(t, err, ErrUnreadableDocument)
	assert.False(t, mr.Exists(CacheKey(doc)))
}

func TestCachedExtractor_RedisDownFallsBack(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.Close()

	inner := new(stubExtractor)
	doc := Document{Name: "a.txt", Content: []byte("DEALER: X")}
	inner.On("Extract", mock.Anything, doc).Return("DEALER: X", nil).Twice()

	c := NewCachedExtractor(inner, rdb, time.Minute, logger.NewTestLogger(t))
	for i := 0; i < 2; i++ {
		text, err := c.Extract(context.Background(), doc)
		require.NoError(t, err)
		assert.Equal(t, "DEALER: X", text)
	}
	inner.AssertExpectations(t)
}

func TestCachedExtractor_WrapsMock(t *testing.T) {
	_, rdb := newTestRedis(t)
	c := NewCachedExtractor(NewMockExtractor(WithMaxBytes(1)), rdb, time.Minute, nil)

	_, err := c.Extract(context.Background(), Document{Name: "a.txt", Content: []byte("too big")})
	assert.True(t, errors.Is(err, ErrDocumentTooLarge))
}

package listings

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestCachedSource_MissThenHit(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	stub := newStubSource(createTestListing(listingA))
	cache := NewCachedSource(stub, rdb, 5*time.Minute, createTestLogger(t))
	ctx := context.Background()

	first, err := cache.GetListing(ctx, listingA)
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
	assert.True(t, mr.Exists(CacheKey(listingA)))
	assert.Equal(t, 5*time.Minute, mr.TTL(CacheKey(listingA)))

	second, err := cache.GetListing(ctx, listingA)
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls, "hit must not reach the wrapped source")
	assert.Equal(t, *first, *second)
}

func TestCachedSource_Expiry(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	stub := newStubSource(createTestListing(listingA))
	cache := NewCachedSource(stub, rdb, time.Minute, createTestLogger(t))
	ctx := context.Background()

	_, err := cache.GetListing(ctx, listingA)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = cache.GetListing(ctx, listingA)
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls)
}

func TestCachedSource_CorruptEntryFallsThrough(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	require.NoError(t, mr.Set(CacheKey(listingA), "{not json"))

	stub := newStubSource(createTestListing(listingA))
	cache := NewCachedSource(stub, rdb, time.Minute, createTestLogger(t))

	listing, err := cache.GetListing(context.Background(), listingA)
	require.NoError(t, err)
	assert.Equal(t, listingA, listing.ID)
	assert.Equal(t, 1, stub.calls)
}

func TestCachedSource_GetListings_PartialHit(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	cached := createTestListing(listingA)
	cached.Title = "from cache"
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	require.NoError(t, mr.Set(CacheKey(listingA), string(data)))

	stub := newStubSource(createTestListing(listingA), createTestListing(listingB))
	cache := NewCachedSource(stub, rdb, time.Minute, createTestLogger(t))

	listings, err := cache.GetListings(context.Background(), []string{listingB, listingA})
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, listingB, listings[0].ID)
	assert.Equal(t, "from cache", listings[1].Title)
	assert.Equal(t, 1, stub.calls)
	assert.True(t, mr.Exists(CacheKey(listingB)))
}

func TestCachedSource_SourceErrorIsReturned(t *testing.T) {
	_, rdb := setupMiniredis(t)
	stub := newStubSource()
	cache := NewCachedSource(stub, rdb, time.Minute, createTestLogger(t))

	_, err := cache.GetListing(context.Background(), listingC)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestCachedSource_RedisDownIsBypassed(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	stub := newStubSource(createTestListing(listingA))
	cache := NewCachedSource(stub, rdb, time.Minute, createTestLogger(t))

	mock.ExpectGet(CacheKey(listingA)).SetErr(errors.New("dial tcp: connection refused"))
	data, err := json.Marshal(createTestListing(listingA))
	require.NoError(t, err)
	mock.ExpectSet(CacheKey(listingA), data, time.Minute).SetErr(errors.New("dial tcp: connection refused"))

	listing, err := cache.GetListing(context.Background(), listingA)
	require.NoError(t, err)
	assert.Equal(t, listingA, listing.ID)
	assert.Equal(t, 1, stub.calls)
}

func TestCachedSource_InvalidIDSkipsRedis(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := NewCachedSource(newStubSource(), rdb, time.Minute, createTestLogger(t))

	_, err := cache.GetListing(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidListingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedSource_EntryWithNonArrayMikoTagsIsAHit(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	require.NoError(t, mr.Set(CacheKey(listingA),
		`{"id":"`+listingA+`","rent":9000,"roomType":"Private","city":"Pune","locality":"Baner","mikoTags":{"calm_vibes":true}}`))

	stub := newStubSource()
	cache := NewCachedSource(stub, rdb, time.Minute, createTestLogger(t))

	listing, err := cache.GetListing(context.Background(), listingA)
	require.NoError(t, err)
	assert.Equal(t, 0, stub.calls)
	assert.Nil(t, listing.MikoTags)
}

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	c := New(true)
	etag := c.Set("k", []byte("payload"), time.Minute)
	require.NotEmpty(t, etag)

	data, gotETag, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), data)
	assert.Equal(t, etag, gotETag)
}

func TestGetMissAndExpiry(t *testing.T) {
	c := New(true)
	_, _, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", []byte("x"), -time.Second)
	_, _, ok = c.Get("k")
	assert.False(t, ok, "expired entries are misses")
}

func TestDisabledCacheIsNoOp(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("x"), time.Minute)
	assert.NotEmpty(t, etag, "disabled cache still computes ETags")

	_, _, ok := c.Get("k")
	assert.False(t, ok)
}

func TestInvalidateDropsEverything(t *testing.T) {
	c := New(true)
	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)

	c.Invalidate()

	_, _, ok := c.Get("a")
	assert.False(t, ok)
	_, _, ok = c.Get("b")
	assert.False(t, ok)
}

func TestETagStableForSameData(t *testing.T) {
	assert.Equal(t, ComputeETag([]byte("same")), ComputeETag([]byte("same")))
	assert.NotEqual(t, ComputeETag([]byte("a")), ComputeETag([]byte("b")))
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("x"))
	assert.True(t, CheckETagMatch(etag, etag))
	assert.True(t, CheckETagMatch("*", etag))
	assert.False(t, CheckETagMatch("", etag))
	assert.False(t, CheckETagMatch(`W/"other"`, etag))
}

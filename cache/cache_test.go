package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrLoadCachesByKey(t *testing.T) {
	c := New()
	ctx := context.Background()
	var calls atomic.Int32

	loader := func(context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"p1", "p2"}, nil
	}

	key := Key{Op: OpRecentPosts}
	v1, err := GetOrLoad(ctx, c, key, loader)
	require.NoError(t, err)
	v2, err := GetOrLoad(ctx, c, key, loader)
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int32(1), calls.Load(), "second read must hit the cache")
}

func TestKeysAreDistinctPerArg(t *testing.T) {
	c := New()
	ctx := context.Background()

	a, err := GetOrLoad(ctx, c, Key{Op: OpSearchPosts, Arg: "sunset"}, func(context.Context) (string, error) {
		return "sunset results", nil
	})
	require.NoError(t, err)
	b, err := GetOrLoad(ctx, c, Key{Op: OpSearchPosts, Arg: "sunrise"}, func(context.Context) (string, error) {
		return "sunrise results", nil
	})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestLoadErrorIsNotCached(t *testing.T) {
	c := New()
	ctx := context.Background()
	var calls atomic.Int32

	key := Key{Op: OpUsers}
	_, err := GetOrLoad(ctx, c, key, func(context.Context) (int, error) {
		calls.Add(1)
		return 0, errors.New("down")
	})
	require.Error(t, err)

	v, err := GetOrLoad(ctx, c, key, func(context.Context) (int, error) {
		calls.Add(1)
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidateTriggersBackgroundRefetch(t *testing.T) {
	c := New()
	ctx := context.Background()
	var version atomic.Int32

	key := Key{Op: OpRecentPosts}
	loader := func(context.Context) (int32, error) {
		return version.Add(1), nil
	}

	v, err := GetOrLoad(ctx, c, key, loader)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)

	c.Invalidate(key)
	c.refreshing.Wait()

	// The refresh already repopulated the entry; this read must not
	// run the loader again.
	v, err = GetOrLoad(ctx, c, key, func(context.Context) (int32, error) {
		t.Fatal("loader ran after background refresh")
		return 0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
}

func TestInvalidateDoesNotBlockOnSubscriber(t *testing.T) {
	c := New()
	var notified [][]Key
	c.OnInvalidate(func(keys []Key) {
		notified = append(notified, keys)
	})

	keys := []Key{{Op: OpRecentPosts}, {Op: OpPostByID, Arg: "p1"}}
	c.Invalidate(keys...)

	require.Len(t, notified, 1)
	assert.Equal(t, keys, notified[0])
}

func TestInvalidateOpSweepsAllArgs(t *testing.T) {
	c := New()
	ctx := context.Background()
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		return "r", nil
	}
	_, err := GetOrLoad(ctx, c, Key{Op: OpSearchPosts, Arg: "a"}, loader)
	require.NoError(t, err)
	_, err = GetOrLoad(ctx, c, Key{Op: OpSearchPosts, Arg: "b"}, loader)
	require.NoError(t, err)
	_, err = GetOrLoad(ctx, c, Key{Op: OpUsers}, loader)
	require.NoError(t, err)

	c.InvalidateOp(OpSearchPosts)
	c.refreshing.Wait()

	// Both search entries refreshed, the users entry untouched.
	assert.Equal(t, int32(5), calls.Load())
}

func TestFlushDropsEverything(t *testing.T) {
	c := New()
	ctx := context.Background()
	var calls atomic.Int32

	key := Key{Op: OpCurrentUser, Arg: "sess1"}
	loader := func(context.Context) (string, error) {
		calls.Add(1)
		return "me", nil
	}

	_, err := GetOrLoad(ctx, c, key, loader)
	require.NoError(t, err)
	c.Flush()
	_, err = GetOrLoad(ctx, c, key, loader)
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "recent-posts", Key{Op: OpRecentPosts}.String())
	assert.Equal(t, "search-posts:cats", Key{Op: OpSearchPosts, Arg: "cats"}.String())
}

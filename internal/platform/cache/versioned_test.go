package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Versioned, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewVersioned(client, "catalog", time.Minute), mr
}

func TestFetchJSONCachesLoaderResult(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var calls int32
	loader := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"1", "2"}, nil
	}

	key, err := c.Key(ctx, "options", "abc")
	require.NoError(t, err)
	assert.Equal(t, "catalog:options:abc:v1", key)

	for i := 0; i < 3; i++ {
		var got []string
		require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
		assert.Equal(t, []string{"1", "2"}, got)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestBumpChangesKeys(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	before, err := c.Key(ctx, "options")
	require.NoError(t, err)
	require.NoError(t, c.Bump(ctx))
	after, err := c.Key(ctx, "options")
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
	assert.Equal(t, "catalog:options:v2", after)
}

func TestFetchJSONExpiresWithTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var calls int32
	loader := func(context.Context) (any, error) {
		return atomic.AddInt32(&calls, 1), nil
	}
	var got int32
	require.NoError(t, c.FetchJSON(ctx, "k", &got, loader))
	mr.FastForward(2 * time.Minute)
	require.NoError(t, c.FetchJSON(ctx, "k", &got, loader))
	assert.Equal(t, int32(2), got)
}

func TestFetchJSONSharesConcurrentMisses(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var calls int32
	release := make(chan struct{})
	loader := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "value", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.FetchJSON(ctx, "shared", &results[i], loader)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, "value", r)
	}
}

func TestFetchJSONSurvivesFirstCallerCancel(t *testing.T) {
	c, _ := newTestCache(t)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	loader := func(ctx context.Context) (any, error) {
		once.Do(func() { close(started) })
		select {
		case <-release:
			return []string{"7"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		var got []string
		firstErr <- c.FetchJSON(firstCtx, "catalog:shared", &got, loader)
	}()
	<-started

	type result struct {
		got []string
		err error
	}
	second := make(chan result, 1)
	go func() {
		var got []string
		err := c.FetchJSON(context.Background(), "catalog:shared", &got, loader)
		second <- result{got: got, err: err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, []string{"7"}, res.got)
}

func TestFetchJSONPropagatesLoaderError(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("boom")

	var got string
	err := c.FetchJSON(context.Background(), "k", &got, func(context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestNilClientBypassesCache(t *testing.T) {
	c := NewVersioned(nil, "catalog", time.Minute)
	var got []int
	require.NoError(t, c.FetchJSON(context.Background(), "k", &got, func(context.Context) (any, error) {
		return []int{7}, nil
	}))
	assert.Equal(t, []int{7}, got)
	assert.NoError(t, c.Bump(context.Background()))
}

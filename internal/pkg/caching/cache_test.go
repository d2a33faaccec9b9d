package caching

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/stretchr/testify/require"
)

type cacheFake struct {
	values map[string]any
	sets   int
}

func newCacheFake() *cacheFake {
	return &cacheFake{values: map[string]any{}}
}

func (c *cacheFake) Get(ctx context.Context, key string, target any) error {
	v, ok := c.values[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	reflect.ValueOf(target).Elem().Set(reflect.ValueOf(v))
	return nil
}

func (c *cacheFake) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.values[key] = value
	c.sets++
	return nil
}

func (c *cacheFake) Delete(ctx context.Context, key string) error {
	delete(c.values, key)
	return nil
}

func TestUseCacheMissCallsBack(t *testing.T) {
	fake := newCacheFake()
	ctx := context.Background()

	calls := 0
	v, err := UseCache(ctx, fake, "k", time.Minute, func() (string, error) {
		calls++
		return "fresh", nil
	})
	require.NoError(t, err)
	require.Equal(t, "fresh", v)
	require.Equal(t, 1, calls)
	require.Equal(t, 1, fake.sets)
}

func TestUseCacheHitSkipsCallback(t *testing.T) {
	fake := newCacheFake()
	ctx := context.Background()

	_, err := UseCache(ctx, fake, "k", time.Minute, func() (int, error) {
		return 7, nil
	})
	require.NoError(t, err)

	v, err := UseCache(ctx, fake, "k", time.Minute, func() (int, error) {
		t.Fatal("callback must not run on a hit")
		return 0, nil
	})
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestUseCachePropagatesCallbackError(t *testing.T) {
	fake := newCacheFake()
	boom := errors.New("boom")

	_, err := UseCache(context.Background(), fake, "k", time.Minute, func() (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, fake.sets, "failed lookups never populate the cache")
}

package cache

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/happymap/happymap/backend/go-services/internal/orphanage"
)

func newCache(t *testing.T, ttl time.Duration) (*ListCache, *mr.Miniredis) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	return NewListCache(client, ttl), m
}

func sampleViews() []orphanage.ListView {
	return []orphanage.ListView{
		{ID: "o1", Name: "Lar Feliz", Latitude: -25.09, Longitude: -50.18,
			Images: []orphanage.Image{{ID: "i1", URL: "http://localhost/uploads/a.png"}}},
		{ID: "o2", Name: "Casa Esperança", Latitude: -25.11, Longitude: -50.14},
	}
}

func TestListCacheSetGetInvalidate(t *testing.T) {
	c, _ := newCache(t, 30*time.Second)
	ctx := context.Background()

	got, err := c.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, got, "empty cache should miss")

	require.NoError(t, c.Set(ctx, sampleViews()))

	got, err = c.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Lar Feliz", got[0].Name)
	require.Equal(t, "http://localhost/uploads/a.png", got[0].Images[0].URL)

	require.NoError(t, c.Invalidate(ctx))
	got, err = c.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, got, "invalidated cache should miss")
}

func TestListCacheTTLExpiry(t *testing.T) {
	c, m := newCache(t, time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sampleViews()))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)

	m.FastForward(2 * time.Second)

	got, err = c.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, got, "expired cache should miss")
}

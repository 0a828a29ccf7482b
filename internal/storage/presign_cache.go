package storage

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type presignFunc func(ctx context.Context, key string) (string, error)

// presignCache memoizes presigned URLs per object key. Entries live for half
// the presign expiry so a cached URL is never handed out close to its
// expiration. Hits must not extend the TTL, hence DisableTouchOnHit.
type presignCache struct {
	cache   *ttlcache.Cache[string, string]
	presign presignFunc
}

func newPresignCache(fn presignFunc, presignExpiry time.Duration) *presignCache {
	ttl := presignExpiry / 2
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	c := ttlcache.New(
		ttlcache.WithTTL[string, string](ttl),
		ttlcache.WithDisableTouchOnHit[string, string](),
	)
	go c.Start()
	return &presignCache{cache: c, presign: fn}
}

func (p *presignCache) URL(ctx context.Context, key string) (string, error) {
	if item := p.cache.Get(key); item != nil {
		return item.Value(), nil
	}
	u, err := p.presign(ctx, key)
	if err != nil {
		return "", err
	}
	p.cache.Set(key, u, ttlcache.DefaultTTL)
	return u, nil
}

func (p *presignCache) Stop() {
	p.cache.Stop()
}

package directory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/inmeta/pitwall/internal/domain/model"
	"github.com/inmeta/pitwall/pkg/metrics"
)

const rosterCacheKey = "roster"

// Cached decorates a Directory with a TTL snapshot cache so leaderboard
// reads do not hit the CMS on every request. A fetch failure never evicts
// a still-valid snapshot.
type Cached struct {
	inner Directory
	cache *expirable.LRU[string, []model.Player]
}

// NewCached wraps inner with a roster cache expiring after ttl.
func NewCached(inner Directory, ttl time.Duration) *Cached {
	return &Cached{
		inner: inner,
		cache: expirable.NewLRU[string, []model.Player](1, nil, ttl),
	}
}

// ListPlayers implements Directory. Serves the cached snapshot when fresh,
// otherwise refreshes from the wrapped directory.
func (c *Cached) ListPlayers(ctx context.Context) ([]model.Player, error) {
	if players, ok := c.cache.Get(rosterCacheKey); ok {
		metrics.RecordDirectoryCacheHit()
		return players, nil
	}
	metrics.RecordDirectoryCacheMiss()

	players, err := c.inner.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.Add(rosterCacheKey, players)
	return players, nil
}

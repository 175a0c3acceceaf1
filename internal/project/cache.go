package project

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redmonkez12/visionise-api/internal/logging"
)

// Cache is a byte-oriented key/value store with expiry
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedRepository serves GetByID from a read-through cache and drops the
// entry on every write to that project. Cache failures fall back to the
// underlying repository.
//
// A fill is skipped when any write finished while the store read was in
// flight, so a reader never caches a document older than the latest
// invalidation made through this repository.
type CachedRepository struct {
	Repository
	cache  Cache
	ttl    time.Duration
	logger *logging.Logger

	mu  sync.Mutex
	gen uint64
}

func NewCachedRepository(repo Repository, cache Cache, ttl time.Duration, logger *logging.Logger) *CachedRepository {
	return &CachedRepository{Repository: repo, cache: cache, ttl: ttl, logger: logger}
}

func cacheKey(id string) string {
	return "project:" + id
}

func (c *CachedRepository) GetByID(ctx context.Context, id string) (*Project, error) {
	key := cacheKey(id)

	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("project cache read failed", "project_id", id, "error", err)
	}
	if ok {
		var p Project
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
	}

	gen := c.generation()

	p, err := c.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.fill(ctx, key, gen, p)
	return p, nil
}

func (c *CachedRepository) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// fill stores p unless a write happened after gen was read. The lock is
// held across Set so an invalidation cannot slip between check and write.
func (c *CachedRepository) fill(ctx context.Context, key string, gen uint64, p *Project) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("project cache write failed", "project_id", p.ID, "error", err)
	}
}

func (c *CachedRepository) Update(ctx context.Context, id string, upd Update) (*Project, error) {
	p, err := c.Repository.Update(ctx, id, upd)
	c.invalidate(ctx, id)
	return p, err
}

func (c *CachedRepository) Delete(ctx context.Context, id string) error {
	err := c.Repository.Delete(ctx, id)
	c.invalidate(ctx, id)
	return err
}

func (c *CachedRepository) AddMember(ctx context.Context, id, userID string) error {
	err := c.Repository.AddMember(ctx, id, userID)
	c.invalidate(ctx, id)
	return err
}

func (c *CachedRepository) RemoveMember(ctx context.Context, id, userID string) error {
	err := c.Repository.RemoveMember(ctx, id, userID)
	c.invalidate(ctx, id)
	return err
}

func (c *CachedRepository) invalidate(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	if err := c.cache.Delete(ctx, cacheKey(id)); err != nil {
		c.logger.Warn("project cache invalidation failed", "project_id", id, "error", err)
	}
}

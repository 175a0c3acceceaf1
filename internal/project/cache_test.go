package project

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/visionise-api/internal/logging"
)

type fakeCache struct {
	data    map[string][]byte
	failGet bool
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.failGet {
		return nil, false, errors.New("connection refused")
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

// countingRepo serves a single project and counts store reads. afterRead
// runs once the copy has been taken, before GetByID returns.
type countingRepo struct {
	Repository
	project   *Project
	reads     int
	afterRead func()
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (*Project, error) {
	r.reads++
	if r.project == nil || r.project.ID != id {
		return nil, ErrNotFound
	}
	p := *r.project
	if r.afterRead != nil {
		hook := r.afterRead
		r.afterRead = nil
		hook()
	}
	return &p, nil
}

func (r *countingRepo) Update(ctx context.Context, id string, upd Update) (*Project, error) {
	if upd.Title != nil {
		r.project.Title = *upd.Title
	}
	p := *r.project
	return &p, nil
}

func (r *countingRepo) Delete(ctx context.Context, id string) error {
	r.project = nil
	return nil
}

func (r *countingRepo) AddMember(ctx context.Context, id, uid string) error {
	return nil
}

func (r *countingRepo) RemoveMember(ctx context.Context, id, uid string) error {
	return nil
}

func TestCachedRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{project: &Project{ID: "p1", Title: "P", Members: []string{}}}
	cache := newFakeCache()
	cached := NewCachedRepository(repo, cache, time.Minute, logging.Discard())

	first, err := cached.GetByID(ctx, "p1")
	require.NoError(t, err)
	second, err := cached.GetByID(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.reads)
	assert.Equal(t, first.Title, second.Title)
	assert.Contains(t, cache.data, "project:p1")
}

func TestCachedRepository_NotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{}
	cache := newFakeCache()
	cached := NewCachedRepository(repo, cache, time.Minute, logging.Discard())

	_, err := cached.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, cache.data)
}

func TestCachedRepository_WritesInvalidate(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{project: &Project{ID: "p1", Title: "P"}}
	cache := newFakeCache()
	cached := NewCachedRepository(repo, cache, time.Minute, logging.Discard())

	_, err := cached.GetByID(ctx, "p1")
	require.NoError(t, err)

	title := "P2"
	_, err = cached.Update(ctx, "p1", Update{Title: &title})
	require.NoError(t, err)
	assert.NotContains(t, cache.data, "project:p1")

	got, err := cached.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "P2", got.Title)
	assert.Equal(t, 2, repo.reads)

	require.NoError(t, cached.AddMember(ctx, "p1", "u1"))
	require.NoError(t, cached.RemoveMember(ctx, "p1", "u1"))
	require.NoError(t, cached.Delete(ctx, "p1"))
	assert.Equal(t, []string{"project:p1", "project:p1", "project:p1", "project:p1"}, cache.deleted)
}

func TestCachedRepository_CacheFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{project: &Project{ID: "p1", Title: "P"}}
	cache := newFakeCache()
	cache.failGet = true
	cached := NewCachedRepository(repo, cache, time.Minute, logging.Discard())

	got, err := cached.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "P", got.Title)
	assert.Equal(t, 1, repo.reads)
}

func TestCachedRepository_WriteDuringReadSkipsFill(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{project: &Project{ID: "p1", Title: "old"}}
	cache := newFakeCache()
	cached := NewCachedRepository(repo, cache, time.Minute, logging.Discard())

	title := "new"
	repo.afterRead = func() {
		_, err := cached.Update(ctx, "p1", Update{Title: &title})
		require.NoError(t, err)
	}

	got, err := cached.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "old", got.Title)
	assert.NotContains(t, cache.data, "project:p1")

	got, err = cached.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Contains(t, cache.data, "project:p1")
}

func TestCachedRepository_DeleteDuringReadSkipsFill(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{project: &Project{ID: "p1", Title: "P"}}
	cache := newFakeCache()
	cached := NewCachedRepository(repo, cache, time.Minute, logging.Discard())

	repo.afterRead = func() {
		require.NoError(t, cached.Delete(ctx, "p1"))
	}

	_, err := cached.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, cache.data)

	_, err = cached.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

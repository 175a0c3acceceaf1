package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_KeyPrefix(t *testing.T) {
	c := NewRedisCache(nil, "visionise:")
	assert.Equal(t, "visionise:project:1", c.key("project:1"))
}

func TestRedisCache_DeleteNoKeys(t *testing.T) {
	c := NewRedisCache(nil, "visionise:")
	assert.NoError(t, c.Delete(context.Background()))
}

func TestRedisCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewRedisCache(client, "visionise:")

	_, ok, err := c.Get(context.Background(), "project:1")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Set(context.Background(), "project:1", []byte("{}"), time.Minute))
	assert.Error(t, c.Ping(context.Background()))
}

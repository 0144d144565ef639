package blacklist

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_AddContains(t *testing.T) {
	t.Parallel()

	bl := NewMemory()
	ctx := context.Background()

	ok, err := bl.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, bl.Add(ctx, "tok"))
	require.NoError(t, bl.Add(ctx, "tok"))

	ok, err = bl.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemory_ConcurrentInsertLookup(t *testing.T) {
	t.Parallel()

	bl := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = bl.Add(ctx, fmt.Sprintf("token-%d", i))
		}()
		go func() {
			defer wg.Done()
			_, _ = bl.Contains(ctx, fmt.Sprintf("token-%d", i))
		}()
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		ok, err := bl.Contains(ctx, fmt.Sprintf("token-%d", i))
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestRedis_AddContains(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bl := NewRedis(client, time.Hour)
	ctx := context.Background()

	ok, err := bl.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, bl.Add(ctx, "tok"))

	ok, err = bl.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedis_EntriesExpire(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bl := NewRedis(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, bl.Add(ctx, "tok"))
	mr.FastForward(2 * time.Minute)

	ok, err := bl.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
}

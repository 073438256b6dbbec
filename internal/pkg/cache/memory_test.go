package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient_GetSetDelete(t *testing.T) {
	c := NewMemoryClient()
	ctx := context.Background()

	_, err := c.Get(ctx, "location:1")
	assert.Equal(t, ErrCacheMiss, err)

	require.NoError(t, c.Set(ctx, "location:1", []byte(`{"id":"1"}`), time.Minute))
	val, err := c.Get(ctx, "location:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, val)

	require.NoError(t, c.Delete(ctx, "location:1"))
	_, err = c.Get(ctx, "location:1")
	assert.Equal(t, ErrCacheMiss, err)
}

func TestMemoryClient_IncrAndExpiry(t *testing.T) {
	c := NewMemoryClient()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	n, err := c.Incr(ctx, "rate-limit:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Incr(ctx, "rate-limit:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	now = now.Add(2 * time.Minute)
	n, err = c.Incr(ctx, "rate-limit:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "a janela expirada deve reiniciar o contador")
}

package store

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresKVIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set, skipping postgres key-value test")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	kv := NewPostgresKV(pool)
	require.NoError(t, kv.EnsureSchema(ctx))
	_, err = pool.Exec(ctx, `DELETE FROM kv_store WHERE key LIKE 'it:%'`)
	require.NoError(t, err)

	_, ok, err := kv.Get(ctx, "it:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "it:k", "one"))
	require.NoError(t, kv.Set(ctx, "it:k", "two"))
	v, ok, err := kv.Get(ctx, "it:k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", v)

	s, err := Open(ctx, kv, WithPrefix("it:"))
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, seed, KeyCustomers))
	reopened, err := Open(ctx, kv, WithPrefix("it:"))
	require.NoError(t, err)
	require.NoError(t, reopened.View(func(c *Collections) error {
		assert.NotNil(t, c.Customer("c1"))
		return nil
	}))
}

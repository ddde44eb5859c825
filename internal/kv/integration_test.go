package kv

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rajivgeraev/iv-catalog/internal/config"
	"github.com/rajivgeraev/iv-catalog/internal/db"
)

// These run only against real servers: KV_TEST_REDIS_ADDRESS and KV_TEST_DATABASE_URL.

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("KV_TEST_REDIS_ADDRESS")
	if addr == "" {
		t.Skip("KV_TEST_REDIS_ADDRESS not set")
	}

	client, err := NewRedisClient(config.RedisConfig{Address: addr, DB: 15}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		_ = client.Close()
	})

	testStoreContract(t, NewRedisStore(client, zap.NewNop()))
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("KV_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("KV_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))
	clean := func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM kv_store WHERE key IN ('favoritos', 'other')`)
	}
	clean()
	t.Cleanup(clean)

	testStoreContract(t, NewPostgresStore(pool))
}

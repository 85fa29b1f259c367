package database

import (
	"context"
	"testing"
	"time"

	"order-management/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) (string, func()) {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cleanup := func() {
		_ = pgContainer.Terminate(ctx)
	}

	return connStr, cleanup
}

func TestNewPool_InvalidTarget(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	cfg := config.DatabaseConfig{
		Host:            "invalid-host",
		Port:            5432,
		User:            "user",
		Password:        "pass",
		Database:        "testdb",
		MaxConnections:  5,
		MinConnections:  1,
		MaxConnLifetime: 300,
	}

	pool, err := NewPool(ctx, cfg, logger)

	require.Error(t, err)
	assert.Nil(t, pool)
	assert.Contains(t, err.Error(), "failed to ping database")
}

func TestMigrate(t *testing.T) {
	connStr, cleanup := startPostgres(t)
	defer cleanup()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	err = Migrate(ctx, pool, zerolog.Nop())
	require.NoError(t, err)

	// Running twice must be a no-op.
	err = Migrate(ctx, pool, zerolog.Nop())
	require.NoError(t, err)

	var exists bool
	err = pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = 'orders')").Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists)

	err = pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = 'order_items')").Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists)
}

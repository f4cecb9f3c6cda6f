//go:build integration

package database_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nidhi-davra/ai-glass-suggestor/internal/database"
)

const testDBName = "glasses_test"

func startPostgres(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       testDBName,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://test:test@%s:%s/%s?sslmode=disable", host, port.Port(), testDBName)
}

func TestMigratorIntegration(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	db, err := database.OpenSQL(ctx, dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	t.Run("Up creates tables", func(t *testing.T) {
		migrator, err := database.NewMigrator(db, testDBName)
		require.NoError(t, err)

		require.NoError(t, migrator.Up())
		// A second run is a no-op.
		require.NoError(t, migrator.Up())

		assertTableExists(t, db, "frames")
		assertTableExists(t, db, "cache_entries")
		assertTableExists(t, db, "rate_limit_counters")

		columns := getTableColumns(t, db, "frames")
		for _, col := range []string{"id", "name", "src", "styles", "recommended_for", "reasoning", "created_at", "updated_at"} {
			assert.Contains(t, columns, col)
		}
	})

	t.Run("Version reports latest", func(t *testing.T) {
		migrator, err := database.NewMigrator(db, testDBName)
		require.NoError(t, err)

		version, dirty, err := migrator.Version()
		require.NoError(t, err)
		assert.False(t, dirty)
		assert.Equal(t, uint(3), version)
	})

	t.Run("Down rolls back one step", func(t *testing.T) {
		migrator, err := database.NewMigrator(db, testDBName)
		require.NoError(t, err)

		require.NoError(t, migrator.Down())

		version, _, err := migrator.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(2), version)
		assertTableExists(t, db, "cache_entries")
	})

	t.Run("pgx pool health check", func(t *testing.T) {
		pool, err := database.NewPool(ctx, database.DefaultPoolConfig(dsn))
		require.NoError(t, err)
		defer pool.Close()

		assert.NoError(t, database.HealthCheck(ctx, pool))
	})
}

func assertTableExists(t *testing.T, db *sql.DB, tableName string) {
	t.Helper()

	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`, tableName).Scan(&exists)

	require.NoError(t, err)
	assert.True(t, exists, "table %s should exist", tableName)
}

func getTableColumns(t *testing.T, db *sql.DB, tableName string) []string {
	t.Helper()

	rows, err := db.Query(`
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = 'public'
		AND table_name = $1
		ORDER BY ordinal_position
	`, tableName)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var columns []string
	for rows.Next() {
		var col string
		require.NoError(t, rows.Scan(&col))
		columns = append(columns, col)
	}
	require.NoError(t, rows.Err())

	return columns
}

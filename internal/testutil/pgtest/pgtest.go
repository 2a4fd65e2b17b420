// Package pgtest connects tests to the database named by TEST_DATABASE. Tests calling it
// are skipped when the variable is unset.
package pgtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const envTestDatabase = "TEST_DATABASE"

// ConnString returns TEST_DATABASE or skips t.
func ConnString(t testing.TB) string {
	t.Helper()
	connString := os.Getenv(envTestDatabase)
	if connString == "" {
		t.Skip(envTestDatabase + " not set")
	}
	return connString
}

// Connect creates a new database connection for testing
func Connect(ctx context.Context, t testing.TB) *pgx.Conn {
	config := ParseConfig(t)

	conn, err := pgx.ConnectConfig(ctx, config)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, conn.Close(ctx))
	})

	return conn
}

// Pool opens a pool on the test database, closed on cleanup.
func Pool(ctx context.Context, t testing.TB) *pgxpool.Pool {
	cfg, err := pgxpool.ParseConfig(ConnString(t))
	require.NoError(t, err)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))

	t.Cleanup(pool.Close)
	return pool
}

// ParseConfig returns a test connection config with logging
func ParseConfig(t testing.TB) *pgx.ConnConfig {
	config, err := pgx.ParseConfig(ConnString(t))
	require.NoError(t, err)

	config.OnNotice = func(_ *pgconn.PgConn, n *pgconn.Notice) {
		t.Logf("PostgreSQL %s: %s", n.Severity, n.Message)
	}

	return config
}

// Exec runs setup or teardown SQL on a short-lived connection.
func Exec(ctx context.Context, t testing.TB, sql string) {
	t.Helper()
	conn := Connect(ctx, t)
	_, err := conn.Exec(ctx, sql)
	require.NoError(t, err)
}

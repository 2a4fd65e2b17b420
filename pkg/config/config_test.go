package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.Server.QueryTimeout)
	assert.False(t, cfg.Server.LintStatements)
	assert.Empty(t, cfg.Server.CORSOrigins)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 30*time.Second, cfg.PG.ConnectTimeout)
	assert.Zero(t, cfg.Catalog.CacheSize)
	assert.Equal(t, time.Minute, cfg.Catalog.CacheTTL)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.ErrorIs(t, cfg.Validate(), ErrNoConnString)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "custom.yaml", `
pg:
  connString: postgres://file@localhost/db
  maxConns: 4
server:
  listenAddr: ":9090"
  queryTimeout: 5s
  corsOrigins: ["http://a.local", "http://b.local"]
catalog:
  cacheSize: 64
  cacheTTL: 2m
log:
  level: debug
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres://file@localhost/db", cfg.PG.ConnString)
	assert.Equal(t, int32(4), cfg.PG.MaxConns)
	assert.Equal(t, ":9090", cfg.Server.ListenAddr)
	assert.Equal(t, 5*time.Second, cfg.Server.QueryTimeout)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 64, cfg.Catalog.CacheSize)
	assert.Equal(t, 2*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaultFileName(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, "pgtables.yaml", "server:\n  listenAddr: \":7070\"\n")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.ListenAddr)
}

func TestLoadBadFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "bad.yaml", "server: [\n")

	_, err := Load(path, nil)
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "pgtables.yaml", "server:\n  listenAddr: \":9090\"\n")

	t.Setenv("PGTABLES_SERVER_LISTEN_ADDR", ":6060")
	t.Setenv("PGTABLES_SERVER_QUERY_TIMEOUT", "1500ms")
	t.Setenv("PGTABLES_SERVER_CORS_ORIGINS", "http://a.local,http://b.local")
	t.Setenv("PGTABLES_CATALOG_CACHE_TTL", "10s")
	t.Setenv("PGTABLES_PG_CONN_STRING", "postgres://env@localhost/db")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, ":6060", cfg.Server.ListenAddr)
	assert.Equal(t, 1500*time.Millisecond, cfg.Server.QueryTimeout)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.Catalog.CacheTTL)
	assert.Equal(t, "postgres://env@localhost/db", cfg.PG.ConnString)
}

func TestLoadDatabaseURLFallback(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PGTABLES_PG_CONN_STRING", "")
	t.Setenv("DATABASE_URL", "postgres://fallback@localhost/db")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres://fallback@localhost/db", cfg.PG.ConnString)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "PGTABLES_METRICS_ADDR=:9999\n")
	t.Cleanup(func() { os.Unsetenv("PGTABLES_METRICS_ADDR") })

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Metrics.Addr)
}

func TestLoadFlagsWin(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PGTABLES_SERVER_LISTEN_ADDR", ":6060")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("server.listenAddr", "", "")
	flags.Duration("server.queryTimeout", 0, "")
	flags.Bool("server.lintStatements", false, "")
	require.NoError(t, flags.Parse([]string{"--server.listenAddr=:5050", "--server.lintStatements"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, ":5050", cfg.Server.ListenAddr)
	assert.True(t, cfg.Server.LintStatements)
	assert.Equal(t, 30*time.Second, cfg.Server.QueryTimeout, "unset flag keeps the default")
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "PGTABLES_PG_CONN_STRING", envName("pg.connString"))
	assert.Equal(t, "PGTABLES_SERVER_LISTEN_ADDR", envName("server.listenAddr"))
	assert.Equal(t, "PGTABLES_CATALOG_CACHE_TTL", envName("catalog.cacheTTL"))
	assert.Equal(t, "PGTABLES_LOG_LEVEL", envName("log.level"))
}

func TestRequestLogging(t *testing.T) {
	assert.True(t, LogConfig{Level: "info"}.RequestLogging())
	assert.False(t, LogConfig{Level: "NONE"}.RequestLogging())
}

package pgtables

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/edgeflare/pgtables/pkg/config"
	"github.com/edgeflare/pgtables/pkg/metrics"
	"github.com/edgeflare/pgtables/pkg/pgx"
	"github.com/edgeflare/pgtables/pkg/rest"
	"github.com/edgeflare/pgtables/pkg/tables"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Waits for PostgreSQL to accept connections, then serves the table API until SIGINT or SIGTERM`,
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringP("pg.connString", "c", "", "PostgreSQL connection string")
	f.Int32("pg.maxConns", 0, "maximum pool size (pgxpool default when 0)")
	f.Duration("pg.connectTimeout", 0, "how long to wait for the database at startup")
	f.StringP("server.listenAddr", "l", "", "HTTP listen address")
	f.Duration("server.queryTimeout", 0, "per-statement deadline")
	f.Bool("server.lintStatements", false, "parse generated statements before sending them")
	f.StringSlice("server.corsOrigins", nil, "allowed CORS origins")
	f.Int("catalog.cacheSize", 0, "catalog cache entries (disabled when 0)")
	f.Duration("catalog.cacheTTL", 0, "catalog cache entry lifetime")
	f.Bool("metrics.enabled", true, "serve Prometheus metrics")
	f.String("metrics.addr", "", "metrics listen address")

	// Short aliases matching the documented CLI.
	f.SetNormalizeFunc(aliasFlags)
}

var flagAliases = map[string]string{
	"query-timeout": "server.queryTimeout",
	"lint":          "server.lintStatements",
	"metrics-addr":  "metrics.addr",
	"cors-origins":  "server.corsOrigins",
}

func aliasFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	if full, ok := flagAliases[name]; ok {
		name = full
	}
	return pflag.NormalizedName(name)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgx.NewPool(ctx, pgx.PoolConfig{ConnString: cfg.PG.ConnString, MaxConns: cfg.PG.MaxConns})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pgx.WaitReady(ctx, pool, cfg.PG.ConnectTimeout, logger); err != nil {
		return err
	}

	var wg sync.WaitGroup
	if cfg.Metrics.Enabled {
		metrics.StartPrometheusServer(ctx, &wg, &metrics.PromServerOpts{
			Addr:   cfg.Metrics.Addr,
			Path:   cfg.Metrics.Path,
			Logger: logger,
		})
	}

	svc := tables.NewService(pgx.PoolAcquirer{Pool: pool}, &tables.Options{
		Logger:         logger,
		QueryTimeout:   cfg.Server.QueryTimeout,
		LintStatements: cfg.Server.LintStatements,
		CacheSize:      cfg.Catalog.CacheSize,
		CacheTTL:       cfg.Catalog.CacheTTL,
	})
	server := rest.NewServer(svc, &rest.Options{
		Logger:       logger,
		LogRequests:  cfg.Log.RequestLogging(),
		CORSOrigins:  cfg.Server.CORSOrigins,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		ServerOptions: []func(*http.Server){func(s *http.Server) {
			s.ReadHeaderTimeout = 10 * time.Second
		}},
	})

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.Server.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received termination signal, shutting down")
	case err = <-errChan:
		logger.Error("server error", zap.Error(err))
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("server shutdown error", zap.Error(shutdownErr))
	}

	wg.Wait()
	logger.Info("server gracefully stopped")

	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Package tables executes generated statements against pooled connections and maps each outcome
// to a response envelope.
package tables

import (
	"context"
	"fmt"
	"time"

	"github.com/edgeflare/pgtables/pkg/metrics"
	pg "github.com/edgeflare/pgtables/pkg/pgx"
	"github.com/edgeflare/pgtables/pkg/sqlgen"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const defaultQueryTimeout = 30 * time.Second

// Options configures a Service. The zero value is usable.
type Options struct {
	Logger *zap.Logger
	// QueryTimeout bounds connection acquisition plus execution of one statement.
	// Zero means 30s, a negative value disables the deadline.
	QueryTimeout time.Duration
	// LintStatements parses user-derived statements before they reach the database.
	LintStatements bool
	// CacheSize enables the catalog cache when positive.
	CacheSize int
	CacheTTL  time.Duration
}

// Service runs one statement per call against a pooled connection and reports the outcome
// as an Envelope. It never returns Go errors; every failure is an error envelope.
type Service struct {
	pool         pg.Acquirer
	logger       *zap.Logger
	queryTimeout time.Duration
	lint         bool
	cache        *catalogCache
}

// NewService returns a Service drawing connections from pool.
func NewService(pool pg.Acquirer, opts *Options) *Service {
	if opts == nil {
		opts = &Options{}
	}
	s := &Service{
		pool:         pool,
		logger:       opts.Logger,
		queryTimeout: opts.QueryTimeout,
		lint:         opts.LintStatements,
		cache:        newCatalogCache(opts.CacheSize, opts.CacheTTL),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.queryTimeout == 0 {
		s.queryTimeout = defaultQueryTimeout
	}
	return s
}

// ListTables lists user tables, all of them when schema is empty.
func (s *Service) ListTables(ctx context.Context, schema string) Envelope {
	return s.catalog(ctx, sqlgen.ListTables(schema), mapTableList)
}

// TableDetails returns the pg_tables entry of ref, or an empty object.
func (s *Service) TableDetails(ctx context.Context, ref sqlgen.TableRef) Envelope {
	return s.catalog(ctx, sqlgen.TableDetails(ref), mapTableDetails)
}

// TableStructure describes the columns of ref.
func (s *Service) TableStructure(ctx context.Context, ref sqlgen.TableRef) Envelope {
	return s.catalog(ctx, sqlgen.TableStructure(ref), mapTableStructure)
}

// Select runs the SELECT described by body and returns the rows as arrays.
func (s *Service) Select(ctx context.Context, ref sqlgen.TableRef, body string) Envelope {
	stmt := sqlgen.Select(ref, body)
	if env, ok := s.precheck(stmt, ref); !ok {
		return env
	}
	return s.query(ctx, stmt, ref, mapSelectRows, true)
}

// Insert runs the INSERT described by body.
func (s *Service) Insert(ctx context.Context, ref sqlgen.TableRef, body string) Envelope {
	stmt := sqlgen.Insert(ref, body)
	if env, ok := s.precheck(stmt, ref); !ok {
		return env
	}
	return s.exec(ctx, stmt, ref)
}

// Delete runs the DELETE described by body.
func (s *Service) Delete(ctx context.Context, ref sqlgen.TableRef, body string) Envelope {
	stmt := sqlgen.Delete(ref, body)
	if env, ok := s.precheck(stmt, ref); !ok {
		return env
	}
	return s.exec(ctx, stmt, ref)
}

// precheck rejects invalid and, when linting, unparsable statements before a connection
// is acquired.
func (s *Service) precheck(stmt sqlgen.Statement, ref sqlgen.TableRef) (Envelope, bool) {
	if !stmt.Valid() {
		s.logger.Error(MsgInvalidBody, zap.String("table", ref.String()))
		return s.fail(stmt, ref, metrics.OutcomeInvalid, MsgInvalidBody, nil), false
	}
	if s.lint {
		if err := sqlgen.Parse(stmt); err != nil {
			return s.fail(stmt, ref, metrics.OutcomeLintError, MsgQueryExecutionError+err.Error(), err), false
		}
	}
	return Envelope{}, true
}

func (s *Service) catalog(ctx context.Context, stmt sqlgen.Statement, mapRows func([][]any) any) Envelope {
	if env, ok := s.cache.get(stmt); ok {
		metrics.Statements.WithLabelValues(string(stmt.Op), metrics.OutcomeCacheHit).Inc()
		return env
	}
	env := s.query(ctx, stmt, sqlgen.TableRef{}, mapRows, false)
	s.cache.put(stmt, env)
	return env
}

// query runs a row-returning statement. The connection is released only after every row
// has been read. withCause appends the driver error to the failure message.
func (s *Service) query(ctx context.Context, stmt sqlgen.Statement, ref sqlgen.TableRef, mapRows func([][]any) any, withCause bool) Envelope {
	return s.withConn(ctx, stmt, ref, func(ctx context.Context, conn pg.Conn) Envelope {
		s.logger.Debug("query passed to database", zap.String("op", string(stmt.Op)), zap.String("sql", stmt.SQL))

		data, err := readAll(ctx, conn, stmt.SQL)
		if err != nil {
			msg := MsgQueryExecutionError
			if withCause {
				msg += err.Error()
			}
			return s.fail(stmt, ref, metrics.OutcomeExecError, msg, err)
		}

		s.logger.Debug("query succeeded", zap.String("op", string(stmt.Op)), zap.Int("rows", len(data)))
		metrics.Statements.WithLabelValues(string(stmt.Op), metrics.OutcomeSuccess).Inc()
		return Results(mapRows(data))
	})
}

// exec runs a mutating statement.
func (s *Service) exec(ctx context.Context, stmt sqlgen.Statement, ref sqlgen.TableRef) Envelope {
	return s.withConn(ctx, stmt, ref, func(ctx context.Context, conn pg.Conn) Envelope {
		s.logger.Debug("statement passed to database", zap.String("op", string(stmt.Op)), zap.String("sql", stmt.SQL))

		tag, err := conn.Exec(ctx, stmt.SQL, pgx.QueryExecModeSimpleProtocol)
		if err != nil {
			return s.fail(stmt, ref, metrics.OutcomeExecError, MsgQueryExecutionError+err.Error(), err)
		}

		if stmt.Op.Mutates() {
			s.cache.purge()
		}
		s.logger.Info(MsgQueryExecutionSuccess,
			zap.String("op", string(stmt.Op)),
			zap.String("table", ref.String()),
			zap.Int64("rows_affected", tag.RowsAffected()),
		)
		metrics.Statements.WithLabelValues(string(stmt.Op), metrics.OutcomeSuccess).Inc()
		return Results(MsgQueryExecutionSuccess)
	})
}

func (s *Service) withConn(ctx context.Context, stmt sqlgen.Statement, ref sqlgen.TableRef, fn func(context.Context, pg.Conn) Envelope) Envelope {
	start := time.Now()
	defer func() {
		metrics.StatementDuration.WithLabelValues(string(stmt.Op)).Observe(time.Since(start).Seconds())
	}()

	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	conn, release, err := s.pool.AcquireConn(ctx)
	if err != nil {
		return s.fail(stmt, ref, metrics.OutcomeConnError, MsgDBConnectionError+err.Error(), err)
	}
	defer release()

	return fn(ctx, conn)
}

func (s *Service) fail(stmt sqlgen.Statement, ref sqlgen.TableRef, outcome, msg string, err error) Envelope {
	op := string(stmt.Op)
	if op == "" {
		op = "unknown"
	}
	metrics.Statements.WithLabelValues(op, outcome).Inc()
	if err != nil {
		fields := []zap.Field{zap.String("op", op), zap.String("outcome", outcome), zap.Error(err)}
		if ref != (sqlgen.TableRef{}) {
			fields = append(fields, zap.String("table", ref.String()))
		}
		s.logger.Error("statement failed", fields...)
	}
	return Failure(msg)
}

// readAll collects every row of sql, then closes the result set.
func readAll(ctx context.Context, conn pg.Conn, sql string) ([][]any, error) {
	rows, err := conn.Query(ctx, sql, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data := make([][]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(data)+1, err)
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// Package pgfake provides in-memory stand-ins for the pgx interfaces used by the API, so
// that the request pipeline can be tested without a database.
package pgfake

import (
	"context"
	"errors"
	"sync"

	pg "github.com/edgeflare/pgtables/pkg/pgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errUnsupported = errors.New("pgfake: not supported")

// Rows is a pgx.Rows over fixed values.
type Rows struct {
	Data    [][]any
	Failure error // reported by Err after iteration
	Tag     string

	idx    int
	closed bool
}

func (r *Rows) Close()     { r.closed = true }
func (r *Rows) Err() error { return r.Failure }

func (r *Rows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag(r.Tag) }

func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (r *Rows) Next() bool {
	if r.closed || r.idx >= len(r.Data) {
		return false
	}
	r.idx++
	return true
}

func (r *Rows) Scan(dest ...any) error { return errUnsupported }

func (r *Rows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.Data) {
		return nil, errors.New("pgfake: no current row")
	}
	return r.Data[r.idx-1], nil
}

func (r *Rows) RawValues() [][]byte { return nil }
func (r *Rows) Conn() *pgx.Conn     { return nil }

// Closed reports whether Close was called.
func (r *Rows) Closed() bool { return r.closed }

// Conn records every statement it receives and answers with the configured results.
type Conn struct {
	Rows      *Rows  // returned by Query
	QueryErr  error  // returned by Query instead of Rows
	ExecTag   string // e.g. "INSERT 0 2"
	ExecErr   error
	mu        sync.Mutex
	statement []string
}

func (c *Conn) record(sql string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statement = append(c.statement, sql)
}

// Statements returns the SQL text received so far.
func (c *Conn) Statements() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.statement...)
}

func (c *Conn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.record(sql)
	if c.ExecErr != nil {
		return pgconn.CommandTag{}, c.ExecErr
	}
	return pgconn.NewCommandTag(c.ExecTag), nil
}

func (c *Conn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.record(sql)
	if c.QueryErr != nil {
		return nil, c.QueryErr
	}
	if c.Rows == nil {
		c.Rows = &Rows{Tag: "SELECT 0"}
	}
	return c.Rows, nil
}

func (c *Conn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	c.record(sql)
	return errRow{}
}

func (c *Conn) Begin(ctx context.Context) (pgx.Tx, error) { return nil, errUnsupported }

func (c *Conn) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return nil, errUnsupported
}

type errRow struct{}

func (errRow) Scan(dest ...any) error { return errUnsupported }

// Acquirer hands out Conn and counts acquisitions and releases.
type Acquirer struct {
	Conn *Conn
	Err  error

	// OnRelease, if set, runs before the release is counted.
	OnRelease func()

	mu       sync.Mutex
	acquired int
	released int
}

var _ pg.Acquirer = (*Acquirer)(nil)

func (a *Acquirer) AcquireConn(ctx context.Context) (pg.Conn, func(), error) {
	if a.Err != nil {
		return nil, nil, a.Err
	}
	a.mu.Lock()
	a.acquired++
	a.mu.Unlock()

	if a.Conn == nil {
		a.Conn = &Conn{}
	}
	return a.Conn, func() {
		if a.OnRelease != nil {
			a.OnRelease()
		}
		a.mu.Lock()
		a.released++
		a.mu.Unlock()
	}, nil
}

// Counts returns how many connections were acquired and released.
func (a *Acquirer) Counts() (acquired, released int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acquired, a.released
}

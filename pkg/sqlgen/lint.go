package sqlgen

import (
	"errors"
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v5"
)

// ErrInvalidStatement is returned when linting the zero Statement.
var ErrInvalidStatement = errors.New("sqlgen: invalid statement")

// Parse checks that stmt is syntactically valid PostgreSQL. It does not resolve names,
// so a statement against a missing table still passes.
func Parse(stmt Statement) error {
	if !stmt.Valid() {
		return ErrInvalidStatement
	}
	if _, err := pg_query.Parse(stmt.SQL); err != nil {
		return fmt.Errorf("sqlgen: parse %s statement: %w", stmt.Op, err)
	}
	return nil
}

package sqlgen

import (
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5"
)

// Operation names a statement kind. It doubles as a metrics and log label.
type Operation string

const (
	OpListTables     Operation = "tables"
	OpTableDetails   Operation = "details"
	OpTableStructure Operation = "structure"
	OpSelect         Operation = "select"
	OpInsert         Operation = "insert"
	OpDelete         Operation = "delete"
)

// Mutates reports whether statements of this kind change table data.
func (op Operation) Mutates() bool {
	return op == OpInsert || op == OpDelete
}

// TableRef identifies a table. Both parts are lower-cased when rendered, so mixed-case
// identifiers cannot be targeted.
type TableRef struct {
	Schema string
	Name   string
}

func (t TableRef) lower() TableRef {
	return TableRef{Schema: strings.ToLower(t.Schema), Name: strings.ToLower(t.Name)}
}

// quoted returns the lower-cased "schema"."name" identifier.
func (t TableRef) quoted() string {
	l := t.lower()
	return pgx.Identifier{l.Schema, l.Name}.Sanitize()
}

// String returns the lower-cased schema.name form.
func (t TableRef) String() string {
	l := t.lower()
	return l.Schema + "." + l.Name
}

// Statement is a generated SQL statement. Builders that reject a request return an invalid
// Statement that still carries its Op; the zero value is invalid too.
type Statement struct {
	Op    Operation
	SQL   string
	valid bool
}

func newStatement(op Operation, sql string) Statement {
	return Statement{Op: op, SQL: sql, valid: true}
}

func invalid(op Operation) Statement {
	return Statement{Op: op}
}

// Valid reports whether the statement may be executed.
func (s Statement) Valid() bool {
	return s.valid
}

func (s Statement) String() string {
	return s.SQL
}

// Select builds a SELECT for body. It is invalid only when body is not JSON, or when
// "select" or "where" carry a non-string value.
func Select(ref TableRef, body string) Statement {
	if !IsValidJSON(body) {
		return invalid(OpSelect)
	}
	fields := decodeObject(body)

	columns, _, ok := stringField(fields, "select", "columns")
	if !ok {
		return invalid(OpSelect)
	}
	if columns == "" {
		columns = "*"
	}

	where, _, ok := stringField(fields, "where")
	if !ok {
		return invalid(OpSelect)
	}

	return newStatement(OpSelect, "SELECT "+columns+" FROM "+ref.quoted()+whereClause(where))
}

// Delete builds a DELETE for body. Unlike Select, the "where" key must be present and
// non-null; an explicit empty condition deletes every row.
func Delete(ref TableRef, body string) Statement {
	if !IsValidJSON(body) {
		return invalid(OpDelete)
	}
	fields := decodeObject(body)

	where, present, ok := stringField(fields, "where")
	if !present || !ok {
		return invalid(OpDelete)
	}

	return newStatement(OpDelete, "DELETE FROM "+ref.quoted()+whereClause(where))
}

// Insert builds a multi-row INSERT. "columns" must be a non-empty string and "values" an array
// of arrays holding at least one row.
func Insert(ref TableRef, body string) Statement {
	if !IsValidJSON(body) {
		return invalid(OpInsert)
	}
	fields := decodeObject(body)

	columns, _, ok := stringField(fields, "columns")
	if !ok || columns == "" {
		return invalid(OpInsert)
	}

	rows, ok := valueRows(fields["values"])
	if !ok {
		return invalid(OpInsert)
	}
	values := EncodeValues(rows)
	if values == "" {
		return invalid(OpInsert)
	}

	return newStatement(OpInsert, "INSERT INTO "+ref.String()+" ("+columns+") VALUES "+values+";")
}

// whereClause normalizes a condition into the statement tail, including the terminator. Only
// the empty string drops the WHERE; a blank condition is kept and fails in the database.
func whereClause(cond string) string {
	trimmed := strings.TrimRightFunc(cond, unicode.IsSpace)
	switch {
	case cond == "":
		return ";"
	case strings.HasSuffix(trimmed, ";"):
		return " " + trimmed
	default:
		return " WHERE " + cond + ";"
	}
}
